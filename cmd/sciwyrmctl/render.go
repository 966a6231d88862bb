package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scicatproject/sciwyrm/pkg/models"
)

var paramsFile string

var renderCmd = &cobra.Command{
	Use:   "render <template-id>",
	Short: "Render a notebook template to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var validateCmd = &cobra.Command{
	Use:   "validate <template-id>",
	Short: "Validate a parameter file against a template's schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	renderCmd.Flags().StringVar(&paramsFile, "params", "", "JSON file with template parameters (required)")
	_ = renderCmd.MarkFlagRequired("params")
	rootCmd.AddCommand(renderCmd)

	validateCmd.Flags().StringVar(&paramsFile, "params", "", "JSON file with template parameters (required)")
	_ = validateCmd.MarkFlagRequired("params")
	rootCmd.AddCommand(validateCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	spec, err := specFromFlags(args[0])
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	nb, err := svc.Render(cmd.Context(), *spec)
	if err != nil {
		return renderFailure(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", " ")
	return enc.Encode(nb)
}

func runValidate(cmd *cobra.Command, args []string) error {
	spec, err := specFromFlags(args[0])
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	// Rendering is cheap and exercises the exact pipeline the server runs;
	// only validation failures are reported, the document is discarded.
	if _, err := svc.Render(cmd.Context(), *spec); err != nil {
		return renderFailure(err)
	}
	fmt.Println("parameters are valid")
	return nil
}

func specFromFlags(templateID string) (*models.NotebookSpec, error) {
	raw, err := os.ReadFile(paramsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}

	var params map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("parameter file is not a JSON object: %w", err)
	}

	return &models.NotebookSpec{TemplateID: templateID, Parameters: params}, nil
}

func renderFailure(err error) error {
	var vf *models.ValidationFailure
	if errors.As(err, &vf) {
		return fmt.Errorf("validation failed at %s: %s", vf.JSONPath, vf.Message)
	}
	return err
}
