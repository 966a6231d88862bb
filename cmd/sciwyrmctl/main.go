// Command sciwyrmctl exercises the notebook rendering pipeline from the
// command line so template authors can check a template without running the
// server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scicatproject/sciwyrm/internal/config"
	"github.com/scicatproject/sciwyrm/internal/logging"
	"github.com/scicatproject/sciwyrm/internal/notebook"
	"github.com/scicatproject/sciwyrm/internal/schema"
	"github.com/scicatproject/sciwyrm/internal/services"
	"github.com/scicatproject/sciwyrm/internal/template"
)

var (
	settingsFile string
	templateDir  string
)

var rootCmd = &cobra.Command{
	Use:   "sciwyrmctl",
	Short: "Inspect and render notebook templates locally",
	Long: `sciwyrmctl runs the notebook template pipeline without the server:
list the available templates, validate a parameter file against a template's
schema, or render a notebook to stdout.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "path to JSON settings file")
	rootCmd.PersistentFlags().StringVar(&templateDir, "template-dir", "", "template directory (overrides settings)")
}

// newService assembles the rendering pipeline against the configured
// template directory.
func newService() (services.Service, error) {
	cfg, err := config.LoadConfig(settingsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	dir := cfg.TemplateDir
	if templateDir != "" {
		dir = templateDir
	}

	logger := logging.NewLogger()
	logger.SetOutput(os.Stderr)

	store := template.NewStore(logger)
	validator := schema.NewValidator()
	renderer := notebook.NewRenderer(store, logger)
	return services.NewNotebookService(store, validator, renderer, dir, logger), nil
}
