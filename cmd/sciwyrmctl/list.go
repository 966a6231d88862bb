package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available notebook templates",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	summaries, err := svc.Templates(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].SubmissionName < summaries[j].SubmissionName
	})

	for _, s := range summaries {
		fmt.Printf("%s\t%s\tv%s\t%s\n", s.TemplateID, s.SubmissionName, s.Version, s.DisplayName)
	}
	return nil
}
