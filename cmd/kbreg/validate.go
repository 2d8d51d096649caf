package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentchanti/kbregistry"
	"github.com/agentchanti/kbregistry/pkg/core"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every content file against the schema contract",
	Long: `Validate parses all Markdown frontmatter and YAML error dictionaries,
checks required fields and enumerated values, and verifies identifier
uniqueness and related_errors integrity across the whole corpus.

All violations found in a run are reported together. Exit code is
non-zero when any violation exists; a failing corpus must not merge.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()

		report, err := service.Validate(context.Background())
		if err != nil {
			fatal("validation run failed", err)
		}

		printReport(report)
		if !report.Passed() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// openService builds the pipeline service for the --root corpus.
func openService() *core.Service {
	service, err := kbregistry.New(corpusRoot,
		kbregistry.WithMustExist(true),
		kbregistry.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("error opening registry", err)
	}
	return service
}

func printReport(report *core.Report) {
	fmt.Printf("Checked %d .md files, %d .yml files (%d entries), %d unique ids\n",
		report.MarkdownFiles, report.ErrorFiles, report.ErrorEntries, report.KnownIDs)

	if report.Passed() {
		fmt.Println("✓ all checks passed")
		return
	}

	for _, v := range report.Violations {
		fmt.Printf("  ✗ %s\n", v)
	}
	fmt.Printf("✗ %d violation(s) found\n", len(report.Violations))
}
