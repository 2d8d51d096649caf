package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var auditStrict bool

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run advisory quality checks over the corpus",
	Long: `Audit reports content quality findings: oversized documents, missing
section headings, empty fix templates, uncompilable error patterns, and
thin per-language error coverage.

Findings are advisory and never block CI; --strict exits non-zero when
must-fix findings exist.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()

		report, err := service.Audit(context.Background())
		if err != nil {
			fatal("audit run failed", err)
		}

		fmt.Printf("Checked %d .md files, %d error entries\n", report.MarkdownFiles, report.ErrorEntries)

		for _, f := range report.Findings {
			marker := "⚠"
			if f.Blocking {
				marker = "✗"
			}
			fmt.Printf("  %s %s\n", marker, f)
		}

		printCoverage(report.Coverage)

		blocking := report.Blocking()
		switch {
		case report.Clean():
			fmt.Println("✓ all checks passed, no findings")
		case len(blocking) > 0:
			fmt.Printf("✗ %d must-fix finding(s), %d advisory\n", len(blocking), len(report.Findings)-len(blocking))
		default:
			fmt.Printf("✓ no must-fix findings, %d advisory\n", len(report.Findings))
		}

		if auditStrict && len(blocking) > 0 {
			os.Exit(1)
		}
	},
}

func printCoverage(coverage map[string]int) {
	if len(coverage) == 0 {
		return
	}
	langs := make([]string, 0, len(coverage))
	for lang := range coverage {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	fmt.Println("Error coverage per language:")
	for _, lang := range langs {
		fmt.Printf("  %-14s %3d entries\n", lang, coverage[lang])
	}
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().BoolVar(&auditStrict, "strict", false, "Exit non-zero on must-fix findings")
}
