package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentchanti/kbregistry/pkg/core"
)

var (
	listJSON     bool
	listCategory string
	listLanguage string
)

// entrySummary is the row shape for list output.
type entrySummary struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Language string `json:"language"`
	Version  string `json:"version,omitempty"`
	Title    string `json:"title,omitempty"`
	File     string `json:"file"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all entries in the corpus",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()

		corpus, err := service.Snapshot(context.Background())
		if err != nil {
			fatal("error scanning corpus", err)
		}

		var rows []entrySummary
		for _, d := range corpus.Documents {
			rows = append(rows, entrySummary{
				ID:       d.ID(),
				Category: string(d.Category),
				Language: d.MetaString("language"),
				Version:  d.MetaString("version"),
				Title:    d.MetaString("title"),
				File:     d.Path,
			})
		}
		for _, f := range corpus.ErrorFiles {
			for _, rec := range f.Records {
				rows = append(rows, entrySummary{
					ID:       rec.ID,
					Category: string(core.CategoryError),
					Language: f.Language,
					File:     f.Path,
				})
			}
		}

		rows = filterRows(rows)

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(rows); err != nil {
				fatal("error encoding JSON", err)
			}
			return
		}

		for _, row := range rows {
			line := fmt.Sprintf("%-40s %-10s %-12s", row.ID, row.Category, row.Language)
			if row.Title != "" {
				line += " - " + row.Title
			}
			fmt.Println(line)
		}
	},
}

func filterRows(rows []entrySummary) []entrySummary {
	if listCategory == "" && listLanguage == "" {
		return rows
	}
	var out []entrySummary
	for _, row := range rows {
		if listCategory != "" && row.Category != listCategory {
			continue
		}
		if listLanguage != "" && row.Language != listLanguage {
			continue
		}
		out = append(out, row)
	}
	return out
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	listCmd.Flags().StringVar(&listLanguage, "language", "", "Filter by language")
}
