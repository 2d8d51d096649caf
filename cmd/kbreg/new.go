package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentchanti/kbregistry/pkg/adapters/fs"
	"github.com/agentchanti/kbregistry/pkg/core"
)

var newLanguage string

var newCmd = &cobra.Command{
	Use:   "new <category> <title>",
	Short: "Scaffold a new content file from the contribution template",
	Long: `New creates a Markdown content file for the given category with the
required frontmatter pre-filled: a generated unique id, version 1.0.0,
and today's date. Error dictionary entries are edited directly in the
YAML files under errors/ instead.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		category, title := args[0], args[1]

		if !core.ValidCategory(category) || category == string(core.CategoryError) {
			fatal("invalid category", fmt.Errorf("%q (use one of: pattern, adr, doc, behavioral)", category))
		}
		if !core.ValidLanguage(newLanguage) {
			fatal("invalid language", fmt.Errorf("%q", newLanguage))
		}

		dir := categoryDir(core.Category(category))
		id := fmt.Sprintf("%s-%s-%s", category, slugify(title), uuid.NewString()[:8])

		meta := core.Metadata{
			"id":         id,
			"title":      title,
			"category":   category,
			"language":   newLanguage,
			"version":    "1.0.0",
			"created_at": time.Now().UTC().Format("2006-01-02"),
			"tags":       []string{},
		}
		body := fmt.Sprintf("# %s\n\n## Context\n\nTODO: describe the problem this entry addresses.\n\n## Guidance\n\nTODO: write the guidance.\n", title)

		data, err := fs.SerializeMarkdown(meta, body)
		if err != nil {
			fatal("error rendering scaffold", err)
		}

		target := filepath.Join(corpusRoot, dir, slugify(title)+".md")
		if _, err := os.Stat(target); err == nil {
			fatal("refusing to overwrite", fmt.Errorf("%s already exists", target))
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			fatal("error creating directory", err)
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			fatal("error writing scaffold", err)
		}

		fmt.Printf("created %s (id: %s)\n", target, id)
	},
}

// categoryDir maps a category to its stock content directory.
func categoryDir(c core.Category) string {
	for dir, cat := range fs.DefaultMarkdownDirs() {
		if cat == c {
			return dir
		}
	}
	return string(c) + "s"
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newLanguage, "language", "all", "Target language tag")
}
