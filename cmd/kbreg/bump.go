package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentchanti/kbregistry/pkg/semver"
)

var (
	bumpKind   string
	bumpLabels []string
)

var bumpCmd = &cobra.Command{
	Use:   "bump",
	Short: "Bump the manifest version and refresh category counts",
	Long: `Bump reads the manifest version, increments the selected component,
recounts per-category files and entries from the actual tree, and
rewrites the manifest atomically.

The bump kind comes from --kind, then the BUMP_TYPE environment
variable, then bump:major|minor|patch tokens in --label values;
when nothing is specified the kind defaults to patch. Multiple
distinct bump labels on one change are rejected as a conflict.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := resolveBumpKind()
		if err != nil {
			fatal("cannot determine bump kind", err)
		}

		service := openService()

		old, next, err := service.Bump(context.Background(), kind)
		if err != nil {
			fatal("bump failed", err)
		}

		fmt.Printf("bumped %s → %s (%s)\n", old, next, kind)
	},
}

// resolveBumpKind applies the bump-intent precedence: explicit flag,
// CI environment variable, then labels (default patch).
func resolveBumpKind() (semver.Kind, error) {
	if bumpKind != "" {
		return semver.ParseKind(bumpKind)
	}
	if env := os.Getenv("BUMP_TYPE"); env != "" {
		return semver.ParseKind(env)
	}
	return semver.KindFromLabels(bumpLabels)
}

func init() {
	rootCmd.AddCommand(bumpCmd)
	bumpCmd.Flags().StringVar(&bumpKind, "kind", "", "Bump kind: major, minor or patch")
	bumpCmd.Flags().StringArrayVar(&bumpLabels, "label", nil, "PR label or commit message to scan for bump:<kind> (repeatable)")
}
