package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentchanti/kbregistry/pkg/core"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Run the full pipeline: validate, bump, package",
	Long: `Release runs the pipeline in its fixed order: the corpus is validated,
the manifest version is bumped, and the content tree is packaged into
kb-registry-v{version}.zip. A failing validation halts the release
before anything is mutated.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := resolveBumpKind()
		if err != nil {
			fatal("cannot determine bump kind", err)
		}

		service := openService()

		report, result, err := service.Release(context.Background(), kind)
		if report != nil {
			printReport(report)
		}
		if err != nil {
			if errors.Is(err, core.ErrValidationFailed) {
				os.Exit(1)
			}
			fatal("release failed", err)
		}

		fmt.Printf("released v%s (was v%s)\n", result.Version, result.Old)
		fmt.Printf("artifact: %s (%d bytes)\n", result.Artifact.Path, result.Artifact.Size)
	},
}

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Build the release archive for the current manifest version",
	Long: `Package zips the content tree (plus the manifest) into
kb-registry-v{version}.zip without bumping the version. The archive is
written to a temporary path, verified, and renamed on success, so a
failure never leaves a partial artifact behind.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()

		artifact, err := service.Package(context.Background())
		if err != nil {
			fatal("packaging failed", err)
		}

		fmt.Printf("artifact: %s (%d bytes)\n", artifact.Path, artifact.Size)
	},
}

func init() {
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(packageCmd)
	releaseCmd.Flags().StringVar(&bumpKind, "kind", "", "Bump kind: major, minor or patch")
	releaseCmd.Flags().StringArrayVar(&bumpLabels, "label", nil, "PR label or commit message to scan for bump:<kind> (repeatable)")
}
