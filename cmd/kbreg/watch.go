package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentchanti/kbregistry/pkg/core"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate the corpus whenever content files change",
	Long: `Watch observes the content tree and re-runs validation after every
change, printing the outcome. Intended for local authoring; press
Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		events, err := service.Watch(ctx, watchPattern)
		if err != nil {
			fatal("error starting watcher", err)
		}

		fmt.Println("watching for content changes (Ctrl+C to stop)")

		// Validate once up front so the first report does not wait
		// for an edit.
		runValidation(ctx, service)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				fmt.Printf("\n%s\n", event)
				runValidation(ctx, service)
			}
		}
	},
}

func runValidation(ctx context.Context, service *core.Service) {
	report, err := service.Validate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation run failed: %v\n", err)
		return
	}
	printReport(report)
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "**/*", "Glob pattern of files to watch")
}
