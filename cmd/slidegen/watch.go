package main

import (
	"fmt"
	"io"

	"github.com/gnemet/SlideGen/internal/observer"
	"github.com/spf13/cobra"
)

var watchReprocess bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Turn prompt files into decks as they appear",
	Long: `Watch application.watch_dir for .txt and .md prompt files. Each file's
content is sent as the prompt, the deck is written to
application.output_dir/<name>.pptx and the prompt moves to the done/ subfolder.
Progress goes to stdout, logs to stderr. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		progress := make(chan string, 64)
		done := printProgress(cmd.OutOrStdout(), progress)
		defer func() {
			close(progress)
			<-done
		}()

		settings := a.cfg.Application
		obs := observer.NewObserver(settings.WatchDir, settings.OutputDir, a.forge(), a.logger, progress)
		if watchReprocess {
			obs.ReprocessAll(cmd.Context())
		}
		return obs.Start(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchReprocess, "reprocess", false, "Run prompts in done/ again before watching")
	rootCmd.AddCommand(watchCmd)
}

// printProgress writes each message to out until msgs is closed, then closes
// the returned channel.
func printProgress(out io.Writer, msgs <-chan string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			fmt.Fprintln(out, msg)
		}
	}()
	return done
}
