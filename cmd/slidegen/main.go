// SlideGen
//
// Asks Gemini for slide content and writes it out as a PowerPoint deck.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnemet/SlideGen/internal/config"
	"github.com/gnemet/SlideGen/internal/errs"
	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "slidegen",
	Short: "SlideGen - Gemini slide deck generator",
	Long: `SlideGen asks Gemini for slide content and renders it as a .pptx deck.

  slidegen                                   Generate a deck from the default prompt
  slidegen generate "Go concurrency"         Generate a deck about a topic
  echo "topic" | slidegen generate -         Read the topic from stdin
  slidegen watch                             Turn prompt files in a folder into decks
  slidegen inspect deck.pptx                 Dump the slides of a deck as JSON
  slidegen history                           List recent runs`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Properties file holding GEMINI_API_KEY and settings")
	addGenerateFlags(rootCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(errs.ExitCode(err))
	}
}
