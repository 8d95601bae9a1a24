package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gnemet/SlideGen/internal/ai"
	"github.com/gnemet/SlideGen/internal/errs"
	"github.com/gnemet/SlideGen/internal/forge"
	"github.com/spf13/cobra"
)

var (
	genOutput     string
	genPreview    string
	genThumbnails string
	genLayout     string
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic|-]",
	Short: "Generate a deck",
	Long: `Ask Gemini for slides and write them to a .pptx file.

Without a topic the configured prompt (application.prompt) or the built-in
default prompt is sent. "-" reads the topic from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output .pptx file (default application.output)")
	cmd.Flags().StringVar(&genPreview, "preview", "", "Also write an HTML preview to this file")
	cmd.Flags().StringVar(&genThumbnails, "thumbnails", "", "Render PNG thumbnails into this directory (needs libreoffice and pdftoppm)")
	cmd.Flags().StringVar(&genLayout, "layout", "", "Slide layout: plain or titled (default application.layout)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	a, err := loadApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.forge().Run(cmd.Context(), forge.Job{
		Prompt:     prompt,
		Output:     genOutput,
		Preview:    genPreview,
		Thumbnails: genThumbnails,
		Layout:     genLayout,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, forge.SuccessNotice)
	fmt.Fprintf(out, "  %s (%d slides)\n", res.Output, res.Slides)
	if res.Preview != "" {
		fmt.Fprintf(out, "  preview: %s\n", res.Preview)
	}
	if len(res.Thumbnails) > 0 {
		fmt.Fprintf(out, "  thumbnails: %d in %s\n", len(res.Thumbnails), genThumbnails)
	}
	return nil
}

// readPrompt turns the optional topic argument into a prompt. An empty
// result means the configured default applies.
func readPrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	topic := args[0]
	if topic == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errs.E(errs.IO, "read topic from stdin", err)
		}
		topic = string(data)
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", nil
	}
	return ai.TopicPrompt(topic), nil
}
