package main

import (
	"encoding/json"

	"github.com/gnemet/SlideGen/internal/errs"
	"github.com/gnemet/SlideGen/internal/pptx"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Print the slides of a deck as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slides, err := pptx.ExtractSlideContent(args[0])
		if err != nil {
			return errs.E(errs.IO, "read "+args[0], err)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(slides)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
