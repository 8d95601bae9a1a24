package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gnemet/SlideGen/internal/database"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historySlides string
)

// historyStore is the read side of *database.Store.
type historyStore interface {
	RecentRuns(ctx context.Context, limit int) ([]database.Run, error)
	SlidesForRun(ctx context.Context, id uuid.UUID) ([]database.Slide, error)
	TotalTokens(ctx context.Context) (int, error)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs",
	Long: `List recent runs recorded in the history database (database.url or DB_URL).

  slidegen history                   Latest runs and the total token count
  slidegen history --slides <id>     Slides stored for one run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireStore(); err != nil {
			return err
		}

		if historySlides != "" {
			id, err := uuid.Parse(historySlides)
			if err != nil {
				return fmt.Errorf("invalid run id %q: %w", historySlides, err)
			}
			return printSlides(cmd.Context(), cmd.OutOrStdout(), a.store, id)
		}
		return printRuns(cmd.Context(), cmd.OutOrStdout(), a.store, historyLimit)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().StringVar(&historySlides, "slides", "", "Show the stored slides of the run with this ID")
	rootCmd.AddCommand(historyCmd)
}

func printRuns(ctx context.Context, out io.Writer, store historyStore, limit int) error {
	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSLIDES\tTOKENS\tOUTPUT\tPROMPT")
	for _, r := range runs {
		tokens := 0
		if r.Usage != nil {
			tokens = r.Usage.TotalTokens
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.SlideCount, tokens, r.OutputPath, truncate(r.Prompt, 40))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	total, err := store.TotalTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to sum tokens: %w", err)
	}
	fmt.Fprintf(out, "\nTotal tokens used: %d\n", total)
	return nil
}

func printSlides(ctx context.Context, out io.Writer, store historyStore, id uuid.UUID) error {
	slides, err := store.SlidesForRun(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load slides: %w", err)
	}
	if len(slides) == 0 {
		fmt.Fprintf(out, "No slides stored for run %s.\n", id)
		return nil
	}
	for _, s := range slides {
		fmt.Fprintf(out, "--- %d. %s\n%s\n\n", s.SlideNum, s.Title, s.Content)
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
