package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one pipeline execution as stored in the history tables.
type Run struct {
	ID         uuid.UUID `json:"id"`
	Prompt     string    `json:"prompt"`
	Model      string    `json:"model"`
	OutputPath string    `json:"output_path"`
	SlideCount int       `json:"slide_count"`
	Slides     []Slide   `json:"slides,omitempty"`
	Usage      *AIUsage  `json:"usage,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Slide struct {
	SlideNum int    `json:"slide_number"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

type AIUsage struct {
	Provider         string `json:"provider"`
	Model            string `json:"model"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores the run, its slides and its token usage in a single
// transaction.
func (s *Store) RecordRun(ctx context.Context, r *Run) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.SlideCount == 0 {
		r.SlideCount = len(r.Slides)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO decks (id, prompt, model, output_path, slide_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.ID, r.Prompt, r.Model, r.OutputPath, r.SlideCount, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("error saving deck: %w", err)
	}

	for _, sl := range r.Slides {
		if err := saveSlide(ctx, tx, r.ID, sl); err != nil {
			return err
		}
	}

	if r.Usage != nil {
		if err := logAIUsage(ctx, tx, r.ID, r.Usage); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing run: %w", err)
	}
	return nil
}

func saveSlide(ctx context.Context, tx *sql.Tx, deckID uuid.UUID, s Slide) error {
	query := `
		INSERT INTO deck_slides (deck_id, slide_number, title, content)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, query, deckID, s.SlideNum, s.Title, s.Content); err != nil {
		return fmt.Errorf("error saving slide %d: %w", s.SlideNum, err)
	}
	return nil
}

func logAIUsage(ctx context.Context, tx *sql.Tx, deckID uuid.UUID, u *AIUsage) error {
	query := `
		INSERT INTO ai_usage (deck_id, provider, model, prompt_tokens, completion_tokens, total_tokens)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query, deckID, u.Provider, u.Model, u.PromptTokens, u.CompletionTokens, u.TotalTokens)
	if err != nil {
		return fmt.Errorf("error logging ai usage: %w", err)
	}
	return nil
}

// RecentRuns lists the latest runs, newest first. Slides are not loaded.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.prompt, d.model, d.output_path, d.slide_count, d.created_at,
		       COALESCE(u.prompt_tokens, 0), COALESCE(u.completion_tokens, 0), COALESCE(u.total_tokens, 0)
		FROM decks d
		LEFT JOIN ai_usage u ON u.deck_id = d.id
		ORDER BY d.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		u := AIUsage{}
		if err := rows.Scan(&r.ID, &r.Prompt, &r.Model, &r.OutputPath, &r.SlideCount, &r.CreatedAt,
			&u.PromptTokens, &u.CompletionTokens, &u.TotalTokens); err != nil {
			return nil, err
		}
		if u.TotalTokens > 0 {
			u.Model = r.Model
			r.Usage = &u
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SlidesForRun returns the stored slides of one run in slide order.
func (s *Store) SlidesForRun(ctx context.Context, id uuid.UUID) ([]Slide, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT slide_number, title, content FROM deck_slides WHERE deck_id = $1 ORDER BY slide_number", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slides []Slide
	for rows.Next() {
		var sl Slide
		if err := rows.Scan(&sl.SlideNum, &sl.Title, &sl.Content); err != nil {
			return nil, err
		}
		slides = append(slides, sl)
	}
	return slides, rows.Err()
}

func (s *Store) TotalTokens(ctx context.Context) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(total_tokens), 0) FROM ai_usage").Scan(&total)
	return total, err
}
