// Package observer watches a folder for prompt files and turns each one into
// a deck.
package observer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gnemet/SlideGen/internal/forge"
)

// DoneDir is the subfolder of the watch dir that processed prompts move to.
const DoneDir = "done"

// Runner executes one pipeline job. *forge.Forge satisfies it.
type Runner interface {
	Run(ctx context.Context, job forge.Job) (*forge.Result, error)
}

type Observer struct {
	watchDir  string
	outputDir string
	runner    Runner
	logger    *slog.Logger

	// LogChan, when set, receives info and above messages as plain text.
	LogChan chan string

	// Delay lets a file transfer finish before the prompt is read.
	Delay time.Duration
}

func NewObserver(watchDir, outputDir string, runner Runner, logger *slog.Logger, logChan chan string) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{
		watchDir:  watchDir,
		outputDir: outputDir,
		runner:    runner,
		logger:    logger,
		LogChan:   logChan,
		Delay:     2 * time.Second,
	}
}

func (o *Observer) log(level slog.Level, format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	o.logger.Log(context.Background(), level, msg)
	if o.LogChan != nil && level >= slog.LevelInfo {
		select {
		case o.LogChan <- msg:
		default:
			// drop when nobody is reading
		}
	}
}

// Start processes prompt files already present, then every new or changed
// one until ctx is cancelled.
func (o *Observer) Start(ctx context.Context) error {
	if o.watchDir == "" {
		return fmt.Errorf("watch directory not configured")
	}
	for _, dir := range []string{o.watchDir, o.outputDir, filepath.Join(o.watchDir, DoneDir)} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(o.watchDir); err != nil {
		return err
	}

	o.log(slog.LevelInfo, "Prompt observer started, watching: %s", o.watchDir)

	o.scanDirectory(ctx)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) && isPromptFile(event.Name) {
				o.log(slog.LevelDebug, "Detected change in: %s", event.Name)

				select {
				case <-time.After(o.Delay):
				case <-ctx.Done():
					return nil
				}
				o.processFile(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.log(slog.LevelWarn, "Watcher error: %v", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func (o *Observer) scanDirectory(ctx context.Context) {
	files, err := os.ReadDir(o.watchDir)
	if err != nil {
		o.log(slog.LevelError, "Failed to scan directory: %v", err)
		return
	}

	for _, f := range files {
		if ctx.Err() != nil {
			return
		}
		if !f.IsDir() && isPromptFile(f.Name()) {
			o.processFile(ctx, filepath.Join(o.watchDir, f.Name()))
		}
	}
}

// processFile runs the pipeline on one prompt file. Failures are logged and
// leave the prompt in place.
func (o *Observer) processFile(ctx context.Context, path string) {
	filename := filepath.Base(path)

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		// already handled by an earlier event
		return
	}
	if err != nil {
		o.log(slog.LevelError, "Failed to read prompt %s: %v", filename, err)
		return
	}
	prompt := strings.TrimSpace(string(content))
	if prompt == "" {
		o.log(slog.LevelWarn, "Skipping empty prompt file: %s", filename)
		return
	}

	o.log(slog.LevelInfo, "Processing prompt: %s", filename)

	output := filepath.Join(o.outputDir, strings.TrimSuffix(filename, filepath.Ext(filename))+".pptx")
	res, err := o.runner.Run(ctx, forge.Job{Prompt: prompt, Output: output})
	if err != nil {
		o.log(slog.LevelError, "Failed to generate deck for %s: %v", filename, err)
		return
	}

	o.log(slog.LevelInfo, "Successfully processed: %s -> %s (%d slides)", filename, res.Output, res.Slides)

	o.finalizeFile(path, filename)
}

func (o *Observer) finalizeFile(path, filename string) {
	newPath := filepath.Join(o.watchDir, DoneDir, filename)
	if path == newPath {
		return
	}
	if err := os.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
		o.log(slog.LevelError, "Failed to create done folder: %v", err)
		return
	}
	if err := os.Rename(path, newPath); err != nil {
		o.log(slog.LevelError, "Failed to move %s to done folder: %v", filename, err)
		return
	}
	o.log(slog.LevelDebug, "Moved %s to %s", filename, newPath)
}

// ReprocessAll moves every processed prompt back into the watch folder and
// runs them again.
func (o *Observer) ReprocessAll(ctx context.Context) {
	o.log(slog.LevelInfo, "Starting full reprocess of %s", o.watchDir)

	doneDir := filepath.Join(o.watchDir, DoneDir)
	files, err := os.ReadDir(doneDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		o.log(slog.LevelError, "Failed to read done folder: %v", err)
	}
	for _, file := range files {
		if file.IsDir() || !isPromptFile(file.Name()) {
			continue
		}
		oldPath := filepath.Join(doneDir, file.Name())
		newPath := filepath.Join(o.watchDir, file.Name())
		if err := os.Rename(oldPath, newPath); err != nil {
			o.log(slog.LevelError, "Failed to move %s back for reprocessing: %v", file.Name(), err)
		}
	}

	o.scanDirectory(ctx)
}

func isPromptFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return true
	}
	return false
}
