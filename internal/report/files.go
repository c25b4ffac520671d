package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
)

const (
	filePrefix      = "network_exposure_"
	timestampLayout = "2006-01-02_150405"
)

// Files holds the paths of the rendered report files.
type Files struct {
	JSONPath     string
	MarkdownPath string
}

// Paths returns both paths in upload order.
func (f Files) Paths() []string {
	return []string{f.JSONPath, f.MarkdownPath}
}

// Stamp formats t as the file name timestamp, e.g. 2025-03-04_050607_UTC.
func Stamp(t time.Time) string {
	return t.UTC().Format(timestampLayout) + "_UTC"
}

// FileNames returns the JSON and Markdown file names for a report generated
// at t.
func FileNames(t time.Time) (jsonName, mdName string) {
	base := filePrefix + Stamp(t)
	return base + ".json", base + ".md"
}

// WriteFiles renders rep into dir (created if missing) and returns the
// written paths. Errors name the file that could not be written. When the
// Markdown file fails the JSON file is removed again, so a failed call
// leaves no report behind.
func WriteFiles(dir string, rep *models.Report) (Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("create reports directory %q: %w", dir, err)
	}

	jsonName, mdName := FileNames(rep.GeneratedAt)
	files := Files{
		JSONPath:     filepath.Join(dir, jsonName),
		MarkdownPath: filepath.Join(dir, mdName),
	}

	data, err := MarshalJSON(rep.Findings)
	if err != nil {
		return Files{}, err
	}
	if err := os.WriteFile(files.JSONPath, data, 0o644); err != nil {
		return Files{}, fmt.Errorf("write report file %q: %w", files.JSONPath, err)
	}

	if err := writeMarkdown(files.MarkdownPath, rep); err != nil {
		// Never leave a JSON file without its Markdown file.
		if rmErr := os.Remove(files.JSONPath); rmErr != nil {
			slog.Warn("Could not remove partial report", "path", files.JSONPath, "error", rmErr)
		}
		return Files{}, err
	}

	slog.Info("Written report files", "json", files.JSONPath, "markdown", files.MarkdownPath)
	return files, nil
}

func writeMarkdown(path string, rep *models.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write report file %q: %w", path, err)
	}
	if err := RenderMarkdown(f, rep.Findings, rep.GeneratedAt); err != nil {
		f.Close()
		return fmt.Errorf("write report file %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file %q: %w", path, err)
	}
	return nil
}
