package headless

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactWriter handles writing run reports
type ArtifactWriter struct {
	outputDir string
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
	}
}

// WriteAll writes the JSON report and the markdown summary.
func (w *ArtifactWriter) WriteAll(summary *ExecutionSummary) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := w.WriteExecutionJSON(summary); err != nil {
		return fmt.Errorf("failed to write execution JSON: %w", err)
	}

	if err := w.WriteSummaryMarkdown(summary); err != nil {
		return fmt.Errorf("failed to write summary markdown: %w", err)
	}

	return nil
}

// WriteExecutionJSON writes the full execution summary as JSON
func (w *ArtifactWriter) WriteExecutionJSON(summary *ExecutionSummary) error {
	path := filepath.Join(w.outputDir, "execution.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write execution JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *ExecutionSummary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	md.WriteString("# Browser Script Summary\n\n")
	if summary.Script != "" {
		md.WriteString(fmt.Sprintf("**Script:** %s\n\n", summary.Script))
	}
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", summary.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Completed:** %s\n\n", summary.EndTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration))

	md.WriteString("## Result\n\n")
	if summary.Error != "" {
		md.WriteString(fmt.Sprintf("❌ **Error:** %s\n\n", summary.Error))
	} else {
		md.WriteString("✅ **Success**\n\n")
	}

	if len(summary.Steps) > 0 {
		md.WriteString("## Steps\n\n")
		for _, step := range summary.Steps {
			status := "✅"
			if step.Error != "" {
				status = "❌"
			}
			md.WriteString(fmt.Sprintf("%s %d. **%s**", status, step.Index, step.Action))
			if step.Detail != "" {
				md.WriteString(fmt.Sprintf(" `%s`", step.Detail))
			}
			md.WriteString(fmt.Sprintf(" (%s)\n", step.Duration.Round(time.Millisecond)))
			if step.Error != "" {
				md.WriteString(fmt.Sprintf("   Error: %s\n", step.Error))
			}
		}
		md.WriteString("\n")
	}

	md.WriteString("## Final State\n\n")
	md.WriteString(fmt.Sprintf("- **Tabs:** %d\n", summary.Final.Tabs))
	md.WriteString(fmt.Sprintf("- **Active Tab:** %s\n", summary.Final.Label))
	md.WriteString(fmt.Sprintf("- **Address:** %s\n", summary.Final.Address))
	md.WriteString(fmt.Sprintf("- **Mode:** %s\n", summary.Final.Mode))
	if summary.Final.Status != "" {
		md.WriteString(fmt.Sprintf("- **Status:** %s\n", summary.Final.Status))
	}

	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}

// ExecutionSummary contains a complete summary of a script run
type ExecutionSummary struct {
	Script    string        `json:"script"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Steps     []StepResult  `json:"steps"`
	Final     Observation   `json:"final"`
}

// StepResult records one executed step
type StepResult struct {
	Index    int           `json:"index"`
	Action   string        `json:"action"`
	Detail   string        `json:"detail,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}
