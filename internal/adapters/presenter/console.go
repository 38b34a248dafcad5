package presenter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mikey/mail-semantic-search/internal/core"
	"github.com/mikey/mail-semantic-search/internal/utils"
	"go.uber.org/zap"
)

// DefaultPreviewChars is the number of body runes shown per result
const DefaultPreviewChars = 700

const separator = "---"

// Console writes ranked results as styled text
type Console struct {
	out           io.Writer
	previewChars  int
	textProcessor *utils.TextProcessor
	logger        *zap.Logger

	subject lipgloss.Style
	caption lipgloss.Style
	warning lipgloss.Style
	rule    lipgloss.Style
}

// NewConsole creates a new console presenter writing to out
func NewConsole(out io.Writer, previewChars int, textProcessor *utils.TextProcessor, logger *zap.Logger) *Console {
	if previewChars <= 0 {
		previewChars = DefaultPreviewChars
	}

	r := lipgloss.NewRenderer(out)
	return &Console{
		out:           out,
		previewChars:  previewChars,
		textProcessor: textProcessor,
		logger:        logger,
		subject:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		caption:       r.NewStyle().Faint(true),
		warning:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		rule:          r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Present prints every result in rank order
func (c *Console) Present(ctx context.Context, result *core.SearchResult) error {
	c.logger.Debug("Presenting results",
		zap.Int("results", len(result.Results)),
		zap.Int("considered", result.Considered))

	var b strings.Builder
	for _, r := range result.Results {
		b.WriteString(c.rule.Render(separator))
		b.WriteString("\n")
		b.WriteString(c.subject.Render("Subject: " + r.Message.Subject))
		b.WriteString("\n")
		b.WriteString(c.textProcessor.Preview(r.Message.Body, c.previewChars))
		b.WriteString("\n")
		b.WriteString(c.caption.Render(fmt.Sprintf("Similarity Score: %.2f", r.Score)))
		b.WriteString("\n")
		b.WriteString(c.caption.Render("Date: " + r.Message.Date.Format(core.DateLayout)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(c.out, b.String())
	return err
}

// Warn prints a highlighted warning
func (c *Console) Warn(ctx context.Context, message string) error {
	_, err := fmt.Fprintln(c.out, c.warning.Render(message))
	return err
}

// Status prints a progress line
func (c *Console) Status(ctx context.Context, message string) error {
	_, err := fmt.Fprintln(c.out, c.caption.Render(message))
	return err
}
