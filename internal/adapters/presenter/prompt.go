package presenter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mikey/mail-semantic-search/internal/core"
	"github.com/mikey/mail-semantic-search/internal/ports"
	"go.uber.org/zap"
)

// ErrQueryRequired is returned when no query was given and prompting is off
var ErrQueryRequired = errors.New("a search query is required")

// FormPrompter asks for missing inputs with an interactive huh form
type FormPrompter struct {
	defaultStart string
	now          func() time.Time
	run          func(ctx context.Context, form *huh.Form) error
	logger       *zap.Logger
}

// NewFormPrompter creates a new form prompter. defaultStart prefills the
// start date; the end date defaults to today.
func NewFormPrompter(defaultStart string, logger *zap.Logger) *FormPrompter {
	return &FormPrompter{
		defaultStart: defaultStart,
		now:          time.Now,
		run: func(ctx context.Context, form *huh.Form) error {
			return form.RunWithContext(ctx)
		},
		logger: logger,
	}
}

// Complete shows a form for the fields of in that are still empty
func (p *FormPrompter) Complete(ctx context.Context, in *ports.Inputs) error {
	fields := p.fields(in)
	if len(fields) == 0 {
		return nil
	}

	p.logger.Debug("Prompting for missing inputs", zap.Int("fields", len(fields)))
	if err := p.run(ctx, huh.NewForm(huh.NewGroup(fields...))); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("input cancelled: %w", err)
		}
		return fmt.Errorf("failed to read inputs: %w", err)
	}
	return nil
}

// fields prefills defaults and returns a form field per missing input
func (p *FormPrompter) fields(in *ports.Inputs) []huh.Field {
	var fields []huh.Field

	if strings.TrimSpace(in.Query) == "" {
		fields = append(fields, huh.NewInput().
			Title("What do you remember about the email?").
			Value(&in.Query).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return ErrQueryRequired
				}
				return nil
			}))
	}
	if in.Start == "" {
		in.Start = p.defaultStart
		fields = append(fields, huh.NewInput().
			Title("Start date").
			Placeholder(core.DateLayout).
			Value(&in.Start).
			Validate(validateDate))
	}
	if in.End == "" {
		in.End = p.now().Format(core.DateLayout)
		fields = append(fields, huh.NewInput().
			Title("End date").
			Placeholder(core.DateLayout).
			Value(&in.End).
			Validate(validateDate))
	}
	if in.Label == "" {
		in.Label = core.LabelAllExcluding
		fields = append(fields, huh.NewSelect[string]().
			Title("Inbox type").
			Options(huh.NewOptions(core.Labels...)...).
			Value(&in.Label))
	}

	return fields
}

// DefaultsPrompter never asks; it fills defaults and requires a query
type DefaultsPrompter struct {
	defaultStart string
	now          func() time.Time
}

// NewDefaultsPrompter creates a non-interactive prompter
func NewDefaultsPrompter(defaultStart string) *DefaultsPrompter {
	return &DefaultsPrompter{defaultStart: defaultStart, now: time.Now}
}

// Complete fills the defaults for missing dates and label
func (p *DefaultsPrompter) Complete(ctx context.Context, in *ports.Inputs) error {
	if strings.TrimSpace(in.Query) == "" {
		return ErrQueryRequired
	}
	if in.Start == "" {
		in.Start = p.defaultStart
	}
	if in.End == "" {
		in.End = p.now().Format(core.DateLayout)
	}
	if in.Label == "" {
		in.Label = core.LabelAllExcluding
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(core.DateLayout, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}
