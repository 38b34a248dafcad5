package factory

import (
	"fmt"
	"io"

	"github.com/mikey/mail-semantic-search/internal/adapters/presenter"
	"github.com/mikey/mail-semantic-search/internal/config"
	"github.com/mikey/mail-semantic-search/internal/ports"
	"github.com/mikey/mail-semantic-search/internal/utils"
	"go.uber.org/zap"
)

// PresenterFactory creates result presenters and input prompters
type PresenterFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewPresenterFactory creates a new presenter factory
func NewPresenterFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *PresenterFactory {
	return &PresenterFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreatePresenter creates a presenter for output.format writing to out
func (f *PresenterFactory) CreatePresenter(out io.Writer) (ports.Presenter, error) {
	format := f.cfg.GetOutput().Format
	previewChars := f.cfg.GetSearch().PreviewChars
	logger := f.logger.Named("presenter")

	switch format {
	case "console":
		return presenter.NewConsole(out, previewChars, f.textProcessor, logger), nil
	case "json":
		return presenter.NewJSON(out, previewChars, f.textProcessor), nil
	case "smtp":
		return presenter.NewSMTP(f.cfg.GetSMTP(), previewChars, f.textProcessor, logger)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// CreatePrompter returns an interactive prompter, or one that only fills
// defaults when interactive is false
func (f *PresenterFactory) CreatePrompter(interactive bool) ports.Prompter {
	defaultStart := f.cfg.GetSearch().DefaultStart
	if !interactive {
		return presenter.NewDefaultsPrompter(defaultStart)
	}
	return presenter.NewFormPrompter(defaultStart, f.logger.Named("prompt"))
}
