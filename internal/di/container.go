package di

import (
	"io"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mail-semantic-search/internal/config"
	"github.com/mikey/mail-semantic-search/internal/core"
	"github.com/mikey/mail-semantic-search/internal/factory"
	"github.com/mikey/mail-semantic-search/internal/logging"
	"github.com/mikey/mail-semantic-search/internal/ports"
	"github.com/mikey/mail-semantic-search/internal/utils"
)

// BuildContainer creates and configures a dependency injection container.
// Results are written to out.
func BuildContainer(flags *CLIFlags, out io.Writer) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags) (*config.Config, error) {
		cfg, err := config.New(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if fs := flags.FlagSet(); fs != nil {
			if err := cfg.BindFlags(fs, configKeys); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags, cfg *config.Config) (*zap.Logger, error) {
		var logger *zap.Logger
		var err error
		if flags.Verbose || flags.JSONLog {
			logger, err = logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
		} else {
			logger, err = logging.InitLogger(cfg)
		}
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration", zap.String("file", used))
		}
		return logger, nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewEmbedderFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCredentialStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMailFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewPresenterFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register embedder
	if err := container.Provide(func(f *factory.EmbedderFactory) (core.Embedder, error) {
		return f.CreateEmbedder()
	}); err != nil {
		return nil, err
	}

	// Register credential store
	if err := container.Provide(func(f *factory.CredentialStoreFactory) (core.CredentialStore, error) {
		return f.CreateCredentialStore()
	}); err != nil {
		return nil, err
	}

	// Register mail client
	if err := container.Provide(func(
		f *factory.MailFactory,
		cf *factory.CredentialStoreFactory,
		store core.CredentialStore,
	) core.MailClient {
		return f.CreateMailClient(store, cf.CredentialKey())
	}); err != nil {
		return nil, err
	}

	// Register presenter and prompter
	if err := container.Provide(func(f *factory.PresenterFactory) (ports.Presenter, error) {
		return f.CreatePresenter(out)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.PresenterFactory, flags *CLIFlags) ports.Prompter {
		return f.CreatePrompter(!flags.NoInput)
	}); err != nil {
		return nil, err
	}

	// Register search options
	if err := container.Provide(func(cfg *config.Config) (core.SearchOptions, error) {
		search := cfg.GetSearch()
		loc, err := search.Location()
		if err != nil {
			return core.SearchOptions{}, err
		}
		gmail := cfg.GetGmail()
		return core.SearchOptions{
			TopK:             search.TopK,
			MaxResults:       gmail.MaxResults,
			FetchConcurrency: gmail.FetchConcurrency,
			MaxInputChars:    cfg.GetEmbedding().MaxInputChars,
			Location:         loc,
		}, nil
	}); err != nil {
		return nil, err
	}

	// Register search service
	if err := container.Provide(core.NewSearchService); err != nil {
		return nil, err
	}

	return container, nil
}

// CloseResources closes every resource that holds a connection or client
func CloseResources(logger *zap.Logger, resources ...any) {
	for _, resource := range resources {
		if closer, ok := resource.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close resource", zap.Error(err))
			}
		}
	}
}
