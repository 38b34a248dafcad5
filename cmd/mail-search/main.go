package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/mail-semantic-search/internal/core"
	"github.com/mikey/mail-semantic-search/internal/di"
	"github.com/mikey/mail-semantic-search/internal/factory"
	"github.com/mikey/mail-semantic-search/internal/ports"
)

func main() {
	flags := &di.CLIFlags{}

	rootCmd := &cobra.Command{
		Use:           "mail-search",
		Short:         "Search your Gmail archive by meaning rather than keywords",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Build the dependency injection container
			container, err := di.BuildContainer(flags, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("failed to build dependency container: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return container.Invoke(func(
				logger *zap.Logger,
				embedder core.Embedder,
				svc *core.SearchService,
				prompter ports.Prompter,
				presenter ports.Presenter,
				store core.CredentialStore,
				credentials *factory.CredentialStoreFactory,
			) error {
				defer di.CloseResources(logger, embedder, store)
				return run(ctx, flags, logger, svc, prompter, presenter, store, credentials.CredentialKey())
			})
		},
	}
	flags.RegisterFlags(rootCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	ctx context.Context,
	flags *di.CLIFlags,
	logger *zap.Logger,
	svc *core.SearchService,
	prompter ports.Prompter,
	presenter ports.Presenter,
	store core.CredentialStore,
	credentialKey string,
) error {
	defer logger.Sync()

	inputs := &ports.Inputs{
		Query: flags.Query,
		Start: flags.Start,
		End:   flags.End,
		Label: flags.Label,
	}
	if err := prompter.Complete(ctx, inputs); err != nil {
		return err
	}

	filter, err := core.ParseFilterSpec(inputs.Start, inputs.End, inputs.Label)
	if err != nil {
		return err
	}

	if flags.Reauth {
		logger.Info("Discarding stored credential", zap.String("key", credentialKey))
		if err := store.Delete(ctx, credentialKey); err != nil && !errors.Is(err, core.ErrCredentialNotFound) {
			return fmt.Errorf("failed to discard stored credential: %w", err)
		}
	}

	if err := presenter.Status(ctx, "Searching..."); err != nil {
		return err
	}

	result, err := svc.Search(ctx, core.SearchRequest{Query: inputs.Query, Filter: filter})
	if errors.Is(err, core.ErrNoMessages) {
		return presenter.Warn(ctx, "No emails found!")
	}
	if err != nil {
		return err
	}

	return presenter.Present(ctx, result)
}
