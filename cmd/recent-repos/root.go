package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/maxviazov/recent-repos/internal/config"
	"github.com/maxviazov/recent-repos/internal/github"
	"github.com/maxviazov/recent-repos/internal/logger"
	"github.com/maxviazov/recent-repos/internal/service"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "recent-repos",
		Short: "Render recently updated GitHub repositories into HTML pages",
		Long: `recent-repos reads <repos data-user="..." data-update="..."> markers from an
HTML page, fetches each user's repositories from the GitHub API and replaces the
#repos container with one table per user, listing only repositories updated
after the marker's date.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(newRenderCmd(opts), newServeCmd(opts))
	return root
}

// app holds the wired dependencies shared by every subcommand.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client github.Client
	pages  service.PageService

	logCloser io.Closer
}

// Close releases resources held for the lifetime of the command.
func (a *app) Close() error {
	return a.logCloser.Close()
}

func bootstrap(opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("config loading failed: %w", err)
	}

	appLogger, logCloser, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("logger initialization failed: %w", err)
	}
	log.Logger = appLogger

	client, err := github.New(cfg.GitHub, nil, appLogger)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("github client initialization failed: %w", err)
	}

	appLogger.Debug().Str("github", cfg.GitHub.BaseURL).Str("container", cfg.Page.ContainerID).Msg("config loaded")
	return &app{
		cfg:    cfg,
		log:    appLogger,
		client: client,
		pages:  service.NewPageService(client, cfg.Page, appLogger),

		logCloser: logCloser,
	}, nil
}
