package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Rankboard/internal/backend"
	"github.com/MikeSquared-Agency/Rankboard/internal/config"
	"github.com/MikeSquared-Agency/Rankboard/internal/dashboard"
	"github.com/MikeSquared-Agency/Rankboard/internal/hermes"
	"github.com/MikeSquared-Agency/Rankboard/internal/render"
	"github.com/MikeSquared-Agency/Rankboard/internal/store"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	backendURL string
	token      string
	formatFlag string
	verbose    bool

	format render.Format
	svc    *dashboard.Service
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	f, err := render.ParseFormat(a.formatFlag)
	if err != nil {
		return err
	}
	a.format = f

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.backendURL != "" {
		cfg.Backend.URL = a.backendURL
	}
	// one-shot process, nothing to cache across
	cfg.Views.CacheTTLMs = 0

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	client := backend.NewHTTPClient(cfg.Backend.URL, cfg.Backend.Token, cfg.BackendTimeout(), logger)
	a.svc = dashboard.New(client, hermes.Noop{}, store.NewMemoryStore(), cfg, logger)
	return nil
}

func (a *app) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.token != "" {
		ctx = backend.WithToken(ctx, a.token)
	}
	return ctx
}

func (a *app) out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

func parseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return id, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "rankctl",
		Short: "Inspect SMART/MOORA score runs from the terminal.",
		Long: `rankctl reads criteria, products and scores from the inventory backend and
prints the same pivoted score tables and final rankings as the dashboard.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", os.Getenv("RANKBOARD_CONFIG"), "path to config file")
	flags.StringVar(&a.backendURL, "backend-url", "", "override the backend base URL")
	flags.StringVar(&a.token, "token", "", "bearer token sent to the backend")
	flags.StringVarP(&a.formatFlag, "format", "o", "table", "output format: table, csv or json")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log backend requests")

	root.AddCommand(
		newScoresCmd(a),
		newRankingCmd(a),
		newCriteriaScoresCmd(a),
		newReportCmd(a),
		newMethodsCmd(a),
		newComputeCmd(a),
		newFinalizeCmd(a),
	)
	return root
}
