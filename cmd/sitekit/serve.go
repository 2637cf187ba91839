package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/sitekit/internal/config"
	"github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/server"
	"github.com/vango-dev/sitekit/pkg/telemetry"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		pagesDir   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		Long: `Serve the pages directory and attach the interactive behavior.

Settings come from sitekit.json, then .env, then SITEKIT_* variables.
Flags override all of them.

Examples:
  sitekit serve
  sitekit serve --addr=:3000
  sitekit serve --config=deploy/sitekit.json --pages=public`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, addr, pagesDir)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to sitekit.json (default ./sitekit.json if present)")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().StringVarP(&pagesDir, "pages", "p", "", "Pages directory (default from config)")

	return cmd
}

func runServe(ctx context.Context, configPath, addr, pagesDir string) error {
	cfg, err := config.Resolve(configPath, ".")
	if err != nil {
		return errors.FromError(err, "E101")
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if pagesDir != "" {
		cfg.PagesDir = pagesDir
	}
	if err := checkPagesDir(cfg.PagesPath()); err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	projects, err := loadCatalog(ctx, cfg)
	if err != nil {
		return errors.FromError(err, "E200")
	}

	printBanner()
	success("Serving %s on %s", cfg.PagesPath(), cfg.Addr)
	info("%d projects in catalog", len(projects))
	if cfg.Path() == "" {
		warn("No %s found, using defaults", config.ConfigFileName)
	}

	srv := server.New(&server.Config{
		Addr:        cfg.Addr,
		PagesDir:    cfg.PagesPath(),
		HomePage:    cfg.HomePage,
		SessionTTL:  cfg.Session.TTLDuration(),
		Catalog:     projects,
		PageOptions: pageOptions(cfg),
		Metrics:     telemetry.New(),
		Logger:      logger,
	})
	return srv.Run(ctx)
}

// checkPagesDir fails early when the pages directory is missing.
func checkPagesDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.CategoryConfig, "pages directory %s does not exist", dir).
			WithSuggestion("Create it or pass --pages with the directory holding your HTML files")
	}
	return nil
}
