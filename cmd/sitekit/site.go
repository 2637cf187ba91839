package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/vango-dev/sitekit/internal/config"
	"github.com/vango-dev/sitekit/pkg/catalog"
	"github.com/vango-dev/sitekit/pkg/page"
	"github.com/vango-dev/sitekit/pkg/submit"
	"github.com/vango-dev/sitekit/pkg/toast"
)

// newLogger builds the process logger from the log settings.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// catalogSource picks the configured project catalog source.
func catalogSource(cfg *config.Config) catalog.Source {
	switch {
	case cfg.Catalog.File != "":
		return catalog.FileSource{Path: cfg.CatalogPath()}
	case cfg.Catalog.S3Bucket != "":
		return catalog.S3Source{
			Client: catalog.NewS3Client(cfg.Catalog.S3Region),
			Bucket: cfg.Catalog.S3Bucket,
			Key:    cfg.Catalog.S3Key,
		}
	default:
		return catalog.Static(catalog.Default())
	}
}

// loadCatalog loads and validates the configured catalog.
func loadCatalog(ctx context.Context, cfg *config.Config) (catalog.Catalog, error) {
	c, err := catalogSource(cfg).Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// pageOptions turns the timing and layout settings into page options.
func pageOptions(cfg *config.Config) []page.Option {
	return []page.Option{
		page.WithSubmitDelays(submit.Delays{
			Network:  cfg.Timing.SubmitDelayDuration(),
			Redirect: cfg.Timing.RedirectDelayDuration(),
		}),
		page.WithToastDelays(toast.Delays{
			Visible: cfg.Timing.ToastVisibleDuration(),
			FadeOut: cfg.Timing.ToastFadeOutDuration(),
		}),
		page.WithThrottle(cfg.Timing.ThrottleDuration()),
		page.WithBreakpoint(cfg.Layout.MobileBreakpoint),
		page.WithScrollOffset(cfg.Layout.ScrollOffset),
		page.WithRedirect(cfg.RedirectTo),
	}
}
