package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/sitekit/pkg/catalog"
	"github.com/vango-dev/sitekit/pkg/clock"
	"github.com/vango-dev/sitekit/pkg/page"
	"github.com/vango-dev/sitekit/pkg/telemetry"
)

// Config holds the server configuration.
type Config struct {
	// Addr is the listen address (default ":8080").
	Addr string

	// PagesDir holds the HTML pages and static assets.
	PagesDir string

	// HomePage is the page served for "/" (default "index.html").
	HomePage string

	// SessionTTL is how long a session may wait for its WebSocket.
	// Default: 2 minutes.
	SessionTTL time.Duration

	// ReadTimeout is the maximum time between client messages, pings
	// included. Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds each WebSocket write. Default: 10 seconds.
	WriteTimeout time.Duration

	// PingInterval is the time between heartbeat pings. Default: 25 seconds.
	PingInterval time.Duration

	// MaxMessageSize is the maximum size of a client message. Default: 16KB.
	MaxMessageSize int64

	// ShutdownTimeout bounds graceful shutdown. Default: 10 seconds.
	ShutdownTimeout time.Duration

	// CheckOrigin validates WebSocket origins. Default: same host.
	CheckOrigin func(r *http.Request) bool

	// Catalog is passed to every page's project modal.
	Catalog catalog.Catalog

	// PageOptions are applied to every page after the server's own.
	PageOptions []page.Option

	// Clock drives page timers. Default: clock.Real.
	Clock clock.Scheduler

	// Metrics receives page and session metrics. May be nil.
	Metrics *telemetry.Metrics

	// Gatherer is exposed on /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Logger is the server logger.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8080",
		PagesDir:        "site",
		HomePage:        "index.html",
		SessionTTL:      2 * time.Minute,
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		PingInterval:    25 * time.Second,
		MaxMessageSize:  16 * 1024,
		ShutdownTimeout: 10 * time.Second,
		Catalog:         catalog.Default(),
		Clock:           clock.Real{},
		Gatherer:        prometheus.DefaultGatherer,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Addr == "" {
		out.Addr = d.Addr
	}
	if out.PagesDir == "" {
		out.PagesDir = d.PagesDir
	}
	if out.HomePage == "" {
		out.HomePage = d.HomePage
	}
	if out.SessionTTL == 0 {
		out.SessionTTL = d.SessionTTL
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.PingInterval == 0 {
		out.PingInterval = d.PingInterval
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = d.MaxMessageSize
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.Catalog == nil {
		out.Catalog = d.Catalog
	}
	if out.Clock == nil {
		out.Clock = d.Clock
	}
	if out.Gatherer == nil {
		out.Gatherer = d.Gatherer
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
