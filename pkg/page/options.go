package page

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/sitekit/pkg/catalog"
	"github.com/vango-dev/sitekit/pkg/nav"
	"github.com/vango-dev/sitekit/pkg/submit"
	"github.com/vango-dev/sitekit/pkg/telemetry"
	"github.com/vango-dev/sitekit/pkg/toast"
)

// Sink receives commands produced by Deliver and timer callbacks. It is
// called with the page lock held and must not call back into the page.
type Sink func([]Command)

type options struct {
	path         string
	guard        *submit.Guard
	catalog      catalog.Catalog
	submitDelays submit.Delays
	toastDelays  toast.Delays
	throttle     time.Duration
	breakpoint   int
	scrollOffset int
	redirect     string
	sink         Sink
	metrics      *telemetry.Metrics
	tracer       trace.Tracer
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		path:         "/",
		catalog:      catalog.Default(),
		submitDelays: submit.DefaultDelays(),
		toastDelays:  toast.DefaultDelays(),
		throttle:     nav.DefaultThrottle,
		breakpoint:   nav.DefaultBreakpoint,
		scrollOffset: nav.DefaultScrollOffset,
		redirect:     submit.DefaultRedirect,
		logger:       slog.Default().With("component", "page"),
	}
}

// Option configures a Page.
type Option func(*options)

// WithPath sets the URL path the page was served under.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithGuard replaces the page-wide submission guard.
func WithGuard(g *submit.Guard) Option {
	return func(o *options) {
		o.guard = g
	}
}

// WithCatalog sets the projects shown by the portfolio modal.
func WithCatalog(c catalog.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithSubmitDelays overrides the submission timing.
func WithSubmitDelays(d submit.Delays) Option {
	return func(o *options) {
		o.submitDelays = d
	}
}

// WithToastDelays overrides the toast lifecycle.
func WithToastDelays(d toast.Delays) Option {
	return func(o *options) {
		o.toastDelays = d
	}
}

// WithThrottle sets the scroll and resize throttle window.
func WithThrottle(d time.Duration) Option {
	return func(o *options) {
		o.throttle = d
	}
}

// WithBreakpoint sets the width at which the open menu closes on resize.
func WithBreakpoint(px int) Option {
	return func(o *options) {
		o.breakpoint = px
	}
}

// WithScrollOffset sets the scroll offset used when the page has no header.
func WithScrollOffset(px int) Option {
	return func(o *options) {
		o.scrollOffset = px
	}
}

// WithRedirect sets where completed submissions navigate.
func WithRedirect(url string) Option {
	return func(o *options) {
		o.redirect = url
	}
}

// WithSink sets the receiver of delivered and timer-driven commands.
func WithSink(s Sink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithMetrics reports events, toasts and submissions to m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer for event and submission spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
