package page

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/clock"
	"github.com/vango-dev/sitekit/pkg/dom"
	"github.com/vango-dev/sitekit/pkg/images"
	"github.com/vango-dev/sitekit/pkg/nav"
	"github.com/vango-dev/sitekit/pkg/portfolio"
	"github.com/vango-dev/sitekit/pkg/submit"
	"github.com/vango-dev/sitekit/pkg/telemetry"
	"github.com/vango-dev/sitekit/pkg/toast"
)

// Page is the controller for one loaded page.
type Page struct {
	mu     sync.Mutex
	doc    *dom.Document
	path   string
	sched  *scheduler
	closed bool

	toasts   *toast.Emitter
	forms    *submit.Controller
	menu     *nav.Menu
	header   *nav.Header
	scroller *nav.Scroller
	spy      *nav.Spy
	filter   *portfolio.Filter
	modal    *portfolio.Modal

	outbox       []Command
	lastRendered string
	sink         Sink

	metrics *telemetry.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// New builds a Page over doc. Images are switched to lazy loading, the menu
// link for the page path is marked active and every form's current values
// are recorded as its reset state.
func New(doc *dom.Document, sched clock.Scheduler, opts ...Option) *Page {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Page{
		doc:     doc,
		path:    o.path,
		sink:    o.sink,
		metrics: o.metrics,
		tracer:  o.tracer,
		logger:  o.logger,
	}
	if p.tracer == nil {
		p.tracer = telemetry.Tracer()
	}
	p.sched = newScheduler(p, sched)

	toastOpts := []toast.Option{
		toast.WithDelays(o.toastDelays),
		toast.WithLogger(o.logger.With("component", "toast")),
	}
	submitOpts := []submit.Option{
		submit.WithDelays(o.submitDelays),
		submit.WithRedirect(o.redirect),
		submit.WithTracer(p.tracer),
		submit.WithLogger(o.logger.With("component", "submit")),
	}
	if o.metrics != nil {
		toastOpts = append(toastOpts, toast.WithRecorder(o.metrics))
		submitOpts = append(submitOpts, submit.WithRecorder(o.metrics))
	}
	if o.guard != nil {
		submitOpts = append(submitOpts, submit.WithGuard(o.guard))
	}

	p.toasts = toast.New(doc, p.sched, toastOpts...)
	p.forms = submit.New(p.sched, p.toasts, p, submitOpts...)
	p.menu = nav.NewMenu(doc, nav.NewThrottle(sched, o.throttle), o.breakpoint)
	p.header = nav.NewHeader(doc, nav.NewThrottle(sched, o.throttle))
	p.scroller = nav.NewScroller(doc, o.scrollOffset)
	p.spy = nav.NewSpy(doc)
	p.filter = portfolio.NewFilter(doc)
	p.modal = portfolio.NewModal(doc, o.catalog)

	images.Enhance(doc)
	nav.MarkActive(doc, p.path)
	for _, form := range doc.QueryAll("form") {
		p.forms.Register(form)
	}
	doc.AssignHIDs()
	p.lastRendered = p.snapshot()
	return p
}

// Load parses r and builds a Page over it.
func Load(r io.Reader, sched clock.Scheduler, opts ...Option) (*Page, error) {
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}
	return New(doc, sched, opts...), nil
}

// Document returns the page DOM. Callers must not mutate it while events
// or timers may run.
func (p *Page) Document() *dom.Document { return p.doc }

// Path returns the URL path the page was served under.
func (p *Page) Path() string { return p.path }

// Toasts returns the notification emitter.
func (p *Page) Toasts() *toast.Emitter { return p.toasts }

// Forms returns the submission controller.
func (p *Page) Forms() *submit.Controller { return p.forms }

// Guard returns the page-wide submission guard.
func (p *Page) Guard() *submit.Guard { return p.forms.Guard() }

// Menu returns the burger menu, or nil if the page has none.
func (p *Page) Menu() *nav.Menu { return p.menu }

// Header returns the header controller, or nil if the page has none.
func (p *Page) Header() *nav.Header { return p.header }

// Filter returns the portfolio filter, or nil if the page has none.
func (p *Page) Filter() *portfolio.Filter { return p.filter }

// Modal returns the project modal, or nil if the page has none.
func (p *Page) Modal() *portfolio.Modal { return p.modal }

// PendingTimers returns the number of scheduled callbacks not yet run.
func (p *Page) PendingTimers() int { return p.sched.count() }

// HTML renders the full document and marks it as the client's state.
func (p *Page) HTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.doc.AssignHIDs()
	p.lastRendered = p.snapshot()
	return p.doc.String()
}

// SetSink attaches the receiver of commands produced outside Dispatch and
// hands it any commands held while no sink was attached. Delivery happens
// under the page lock, so sinks must not call back into the page.
func (p *Page) SetSink(s Sink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sink = s
	if s == nil {
		return
	}
	if cmds := p.flushLocked(); len(cmds) > 0 {
		s(cmds)
	}
}

// Close stops every pending timer and abandons an in-flight submission,
// releasing its guard. Later events fail with E402.
func (p *Page) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.sink = nil
	p.forms.Close()
	p.mu.Unlock()
	if n := p.sched.stopAll(); n > 0 {
		p.logger.Debug("page closed", "path", p.path, "stopped_timers", n)
	}
}

// Dispatch handles one client event and returns the resulting commands.
func (p *Page) Dispatch(ctx context.Context, ev Event) ([]Command, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.handleLocked(ctx, ev); err != nil {
		return nil, err
	}
	return p.flushLocked(), nil
}

// Deliver handles one client event and hands the resulting commands to the
// sink before releasing the page lock, so they reach it in the same order
// as timer output. Without a sink the commands are held.
func (p *Page) Deliver(ctx context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.handleLocked(ctx, ev); err != nil {
		return err
	}
	p.deliverLocked()
	return nil
}

func (p *Page) handleLocked(ctx context.Context, ev Event) error {
	if p.closed {
		return errors.New("E402")
	}

	start := time.Now()
	ctx, span := telemetry.StartEvent(ctx, p.tracer, ev.Type, p.path)
	err := p.handle(ctx, ev)
	telemetry.EndSpan(span, err)
	p.metrics.ObserveEvent(ev.Type, time.Since(start), err)
	return err
}

// runTimer runs a scheduled callback under the page lock.
func (p *Page) runTimer(f func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	f()
	p.deliverLocked()
}

// deliverLocked flushes to the sink. Without one, output stays pending
// for the next flush.
func (p *Page) deliverLocked() {
	if p.sink == nil {
		return
	}
	if cmds := p.flushLocked(); len(cmds) > 0 {
		p.sink(cmds)
	}
}

// flushLocked returns the pending commands, preceded by a render when the
// body changed since the last one.
func (p *Page) flushLocked() []Command {
	p.doc.AssignHIDs()
	var cmds []Command
	if snap := p.snapshot(); snap != p.lastRendered {
		p.lastRendered = snap
		cmds = append(cmds, Command{
			Op:        OpRender,
			HTML:      p.doc.BodyHTML(),
			BodyClass: dom.GetAttr(p.doc.Body(), "class"),
		})
	}
	cmds = append(cmds, p.outbox...)
	p.outbox = nil
	return cmds
}

// snapshot is the client-visible body state.
func (p *Page) snapshot() string {
	return dom.GetAttr(p.doc.Body(), "class") + "\x00" + p.doc.BodyHTML()
}

// Focus queues a focus command. It implements submit.Effects.
func (p *Page) Focus(n *html.Node) {
	if n == nil {
		return
	}
	p.doc.AssignHIDs()
	p.outbox = append(p.outbox, Command{Op: OpFocus, HID: dom.HID(n)})
}

// Navigate queues a navigate command. It implements submit.Effects.
func (p *Page) Navigate(url string) {
	p.outbox = append(p.outbox, Command{Op: OpNavigate, URL: url})
}
