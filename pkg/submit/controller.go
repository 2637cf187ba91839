package submit

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/clock"
	"github.com/vango-dev/sitekit/pkg/dom"
	"github.com/vango-dev/sitekit/pkg/fielderror"
	"github.com/vango-dev/sitekit/pkg/toast"
	"github.com/vango-dev/sitekit/pkg/validate"
)

const (
	// MsgFormErrors is the danger toast shown when any field fails.
	MsgFormErrors = "Please correct the errors in the form"

	// MsgSubmitted is the success toast shown after the round-trip.
	MsgSubmitted = "Form submitted successfully!"

	// DefaultRedirect is where a completed submission navigates.
	DefaultRedirect = "thank_you.html"

	loadingLabel = `<span class="spinner-border spinner-border-sm me-2"></span>Sending...`

	tracerName = "github.com/vango-dev/sitekit/pkg/submit"
)

// Outcome is the result of handling one submit event.
type Outcome int

const (
	// OutcomeInvalid means at least one field failed validation.
	OutcomeInvalid Outcome = iota
	// OutcomeIgnored means the guard was held by another submission.
	OutcomeIgnored
	// OutcomeAborted means the form has no submit button.
	OutcomeAborted
	// OutcomeStarted means the simulated round-trip is running.
	OutcomeStarted
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeAborted:
		return "aborted"
	case OutcomeStarted:
		return "started"
	default:
		return "unknown"
	}
}

// Delays controls the simulated submission timing.
type Delays struct {
	// Network is the simulated request round-trip.
	Network time.Duration

	// Redirect is the pause between completion and navigation.
	Redirect time.Duration
}

// DefaultDelays returns the stock 1500ms/1000ms timing.
func DefaultDelays() Delays {
	return Delays{
		Network:  1500 * time.Millisecond,
		Redirect: 1000 * time.Millisecond,
	}
}

// Notifier shows toasts. *toast.Emitter implements it.
type Notifier interface {
	Create(message string, level toast.Type) *toast.Notification
}

// Effects carries browser side effects that have no DOM representation.
type Effects interface {
	Focus(n *html.Node)
	Navigate(url string)
}

// Recorder receives submission outcomes.
type Recorder interface {
	RecordSubmission(outcome string)
}

// Controller handles blur, input and submit events for the forms of one
// page. It is not safe for concurrent use; the page serializes calls.
type Controller struct {
	guard    *Guard
	sched    clock.Scheduler
	delays   Delays
	notifier Notifier
	effects  Effects
	redirect string
	tracer   trace.Tracer
	recorder Recorder
	logger   *slog.Logger

	defaults map[*html.Node]fieldDefault
	forms    map[*html.Node]bool

	// inFlight is the span of the submission this controller holds the
	// guard for, or nil.
	inFlight trace.Span
}

// Option configures a Controller.
type Option func(*Controller)

// WithGuard shares g with other controllers. By default each controller
// has its own guard, shared by all of its forms.
func WithGuard(g *Guard) Option {
	return func(c *Controller) {
		c.guard = g
	}
}

// WithDelays overrides the submission timing.
func WithDelays(d Delays) Option {
	return func(c *Controller) {
		c.delays = d
	}
}

// WithRedirect sets the navigation target after a completed submission.
func WithRedirect(url string) Option {
	return func(c *Controller) {
		c.redirect = url
	}
}

// WithTracer sets the tracer used for submission spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) {
		c.tracer = t
	}
}

// WithRecorder reports outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a Controller.
func New(sched clock.Scheduler, notifier Notifier, effects Effects, opts ...Option) *Controller {
	c := &Controller{
		guard:    &Guard{},
		sched:    sched,
		delays:   DefaultDelays(),
		notifier: notifier,
		effects:  effects,
		redirect: DefaultRedirect,
		tracer:   otel.Tracer(tracerName),
		logger:   slog.Default().With("component", "submit"),
		defaults: make(map[*html.Node]fieldDefault),
		forms:    make(map[*html.Node]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Guard returns the controller's submission guard.
func (c *Controller) Guard() *Guard {
	return c.guard
}

// Register records the current field values of form as its reset state.
// Submit registers unknown forms on first use.
func (c *Controller) Register(form *html.Node) {
	if c.forms[form] {
		return
	}
	c.forms[form] = true
	for _, f := range Fields(form) {
		c.defaults[f] = captureDefault(f)
	}
}

// Blur validates field and shows or clears its error.
func (c *Controller) Blur(field *html.Node) validate.Result {
	r := validate.Validate(validate.FieldFromNode(field))
	if r.Valid {
		fielderror.Clear(field)
	} else {
		fielderror.Show(field, r.Message)
	}
	return r
}

// Input records a new value for field and clears its error if shown.
func (c *Controller) Input(field *html.Node, value string, checked bool) {
	SetValue(field, value, checked)
	if fielderror.IsInvalid(field) {
		fielderror.Clear(field)
	}
}

// Submit handles a submit event for form.
func (c *Controller) Submit(ctx context.Context, form *html.Node) Outcome {
	c.Register(form)
	fields := Fields(form)

	var invalid []*html.Node
	for _, f := range fields {
		r := validate.Validate(validate.FieldFromNode(f))
		if r.Valid {
			fielderror.Clear(f)
			continue
		}
		fielderror.Show(f, r.Message)
		invalid = append(invalid, f)
	}

	if len(invalid) > 0 {
		c.effects.Focus(invalid[0])
		c.notifier.Create(MsgFormErrors, toast.TypeDanger)
		return c.record(OutcomeInvalid)
	}

	if c.guard.Held() {
		return c.record(OutcomeIgnored)
	}

	btn := dom.Query(form, SubmitSelector)
	if btn == nil {
		c.logger.Warn("form has no submit button", "form", formName(form))
		return c.record(OutcomeAborted)
	}

	if !c.guard.TryAcquire() {
		return c.record(OutcomeIgnored)
	}

	_, span := c.tracer.Start(ctx, "sitekit.form.submit", trace.WithAttributes(
		attribute.String("form.name", formName(form)),
		attribute.Int("form.fields", len(fields)),
	))

	dom.SetBoolAttr(btn, "disabled", true)
	original := dom.TakeChildren(btn)
	if err := dom.SetInnerHTML(btn, loadingLabel); err != nil {
		dom.SetText(btn, "Sending...")
	}
	for _, f := range fields {
		fielderror.Clear(f)
	}

	c.logger.Debug("submission started", "form", formName(form))

	c.inFlight = span
	c.sched.AfterFunc(c.delays.Network, func() {
		c.inFlight = nil
		c.guard.Release()
		dom.SetBoolAttr(btn, "disabled", false)
		dom.RemoveChildren(btn)
		dom.AppendChildren(btn, original)

		c.notifier.Create(MsgSubmitted, toast.TypeSuccess)
		c.reset(form)

		span.AddEvent("completed")
		span.End()
		c.logger.Debug("submission completed", "form", formName(form))

		c.sched.AfterFunc(c.delays.Redirect, func() {
			c.effects.Navigate(c.redirect)
		})
	})

	return c.record(OutcomeStarted)
}

// InFlight reports whether this controller holds the guard for a
// submission that has not completed.
func (c *Controller) InFlight() bool {
	return c.inFlight != nil
}

// Close abandons an in-flight submission, releasing the guard it holds.
// A guard held by another controller is left alone. Pending completion
// callbacks must be stopped by the caller.
func (c *Controller) Close() {
	if c.inFlight == nil {
		return
	}
	span := c.inFlight
	c.inFlight = nil
	c.guard.Release()
	span.AddEvent("abandoned")
	span.End()
	c.logger.Debug("submission abandoned")
}

// reset restores registered defaults and clears every error display.
func (c *Controller) reset(form *html.Node) {
	for _, f := range Fields(form) {
		if d, ok := c.defaults[f]; ok {
			d.restore(f)
		}
		fielderror.Clear(f)
	}
}

func (c *Controller) record(o Outcome) Outcome {
	if c.recorder != nil {
		c.recorder.RecordSubmission(o.String())
	}
	return o
}

func formName(form *html.Node) string {
	if id := dom.GetAttr(form, "id"); id != "" {
		return id
	}
	if name := dom.GetAttr(form, "name"); name != "" {
		return name
	}
	return dom.HID(form)
}
