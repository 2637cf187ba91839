package toast

import (
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/clock"
	"github.com/vango-dev/sitekit/pkg/dom"
)

// Type represents the toast notification type.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeDanger  Type = "danger"
	TypeWarning Type = "warning"
)

const (
	// ContainerSelector finds the shared container.
	ContainerSelector = ".toast-container"

	// DismissAttr is set on a toast's close button to the toast's ID.
	DismissAttr = "data-toast-dismiss"

	// IDAttr is set on the toast element to its ID.
	IDAttr = "data-toast-id"

	containerClass = "toast-container position-fixed top-0 end-0 p-3"
)

// Delays controls the toast lifecycle.
type Delays struct {
	// Visible is how long a toast stays before removal starts.
	Visible time.Duration

	// FadeOut is the exit transition before the node is detached.
	FadeOut time.Duration
}

// DefaultDelays returns the stock 5000ms/150ms lifecycle.
func DefaultDelays() Delays {
	return Delays{
		Visible: 5000 * time.Millisecond,
		FadeOut: 150 * time.Millisecond,
	}
}

// Recorder receives toast lifecycle counts.
type Recorder interface {
	RecordToast(level string)
}

// Notification is one rendered toast.
type Notification struct {
	ID      string
	Message string
	Level   Type
	Node    *html.Node
}

// Emitter creates and removes toasts in one document.
// It is not safe for concurrent use; the page controller serializes calls.
type Emitter struct {
	doc      *dom.Document
	sched    clock.Scheduler
	delays   Delays
	recorder Recorder
	logger   *slog.Logger
	live     map[string]*Notification
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithDelays overrides the lifecycle delays.
func WithDelays(d Delays) Option {
	return func(e *Emitter) {
		e.delays = d
	}
}

// WithRecorder reports each created toast to r.
func WithRecorder(r Recorder) Option {
	return func(e *Emitter) {
		e.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Emitter) {
		e.logger = l
	}
}

// New returns an Emitter for doc using sched for auto-removal.
func New(doc *dom.Document, sched clock.Scheduler, opts ...Option) *Emitter {
	e := &Emitter{
		doc:    doc,
		sched:  sched,
		delays: DefaultDelays(),
		logger: slog.Default().With("component", "toast"),
		live:   make(map[string]*Notification),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Container returns the shared container, creating it on first use.
// It returns nil when the document has no <body>.
func (e *Emitter) Container() *html.Node {
	if c := e.doc.Query(ContainerSelector); c != nil {
		return c
	}
	body := e.doc.Body()
	if body == nil {
		return nil
	}
	c := dom.NewElement("div", "class", containerClass, "style", "z-index: 9999")
	body.AppendChild(c)
	return c
}

// Create appends a dismissible toast and schedules its removal.
// An empty level is treated as TypeInfo.
func (e *Emitter) Create(message string, level Type) *Notification {
	if level == "" {
		level = TypeInfo
	}
	container := e.Container()
	if container == nil {
		return nil
	}

	id := gonanoid.Must(12)

	node := dom.NewElement("div",
		"class", "alert alert-"+string(level)+" alert-dismissible fade show",
		"role", "alert",
		IDAttr, id,
	)
	node.AppendChild(dom.NewText(message))
	node.AppendChild(dom.NewElement("button",
		"type", "button",
		"class", "btn-close",
		"aria-label", "Close",
		DismissAttr, id,
	))
	container.AppendChild(node)

	n := &Notification{ID: id, Message: message, Level: level, Node: node}
	e.live[id] = n

	e.sched.AfterFunc(e.delays.Visible, func() {
		e.Remove(n)
	})

	if e.recorder != nil {
		e.recorder.RecordToast(string(level))
	}
	e.logger.Debug("toast created", "id", id, "level", level)
	return n
}

// Info shows an info toast.
func (e *Emitter) Info(message string) *Notification {
	return e.Create(message, TypeInfo)
}

// Success shows a success toast.
func (e *Emitter) Success(message string) *Notification {
	return e.Create(message, TypeSuccess)
}

// Error shows a danger toast.
func (e *Emitter) Error(message string) *Notification {
	return e.Create(message, TypeDanger)
}

// Warning shows a warning toast.
func (e *Emitter) Warning(message string) *Notification {
	return e.Create(message, TypeWarning)
}

// Remove starts the exit transition and detaches the node after FadeOut.
// Calling it again for a toast already leaving or gone is harmless.
func (e *Emitter) Remove(n *Notification) {
	if n == nil || n.Node == nil {
		return
	}
	dom.RemoveClass(n.Node, "show")
	e.sched.AfterFunc(e.delays.FadeOut, func() {
		if n.Node.Parent != nil {
			n.Node.Parent.RemoveChild(n.Node)
		}
		delete(e.live, n.ID)
	})
}

// Dismiss removes the toast with the given ID, as its close button does.
// It reports whether the toast was known.
func (e *Emitter) Dismiss(id string) bool {
	n, ok := e.live[id]
	if !ok {
		return false
	}
	e.Remove(n)
	return true
}

// HandleClick dismisses the toast whose close button is target.
// It reports whether target was a close button.
func (e *Emitter) HandleClick(target *html.Node) bool {
	btn := dom.Closest(target, "["+DismissAttr+"]")
	if btn == nil {
		return false
	}
	e.Dismiss(dom.GetAttr(btn, DismissAttr))
	return true
}

// Live returns the number of toasts not yet detached.
func (e *Emitter) Live() int {
	return len(e.live)
}
