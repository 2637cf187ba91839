package toast_test

import (
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/sitekit/pkg/clock"
	"github.com/vango-dev/sitekit/pkg/dom"
	"github.com/vango-dev/sitekit/pkg/toast"
)

type countingRecorder struct {
	levels []string
}

func (r *countingRecorder) RecordToast(level string) {
	r.levels = append(r.levels, level)
}

func newEmitter(t *testing.T, opts ...toast.Option) (*toast.Emitter, *dom.Document, *clock.Manual) {
	t.Helper()
	d := dom.MustParse(`<html><body><main></main></body></html>`)
	m := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return toast.New(d, m, opts...), d, m
}

func TestCreate(t *testing.T) {
	em, d, _ := newEmitter(t)

	n := em.Success("Item saved!")

	if n == nil || n.Level != toast.TypeSuccess || n.ID == "" {
		t.Fatalf("notification = %+v", n)
	}
	if !dom.Attached(n.Node) {
		t.Fatal("toast not in the document right after creation")
	}
	if n.Node.Parent != d.Query(toast.ContainerSelector) {
		t.Error("toast not inside the container")
	}
	for _, cls := range []string{"alert", "alert-success", "alert-dismissible", "fade", "show"} {
		if !dom.HasClass(n.Node, cls) {
			t.Errorf("missing class %q: %v", cls, dom.Classes(n.Node))
		}
	}
	if dom.GetAttr(n.Node, "role") != "alert" {
		t.Error("missing role=alert")
	}
	if dom.Query(n.Node, ".btn-close") == nil {
		t.Error("missing close button")
	}
}

func TestIDsAreUnique(t *testing.T) {
	em, _, _ := newEmitter(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := em.Info("hello")
		if len(n.ID) != 12 {
			t.Fatalf("id %q has length %d, want 12", n.ID, len(n.ID))
		}
		if seen[n.ID] {
			t.Fatalf("duplicate id %q", n.ID)
		}
		seen[n.ID] = true
		if got := dom.GetAttr(n.Node, toast.IDAttr); got != n.ID {
			t.Errorf("%s = %q, want %q", toast.IDAttr, got, n.ID)
		}
	}
}

func TestDefaultLevelIsInfo(t *testing.T) {
	em, _, _ := newEmitter(t)
	n := em.Create("FYI", "")
	if n.Level != toast.TypeInfo || !dom.HasClass(n.Node, "alert-info") {
		t.Errorf("level = %q classes = %v", n.Level, dom.Classes(n.Node))
	}
}

func TestContainerCreatedOnceAtBodyEnd(t *testing.T) {
	em, d, _ := newEmitter(t)

	em.Info("one")
	em.Error("two")
	em.Warning("three")

	containers := d.QueryAll(toast.ContainerSelector)
	if len(containers) != 1 {
		t.Fatalf("containers = %d, want 1", len(containers))
	}
	c := containers[0]
	if c.Parent != d.Body() || d.Body().LastChild != c {
		t.Error("container should be the last child of body")
	}
	if dom.Style(c, "z-index") != "9999" {
		t.Errorf("z-index = %q", dom.Style(c, "z-index"))
	}
	if got := len(d.QueryAll(".alert")); got != 3 {
		t.Errorf("stacked toasts = %d, want 3", got)
	}
}

func TestMessageIsEscaped(t *testing.T) {
	em, d, _ := newEmitter(t)

	em.Error(`<img src=x onerror="alert(1)">`)

	out := d.BodyHTML()
	if strings.Contains(out, "<img") {
		t.Fatalf("message rendered as markup:\n%s", out)
	}
	if !strings.Contains(out, "&lt;img src=x") {
		t.Errorf("escaped message missing:\n%s", out)
	}
}

func TestAutoRemoval(t *testing.T) {
	em, _, m := newEmitter(t)

	n := em.Info("bye soon")

	m.Advance(5000 * time.Millisecond)
	if dom.HasClass(n.Node, "show") {
		t.Error("show class should be dropped when removal starts")
	}
	if !dom.Attached(n.Node) {
		t.Fatal("node detached before the fade-out finished")
	}

	m.Advance(149 * time.Millisecond)
	if !dom.Attached(n.Node) {
		t.Fatal("node detached before 5150ms")
	}

	m.Advance(time.Millisecond)
	if dom.Attached(n.Node) {
		t.Error("node still attached at 5150ms")
	}
	if em.Live() != 0 {
		t.Errorf("Live = %d", em.Live())
	}
}

func TestManualDismissThenTimer(t *testing.T) {
	em, d, m := newEmitter(t)

	n := em.Info("close me")
	btn := dom.Query(n.Node, ".btn-close")

	m.Advance(time.Second)
	if !em.HandleClick(btn) {
		t.Fatal("close button click not handled")
	}
	m.Advance(150 * time.Millisecond)
	if dom.Attached(n.Node) {
		t.Fatal("toast still attached after manual close")
	}

	// The auto-removal timer still fires later and must tolerate the
	// missing parent.
	m.Advance(10 * time.Second)
	if len(d.QueryAll(".alert")) != 0 {
		t.Error("unexpected toasts left")
	}

	if em.Dismiss(n.ID) {
		t.Error("Dismiss of a removed toast should report false")
	}
	if em.HandleClick(d.Body()) {
		t.Error("click outside a close button should not be handled")
	}
}

func TestOptions(t *testing.T) {
	rec := &countingRecorder{}
	em, _, m := newEmitter(t,
		toast.WithDelays(toast.Delays{Visible: 10 * time.Millisecond, FadeOut: 0}),
		toast.WithRecorder(rec),
	)

	n := em.Success("quick")
	em.Error("quick too")

	m.Advance(10 * time.Millisecond)
	if dom.Attached(n.Node) {
		t.Error("custom delays not applied")
	}
	if len(rec.levels) != 2 || rec.levels[0] != "success" || rec.levels[1] != "danger" {
		t.Errorf("recorded = %v", rec.levels)
	}
}
