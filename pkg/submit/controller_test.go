package submit

import (
	"context"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/clock"
	"github.com/vango-dev/sitekit/pkg/dom"
	"github.com/vango-dev/sitekit/pkg/fielderror"
	"github.com/vango-dev/sitekit/pkg/toast"
	"github.com/vango-dev/sitekit/pkg/validate"
)

const pageHTML = `<html><body>
<form id="contact">
  <input id="name" name="name" required>
  <input id="email" type="email" required>
  <textarea id="message" required></textarea>
  <input id="terms" type="checkbox" required>
  <button type="submit">Send <b>now</b></button>
</form>
<form id="newsletter">
  <input id="news-email" type="email" required value="a@b.co">
  <button type="submit">Subscribe</button>
</form>
<form id="broken">
  <input id="q" value="x">
</form>
</body></html>`

type recordedEffects struct {
	focused   []*html.Node
	navigated []string
}

func (r *recordedEffects) Focus(n *html.Node)  { r.focused = append(r.focused, n) }
func (r *recordedEffects) Navigate(url string) { r.navigated = append(r.navigated, url) }

type outcomeLog []string

func (o *outcomeLog) RecordSubmission(outcome string) { *o = append(*o, outcome) }

type harness struct {
	doc     *dom.Document
	clock   *clock.Manual
	toasts  *toast.Emitter
	effects *recordedEffects
	ctrl    *Controller
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		doc:     dom.MustParse(pageHTML),
		clock:   clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		effects: &recordedEffects{},
	}
	h.toasts = toast.New(h.doc, h.clock)
	h.ctrl = New(h.clock, h.toasts, h.effects, opts...)
	for _, f := range h.doc.QueryAll("form") {
		h.ctrl.Register(f)
	}
	return h
}

func (h *harness) byID(id string) *html.Node { return h.doc.ByID(id) }

func (h *harness) fillContact() {
	h.ctrl.Input(h.byID("name"), "Ada Lovelace", false)
	h.ctrl.Input(h.byID("email"), "ada@example.com", false)
	h.ctrl.Input(h.byID("message"), "Hello, I would like a quote.", false)
	h.ctrl.Input(h.byID("terms"), "", true)
}

func (h *harness) alerts(cls string) int {
	return len(h.doc.QueryAll(".alert." + cls))
}

func TestSubmitInvalid(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Input(h.byID("name"), "Ada", false)
	h.ctrl.Input(h.byID("message"), "A long enough message", false)
	h.ctrl.Input(h.byID("terms"), "", true)
	// Stale error on a field that is now valid must be cleared.
	fielderror.Show(h.byID("name"), "old")

	got := h.ctrl.Submit(context.Background(), h.byID("contact"))

	if got != OutcomeInvalid {
		t.Fatalf("Submit = %v, want invalid", got)
	}
	if fielderror.IsInvalid(h.byID("name")) {
		t.Error("valid field still marked invalid")
	}
	if msg := fielderror.Message(h.byID("email")); msg != validate.MsgRequired {
		t.Errorf("email message = %q", msg)
	}
	if len(h.effects.focused) != 1 || h.effects.focused[0] != h.byID("email") {
		t.Errorf("focused = %v, want the email field", h.effects.focused)
	}
	if n := h.alerts("alert-danger"); n != 1 {
		t.Errorf("danger toasts = %d, want 1", n)
	}
	if h.ctrl.Guard().Held() {
		t.Error("guard taken for an invalid form")
	}
	if dom.HasAttr(dom.Query(h.byID("contact"), SubmitSelector), "disabled") {
		t.Error("button disabled for an invalid form")
	}

	h.clock.Advance(10 * time.Second)
	if len(h.effects.navigated) != 0 {
		t.Errorf("navigated = %v", h.effects.navigated)
	}
}

func TestSubmitFocusesFirstInvalidInDocumentOrder(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Input(h.byID("email"), "bad", false)

	h.ctrl.Submit(context.Background(), h.byID("contact"))

	if len(h.effects.focused) != 1 || h.effects.focused[0] != h.byID("name") {
		t.Errorf("focused = %v, want the name field", h.effects.focused)
	}
	if msg := fielderror.Message(h.byID("terms")); msg != validate.MsgConsent {
		t.Errorf("terms message = %q", msg)
	}
}

func TestSubmitSuccessLifecycle(t *testing.T) {
	var outcomes outcomeLog
	h := newHarness(t, WithRecorder(&outcomes))
	h.fillContact()
	form := h.byID("contact")
	btn := dom.Query(form, SubmitSelector)

	if got := h.ctrl.Submit(context.Background(), form); got != OutcomeStarted {
		t.Fatalf("Submit = %v, want started", got)
	}

	if !h.ctrl.Guard().Held() {
		t.Error("guard not held while submitting")
	}
	if !dom.HasAttr(btn, "disabled") {
		t.Error("button not disabled")
	}
	if dom.Text(btn) != "Sending..." || dom.Query(btn, ".spinner-border") == nil {
		t.Errorf("button label = %q", dom.InnerHTML(btn))
	}

	h.clock.Advance(1499 * time.Millisecond)
	if !h.ctrl.Guard().Held() {
		t.Fatal("guard released before the round-trip ended")
	}

	h.clock.Advance(time.Millisecond)
	if h.ctrl.Guard().Held() {
		t.Error("guard still held after completion")
	}
	if dom.HasAttr(btn, "disabled") {
		t.Error("button still disabled")
	}
	if dom.Text(btn) != "Send now" || dom.Query(btn, "b") == nil {
		t.Errorf("button label = %q, want original", dom.InnerHTML(btn))
	}
	if n := h.alerts("alert-success"); n != 1 {
		t.Errorf("success toasts = %d", n)
	}
	if v := dom.GetAttr(h.byID("email"), "value"); v != "" {
		t.Errorf("email not reset: %q", v)
	}
	if dom.Text(h.byID("message")) != "" {
		t.Error("message not reset")
	}
	if dom.HasAttr(h.byID("terms"), "checked") {
		t.Error("checkbox not reset")
	}
	if len(h.effects.navigated) != 0 {
		t.Fatal("navigated before the redirect delay")
	}

	h.clock.Advance(1000 * time.Millisecond)
	if len(h.effects.navigated) != 1 || h.effects.navigated[0] != DefaultRedirect {
		t.Errorf("navigated = %v", h.effects.navigated)
	}
	if len(outcomes) != 1 || outcomes[0] != "started" {
		t.Errorf("outcomes = %v", outcomes)
	}
}

func TestSubmitResetRestoresDefaults(t *testing.T) {
	h := newHarness(t, WithRedirect("/done.html"))
	news := h.byID("news-email")
	h.ctrl.Input(news, "other@example.org", false)

	h.ctrl.Submit(context.Background(), h.byID("newsletter"))
	h.clock.Advance(2500 * time.Millisecond)

	if v := dom.GetAttr(news, "value"); v != "a@b.co" {
		t.Errorf("value = %q, want registered default", v)
	}
	if len(h.effects.navigated) != 1 || h.effects.navigated[0] != "/done.html" {
		t.Errorf("navigated = %v", h.effects.navigated)
	}
}

func TestConcurrentSubmissionIgnored(t *testing.T) {
	h := newHarness(t)
	h.fillContact()

	if got := h.ctrl.Submit(context.Background(), h.byID("contact")); got != OutcomeStarted {
		t.Fatalf("first Submit = %v", got)
	}

	h.clock.Advance(500 * time.Millisecond)
	newsBtn := dom.Query(h.byID("newsletter"), SubmitSelector)
	if got := h.ctrl.Submit(context.Background(), h.byID("newsletter")); got != OutcomeIgnored {
		t.Fatalf("second Submit = %v, want ignored", got)
	}
	if dom.HasAttr(newsBtn, "disabled") || dom.Text(newsBtn) != "Subscribe" {
		t.Error("ignored form changed state")
	}
	if n := len(h.doc.QueryAll(".alert")); n != 0 {
		t.Errorf("ignored submission produced %d toasts", n)
	}

	h.clock.Advance(1000 * time.Millisecond)
	if h.ctrl.Guard().Held() {
		t.Fatal("guard stuck after first completion")
	}

	if got := h.ctrl.Submit(context.Background(), h.byID("newsletter")); got != OutcomeStarted {
		t.Fatalf("third Submit = %v, want started", got)
	}
	h.clock.Advance(1500 * time.Millisecond)
	if h.ctrl.Guard().Held() {
		t.Error("guard stuck after second completion")
	}
	if n := h.alerts("alert-success"); n != 2 {
		t.Errorf("success toasts = %d, want 2", n)
	}
}

func TestSubmitWithoutButtonAborts(t *testing.T) {
	h := newHarness(t)

	if got := h.ctrl.Submit(context.Background(), h.byID("broken")); got != OutcomeAborted {
		t.Fatalf("Submit = %v, want aborted", got)
	}
	if h.ctrl.Guard().Held() {
		t.Error("guard taken by aborted submission")
	}
}

func TestSharedGuardAcrossControllers(t *testing.T) {
	g := &Guard{}
	a := newHarness(t, WithGuard(g))
	b := newHarness(t, WithGuard(g))
	a.fillContact()
	b.fillContact()

	a.ctrl.Submit(context.Background(), a.byID("contact"))
	if got := b.ctrl.Submit(context.Background(), b.byID("contact")); got != OutcomeIgnored {
		t.Errorf("second controller Submit = %v, want ignored", got)
	}
}

func TestCloseReleasesOwnedGuard(t *testing.T) {
	g := &Guard{}
	a := newHarness(t, WithGuard(g))
	b := newHarness(t, WithGuard(g))

	if got := a.ctrl.Submit(context.Background(), a.byID("newsletter")); got != OutcomeStarted {
		t.Fatalf("Submit = %v, want started", got)
	}
	if !a.ctrl.InFlight() || b.ctrl.InFlight() {
		t.Fatalf("InFlight a=%v b=%v, want true false", a.ctrl.InFlight(), b.ctrl.InFlight())
	}

	b.ctrl.Close()
	if !g.Held() {
		t.Fatal("closing a controller without a submission released the guard")
	}

	a.ctrl.Close()
	if g.Held() {
		t.Fatal("guard still held after closing the submitting controller")
	}
	if a.ctrl.InFlight() {
		t.Error("InFlight after Close")
	}
	a.ctrl.Close()

	if got := b.ctrl.Submit(context.Background(), b.byID("newsletter")); got != OutcomeStarted {
		t.Errorf("Submit after release = %v, want started", got)
	}
}

func TestInFlightClearedOnCompletion(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Submit(context.Background(), h.byID("newsletter"))
	h.clock.Advance(DefaultDelays().Network)
	if h.ctrl.InFlight() {
		t.Error("InFlight after completion")
	}
	if h.ctrl.Guard().Held() {
		t.Error("guard held after completion")
	}
	h.ctrl.Close()
	if h.ctrl.Guard().Held() {
		t.Error("Close after completion took the guard")
	}
}

func TestBlurAndInput(t *testing.T) {
	h := newHarness(t)
	email := h.byID("email")

	h.ctrl.Input(email, "nope", false)
	if r := h.ctrl.Blur(email); r.Valid || r.Message != validate.MsgEmail {
		t.Fatalf("Blur = %+v", r)
	}
	if !fielderror.IsInvalid(email) {
		t.Fatal("blur did not mark the field")
	}

	h.ctrl.Input(email, "still-typing", false)
	if fielderror.IsInvalid(email) {
		t.Error("input should clear a shown error")
	}

	h.ctrl.Input(email, "ok@example.com", false)
	if r := h.ctrl.Blur(email); !r.Valid {
		t.Errorf("Blur = %+v", r)
	}
}

func TestSetValueSelectAndRadio(t *testing.T) {
	d := dom.MustParse(`<html><body><form>
<select id="s"><option value="a" selected>A</option><option>B</option></select>
<input type="radio" name="plan" id="p1" value="basic" checked>
<input type="radio" name="plan" id="p2" value="pro">
</form></body></html>`)

	SetValue(d.ByID("s"), "B", false)
	if got := validate.FieldFromNode(d.ByID("s")).Value; got != "B" {
		t.Errorf("select value = %q", got)
	}

	SetValue(d.ByID("p2"), "pro", true)
	if dom.HasAttr(d.ByID("p1"), "checked") || !dom.HasAttr(d.ByID("p2"), "checked") {
		t.Error("radio group not updated")
	}
}

func TestGuard(t *testing.T) {
	var g Guard
	if !g.TryAcquire() {
		t.Fatal("first TryAcquire failed")
	}
	if g.TryAcquire() {
		t.Error("second TryAcquire succeeded")
	}
	if !g.Release() {
		t.Error("Release of held guard reported false")
	}
	if g.Release() {
		t.Error("double Release reported true")
	}
	if g.Held() {
		t.Error("guard held after release")
	}
}

func TestOutcomeString(t *testing.T) {
	tests := map[Outcome]string{
		OutcomeInvalid: "invalid",
		OutcomeIgnored: "ignored",
		OutcomeAborted: "aborted",
		OutcomeStarted: "started",
		Outcome(99):    "unknown",
	}
	for o, want := range tests {
		if o.String() != want {
			t.Errorf("%d.String() = %q, want %q", o, o.String(), want)
		}
	}
}
