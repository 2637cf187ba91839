package page_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/clock"
	"github.com/vango-dev/sitekit/pkg/dom"
	"github.com/vango-dev/sitekit/pkg/images"
	"github.com/vango-dev/sitekit/pkg/page"
	"github.com/vango-dev/sitekit/pkg/sitetest"
	"github.com/vango-dev/sitekit/pkg/submit"
)

const sitePage = `<!DOCTYPE html>
<html><head><title>Agency</title></head><body>
<header class="l-header">
  <a href="index.html" class="c-logo"><img class="c-logo__img" src="logo.svg" alt="Logo"></a>
  <button class="navbar-toggler" aria-expanded="false"><span id="burger-icon"></span></button>
  <nav class="navbar-collapse">
    <a id="nav-home" class="nav-link" href="index.html">Home</a>
    <a id="nav-about" class="nav-link" href="#about">About</a>
    <a id="nav-services" class="nav-link" href="/#services">Services</a>
    <a id="nav-contact" class="nav-link" href="/contact.html">Contact</a>
  </nav>
</header>
<section id="about"><img id="team" src="team.jpg" alt="Team"></section>
<section id="services"><p>Services</p></section>
<section id="portfolio">
  <button id="f-all" class="c-filter-btn is-active active" data-filter="all">All</button>
  <button id="f-web" class="c-filter-btn" data-filter="web">Web</button>
  <div class="col"><div id="p-web" data-category="web">
    <a id="p-web-link" href="#" class="c-project-details" data-project="techvision">View</a>
  </div></div>
  <div class="col"><div id="p-brand" data-category="branding">
    <a href="#" class="c-project-details" data-project="brandboost">View</a>
  </div></div>
</section>
<div id="projectModal" class="modal fade" aria-hidden="true">
  <h5 id="projectModalLabel"></h5>
  <button id="modal-close" class="btn-close" data-bs-dismiss="modal"></button>
  <div id="projectModalBody"></div>
</div>
<form id="contact">
  <input id="name" name="name" required>
  <input id="email" name="email" type="email" required>
  <input id="phone" name="phone" type="tel">
  <textarea id="message" name="message" required></textarea>
  <input id="consent" name="consent" type="checkbox" required>
  <button id="send" type="submit">Send <i>message</i></button>
</form>
<form id="newsletter">
  <input id="news-email" type="email" required value="reader@example.com">
  <button id="subscribe" type="submit">Subscribe</button>
</form>
</body></html>`

func fillContact(h *sitetest.Harness) {
	h.Input("#name", "Ada Lovelace")
	h.Input("#email", "ada@example.com")
	h.Input("#message", "I would like a quote for a new site.")
	h.Check("#consent", true)
}

func TestNewPrepareDocument(t *testing.T) {
	h := sitetest.New(t, sitePage)

	h.ExpectAttribute("#team", "loading", "lazy")
	if dom.HasAttr(h.Node(".c-logo__img"), "loading") {
		t.Error("logo should not be lazy")
	}
	h.ExpectAttribute("#nav-home", "aria-current", "page")
	h.ExpectClass("#nav-about", "active", false)

	out := h.Page.HTML()
	if !strings.Contains(out, `data-hid="`) {
		t.Error("rendered page has no hydration ids")
	}
	if h.Page.PendingTimers() != 0 {
		t.Errorf("PendingTimers() = %d", h.Page.PendingTimers())
	}
}

func TestSubmitInvalidFocusesAndToasts(t *testing.T) {
	h := sitetest.New(t, sitePage)
	h.Input("#email", "not-an-email")

	cmds := h.Submit("#send")
	if len(cmds) < 2 || cmds[0].Op != page.OpRender {
		t.Fatalf("commands = %+v, want render first", cmds)
	}
	focus := sitetest.ExpectOp(t, cmds, page.OpFocus)
	if focus.HID != dom.HID(h.Node("#name")) {
		t.Errorf("focus hid = %q, want #name", focus.HID)
	}

	h.ExpectClass("#email", "is-invalid", true)
	h.ExpectText("#email + .invalid-feedback", "Please enter a valid email address")
	h.ExpectText("#consent + .invalid-feedback", "You must accept this to continue")
	h.ExpectClass("#phone", "is-invalid", false)
	if n := h.Count(".alert-danger"); n != 1 {
		t.Errorf("danger toasts = %d, want 1", n)
	}
	h.ExpectText(".alert-danger", "Please correct the errors in the form")
	if h.Page.Guard().Held() {
		t.Error("invalid submit acquired the guard")
	}

	h.Advance(5000 * time.Millisecond)
	h.ExpectClass(".alert-danger", "show", false)
	h.Advance(150 * time.Millisecond)
	h.ExpectMissing(".alert-danger")
	sitetest.ExpectOp(t, h.Pushed(), page.OpRender)
}

func TestSubmitSuccessLifecycle(t *testing.T) {
	h := sitetest.New(t, sitePage)
	fillContact(h)

	cmds := h.Submit("#contact")
	sitetest.ExpectOp(t, cmds, page.OpRender)
	sitetest.ExpectNoOp(t, cmds, page.OpFocus)
	h.ExpectAttribute("#send", "disabled", "")
	h.ExpectText("#send", "Sending...")
	if h.Count("#send .spinner-border") != 1 {
		t.Error("loading spinner missing")
	}
	if !h.Page.Guard().Held() {
		t.Fatal("guard not held while submitting")
	}

	h.Advance(1499 * time.Millisecond)
	if !h.Page.Guard().Held() {
		t.Fatal("guard released early")
	}

	h.Advance(time.Millisecond)
	if h.Page.Guard().Held() {
		t.Error("guard still held after completion")
	}
	if dom.HasAttr(h.Node("#send"), "disabled") {
		t.Error("button still disabled")
	}
	h.ExpectText("#send", "Send message")
	h.ExpectText(".alert-success", "Form submitted successfully!")
	if dom.HasAttr(h.Node("#name"), "value") || dom.HasAttr(h.Node("#consent"), "checked") {
		t.Error("form not reset")
	}
	sitetest.ExpectNoOp(t, h.Pushed(), page.OpNavigate)

	h.Advance(1000 * time.Millisecond)
	nav := sitetest.ExpectOp(t, h.Pushed(), page.OpNavigate)
	if nav.URL != submit.DefaultRedirect {
		t.Errorf("navigate url = %q", nav.URL)
	}
}

func TestSecondFormIgnoredWhileSubmitting(t *testing.T) {
	h := sitetest.New(t, sitePage, page.WithRedirect("/thanks"))
	fillContact(h)

	h.Submit("#contact")
	h.Advance(500 * time.Millisecond)
	h.Submit("#newsletter")

	if dom.HasAttr(h.Node("#subscribe"), "disabled") {
		t.Error("second form started while guard held")
	}

	h.Advance(1000 * time.Millisecond)
	if h.Page.Guard().Held() {
		t.Error("guard not released")
	}
	if n := h.Count(".alert-success"); n != 1 {
		t.Errorf("success toasts = %d, want 1", n)
	}

	h.Advance(1000 * time.Millisecond)
	var navs []string
	for _, c := range h.Pushed() {
		if c.Op == page.OpNavigate {
			navs = append(navs, c.URL)
		}
	}
	if len(navs) != 1 || navs[0] != "/thanks" {
		t.Errorf("navigations = %v", navs)
	}
}

func TestSharedGuardAcrossPages(t *testing.T) {
	g := &submit.Guard{}
	a := sitetest.New(t, sitePage, page.WithGuard(g))
	b := sitetest.New(t, sitePage, page.WithGuard(g))

	a.Submit("#newsletter")
	b.Submit("#newsletter")

	if !dom.HasAttr(a.Node("#subscribe"), "disabled") {
		t.Error("first page did not start")
	}
	if dom.HasAttr(b.Node("#subscribe"), "disabled") {
		t.Error("second page started while shared guard held")
	}
}

func TestCloseMidSubmitReleasesSharedGuard(t *testing.T) {
	g := &submit.Guard{}
	a := sitetest.New(t, sitePage, page.WithGuard(g))
	b := sitetest.New(t, sitePage, page.WithGuard(g))
	idle := sitetest.New(t, sitePage, page.WithGuard(g))

	a.Submit("#newsletter")
	if !g.Held() {
		t.Fatal("submission did not take the shared guard")
	}

	idle.Page.Close()
	if !g.Held() {
		t.Fatal("closing an idle page released another page's guard")
	}

	a.Page.Close()
	if g.Held() {
		t.Fatal("guard held after closing the page with the in-flight submission")
	}
	if n := a.Page.PendingTimers(); n != 0 {
		t.Errorf("pending timers after Close = %d", n)
	}

	a.Advance(10 * time.Second)
	b.Advance(10 * time.Second)
	b.Submit("#newsletter")
	if !dom.HasAttr(b.Node("#subscribe"), "disabled") {
		t.Error("submission on the other page was ignored after release")
	}
}

func TestDeliverOrderedAfterTimerOutput(t *testing.T) {
	clk := clock.NewManual(sitetest.Epoch)
	p, err := page.Load(strings.NewReader(sitePage), clk)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()
	contact := p.Document().ByID("contact")
	nameHID := dom.HID(p.Document().ByID("name"))
	if err := p.Deliver(ctx, page.Event{Type: page.EventSubmit, HID: dom.HID(contact)}); err != nil {
		t.Fatal(err)
	}

	var (
		mu      sync.Mutex
		renders []string
		once    sync.Once
		done    = make(chan struct{})
	)
	p.SetSink(func(cmds []page.Command) {
		mu.Lock()
		for _, c := range cmds {
			if c.Op == page.OpRender {
				renders = append(renders, c.HTML)
			}
		}
		mu.Unlock()

		// An event arriving while timer output is being handed over must
		// not overtake it.
		once.Do(func() {
			go func() {
				defer close(done)
				if err := p.Deliver(ctx, page.Event{Type: page.EventInput, HID: nameHID, Value: "Ada"}); err != nil {
					t.Error(err)
				}
			}()
			time.Sleep(50 * time.Millisecond)
		})
	})

	clk.Advance(5 * time.Second)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event delivery blocked")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(renders) != 2 {
		t.Fatalf("renders = %d, want 2", len(renders))
	}
	if !strings.Contains(renders[0], "is-invalid") {
		t.Error("first render should be the timer's, with the name error still shown")
	}
	if got := p.Document().BodyHTML(); renders[1] != got {
		t.Error("last render delivered is not the current body")
	}
}

func TestBlurAndInput(t *testing.T) {
	h := sitetest.New(t, sitePage)

	h.Input("#phone", "12")
	h.Blur("#phone")
	h.ExpectClass("#phone", "is-invalid", false)

	h.Input("#name", "R2-D2")
	h.Blur("#name")
	h.ExpectClass("#name", "is-invalid", true)
	h.ExpectText("#name + .invalid-feedback", "Please enter a valid name")

	h.Input("#name", "R")
	h.ExpectClass("#name", "is-invalid", false)
	if got := dom.Style(h.Node("#name + .invalid-feedback"), "display"); got != "none" {
		t.Errorf("feedback display = %q", got)
	}
}

func TestToastDismiss(t *testing.T) {
	h := sitetest.New(t, sitePage)
	h.Submit("#contact")

	h.Click(".alert-danger .btn-close")
	h.ExpectClass(".alert-danger", "show", false)
	h.Advance(150 * time.Millisecond)
	h.ExpectMissing(".alert-danger")

	h.Advance(5 * time.Second)
	h.ExpectMissing(".alert-danger")
	if h.Count(".toast-container") != 1 {
		t.Error("toast container removed")
	}
}

func TestMenuAndScroll(t *testing.T) {
	h := sitetest.New(t, sitePage)

	cmds := h.Click("#burger-icon")
	render := sitetest.ExpectOp(t, cmds, page.OpRender)
	if !strings.Contains(render.BodyClass, "u-no-scroll") {
		t.Errorf("body class = %q", render.BodyClass)
	}
	h.ExpectClass(".navbar-collapse", "show", true)
	h.ExpectAttribute(".navbar-toggler", "aria-expanded", "true")

	cmds = h.ClickWithHeader("#nav-about", 72)
	scroll := sitetest.ExpectOp(t, cmds, page.OpScroll)
	if scroll.Target != "about" || scroll.Offset != 72 {
		t.Errorf("scroll = %+v", scroll)
	}
	if h.Page.Menu().IsOpen() {
		t.Error("nav link click did not close the menu")
	}

	h.Click("#burger-icon")
	cmds = h.Key("Escape")
	focus := sitetest.ExpectOp(t, cmds, page.OpFocus)
	if focus.HID != dom.HID(h.Node(".navbar-toggler")) {
		t.Errorf("focus after escape = %q", focus.HID)
	}
	if cmds := h.Key("Escape"); len(cmds) != 0 {
		t.Errorf("escape on closed menu = %+v", cmds)
	}
}

func TestHomeAnchorOnlyScrollsOnHome(t *testing.T) {
	home := sitetest.New(t, sitePage, page.WithPath("/"))
	sitetest.ExpectOp(t, home.Click("#nav-services"), page.OpScroll)

	other := sitetest.New(t, sitePage, page.WithPath("/contact.html"))
	sitetest.ExpectNoOp(t, other.Click("#nav-services"), page.OpScroll)
	other.ExpectAttribute("#nav-contact", "aria-current", "page")
}

func TestHeaderScrollAndSpy(t *testing.T) {
	h := sitetest.New(t, sitePage)

	h.Scroll(200)
	h.ExpectClass(".l-header", "is-scrolled", false)

	h.Advance(250 * time.Millisecond)
	h.Scroll(200)
	h.ExpectClass(".l-header", "is-scrolled", true)

	h.Intersect("services")
	h.ExpectClass("#nav-services", "active", true)
	h.ExpectClass("#nav-about", "active", false)

	h.Advance(250 * time.Millisecond)
	h.Resize(1280)
}

func TestImageFallback(t *testing.T) {
	h := sitetest.New(t, sitePage)

	h.ImageError("#team")
	h.ExpectAttribute("#team", "src", images.Placeholder)
	h.ExpectAttribute("#team", "data-fallback", "1")

	if cmds := h.ImageError("#team"); len(cmds) != 0 {
		t.Errorf("second fallback produced %+v", cmds)
	}
}

func TestPortfolio(t *testing.T) {
	h := sitetest.New(t, sitePage)

	h.Click("#f-web")
	h.ExpectClass("#f-web", "is-active", true)
	h.ExpectClass("#f-all", "is-active", false)
	if got := dom.Style(h.Node("#p-brand"), "display"); got != "none" {
		t.Errorf("branding project display = %q", got)
	}

	h.Click("#p-web-link")
	h.ExpectText("#projectModalLabel", "TechVision Platform")
	h.ExpectText("#projectModalBody p", "Digital transformation project")
	if !h.Page.Modal().IsOpen() {
		t.Error("modal not open")
	}

	h.Click("#modal-close")
	if h.Page.Modal().IsOpen() {
		t.Error("modal still open")
	}
}

func TestDispatchErrors(t *testing.T) {
	h := sitetest.New(t, sitePage)

	_, err := h.Page.Dispatch(context.Background(), page.Event{Type: "hover"})
	if !errors.HasCode(err, "E302") {
		t.Errorf("unknown event error = %v", err)
	}

	if cmds := h.Dispatch(page.Event{Type: page.EventClick, HID: "h9999"}); len(cmds) != 0 {
		t.Errorf("click on unknown hid = %+v", cmds)
	}

	h.Submit("#contact")
	if h.Page.PendingTimers() == 0 {
		t.Fatal("expected pending toast timer")
	}
	h.Page.Close()
	if h.Page.PendingTimers() != 0 {
		t.Errorf("PendingTimers() after Close = %d", h.Page.PendingTimers())
	}
	h.Advance(10 * time.Second)
	if pushed := h.Pushed(); len(pushed) != 0 {
		t.Errorf("closed page pushed %+v", pushed)
	}
	h.ExpectText(".alert-danger", "Please correct the errors in the form")

	_, err = h.Page.Dispatch(context.Background(), page.Event{Type: page.EventClick})
	if !errors.HasCode(err, "E402") {
		t.Errorf("dispatch after close error = %v", err)
	}
}

func TestSinkHoldsCommandsUntilAttached(t *testing.T) {
	clk := clock.NewManual(sitetest.Epoch)
	p, err := page.Load(strings.NewReader(sitePage), clk,
		page.WithSubmitDelays(submit.Delays{Network: 100 * time.Millisecond, Redirect: 50 * time.Millisecond}),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	newsletter := p.Document().ByID("newsletter")
	if _, err := p.Dispatch(context.Background(), page.Event{Type: page.EventSubmit, HID: dom.HID(newsletter)}); err != nil {
		t.Fatal(err)
	}
	clk.Advance(150 * time.Millisecond)

	var pushed []page.Command
	p.SetSink(func(cmds []page.Command) { pushed = append(pushed, cmds...) })
	if len(pushed) == 0 || pushed[0].Op != page.OpRender {
		t.Errorf("held commands = %+v, want render first", pushed)
	}
	sitetest.ExpectOp(t, pushed, page.OpNavigate)

	pushed = nil
	clk.Advance(6 * time.Second)
	sitetest.ExpectOp(t, pushed, page.OpRender)
}
