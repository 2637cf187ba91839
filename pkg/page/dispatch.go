package page

import (
	"context"
	"fmt"

	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/dom"
	"github.com/vango-dev/sitekit/pkg/images"
	"github.com/vango-dev/sitekit/pkg/submit"
)

func (p *Page) handle(ctx context.Context, ev Event) error {
	target := p.doc.ByHID(ev.HID)

	switch ev.Type {
	case EventClick:
		p.click(target, ev)
	case EventKeydown:
		if p.menu.HandleKey(ev.Key) {
			p.Focus(p.menu.Burger())
		}
	case EventResize:
		p.menu.HandleResize(ev.Width)
	case EventScroll:
		p.header.HandleScroll(ev.PageY)
	case EventIntersect:
		p.spy.Visible(ev.Section)
	case EventInput, EventChange:
		if isField(target) {
			p.forms.Input(target, ev.Value, ev.Checked)
		}
	case EventBlur:
		if isField(target) {
			p.forms.Blur(target)
		}
	case EventSubmit:
		form := dom.Closest(target, "form")
		if form == nil {
			p.logger.Debug("submit without form", "hid", ev.HID)
			return nil
		}
		outcome := p.forms.Submit(ctx, form)
		p.logger.Debug("form submitted", "hid", ev.HID, "outcome", outcome)
	case EventImageError:
		if images.Fallback(target) {
			p.logger.Debug("image fallback", "hid", ev.HID)
		}
	default:
		return errors.New("E302").WithDetail(fmt.Sprintf("event type %q is not supported", ev.Type))
	}
	return nil
}

func (p *Page) click(target *html.Node, ev Event) {
	if target == nil {
		return
	}
	if p.toasts.HandleClick(target) {
		return
	}

	p.menu.HandleClick(target)

	path := ev.Path
	if path == "" {
		path = p.path
	}
	if req, ok := p.scroller.Resolve(target, path, ev.HeaderHeight); ok {
		p.outbox = append(p.outbox, Command{Op: OpScroll, Target: req.ID, Offset: req.Offset})
	}

	if p.filter.HandleClick(target) {
		return
	}
	p.modal.HandleClick(target)
}

func isField(n *html.Node) bool {
	return n != nil && dom.Matches(n, submit.FieldSelector)
}
