package fielderror

import (
	"testing"

	"github.com/vango-dev/sitekit/pkg/dom"
)

func fixture(t *testing.T) *dom.Document {
	t.Helper()
	return dom.MustParse(`<html><body><form>
<div class="mb-3"><label for="email">Email</label>
<input id="email" type="email">
<small class="form-text">We never share it.</small></div>
</form></body></html>`)
}

func TestShowCreatesSingleSibling(t *testing.T) {
	d := fixture(t)
	field := d.ByID("email")

	Show(field, "first")
	Show(field, "second")

	if !IsInvalid(field) {
		t.Error("field not marked invalid")
	}
	if n := len(d.QueryAll("." + FeedbackClass)); n != 1 {
		t.Fatalf("feedback nodes = %d, want 1", n)
	}
	fb := Feedback(field)
	if dom.NextSignificant(field) != fb {
		t.Error("feedback is not directly after the field")
	}
	if got := Message(field); got != "second" {
		t.Errorf("Message = %q, want %q", got, "second")
	}
	if dom.Style(fb, "display") != "block" {
		t.Errorf("display = %q", dom.Style(fb, "display"))
	}
}

func TestClearHidesButKeepsNode(t *testing.T) {
	d := fixture(t)
	field := d.ByID("email")

	Show(field, "bad")
	fb := Feedback(field)
	Clear(field)

	if IsInvalid(field) {
		t.Error("field still invalid after Clear")
	}
	if Feedback(field) != fb {
		t.Fatal("feedback node was replaced or removed")
	}
	if dom.Style(fb, "display") != "none" {
		t.Errorf("display = %q, want none", dom.Style(fb, "display"))
	}
	if Message(field) != "" {
		t.Errorf("Message = %q after Clear", Message(field))
	}

	Show(field, "again")
	if n := len(d.QueryAll("." + FeedbackClass)); n != 1 {
		t.Errorf("feedback nodes = %d after re-show", n)
	}
}

func TestClearWithoutFeedback(t *testing.T) {
	d := fixture(t)
	field := d.ByID("email")

	Clear(field)
	if Feedback(field) != nil {
		t.Error("Clear should not create a feedback node")
	}
}

func TestDetachedFieldIgnored(t *testing.T) {
	field := dom.NewElement("input", "type", "text")
	Show(field, "x")
	if IsInvalid(field) {
		t.Error("detached field should be left untouched")
	}
	Show(nil, "x")
	Clear(nil)
}
