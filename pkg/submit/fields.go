package submit

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/dom"
)

const (
	// FieldSelector selects the validated controls of a form.
	FieldSelector = "input, textarea, select"

	// SubmitSelector selects a form's submit button.
	SubmitSelector = `button[type="submit"]`
)

// Fields returns the validated controls of form in document order.
func Fields(form *html.Node) []*html.Node {
	return dom.QueryAll(form, FieldSelector)
}

// fieldDefault is the state of a control when its form was registered.
type fieldDefault struct {
	value    string
	hasValue bool
	checked  bool
	selected []*html.Node
}

func captureDefault(n *html.Node) fieldDefault {
	switch n.Data {
	case "textarea":
		return fieldDefault{value: dom.Text(n), hasValue: true}
	case "select":
		var selected []*html.Node
		for _, o := range dom.QueryAll(n, "option") {
			if dom.HasAttr(o, "selected") {
				selected = append(selected, o)
			}
		}
		return fieldDefault{selected: selected}
	default:
		v, ok := dom.Attr(n, "value")
		return fieldDefault{value: v, hasValue: ok, checked: dom.HasAttr(n, "checked")}
	}
}

func (d fieldDefault) restore(n *html.Node) {
	switch n.Data {
	case "textarea":
		dom.SetText(n, d.value)
	case "select":
		for _, o := range dom.QueryAll(n, "option") {
			dom.SetBoolAttr(o, "selected", containsNode(d.selected, o))
		}
	default:
		if d.hasValue {
			dom.SetAttr(n, "value", d.value)
		} else {
			dom.RemoveAttr(n, "value")
		}
		dom.SetBoolAttr(n, "checked", d.checked)
	}
}

func containsNode(list []*html.Node, n *html.Node) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}

// SetValue records user input on a control: the value attribute for
// inputs (checked for checkboxes and radios), the text of a textarea, or
// the selected option of a select.
func SetValue(field *html.Node, value string, checked bool) {
	switch field.Data {
	case "textarea":
		dom.SetText(field, value)
	case "select":
		for _, o := range dom.QueryAll(field, "option") {
			ov, ok := dom.Attr(o, "value")
			if !ok {
				ov = dom.Text(o)
			}
			dom.SetBoolAttr(o, "selected", ov == value)
		}
	default:
		switch dom.GetAttr(field, "type") {
		case "checkbox":
			dom.SetBoolAttr(field, "checked", checked)
		case "radio":
			if checked {
				uncheckGroup(field)
			}
			dom.SetBoolAttr(field, "checked", checked)
		default:
			dom.SetAttr(field, "value", value)
		}
	}
}

// uncheckGroup clears the other radios with the same name in the form.
func uncheckGroup(radio *html.Node) {
	name := dom.GetAttr(radio, "name")
	form := dom.Closest(radio, "form")
	if name == "" || form == nil {
		return
	}
	for _, r := range dom.QueryAll(form, `input[type="radio"]`) {
		if r != radio && dom.GetAttr(r, "name") == name {
			dom.RemoveAttr(r, "checked")
		}
	}
}
