// Package validate checks a single form field against the site's rules.
//
// Validate is pure: it looks only at the Field it is given and returns a
// Result. Rules are applied in a fixed order and the first failing rule
// decides the message:
//
//  1. required and empty after trimming
//  2. email format
//  3. telephone format (required fields only)
//  4. name format, for fields whose id or name mentions "name"/"Name"
//  5. minimum message length for required text areas
//  6. required checkboxes must be checked
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/dom"
)

// Kind is the control type of a field, as reported by the browser's
// element.type property.
type Kind string

const (
	KindText           Kind = "text"
	KindEmail          Kind = "email"
	KindTel            Kind = "tel"
	KindCheckbox       Kind = "checkbox"
	KindRadio          Kind = "radio"
	KindTextarea       Kind = "textarea"
	KindSelectOne      Kind = "select-one"
	KindSelectMultiple Kind = "select-multiple"
	KindHidden         Kind = "hidden"
	KindSubmit         Kind = "submit"
)

// Messages shown for each failing rule.
const (
	MsgRequired      = "This field is required"
	MsgEmail         = "Please enter a valid email address"
	MsgPhone         = "Please enter a valid phone number"
	MsgName          = "Please enter a valid name"
	MsgMessageLength = "Message must be at least 10 characters"
	MsgConsent       = "You must accept this to continue"
)

// MinMessageLength is the minimum length of a required text area.
const MinMessageLength = 10

// space is the whitespace class of browser regular expressions. RE2's \s
// is ASCII only and misses the vertical tab and Unicode spaces like NBSP.
const space = `\s\x0B\p{Zs}\x{FEFF}\x{2028}\x{2029}`

var (
	emailPattern = regexp.MustCompile(`^[^` + space + `@]+@[^` + space + `@]+\.[^` + space + `@]+$`)
	phonePattern = regexp.MustCompile(`^[\d` + space + `+\-()]{10,20}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-ZÀ-ÿ` + space + `\-']{2,50}$`)
)

// Field is the validation view of one form control.
type Field struct {
	Kind     Kind   `json:"kind"`
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Value    string `json:"value"`
	Checked  bool   `json:"checked,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// Result is the verdict for one field at one instant.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Err returns nil for a valid result and a ValidationError otherwise.
func (r Result) Err(field string) error {
	if r.Valid {
		return nil
	}
	return ValidationError{Field: field, Message: r.Message}
}

func invalid(msg string) Result {
	return Result{Valid: false, Message: msg}
}

// Validate applies the field rules and returns the first failure, or a
// valid result with an empty message.
func Validate(f Field) Result {
	value := strings.TrimSpace(f.Value)

	if f.Required && value == "" {
		return invalid(MsgRequired)
	}

	if f.Kind == KindEmail && value != "" && !emailPattern.MatchString(value) {
		return invalid(MsgEmail)
	}

	if f.Kind == KindTel && value != "" && f.Required && !phonePattern.MatchString(value) {
		return invalid(MsgPhone)
	}

	if looksLikeName(f) && value != "" && !namePattern.MatchString(value) {
		return invalid(MsgName)
	}

	if f.Kind == KindTextarea && f.Required && utf8.RuneCountInString(value) < MinMessageLength {
		return invalid(MsgMessageLength)
	}

	if f.Kind == KindCheckbox && f.Required && !f.Checked {
		return invalid(MsgConsent)
	}

	return Result{Valid: true}
}

// looksLikeName matches the literal tokens "name" and "Name" only.
func looksLikeName(f Field) bool {
	for _, s := range []string{f.ID, f.Name} {
		if strings.Contains(s, "name") || strings.Contains(s, "Name") {
			return true
		}
	}
	return false
}

// FieldFromNode reads a Field from an input, textarea or select element.
//
// Inputs report their type attribute (default "text") and value attribute;
// checkboxes and radios default their value to "on" and report the checked
// attribute. Text areas report their text content. Selects report the value
// of the first selected option, or of the first option when none is marked.
func FieldFromNode(n *html.Node) Field {
	f := Field{
		ID:       dom.GetAttr(n, "id"),
		Name:     dom.GetAttr(n, "name"),
		Required: dom.HasAttr(n, "required"),
	}

	switch n.Data {
	case "textarea":
		f.Kind = KindTextarea
		f.Value = dom.Text(n)
	case "select":
		f.Kind = KindSelectOne
		if dom.HasAttr(n, "multiple") {
			f.Kind = KindSelectMultiple
		}
		f.Value = selectedValue(n)
	default:
		f.Kind = Kind(strings.ToLower(dom.GetAttr(n, "type")))
		if f.Kind == "" {
			f.Kind = KindText
		}
		f.Value = dom.GetAttr(n, "value")
		if f.Kind == KindCheckbox || f.Kind == KindRadio {
			if !dom.HasAttr(n, "value") {
				f.Value = "on"
			}
			f.Checked = dom.HasAttr(n, "checked")
		}
	}
	return f
}

func selectedValue(sel *html.Node) string {
	options := dom.QueryAll(sel, "option")
	if len(options) == 0 {
		return ""
	}
	chosen := options[0]
	for _, o := range options {
		if dom.HasAttr(o, "selected") {
			chosen = o
			break
		}
	}
	if v, ok := dom.Attr(chosen, "value"); ok {
		return v
	}
	return dom.Text(chosen)
}
