package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewElement creates a detached element with the given tag and attributes.
// Attributes are given as key/value pairs.
func NewElement(tag string, kv ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		SetAttr(n, kv[i], kv[i+1])
	}
	return n
}

// NewText creates a detached text node.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// IsElement reports whether n is an element with the given tag.
// An empty tag matches any element.
func IsElement(n *html.Node, tag string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return tag == "" || n.Data == tag
}

// ----------------------------------------------------------------------------
// Attributes
// ----------------------------------------------------------------------------

// Attr returns the value of attribute key and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// GetAttr returns the value of attribute key, or "" if absent.
func GetAttr(n *html.Node, key string) string {
	v, _ := Attr(n, key)
	return v
}

// HasAttr reports whether attribute key is present.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// SetAttr sets attribute key to val, adding it if absent.
func SetAttr(n *html.Node, key, val string) {
	if n == nil {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr removes attribute key if present.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

// SetBoolAttr adds or removes a boolean attribute such as disabled.
func SetBoolAttr(n *html.Node, key string, on bool) {
	if on {
		SetAttr(n, key, "")
	} else {
		RemoveAttr(n, key)
	}
}

// Data returns the value of the data-<name> attribute.
func Data(n *html.Node, name string) string {
	return GetAttr(n, "data-"+name)
}

// ----------------------------------------------------------------------------
// Class list
// ----------------------------------------------------------------------------

// Classes returns the element's class list.
func Classes(n *html.Node) []string {
	return strings.Fields(GetAttr(n, "class"))
}

// HasClass reports whether the element has class cls.
func HasClass(n *html.Node, cls string) bool {
	for _, c := range Classes(n) {
		if c == cls {
			return true
		}
	}
	return false
}

// AddClass adds each class not already present.
func AddClass(n *html.Node, classes ...string) {
	if n == nil {
		return
	}
	current := Classes(n)
	changed := false
	for _, cls := range classes {
		if cls == "" || containsString(current, cls) {
			continue
		}
		current = append(current, cls)
		changed = true
	}
	if changed {
		SetAttr(n, "class", strings.Join(current, " "))
	}
}

// RemoveClass removes each given class.
func RemoveClass(n *html.Node, classes ...string) {
	if n == nil || !HasAttr(n, "class") {
		return
	}
	current := Classes(n)
	kept := current[:0]
	for _, c := range current {
		if !containsString(classes, c) {
			kept = append(kept, c)
		}
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// ToggleClass adds cls when on is true and removes it otherwise.
func ToggleClass(n *html.Node, cls string, on bool) {
	if on {
		AddClass(n, cls)
	} else {
		RemoveClass(n, cls)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ----------------------------------------------------------------------------
// Inline style
// ----------------------------------------------------------------------------

type styleDecl struct {
	prop, value string
}

func parseStyle(s string) []styleDecl {
	var decls []styleDecl
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(strings.ToLower(prop))
		if prop == "" {
			continue
		}
		decls = append(decls, styleDecl{prop: prop, value: strings.TrimSpace(value)})
	}
	return decls
}

// Style returns the inline style value for prop, or "".
func Style(n *html.Node, prop string) string {
	prop = strings.ToLower(prop)
	for _, d := range parseStyle(GetAttr(n, "style")) {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

// SetStyle sets inline style prop to value. An empty value removes the
// property, and the style attribute is dropped once it has no properties.
func SetStyle(n *html.Node, prop, value string) {
	if n == nil {
		return
	}
	prop = strings.ToLower(prop)
	decls := parseStyle(GetAttr(n, "style"))
	out := decls[:0]
	replaced := false
	for _, d := range decls {
		if d.prop == prop {
			replaced = true
			if value == "" {
				continue
			}
			d.value = value
		}
		out = append(out, d)
	}
	if !replaced && value != "" {
		out = append(out, styleDecl{prop: prop, value: value})
	}
	if len(out) == 0 {
		RemoveAttr(n, "style")
		return
	}
	parts := make([]string, len(out))
	for i, d := range out {
		parts[i] = d.prop + ": " + d.value
	}
	SetAttr(n, "style", strings.Join(parts, "; "))
}

// ----------------------------------------------------------------------------
// Text and tree
// ----------------------------------------------------------------------------

// Text returns the concatenated text content of n and its descendants.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(Text(c))
	}
	return b.String()
}

// SetText replaces all children of n with a single text node.
func SetText(n *html.Node, text string) {
	if n == nil {
		return
	}
	RemoveChildren(n)
	if text != "" {
		n.AppendChild(NewText(text))
	}
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	TakeChildren(n)
}

// TakeChildren detaches and returns the children of n.
func TakeChildren(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		out = append(out, c)
		c = next
	}
	return out
}

// AppendChildren appends detached nodes to n in order.
func AppendChildren(n *html.Node, children []*html.Node) {
	for _, c := range children {
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		n.AppendChild(c)
	}
}

// InsertAfter inserts the detached node n directly after ref.
// It does nothing when ref has no parent.
func InsertAfter(ref, n *html.Node) {
	if ref == nil || ref.Parent == nil {
		return
	}
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// Detach removes n from its parent. It is a no-op for detached nodes.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Attached reports whether n is still connected to a document node.
func Attached(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.DocumentNode {
			return true
		}
	}
	return false
}

// Contains reports whether n is ancestor itself or one of its descendants.
func Contains(ancestor, n *html.Node) bool {
	if ancestor == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// NextSignificant returns the sibling after n, skipping comments and
// whitespace-only text nodes.
func NextSignificant(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		switch s.Type {
		case html.CommentNode:
			continue
		case html.TextNode:
			if strings.TrimSpace(s.Data) == "" {
				continue
			}
		}
		return s
	}
	return nil
}
