package page

// Event types sent by the client.
const (
	EventClick      = "click"
	EventKeydown    = "keydown"
	EventResize     = "resize"
	EventScroll     = "scroll"
	EventIntersect  = "intersect"
	EventInput      = "input"
	EventChange     = "change"
	EventBlur       = "blur"
	EventSubmit     = "submit"
	EventImageError = "imgerror"
)

// Event is one DOM event forwarded by the client.
type Event struct {
	// Type is one of the Event* constants.
	Type string `json:"type"`

	// HID is the data-hid of the event target, if any.
	HID string `json:"hid,omitempty"`

	// Value and Checked carry the field state for input and change.
	Value   string `json:"value,omitempty"`
	Checked bool   `json:"checked,omitempty"`

	// Key is the key name for keydown.
	Key string `json:"key,omitempty"`

	// Width is the viewport width for resize.
	Width int `json:"width,omitempty"`

	// PageY is the vertical scroll position for scroll.
	PageY int `json:"pageY,omitempty"`

	// HeaderHeight is the rendered header height, sent with clicks.
	HeaderHeight int `json:"headerHeight,omitempty"`

	// Section is the id of the section that became visible for intersect.
	Section string `json:"section,omitempty"`

	// Path is the browser location path.
	Path string `json:"path,omitempty"`
}

// Op names a client command.
type Op string

const (
	OpRender   Op = "render"
	OpFocus    Op = "focus"
	OpScroll   Op = "scroll"
	OpNavigate Op = "navigate"
)

// Command is one instruction for the client.
type Command struct {
	Op   Op     `json:"op"`
	HTML string `json:"html,omitempty"`

	// BodyClass is the class attribute of <body> for render; empty
	// clears it.
	BodyClass string `json:"bodyClass,omitempty"`

	HID    string `json:"hid,omitempty"`
	Target string `json:"target,omitempty"`
	Offset int    `json:"offset,omitempty"`
	URL    string `json:"url,omitempty"`
}
