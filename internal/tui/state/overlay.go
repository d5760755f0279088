package state

// Overlay is a transient panel that is either open or closed. An overlay can
// own child overlays: closing the parent closes every child, while opening
// or closing a child never touches the parent.
type Overlay struct {
	name     string
	open     bool
	children []*Overlay
}

// NewOverlay creates a closed overlay.
func NewOverlay(name string) *Overlay {
	return &Overlay{name: name}
}

// Name returns the overlay name used in logs.
func (o *Overlay) Name() string {
	return o.name
}

// Adopt makes children owned by o.
func (o *Overlay) Adopt(children ...*Overlay) {
	o.children = append(o.children, children...)
}

// Open opens the overlay.
func (o *Overlay) Open() {
	o.open = true
}

// Close closes the overlay and, recursively, all of its children.
func (o *Overlay) Close() {
	o.open = false
	for _, c := range o.children {
		c.Close()
	}
}

// Toggle flips the overlay. Toggling closed cascades like Close.
func (o *Overlay) Toggle() {
	if o.open {
		o.Close()
		return
	}
	o.Open()
}

// IsOpen reports whether the overlay is open.
func (o *Overlay) IsOpen() bool {
	return o.open
}

// Innermost returns the deepest open overlay in o's subtree, or nil when o
// is closed.
func (o *Overlay) Innermost() *Overlay {
	if !o.open {
		return nil
	}
	for _, c := range o.children {
		if inner := c.Innermost(); inner != nil {
			return inner
		}
	}
	return o
}
