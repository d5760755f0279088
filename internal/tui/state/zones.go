package state

// Zone is the screen area of one control in the last rendered frame.
// Zones are single-row spans.
type Zone struct {
	Control Control
	X, Y    int
	Width   int
}

// Zones is the click map of a frame, in paint order.
type Zones []Zone

// At returns the control under the cell (x, y). Later zones are painted on
// top of earlier ones and win.
func (z Zones) At(x, y int) (Control, bool) {
	for i := len(z) - 1; i >= 0; i-- {
		zone := z[i]
		if y == zone.Y && x >= zone.X && x < zone.X+zone.Width {
			return zone.Control, true
		}
	}
	return Control{}, false
}
