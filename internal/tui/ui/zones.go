package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/hy4ri/todolist/internal/tui/components"
	"github.com/hy4ri/todolist/internal/tui/state"
)

// locate finds the hinted labels in a rendered block placed at (offX, offY)
// and returns their zones. Hints are matched in reading order, each search
// starting where the previous match ended, so repeated labels resolve to
// successive occurrences. Labels that were cut off by layout are skipped.
func locate(block string, hints []components.Hint, offX, offY int) state.Zones {
	lines := strings.Split(ansi.Strip(block), "\n")
	zones := make(state.Zones, 0, len(hints))

	line, col := 0, 0
	for _, h := range hints {
		if h.Label == "" {
			continue
		}
		for l := line; l < len(lines); l++ {
			start := 0
			if l == line {
				start = col
			}
			if start > len(lines[l]) {
				continue
			}
			idx := strings.Index(lines[l][start:], h.Label)
			if idx < 0 {
				continue
			}
			idx += start
			zones = append(zones, state.Zone{
				Control: h.Control,
				X:       offX + ansi.StringWidth(lines[l][:idx]),
				Y:       offY + l,
				Width:   ansi.StringWidth(h.Label),
			})
			line, col = l, idx+len(h.Label)
			break
		}
	}
	return zones
}
