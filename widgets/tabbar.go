package widgets

import (
	"strconv"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Badge marks the state of the screen behind a tab.
type Badge int

const (
	BadgeNone Badge = iota
	BadgeLoading
	BadgeError
)

// TabBar is a horizontal row of screen titles. Each tab is prefixed with the
// number key that selects it.
type TabBar struct {
	labels []string
	badges []Badge
	active int
}

// NewTabBar creates a TabBar with the given labels. Active defaults to 0.
func NewTabBar(labels []string) *TabBar {
	return &TabBar{
		labels: labels,
		badges: make([]Badge, len(labels)),
	}
}

// Len returns the number of tabs.
func (tb *TabBar) Len() int {
	return len(tb.labels)
}

// Active returns the currently active tab index.
func (tb *TabBar) Active() int {
	return tb.active
}

// SetActive sets the active tab index. Out-of-range values are ignored.
func (tb *TabBar) SetActive(i int) {
	if i >= 0 && i < len(tb.labels) {
		tb.active = i
	}
}

// Next advances to the next tab, wrapping around.
func (tb *TabBar) Next() {
	if len(tb.labels) == 0 {
		return
	}
	tb.active = (tb.active + 1) % len(tb.labels)
}

// Prev moves to the previous tab, wrapping around.
func (tb *TabBar) Prev() {
	if len(tb.labels) == 0 {
		return
	}
	tb.active = (tb.active - 1 + len(tb.labels)) % len(tb.labels)
}

// SetBadge sets the badge shown next to tab i.
func (tb *TabBar) SetBadge(i int, b Badge) {
	if i >= 0 && i < len(tb.badges) {
		tb.badges[i] = b
	}
}

// BadgeAt returns the badge of tab i.
func (tb *TabBar) BadgeAt(i int) Badge {
	if i < 0 || i >= len(tb.badges) {
		return BadgeNone
	}
	return tb.badges[i]
}

// Draw renders the tab bar as a single row: " 1 Login | 2 Dashboard • "
// Active tab is rendered with reverse video.
func (tb *TabBar) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, tb)

	col := uint16(0)
	put := func(text string, style vaxis.Style) {
		for _, ch := range ctx.Characters(text) {
			if col+uint16(ch.Width) > ctx.Max.Width {
				return
			}
			s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
			col += uint16(ch.Width)
		}
	}

	for i, label := range tb.labels {
		if i > 0 {
			put(" | ", vaxis.Style{})
		}

		style := vaxis.Style{}
		if i == tb.active {
			style.Attribute |= vaxis.AttrReverse
		}
		text := " " + label + " "
		if i < 9 {
			text = " " + strconv.Itoa(i+1) + " " + label + " "
		}
		put(text, style)

		switch tb.badges[i] {
		case BadgeLoading:
			put("…", vaxis.Style{Attribute: vaxis.AttrDim})
		case BadgeError:
			put("!", vaxis.Style{Foreground: vaxis.IndexColor(1), Attribute: vaxis.AttrBold})
		}
	}

	return s, nil
}
