package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// HeaderColor is the native header background.
var HeaderColor = vaxis.HexColor(0x4CAF50)

// Header is the one-row native title bar drawn above a screen.
//
//	‹ Daily Trend                                  updated 3s ago
type Header struct {
	Title     string
	CanGoBack bool
	Status    string // right-aligned, e.g. freshness or a transient message
}

// Draw renders the header across the full width.
func (h *Header) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, h)
	base := vaxis.Style{Foreground: vaxis.IndexColor(15), Background: HeaderColor}
	for col := uint16(0); col < ctx.Max.Width; col++ {
		s.WriteCell(col, 0, vaxis.Cell{Character: vaxis.Character{Grapheme: " ", Width: 1}, Style: base})
	}

	back := "  "
	if h.CanGoBack {
		back = " ‹"
	}
	writeText(&s, 0, 0, int(ctx.Max.Width), back, base, false)

	bold := base
	bold.Attribute |= vaxis.AttrBold
	writeText(&s, 3, 0, int(ctx.Max.Width)-3, h.Title, bold, false)

	if h.Status != "" {
		w := displayWidth(h.Status) + 1
		start := int(ctx.Max.Width) - w
		if start > displayWidth(h.Title)+4 {
			writeText(&s, uint16(start), 0, w, h.Status, base, false)
		}
	}

	return s, nil
}
