package widgets

import (
	"fmt"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// BarGauge is a horizontal bar showing Value relative to Max.
//
//	Mine A     [████████░░░░░░░░░░░░]  42.5%  12,345
type BarGauge struct {
	Label      string
	LabelWidth int     // label column width; 0 means len(Label)+1
	Value      float64 // raw value
	Max        float64 // value that fills the bar; 0 means Value is already a percentage
	Suffix     string  // text after the percentage, e.g. a formatted total
	BarWidth   int     // character width of the [████░░░░] portion (excluding brackets)
}

const (
	barFilled = '█' // U+2588
	barEmpty  = '░' // U+2591
)

// Percent returns Value as a 0-100 share of Max.
func (bg *BarGauge) Percent() float64 {
	v := bg.Value
	if bg.Max > 0 {
		v = bg.Value / bg.Max * 100
	}
	return max(0, min(v, 100))
}

// barColor returns the color for a bar filled to pct. Large shares of the
// total are highlighted rather than warned about.
func barColor(pct float64) vaxis.Color {
	switch {
	case pct >= 85:
		return vaxis.HexColor(0x4CAF50)
	case pct >= 40:
		return vaxis.IndexColor(2) // green
	default:
		return vaxis.IndexColor(6) // cyan
	}
}

// Draw renders the bar gauge as a single row.
func (bg *BarGauge) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, bg)

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

	labelWidth := bg.LabelWidth
	if labelWidth == 0 {
		labelWidth = displayWidth(bg.Label) + 1
	}
	writeText(&s, 0, 0, labelWidth, bg.Label, vaxis.Style{Attribute: vaxis.AttrBold}, false)
	col = uint16(labelWidth)

	put("[", vaxis.Style{})

	pct := bg.Percent()
	filled := int(pct / 100 * float64(bg.BarWidth))
	color := barColor(pct)
	for i := 0; i < bg.BarWidth; i++ {
		if i < filled {
			put(string(barFilled), vaxis.Style{Foreground: color})
		} else {
			put(string(barEmpty), vaxis.Style{Foreground: vaxis.IndexColor(8)})
		}
	}

	put(fmt.Sprintf("] %5.1f%%", pct), vaxis.Style{})

	if bg.Suffix != "" {
		put("  "+bg.Suffix, vaxis.Style{Attribute: vaxis.AttrDim})
	}

	return s, nil
}
