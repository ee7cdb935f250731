package widgets

import (
	"math"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Block characters for sparkline rendering (8 levels).
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a labelled 1-row graph of a series using block
// characters. When the series is wider than the space left after the label,
// only the most recent values are shown.
type Sparkline struct {
	Label      string
	LabelWidth int // label column width; 0 means len(Label)+1
	Values     []float64
	Suffix     string // dim text after the graph, e.g. the latest value
}

// Levels maps vals onto the 0-7 block scale. A flat non-zero series sits in
// the middle; a flat zero series is all floor.
func Levels(vals []float64) []int {
	out := make([]int, len(vals))
	if len(vals) == 0 {
		return out
	}
	minV, maxV := vals[0], vals[0]
	for _, v := range vals[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	for i, v := range vals {
		switch {
		case maxV > minV:
			out[i] = min(int(math.Round((v-minV)/(maxV-minV)*7)), 7)
		case maxV > 0:
			out[i] = 4
		}
	}
	return out
}

// Draw renders the sparkline as a single row.
func (sl *Sparkline) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, sl)

	col := 0
	labelWidth := sl.LabelWidth
	if labelWidth == 0 && sl.Label != "" {
		labelWidth = displayWidth(sl.Label) + 1
	}
	if labelWidth > 0 {
		writeText(&s, 0, 0, labelWidth, sl.Label, vaxis.Style{Attribute: vaxis.AttrBold}, false)
		col = labelWidth
	}

	suffix := ""
	if sl.Suffix != "" {
		suffix = " " + sl.Suffix
	}
	width := int(ctx.Max.Width) - col - displayWidth(suffix)
	vals := sl.Values
	if width <= 0 || len(vals) == 0 {
		return s, nil
	}
	if len(vals) > width {
		vals = vals[len(vals)-width:]
	}

	for i, level := range Levels(vals) {
		for _, c := range ctx.Characters(string(sparkBlocks[level])) {
			s.WriteCell(uint16(col+i), 0, vaxis.Cell{
				Character: c,
				Style:     vaxis.Style{Foreground: vaxis.IndexColor(6)}, // cyan
			})
		}
	}
	col += len(vals)

	if suffix != "" {
		writeText(&s, uint16(col), 0, int(ctx.Max.Width)-col, suffix, vaxis.Style{Attribute: vaxis.AttrDim}, false)
	}

	return s, nil
}
