package widgets

import (
	"strings"
	"unicode"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// TableColumn defines a column in a Table.
type TableColumn struct {
	Width      int         // fixed character width
	AlignRight bool        // right-align text within the column
	Style      vaxis.Style // applied to all cells in this column
}

// Table renders rows of text with fixed-width columns using WriteCell.
// Each row is a []string matching the Columns slice.
type Table struct {
	Caption string // optional bold line above the header
	Columns []TableColumn
	Rows    [][]string
	Header  []string // optional header row rendered with AttrDim
	Gap     int      // spaces between columns (default 1)
}

// NewAutoTable builds a Table whose column widths fit the content of header
// and rows. Columns whose cells all look numeric are right-aligned. When the
// natural width exceeds maxWidth the widest column is shrunk first.
func NewAutoTable(caption string, header []string, rows [][]string, maxWidth int) *Table {
	n := len(header)
	for _, r := range rows {
		n = max(n, len(r))
	}

	widths := make([]int, n)
	numeric := make([]bool, n)
	for i := range numeric {
		numeric[i] = len(rows) > 0
	}
	for i, h := range header {
		widths[i] = displayWidth(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			widths[i] = max(widths[i], displayWidth(cell))
			if cell != "" && !looksNumeric(cell) {
				numeric[i] = false
			}
		}
	}

	const gap = 2
	if maxWidth > 0 {
		for total(widths, gap) > maxWidth {
			widest := 0
			for i, w := range widths {
				if w > widths[widest] {
					widest = i
				}
			}
			if widths[widest] <= 4 {
				break
			}
			widths[widest]--
		}
	}

	cols := make([]TableColumn, n)
	for i := range cols {
		cols[i] = TableColumn{Width: widths[i], AlignRight: numeric[i]}
	}
	return &Table{
		Caption: caption,
		Columns: cols,
		Rows:    rows,
		Header:  header,
		Gap:     gap,
	}
}

func total(widths []int, gap int) int {
	sum := 0
	for i, w := range widths {
		if i > 0 {
			sum += gap
		}
		sum += w
	}
	return sum
}

func displayWidth(s string) int {
	w := 0
	for _, ch := range vaxis.Characters(s) {
		w += ch.Width
	}
	return w
}

// looksNumeric reports whether s reads as a quantity: digits with optional
// sign, separators, a decimal point and a short unit suffix ("1,234 t", "42%").
func looksNumeric(s string) bool {
	s = strings.TrimSpace(s)
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case strings.ContainsRune("+-.,% ", r):
		case unicode.IsLetter(r) && digits > 0:
		default:
			return false
		}
	}
	return digits > 0
}

// Height returns the number of rows Draw will use when unconstrained.
func (t *Table) Height() int {
	h := len(t.Rows)
	if t.Header != nil {
		h++
	}
	if t.Caption != "" {
		h++
	}
	return h
}

// writeText writes s into surf at (col, row) within maxWidth. If
// right-aligned, text is padded on the left.
func writeText(surf *vxfw.Surface, col, row uint16, maxWidth int, s string, style vaxis.Style, alignRight bool) {
	chars := vaxis.Characters(s)

	width := 0
	for _, ch := range chars {
		width += ch.Width
	}

	offset := 0
	if alignRight && width < maxWidth {
		offset = maxWidth - width
	}

	pos := offset
	for _, ch := range chars {
		if pos+ch.Width > maxWidth {
			break
		}
		if int(col)+pos+ch.Width > int(surf.Size.Width) {
			break
		}
		surf.WriteCell(col+uint16(pos), row, vaxis.Cell{
			Character: ch,
			Style:     style,
		})
		pos += ch.Width
	}
}

// Draw renders the caption and header (if set) and as many rows as fit.
func (t *Table) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	gap := t.Gap
	if gap == 0 {
		gap = 1
	}

	height := uint16(t.Height())
	if height > ctx.Max.Height {
		height = ctx.Max.Height
	}

	s := vxfw.NewSurface(ctx.Max.Width, height, t)
	row := uint16(0)

	if t.Caption != "" && row < height {
		writeText(&s, 0, row, int(ctx.Max.Width), t.Caption, vaxis.Style{Attribute: vaxis.AttrBold}, false)
		row++
	}

	writeRow := func(cells []string, header bool) {
		col := uint16(0)
		for i, c := range t.Columns {
			if int(col) >= int(ctx.Max.Width) {
				break
			}
			text := ""
			if i < len(cells) {
				text = cells[i]
			}
			style := c.Style
			if header {
				style = vaxis.Style{Attribute: vaxis.AttrDim}
			}
			writeText(&s, col, row, c.Width, text, style, c.AlignRight)
			col += uint16(c.Width + gap)
		}
		row++
	}

	if t.Header != nil && row < height {
		writeRow(t.Header, true)
	}
	for _, cells := range t.Rows {
		if row >= height {
			break
		}
		writeRow(cells, false)
	}

	return s, nil
}
