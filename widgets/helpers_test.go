package widgets_test

import (
	"strings"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

func testDrawContext(w, h uint16) vxfw.DrawContext {
	return vxfw.DrawContext{
		Max: vxfw.Size{Width: w, Height: h},
		Min: vxfw.Size{},
		Characters: func(s string) []vaxis.Character {
			chars := make([]vaxis.Character, 0, len(s))
			for _, r := range s {
				chars = append(chars, vaxis.Character{Grapheme: string(r), Width: 1})
			}
			return chars
		},
	}
}

func cellText(s vaxis.Cell) string {
	return s.Character.Grapheme
}

// rowText returns row r of surf as a string, with unwritten cells as spaces.
func rowText(surf vxfw.Surface, r int) string {
	w := int(surf.Size.Width)
	var b strings.Builder
	for _, c := range surf.Buffer[r*w : (r+1)*w] {
		if c.Character.Grapheme == "" {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(c.Character.Grapheme)
	}
	return b.String()
}
