package views

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
)

// drawLoadingState renders a "Loading..." message in the view.
func drawLoadingState(ctx vxfw.DrawContext, owner vxfw.Widget) (vxfw.Surface, error) {
	return drawLines(ctx, owner, [][]vaxis.Segment{
		{{Text: "Loading...", Style: vaxis.Style{Attribute: vaxis.AttrDim}}},
	})
}

// drawErrorState renders the error overlay with a retry prompt.
func drawErrorState(ctx vxfw.DrawContext, owner vxfw.Widget, msg string) (vxfw.Surface, error) {
	return drawLines(ctx, owner, [][]vaxis.Segment{
		{{Text: "Error", Style: vaxis.Style{Foreground: vaxis.IndexColor(1), Attribute: vaxis.AttrBold}}},
		{{Text: msg}},
		nil,
		{
			{Text: "Press ", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
			{Text: "r", Style: vaxis.Style{Attribute: vaxis.AttrBold}},
			{Text: " to retry", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
		},
	})
}

func drawLines(ctx vxfw.DrawContext, owner vxfw.Widget, lines [][]vaxis.Segment) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, owner)
	for row, segs := range lines {
		if row >= int(ctx.Max.Height) {
			break
		}
		if len(segs) == 0 {
			continue
		}
		surf, err := richtext.New(segs).Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, surf)
	}
	return s, nil
}
