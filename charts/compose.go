package charts

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// titleScale enlarges the bitmap font so the title reads at chart size.
const titleScale = 2

// composeSideBySide lays panels out left to right below a white band of
// height band with title centred in it.
func composeSideBySide(title string, band int, panels ...image.Image) *image.RGBA {
	width, height := 0, 0
	for _, p := range panels {
		b := p.Bounds()
		width += b.Dx()
		if b.Dy() > height {
			height = b.Dy()
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, band+height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	x := 0
	for _, p := range panels {
		b := p.Bounds()
		draw.Draw(canvas, image.Rect(x, band, x+b.Dx(), band+b.Dy()), p, b.Min, draw.Over)
		x += b.Dx()
	}

	drawTitle(canvas, title, band)
	return canvas
}

func drawTitle(dst *image.RGBA, title string, band int) {
	face := basicfont.Face7x13
	d := &font.Drawer{Src: image.NewUniform(color.Black), Face: face}
	textW := d.MeasureString(title).Ceil()
	textH := face.Metrics().Height.Ceil()
	if textW == 0 {
		return
	}

	small := image.NewRGBA(image.Rect(0, 0, textW, textH))
	d.Dst = small
	d.Dot = fixed.P(0, face.Metrics().Ascent.Ceil())
	d.DrawString(title)

	w, h := textW*titleScale, textH*titleScale
	x0 := (dst.Bounds().Dx() - w) / 2
	y0 := (band - h) / 2
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	xdraw.NearestNeighbor.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), small, small.Bounds(), xdraw.Over, nil)
}
