package idcard

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Barcode rendering parameters. Fixed by the card design: Code 128 bars at
// module scale 2 with the payload printed centered beneath.
const (
	barModuleScale = 2
	barHeight      = 10
	textStripPx    = 16
)

// EncodeBarcode renders payload as a Code 128 raster (PNG bytes) with the
// human-readable payload beneath the bars. Payload characters outside the
// symbology fail with ErrEncodingFailed; no card is emitted without its
// barcode.
func EncodeBarcode(payload string) ([]byte, error) {
	bc, err := code128.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	barsW := bc.Bounds().Dx() * barModuleScale
	barsH := barHeight * barModuleScale
	scaled, err := barcode.Scale(bc, barsW, barsH)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	out := image.NewRGBA(image.Rect(0, 0, barsW, barsH+textStripPx))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, barsW, barsH), scaled, image.Point{}, draw.Over)

	drawLabel(out, payload, barsW, barsH)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	return buf.Bytes(), nil
}

// drawLabel prints text centered in the strip beneath the bars.
func drawLabel(dst *image.RGBA, text string, width, top int) {
	face := basicfont.Face7x13
	textW := font.MeasureString(face, text).Ceil()
	x := (width - textW) / 2
	if x < 0 {
		x = 0
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, top+face.Ascent),
	}
	d.DrawString(text)
}
