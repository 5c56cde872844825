package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// A4 page at 300 DPI.
const (
	pageWidth  = 2480
	pageHeight = 3508
	pageMargin = 50
	lineHeight = 30
)

// renderTextPage lays extracted text onto a blank page image so text-only
// documents can go through the same visual classifier as scans. Lines past
// the bottom margin are dropped.
func renderTextPage(text string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, pageWidth, pageHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
	}

	y := pageMargin + lineHeight
	for _, line := range strings.Split(text, "\n") {
		if y > pageHeight-pageMargin {
			break
		}
		drawer.Dot = fixed.P(pageMargin, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}
	return buf.Bytes(), nil
}
