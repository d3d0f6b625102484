// Package codec adapts the imaging library to the variant pipeline: it
// decodes source bytes, applies resize/crop/pad/watermark operations and
// re-encodes to the source's format.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	// Registers the WebP decoder with image.Decode; encoding WebP is not
	// supported, see Encode.
	_ "golang.org/x/image/webp"
)

// Decode parses encoded image bytes into a pixel buffer, honouring the
// EXIF orientation tag.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Resize scales the image to exactly w×h using Lanczos resampling.
func Resize(img image.Image, w, h int) image.Image {
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Crop cuts a w×h region starting at (left, top).
func Crop(img image.Image, left, top, w, h int) image.Image {
	return imaging.Crop(img, image.Rect(left, top, left+w, top+h))
}

// ContainWithPad fits the image inside a w×h canvas preserving aspect
// ratio and fills the remaining area with the given color.
func ContainWithPad(img image.Image, w, h int, fill color.Color) image.Image {
	fitted := imaging.Fit(img, w, h, imaging.Lanczos)
	canvas := imaging.New(w, h, fill)
	return imaging.PasteCenter(canvas, fitted)
}

// Watermark draws the text in the bottom-right corner of the image.
func Watermark(img image.Image, text string) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetColor(color.White)

	margin := 10.0
	x := float64(dc.Width()) - margin
	y := float64(dc.Height()) - margin

	dc.DrawStringAnchored(text, x, y, 1, 1) // bottom-right corner
	return dc.Image()
}

// Encode serialises the image back to the given format tag. WebP sources
// are re-encoded as PNG since no lossless WebP encoder is available.
func Encode(img image.Image, typ string) ([]byte, error) {
	format, err := formatFor(typ)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, format); err != nil {
		return nil, fmt.Errorf("encode %s: %w", typ, err)
	}
	return buf.Bytes(), nil
}

func formatFor(typ string) (imaging.Format, error) {
	switch typ {
	case "jpg", "jpeg":
		return imaging.JPEG, nil
	case "png", "webp":
		return imaging.PNG, nil
	case "gif":
		return imaging.GIF, nil
	case "tif", "tiff":
		return imaging.TIFF, nil
	case "bmp":
		return imaging.BMP, nil
	default:
		return 0, fmt.Errorf("unsupported image format %q", typ)
	}
}
