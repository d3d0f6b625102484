package codec

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func encodedImage(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()

	img := imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	data, err := Encode(img, formatTag(format))
	require.NoError(t, err)
	return data
}

func formatTag(f imaging.Format) string {
	switch f {
	case imaging.JPEG:
		return "jpg"
	case imaging.PNG:
		return "png"
	default:
		return ""
	}
}

func TestDetectTypeSniffsContent(t *testing.T) {
	require.Equal(t, "jpg", DetectType(encodedImage(t, 8, 8, imaging.JPEG), "whatever.bin"))
	require.Equal(t, "png", DetectType(encodedImage(t, 8, 8, imaging.PNG), ""))
}

func TestDetectTypeFallsBackToExtension(t *testing.T) {
	// Content that sniffs to nothing raster-like.
	require.Equal(t, "gif", DetectType([]byte("not an image"), "anim.GIF"))
	require.Equal(t, "png", DetectType(nil, "logo.png"))
}

func TestDetectTypeUnknown(t *testing.T) {
	require.Equal(t, "", DetectType([]byte("plain text"), "notes.txt"))
	require.Equal(t, "", DetectType(nil, "noextension"))
}

func TestDecodeRoundTrip(t *testing.T) {
	data := encodedImage(t, 24, 16, imaging.PNG)

	img, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 24, img.Bounds().Dx())
	require.Equal(t, 16, img.Bounds().Dy())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("garbage"))
	require.Error(t, err)
}

func TestResizeAndCrop(t *testing.T) {
	img := imaging.New(400, 300, color.White)

	resized := Resize(img, 200, 150)
	require.Equal(t, 200, resized.Bounds().Dx())
	require.Equal(t, 150, resized.Bounds().Dy())

	cropped := Crop(resized, 10, 20, 100, 50)
	require.Equal(t, 100, cropped.Bounds().Dx())
	require.Equal(t, 50, cropped.Bounds().Dy())
}

func TestContainWithPad(t *testing.T) {
	img := imaging.New(400, 200, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	padded := ContainWithPad(img, 300, 300, color.White)
	require.Equal(t, 300, padded.Bounds().Dx())
	require.Equal(t, 300, padded.Bounds().Dy())

	// The fitted image is centered, so the top rows are pad fill.
	nrgba, ok := padded.(*image.NRGBA)
	require.True(t, ok)
	r, g, b, _ := nrgba.At(150, 2).RGBA()
	require.Equal(t, uint32(0xffff), r)
	require.Equal(t, uint32(0xffff), g)
	require.Equal(t, uint32(0xffff), b)
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	_, err := Encode(imaging.New(4, 4, color.White), "svg")
	require.Error(t, err)
}

func TestWatermarkKeepsDimensions(t *testing.T) {
	img := imaging.New(120, 80, color.Black)

	marked := Watermark(img, "sample")
	require.Equal(t, 120, marked.Bounds().Dx())
	require.Equal(t, 80, marked.Bounds().Dy())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  color.Color
	}{
		{"white", color.White},
		{"black", color.Black},
		{"", color.White},
		{"#fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{"#ff0000", color.NRGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}},
		{"no-such-color", color.White},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ParseColor(tt.input), "input %q", tt.input)
	}
}
