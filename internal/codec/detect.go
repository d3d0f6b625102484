package codec

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// rasterTypes is the fixed set of format tags the pipeline accepts.
var rasterTypes = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"tif":  true,
	"tiff": true,
	"webp": true,
}

// DetectType derives the source's format tag, preferring content sniffing
// over the filename extension. It returns "" when neither yields a known
// raster format.
func DetectType(data []byte, filename string) string {
	if len(data) > 0 {
		mime := mimetype.Detect(data)
		if tag := normalize(mime.Extension()); rasterTypes[tag] {
			return tag
		}
	}

	if tag := normalize(filepath.Ext(filename)); rasterTypes[tag] {
		return tag
	}

	return ""
}

func normalize(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ContentType maps a format tag to the MIME type recorded on upload.
func ContentType(typ string) string {
	switch typ {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tif", "tiff":
		return "image/tiff"
	case "webp":
		// Re-encoded as PNG, see Encode.
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
