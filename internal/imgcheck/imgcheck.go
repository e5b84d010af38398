// Package imgcheck decides whether an uploaded payload really is the image
// format its declared MIME type claims, by inspecting magic bytes only.
package imgcheck

import (
	"bytes"

	"github.com/gabriel-vasile/mimetype"

	"github.com/xxxsen/imgvault/internal/model"
)

const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMEGIF  = "image/gif"
	MIMEWEBP = "image/webp"
)

type format int

const (
	formatUnknown format = iota
	formatPNG
	formatJPEG
	formatGIF
	formatWEBP
)

var (
	pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpegHead     = []byte{0xFF, 0xD8}
	jpegTail     = []byte{0xFF, 0xD9}
	gifPrefix    = []byte("GIF8")
	riffTag      = []byte("RIFF")
	webpTag      = []byte("WEBP")
)

func formatOf(declared string) format {
	switch declared {
	case MIMEPNG:
		return formatPNG
	case MIMEJPEG:
		return formatJPEG
	case MIMEGIF:
		return formatGIF
	case MIMEWEBP:
		return formatWEBP
	default:
		return formatUnknown
	}
}

// IsSupported reports whether declared is one of the accepted MIME strings.
// The comparison is exact: parameters or different casing are rejected.
func IsSupported(declared string) bool {
	return formatOf(declared) != formatUnknown
}

// Classify reports whether data carries the signature of the declared format.
func Classify(data []byte, declared string) bool {
	switch formatOf(declared) {
	case formatPNG:
		return bytes.HasPrefix(data, pngSignature)
	case formatJPEG:
		return bytes.HasPrefix(data, jpegHead) && bytes.HasSuffix(data, jpegTail)
	case formatGIF:
		return len(data) >= 6 &&
			bytes.HasPrefix(data, gifPrefix) &&
			(data[4] == '7' || data[4] == '9') &&
			data[5] == 'a'
	case formatWEBP:
		return len(data) >= 12 &&
			bytes.Equal(data[0:4], riffTag) &&
			bytes.Equal(data[8:12], webpTag)
	default:
		return false
	}
}

// MediaTypeFor derives the stored media type from the declared MIME string.
func MediaTypeFor(declared string) model.MediaType {
	if formatOf(declared) == formatGIF {
		return model.MediaTypeGIF
	}
	return model.MediaTypeImage
}

func Extension(declared string) string {
	switch formatOf(declared) {
	case formatPNG:
		return "png"
	case formatJPEG:
		return "jpg"
	case formatGIF:
		return "gif"
	case formatWEBP:
		return "webp"
	default:
		return "bin"
	}
}

// Detect names the format the payload looks like. Diagnostics only.
func Detect(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return mimetype.Detect(data).String()
}
