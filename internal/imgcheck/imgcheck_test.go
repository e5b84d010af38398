package imgcheck

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/imgvault/internal/model"
)

var samples = map[string][]byte{
	MIMEPNG:  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D},
	MIMEJPEG: {0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0xFF, 0xD9},
	MIMEGIF:  []byte("GIF89a\x01\x00\x01\x00"),
	MIMEWEBP: []byte("RIFF\x24\x00\x00\x00WEBPVP8 "),
}

func TestClassify_DeclaredVersusActual(t *testing.T) {
	accepted := 0
	for actual, data := range samples {
		for declared := range samples {
			got := Classify(data, declared)
			if actual == declared {
				require.True(t, got, "declared=%s actual=%s", declared, actual)
				accepted++
				continue
			}
			require.False(t, got, "declared=%s actual=%s", declared, actual)
		}
	}
	require.Equal(t, 4, accepted)
}

func TestClassify_EmptyAndShortInput(t *testing.T) {
	for declared := range samples {
		require.False(t, Classify(nil, declared))
		require.False(t, Classify([]byte{}, declared))
		require.False(t, Classify([]byte{0x89}, declared))
		require.False(t, Classify([]byte("GIF8"), declared))
		require.False(t, Classify([]byte("RIFF1234WEB"), declared))
	}
}

func TestClassify_PNGTrailingBytesIgnored(t *testing.T) {
	data := append([]byte{}, samples[MIMEPNG]...)
	data = append(data, []byte("arbitrary trailing garbage")...)
	require.True(t, Classify(data, MIMEPNG))
}

func TestClassify_JPEGRequiresTrailer(t *testing.T) {
	require.False(t, Classify([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, MIMEJPEG))
	require.False(t, Classify([]byte{0xFF, 0xD8}, MIMEJPEG))
	require.False(t, Classify([]byte{0x00, 0xD8, 0xFF, 0xD9}, MIMEJPEG))
	require.True(t, Classify([]byte{0xFF, 0xD8, 0xFF, 0xD9}, MIMEJPEG))
}

func TestClassify_GIFVersions(t *testing.T) {
	require.True(t, Classify([]byte("GIF87a"), MIMEGIF))
	require.True(t, Classify([]byte("GIF89a"), MIMEGIF))
	require.False(t, Classify([]byte("GIF88a"), MIMEGIF))
	require.False(t, Classify([]byte("GIF89b"), MIMEGIF))
	require.False(t, Classify([]byte("GIF9"), MIMEGIF))
}

func TestClassify_WEBPChunkSizeUnchecked(t *testing.T) {
	require.True(t, Classify([]byte("RIFF\xFF\xFF\xFF\xFFWEBP"), MIMEWEBP))
	require.True(t, Classify([]byte("RIFF\x00\x00\x00\x00WEBP"), MIMEWEBP))
	require.False(t, Classify([]byte("RIFF\x00\x00\x00\x00WAVE"), MIMEWEBP))
	require.False(t, Classify([]byte("RIFX\x00\x00\x00\x00WEBP"), MIMEWEBP))
}

func TestClassify_UnknownDeclaredType(t *testing.T) {
	require.False(t, Classify(samples[MIMEPNG], "image/bmp"))
	require.False(t, Classify(samples[MIMEPNG], "IMAGE/PNG"))
	require.False(t, Classify(samples[MIMEPNG], ""))
}

func TestIsSupported(t *testing.T) {
	for declared := range samples {
		require.True(t, IsSupported(declared))
	}
	require.False(t, IsSupported("image/png; charset=binary"))
	require.False(t, IsSupported("image/svg+xml"))
	require.False(t, IsSupported("application/octet-stream"))
}

func TestMediaTypeFor(t *testing.T) {
	require.Equal(t, model.MediaTypeGIF, MediaTypeFor(MIMEGIF))
	require.Equal(t, model.MediaTypeImage, MediaTypeFor(MIMEPNG))
	require.Equal(t, model.MediaTypeImage, MediaTypeFor(MIMEJPEG))
	require.Equal(t, model.MediaTypeImage, MediaTypeFor(MIMEWEBP))
}

func TestDetect(t *testing.T) {
	require.Equal(t, "", Detect(nil))
	require.Equal(t, MIMEPNG, Detect(samples[MIMEPNG]))
}
