package validate

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_IsAllowedUpload(t *testing.T) {
	policy := NewPolicy(nil)

	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.png", true},
		{"photo.PNG", true},
		{"photo.JpEg", true},
		{"archive.tar.gif", true},
		{"logo.svg", true},
		{"image.webp", true},
		{"bitmap.bmp", true},
		{"malware.exe", false},
		{"noextension", false},
		{"trailingdot.", false},
		{"photo.png.exe", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsAllowedUpload(tt.filename))
		})
	}
}

func TestNewPolicy_CustomList(t *testing.T) {
	policy := NewPolicy([]string{".PNG", " jpg ", ""})

	assert.True(t, policy.IsAllowedUpload("a.png"))
	assert.True(t, policy.IsAllowedUpload("a.jpg"))
	assert.False(t, policy.IsAllowedUpload("a.gif"))
	assert.False(t, policy.IsAllowedUpload("a.svg"))
}

func TestIsVector(t *testing.T) {
	assert.True(t, IsVector("svg"))
	assert.True(t, IsVector(".SVG"))
	assert.False(t, IsVector("png"))
	assert.False(t, IsVector(""))
}

func TestIsActuallyImage(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		filename  string
		content   []byte
		want      bool
		mediaType string
	}{
		{name: "PNG", filename: "a.png", content: encodePNG(t), want: true, mediaType: "image/png"},
		{name: "JPEG", filename: "a.jpg", content: encodeJPEG(t), want: true, mediaType: "image/jpeg"},
		{name: "GIF", filename: "a.gif", content: encodeGIF(t), want: true, mediaType: "image/gif"},
		{
			name:      "SVG",
			filename:  "a.svg",
			content:   []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"><rect width="4" height="4"/></svg>`),
			want:      true,
			mediaType: "image/svg+xml",
		},
		{name: "Текст под видом PNG", filename: "fake.png", content: []byte("definitely not an image"), want: false},
		{name: "Исполняемый файл под видом JPG", filename: "fake.jpg", content: append([]byte("MZ"), make([]byte, 128)...), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.filename)
			require.NoError(t, os.WriteFile(path, tt.content, 0o644))

			assert.Equal(t, tt.want, IsActuallyImage(path))
			if tt.mediaType != "" {
				got, err := DetectMediaType(path)
				require.NoError(t, err)
				assert.Equal(t, tt.mediaType, got)
			}
		})
	}
}

func TestIsActuallyImage_MissingFile(t *testing.T) {
	assert.False(t, IsActuallyImage(filepath.Join(t.TempDir(), "missing.png")))

	_, err := DetectMediaType(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func sample() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sample()))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, sample(), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func encodeGIF(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, sample(), nil))
	return buf.Bytes()
}
