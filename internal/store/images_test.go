package store

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	s := NewImageStore(newTestAdapter(t), fixedOpts()...)
	data := testPNG(t)

	up, err := s.Upload(ctx, "/home/ana/Pictures/shirt.png", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "image_id-1_shirt.png", up.Filename)
	assert.Equal(t, int64(len(data)), up.Size)
	assert.Equal(t, UploadMessage, up.Message)
	assert.True(t, strings.HasPrefix(up.URL, "data:image/png;base64,"))

	url, ok := s.Get(ctx, up.Filename)
	require.True(t, ok)
	assert.Equal(t, up.URL, url)

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{up.Filename}, names)

	require.NoError(t, s.Delete(ctx, up.Filename))
	require.NoError(t, s.Delete(ctx, up.Filename))
	_, ok = s.Get(ctx, up.Filename)
	assert.False(t, ok)
}

func TestUploadRejectsNonImage(t *testing.T) {
	ctx := context.Background()
	s := NewImageStore(newTestAdapter(t))

	_, err := s.Upload(ctx, "notes.txt", strings.NewReader("hello"))
	assert.Error(t, err)

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}
