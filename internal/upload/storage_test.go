package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedContentType(t *testing.T) {
	for _, ct := range []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"image/png",
		"image/jpeg",
		"video/mp4",
		"application/msword; charset=binary",
	} {
		assert.True(t, AllowedContentType(ct), ct)
	}
	for _, ct := range []string{"", "text/html", "application/zip", "image/gif", "not a type"} {
		assert.False(t, AllowedContentType(ct), ct)
	}
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(root)
	ctx := context.Background()

	url, err := s.Save(ctx, "logos", "Acme Logo.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/logos/"), url)
	assert.True(t, strings.HasSuffix(url, "-Acme-Logo.png"), url)

	onDisk := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(url, "/")))
	b, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))

	require.NoError(t, s.Delete(ctx, url))
	_, err = os.Stat(onDisk)
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Deleting again is not an error.
	assert.NoError(t, s.Delete(ctx, url))
}

func TestLocalStorage_DefaultFolderAndUniqueNames(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	a, err := s.Save(context.Background(), "", "deck.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := s.Save(context.Background(), "/", "deck.pdf", strings.NewReader("b"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a, "/uploads/"))
	assert.NotEqual(t, a, b)
}

func TestLocalStorage_RejectsEscapes(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	_, err := s.Save(context.Background(), "../etc", "x.pdf", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsafePath)

	assert.ErrorIs(t, s.Delete(context.Background(), "/../secret.txt"), ErrUnsafePath)
	assert.ErrorIs(t, s.Delete(context.Background(), "/"), ErrUnsafePath)
}

func TestLocalStorage_DeleteIgnoresRemote(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	assert.NoError(t, s.Delete(context.Background(), "https://cdn.example.com/a.pdf"))
	assert.NoError(t, s.Delete(context.Background(), ""))
}
