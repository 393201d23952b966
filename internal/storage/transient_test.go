package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *TransientStore {
	t.Helper()
	dir, err := EnsureDir(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	store, err := NewTransientStore(dir, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestEnsureDirCreatesMissingDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b")
	dir, err := EnsureDir(target)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = EnsureDir("  ")
	assert.Error(t, err)
}

func TestNewTransientStoreRequiresExistingDir(t *testing.T) {
	_, err := NewTransientStore(filepath.Join(t.TempDir(), "missing"), zerolog.Nop())
	assert.Error(t, err)
}

func TestAcquireWritesUniqueFiles(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	a, err := store.Acquire(ctx, "mockup.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	b, err := store.Acquire(ctx, "mockup.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path)
	assert.Equal(t, store.Dir(), filepath.Dir(a.Path))
	assert.Equal(t, ".png", filepath.Ext(a.Path))
	assert.Equal(t, int64(9), a.Size)

	data, err := a.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestAcquireKeepsFilesInsideDir(t *testing.T) {
	store := newStore(t)
	a, err := store.Acquire(context.Background(), "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, store.Dir(), filepath.Dir(a.Path))
	assert.Equal(t, "passwd", a.Filename)
}

func TestAcquireRejectsEmptyBody(t *testing.T) {
	store := newStore(t)
	_, err := store.Acquire(context.Background(), "empty.png", bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrEmptyAsset)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "empty upload must not leave a file behind")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("client went away") }

func TestAcquireRemovesPartialFileOnReadError(t *testing.T) {
	store := newStore(t)
	_, err := store.Acquire(context.Background(), "broken.png", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReleaseIsIdempotent(t *testing.T) {
	store := newStore(t)
	a, err := store.Acquire(context.Background(), "ui.jpg", strings.NewReader("jpeg"))
	require.NoError(t, err)

	store.Release(a)
	_, err = os.Stat(a.Path)
	assert.True(t, os.IsNotExist(err))

	assert.NotPanics(t, func() {
		store.Release(a)
		store.Release(nil)
	})
}

func TestReleaseSwallowsMissingFile(t *testing.T) {
	store := newStore(t)
	a, err := store.Acquire(context.Background(), "ui.jpg", strings.NewReader("jpeg"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(a.Path))

	assert.NotPanics(t, func() { store.Release(a) })
}

func TestContentTypeFallsBackToPNG(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"design.png", "image/png"},
		{"design.JPG", "image/jpeg"},
		{"design.gif", "image/gif"},
		{"design.webp", "image/webp"},
		{"photo.HEIC", "image/heic"},
		{"logo.svg", "image/svg+xml"},
		{"scan.bmp", "image/bmp"},
		{"archive.tar.gz", DefaultImageType},
		{"notes.txt", DefaultImageType},
		{"no-extension", DefaultImageType},
	}
	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			a := &Asset{Filename: tc.filename}
			assert.Equal(t, tc.want, a.ContentType())
		})
	}
}
