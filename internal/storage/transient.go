package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultImageType is used when the upload's extension does not map to an
// image MIME type.
const DefaultImageType = "image/png"

// ErrEmptyAsset is returned by Acquire when the inbound body carries no bytes.
var ErrEmptyAsset = errors.New("storage: uploaded asset is empty")

// EnsureDir creates the managed upload directory if absent and returns its
// absolute path. It is called once during startup.
func EnsureDir(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("storage: upload dir is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("storage: resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure upload dir: %w", err)
	}
	return abs, nil
}

// Asset is a request-scoped local copy of an uploaded image.
type Asset struct {
	ID       string
	Path     string
	Filename string
	Size     int64

	release sync.Once
}

// Ext returns the lower-cased extension of the original filename.
func (a *Asset) Ext() string {
	return strings.ToLower(filepath.Ext(a.Filename))
}

// ContentType infers the MIME type from the original file extension. Unknown
// or non-image extensions fall back to DefaultImageType.
func (a *Asset) ContentType() string {
	ct, ok := DetectImageType(a.Filename)
	if !ok {
		return DefaultImageType
	}
	return ct
}

// imageTypes maps lower-case extensions to image MIME types. The table is
// fixed so detection does not depend on the host's mime database.
var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jpe":  "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".avif": "image/avif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".ico":  "image/vnd.microsoft.icon",
	".svg":  "image/svg+xml",
}

// DetectImageType maps a filename to an image/* MIME type. The boolean is false
// when the extension is unknown or not an image.
func DetectImageType(filename string) (string, bool) {
	ct, ok := imageTypes[strings.ToLower(filepath.Ext(filename))]
	return ct, ok
}

// ReadAll loads the asset bytes.
func (a *Asset) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("storage: read asset: %w", err)
	}
	return data, nil
}

// Open opens the asset for streaming.
func (a *Asset) Open() (*os.File, error) {
	f, err := os.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("storage: open asset: %w", err)
	}
	return f, nil
}

// TransientStore keeps request-scoped uploads on the local filesystem until
// the pipeline that owns them finishes.
type TransientStore struct {
	dir    string
	logger zerolog.Logger
}

// NewTransientStore returns a store rooted at dir, which must already exist
// (see EnsureDir).
func NewTransientStore(dir string, logger zerolog.Logger) (*TransientStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("storage: upload dir is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: stat upload dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: %s is not a directory", dir)
	}
	return &TransientStore{dir: dir, logger: logger}, nil
}

// Dir returns the managed directory.
func (s *TransientStore) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

// Acquire streams src into a uniquely named file and returns its handle. A
// partially written file is removed before returning an error.
func (s *TransientStore) Acquire(ctx context.Context, filename string, src io.Reader) (*Asset, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrEmptyAsset
	}

	filename = filepath.Base(strings.TrimSpace(filename))
	id := uuid.NewString()
	path := filepath.Join(s.dir, id+sanitizeExt(filepath.Ext(filename)))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("storage: create asset: %w", err)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("storage: write asset: %w", err)
	}
	if n == 0 {
		_ = os.Remove(path)
		return nil, ErrEmptyAsset
	}

	s.logger.Debug().Str("asset_id", id).Str("filename", filename).Int64("bytes", n).Msg("transient asset acquired")
	return &Asset{ID: id, Path: path, Filename: filename, Size: n}, nil
}

// Release removes the asset file. It runs at most once per asset; removal
// failures are logged and never returned.
func (s *TransientStore) Release(a *Asset) {
	if a == nil {
		return
	}
	a.release.Do(func() {
		err := os.Remove(a.Path)
		switch {
		case err == nil:
			s.logger.Debug().Str("asset_id", a.ID).Msg("transient asset released")
		case errors.Is(err, os.ErrNotExist):
			s.logger.Debug().Str("asset_id", a.ID).Msg("transient asset already gone")
		default:
			s.logger.Warn().Err(err).Str("asset_id", a.ID).Str("path", a.Path).Msg("failed to remove transient asset")
		}
	})
}

// sanitizeExt keeps short alphanumeric extensions so the stored file name
// cannot escape the directory or carry odd characters.
func sanitizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
