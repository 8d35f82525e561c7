// Package upload stores product logos and documents uploaded through the
// admin API.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/lzjever/prodcat/internal/core"
)

// DefaultFolder is used when the caller names no folder.
const DefaultFolder = "uploads"

// ErrUnsafePath is returned for folders or URLs that would leave the root.
var ErrUnsafePath = errors.New("path escapes upload root")

var allowedContentTypes = map[string]bool{
	"application/pdf":               true,
	"application/vnd.ms-powerpoint": true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"video/mp4":  true,
	"image/jpeg": true,
	"image/png":  true,
}

// AllowedContentType reports whether files of the given Content-Type may be
// uploaded. Parameters such as charset are ignored.
func AllowedContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return allowedContentTypes[mt]
}

// Storage saves uploaded files and returns the URL they are served from.
type Storage interface {
	Save(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// LocalStorage keeps files under a directory served as static content.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root}
}

func (s *LocalStorage) Root() string { return s.root }

// Save writes r to <root>/<folder>/<uuid>-<name> and returns /<folder>/<uuid>-<name>.
func (s *LocalStorage) Save(_ context.Context, folder, filename string, r io.Reader) (string, error) {
	folder, err := cleanFolder(folder)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(s.root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := core.NewUploadName(filename)
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return "/" + folder + "/" + name, nil
}

// Delete removes the file behind a URL returned by Save. Remote URLs and
// missing files are ignored.
func (s *LocalStorage) Delete(_ context.Context, url string) error {
	if url == "" || IsRemote(url) {
		return nil
	}
	rel := path.Clean("/" + url)
	if rel == "/" || strings.Contains(url, "..") {
		return ErrUnsafePath
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(rel, "/"))))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// IsRemote reports whether url points outside local storage.
func IsRemote(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func cleanFolder(folder string) (string, error) {
	folder = strings.Trim(strings.ReplaceAll(folder, `\`, "/"), "/ ")
	if folder == "" {
		return DefaultFolder, nil
	}
	for _, part := range strings.Split(folder, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrUnsafePath
		}
	}
	return folder, nil
}
