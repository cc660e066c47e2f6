package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ErrUnsupportedImage is returned for uploads that are not jpg/jpeg/png.
var ErrUnsupportedImage = errors.New("cover image must be a jpg, jpeg or png file")

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// CoverStore writes uploaded cover images into a directory, naming each file
// with a timestamp prefix plus a sanitized version of the original name so
// repeated uploads never collide.
type CoverStore struct {
	dir string
}

// NewCoverStore creates the upload directory if needed.
func NewCoverStore(dir string) (*CoverStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &CoverStore{dir: dir}, nil
}

// Save streams the upload to disk and returns the stored filename.
func (c *CoverStore) Save(src io.Reader, originalName string) (string, error) {
	name := sanitizeFilename(originalName)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
	default:
		return "", ErrUnsupportedImage
	}

	filename := time.Now().Format("20060102150405") + "_" + name
	dst, err := os.Create(filepath.Join(c.dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return filename, nil
}

// Remove deletes a stored cover. Callers treat a failure as ignorable and
// log it instead of aborting their own operation.
func (c *CoverStore) Remove(filename string) error {
	if filename == "" {
		return nil
	}
	// Refuse anything that escapes the upload directory.
	if filepath.Base(filename) != filename {
		return fmt.Errorf("invalid cover filename %q", filename)
	}
	return os.Remove(filepath.Join(c.dir, filename))
}

// Dir is the directory covers are served from.
func (c *CoverStore) Dir() string {
	return c.dir
}

// sanitizeFilename strips directory components and replaces anything outside
// a conservative character set, mirroring what a web framework's
// secure-filename helper does.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "upload"
	}
	return name
}
