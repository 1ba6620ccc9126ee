// Package storage keeps task attachments on the local filesystem under a
// media root.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const attachmentDir = "task_attachments"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._@-]+`)

type FileStorage struct {
	root     string
	baseURL  string
	maxBytes int64
}

var ErrTooLarge = errors.New("file exceeds the upload size limit")

func NewFileStorage(root, baseURL string, maxBytes int64) (*FileStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &FileStorage{root: abs, baseURL: baseURL, maxBytes: maxBytes}, nil
}

// SaveAttachment writes content to task_attachments/<owner>/<filename> and
// returns the path relative to the media root. An existing file with the same
// name is never overwritten; a random suffix is added instead.
func (s *FileStorage) SaveAttachment(owner, filename string, content io.Reader) (string, error) {
	dir := path.Join(attachmentDir, sanitize(owner, "user"))
	if err := os.MkdirAll(s.abs(dir), 0o755); err != nil {
		return "", fmt.Errorf("create attachment dir: %w", err)
	}

	name := sanitize(filepath.Base(filename), "attachment")
	rel := path.Join(dir, name)

	f, err := os.OpenFile(s.abs(rel), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		ext := path.Ext(name)
		rel = path.Join(dir, strings.TrimSuffix(name, ext)+"_"+uuid.NewString()[:7]+ext)
		f, err = os.OpenFile(s.abs(rel), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", fmt.Errorf("create attachment: %w", err)
	}

	reader := content
	if s.maxBytes > 0 {
		reader = io.LimitReader(content, s.maxBytes+1)
	}
	n, copyErr := io.Copy(f, reader)
	closeErr := f.Close()
	if copyErr == nil && s.maxBytes > 0 && n > s.maxBytes {
		copyErr = ErrTooLarge
	}
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(s.abs(rel))
		if copyErr != nil {
			return "", copyErr
		}
		return "", closeErr
	}
	return rel, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *FileStorage) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(s.abs(rel))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove attachment %s: %w", rel, err)
	}
	return nil
}

// Exists reports whether rel is present under the media root.
func (s *FileStorage) Exists(rel string) bool {
	if rel == "" {
		return false
	}
	_, err := os.Stat(s.abs(rel))
	return err == nil
}

// URL returns the public location of rel, or "" when rel is empty.
func (s *FileStorage) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.baseURL + rel
}

// abs maps a relative path into the root. Cleaning against "/" keeps ".."
// segments from escaping the root.
func (s *FileStorage) abs(rel string) string {
	clean := path.Clean("/" + rel)
	return filepath.Join(s.root, filepath.FromSlash(clean))
}

func sanitize(name, fallback string) string {
	name = strings.TrimSpace(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return fallback
	}
	return name
}
