package storage

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// UploadsRoute is the URL path prefix under which local evidence is served.
const UploadsRoute = "/uploads"

var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	uploadPathPattern   = regexp.MustCompile(`^/uploads/([^/]+)$`)
)

// LocalStorage persists files on disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Dir returns the managed uploads directory.
func (s *LocalStorage) Dir() string {
	return s.baseDir
}

// SaveStream copies from reader into a file named name directly under the base dir.
func (s *LocalStorage) SaveStream(name string, r io.Reader) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("prepare uploads directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(file, r); err != nil {
		file.Close() //nolint:errcheck
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload stream: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return name, nil
}

// Delete removes a stored file. A file that is already gone is not an error.
func (s *LocalStorage) Delete(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

func (s *LocalStorage) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid upload name %q", name)
	}
	return filepath.Join(s.baseDir, name), nil
}

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with an underscore.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// StoredName builds a collision resistant on-disk name from the client's filename.
func StoredName(original string, now time.Time) string {
	safe := SanitizeFilename(filepath.Base(original))
	if safe == "" || safe == "." || safe == ".." {
		safe = "file"
	}
	return fmt.Sprintf("%d-%s", now.UnixNano(), safe)
}

// PublicLink returns the URL a stored upload is served from for the given base URL.
func PublicLink(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + UploadsRoute + "/" + url.PathEscape(name)
}

// UploadNameFromLink extracts the stored name from "/uploads/<name>" or a full URL with that path.
// Any other shape reports false, meaning there is nothing local to delete.
func UploadNameFromLink(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}
	path := link
	if !strings.HasPrefix(link, "/") {
		parsed, err := url.Parse(link)
		if err != nil || parsed.Scheme == "" {
			return "", false
		}
		path = parsed.Path
	} else if unescaped, err := url.PathUnescape(link); err == nil {
		path = unescaped
	}
	match := uploadPathPattern.FindStringSubmatch(path)
	if match == nil || match[1] == "." || match[1] == ".." {
		return "", false
	}
	return match[1], true
}
