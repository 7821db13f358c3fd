package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize caps uploaded documents at 50MB.
const MaxFileSize = 50 * 1024 * 1024

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".doc":  {},
	".xlsx": {},
	".xls":  {},
	".txt":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

var (
	ErrExtensionNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge        = errors.New("file size exceeds 50MB limit")
)

// Store writes uploaded documents beneath a single root directory, one
// subdirectory per entity kind. The root is also mounted read-only at
// /uploads by the router.
type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string { return s.root }

// ValidateName checks the extension allow-list and returns the lowercased
// extension (with leading dot).
func ValidateName(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %s", ErrExtensionNotAllowed, ext)
	}
	return ext, nil
}

// Save writes data under root/subdir/name and returns the stored path.
// The caller is responsible for choosing a collision-safe name.
func (s *Store) Save(subdir, name string, data []byte) (string, error) {
	if len(data) > MaxFileSize {
		return "", ErrFileTooLarge
	}
	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", subdir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored file. Callers treat failures as best-effort:
// the error is logged, never surfaced to the client.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether a stored file is still present on disk.
func (s *Store) Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
