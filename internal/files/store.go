// Package files keeps uploaded attachments (legal files, deliberation
// documents) on local disk under generated names.
package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidPath = errors.New("invalid file path")

// StoredFile describes a saved attachment. Path is relative to the store.
type StoredFile struct {
	Name        string
	Path        string
	ContentType string
	Size        int64
}

type Store struct {
	dir string
}

// NewStore creates dir if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes r under a uuid name keeping the extension of originalName.
func (s *Store) Save(ctx context.Context, originalName string, r io.Reader) (*StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		os.Remove(f.Name())
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	size, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("write file: %w", err)
	}
	return &StoredFile{
		Name:        filepath.Base(originalName),
		Path:        name,
		ContentType: http.DetectContentType(head),
		Size:        size,
	}, nil
}

// Open returns the file at path and its modification time.
func (s *Store) Open(path string) (io.ReadSeekCloser, time.Time, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, time.Time{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, time.Time{}, err
	}
	return f, st.ModTime(), nil
}

// Remove deletes the file at path. A missing file is not an error.
func (s *Store) Remove(path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) resolve(path string) (string, error) {
	if path == "" || path != filepath.Base(path) || path == "." || path == ".." {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.dir, path), nil
}

// IsPDF reports whether f was sniffed as a PDF.
func IsPDF(f *StoredFile) bool {
	return f != nil && f.ContentType == "application/pdf"
}
