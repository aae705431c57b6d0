package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/campusgrid/studentportal/pkg/apperror"
)

// Kind partitions the upload root by attachment type.
type Kind string

const (
	KindPhoto    Kind = "photos"
	KindDocument Kind = "documents"
)

// StoredFile describes one file currently present under the upload root.
type StoredFile struct {
	RelPath string
	ModTime time.Time
}

// FileStorage defines the contract for attachment storage. Paths handed to
// callers are relative to the upload root, slash-separated, and are what gets
// persisted on student rows.
type FileStorage interface {
	// Save writes the file under the kind's subdirectory with a
	// collision-resistant generated name and returns the relative path.
	Save(ctx context.Context, r io.Reader, kind Kind, fileName string) (string, error)
	// Delete removes a previously saved file by its relative path.
	Delete(ctx context.Context, relPath string) error
	// Resolve maps a relative path to an absolute one, rejecting any path
	// that escapes the upload root.
	Resolve(relPath string) (string, error)
	// List enumerates every file under the upload root.
	List(ctx context.Context) ([]StoredFile, error)
}

type localStorage struct {
	root string
}

// NewLocalStorage creates a filesystem-backed FileStorage rooted at dir,
// creating the kind subdirectories if needed.
func NewLocalStorage(dir string) (FileStorage, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload root: %w", err)
	}

	for _, kind := range []Kind{KindPhoto, KindDocument} {
		if err := os.MkdirAll(filepath.Join(root, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}

	return &localStorage{root: root}, nil
}

func (s *localStorage) Save(ctx context.Context, r io.Reader, kind Kind, fileName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	name := fmt.Sprintf("%d-%d%s", time.Now().UnixNano(), rand.Int63n(1e9), ext)
	relPath := path.Join(string(kind), name)

	abs, err := s.Resolve(relPath)
	if err != nil {
		return "", err
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(abs)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return relPath, nil
}

func (s *localStorage) Delete(ctx context.Context, relPath string) error {
	abs, err := s.Resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.Remove(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", relPath, apperror.ErrNotFound)
		}
		return err
	}

	return nil
}

func (s *localStorage) Resolve(relPath string) (string, error) {
	abs := filepath.Clean(filepath.Join(s.root, filepath.FromSlash(relPath)))

	// The resolved path must stay inside the upload root however the
	// relative path was encoded.
	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes upload root: %w", apperror.ErrForbidden)
	}

	return abs, nil
}

func (s *localStorage) List(ctx context.Context) ([]StoredFile, error) {
	var files []StoredFile

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}

		files = append(files, StoredFile{
			RelPath: filepath.ToSlash(rel),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
