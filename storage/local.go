package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// PublicPrefix is the URL path under which saved files are served.
const PublicPrefix = "/uploads/"

type ImageStore interface {
	// Save persists an uploaded file and returns its public path.
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
	// Remove deletes a file previously returned by Save.
	Remove(ctx context.Context, path string) error
}

// LocalStore writes uploads into a directory that the router serves
// statically. Names are <unix millis>-<original name>.
type LocalStore struct {
	dir string
	now func() time.Time
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, now: time.Now}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(_ context.Context, file *multipart.FileHeader) (string, error) {
	name := strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + filepath.Base(file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", file.Filename, err)
	}
	defer src.Close()

	target := filepath.Join(s.dir, name)
	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", name, err)
	}

	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("write %q: %w", name, err)
	}
	return PublicPrefix + name, nil
}

// Remove deletes an uploaded file by its public path. Paths outside the
// upload prefix are rejected; a file that is already gone is not an error.
func (s *LocalStore) Remove(_ context.Context, path string) error {
	name := strings.TrimPrefix(path, PublicPrefix)
	if name == path || name == "" || name != filepath.Base(name) {
		return fmt.Errorf("not an upload path: %q", path)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", name, err)
	}
	return nil
}
