package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LocalStore writes images into a directory that is served under publicPath
type LocalStore struct {
	fs         afero.Fs
	dir        string
	publicPath string
}

func NewLocalStore(fs afero.Fs, dir, publicPath string) *LocalStore {
	return &LocalStore{
		fs:         fs,
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}
}

// Save creates the upload directory when missing and writes the file
func (s *LocalStore) Save(_ context.Context, name string, content io.Reader) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}

	exists, err := afero.DirExists(s.fs, s.dir)
	if err != nil {
		return "", fmt.Errorf("stat upload dir: %w", err)
	}
	if !exists {
		if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
			return "", fmt.Errorf("create upload dir: %w", err)
		}
	}

	if err := afero.WriteReader(s.fs, filepath.Join(s.dir, name), content); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path.Join(s.publicPath, name), nil
}

func (s *LocalStore) Remove(_ context.Context, publicPath string) error {
	if !s.Owns(publicPath) {
		return nil
	}
	name := path.Base(publicPath)
	if err := checkName(name); err != nil {
		return err
	}
	err := s.fs.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) Owns(publicPath string) bool {
	return strings.HasPrefix(publicPath, s.publicPath+"/")
}

// PublicPath is the URL prefix the stored files are served under
func (s *LocalStore) PublicPath() string {
	return s.publicPath
}

// Handler serves the stored files; mount it at PublicPath()
func (s *LocalStore) Handler() http.Handler {
	return http.StripPrefix(s.publicPath, http.FileServer(afero.NewHttpFs(s.fs).Dir(s.dir)))
}
