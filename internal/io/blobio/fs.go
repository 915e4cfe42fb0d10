package blobio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/attilauslu/oligocraft/internal/ent/blob"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
)

type fsStore struct {
	root string
	enc  gnfmt.Encoder
}

// NewFS returns a filesystem store rooted at dir. Every blob has a JSON
// sidecar file with its description.
func NewFS(dir string) (blob.Store, error) {
	if dir == "" {
		return nil, errors.New("blob directory is not set")
	}
	if err := gnsys.MakeDir(dir); err != nil {
		slog.Error("Cannot create blob directory", "dir", dir, "error", err)
		return nil, err
	}
	res := fsStore{root: dir, enc: gnfmt.GNjson{}}
	return &res, nil
}

func (s *fsStore) paths(key string) (string, string, error) {
	if strings.TrimSpace(key) == "" || strings.Contains(key, "..") ||
		strings.HasPrefix(key, "/") {
		return "", "", fmt.Errorf("invalid blob key %q", key)
	}
	data := filepath.Join(s.root, filepath.FromSlash(key))
	return data, data + ".json", nil
}

// Put implements blob.Store.
func (s *fsStore) Put(_ context.Context, info blob.Info, r io.Reader) (blob.Info, error) {
	data, meta, err := s.paths(info.Key)
	if err != nil {
		return info, err
	}
	if err = gnsys.MakeDir(filepath.Dir(data)); err != nil {
		return info, err
	}

	info, r = detect(info, r)
	f, err := os.Create(data)
	if err != nil {
		return info, err
	}
	info.Size, err = io.Copy(f, r)
	if err != nil {
		f.Close()
		return info, err
	}
	if err = f.Close(); err != nil {
		return info, err
	}

	bs, err := s.enc.Encode(info)
	if err != nil {
		return info, err
	}
	return info, os.WriteFile(meta, bs, 0644)
}

// Get implements blob.Store.
func (s *fsStore) Get(_ context.Context, key string) (blob.Info, io.ReadCloser, error) {
	var res blob.Info
	data, meta, err := s.paths(key)
	if err != nil {
		return res, nil, err
	}
	bs, err := os.ReadFile(meta)
	if err != nil {
		return res, nil, err
	}
	if err = s.enc.Decode(bs, &res); err != nil {
		return res, nil, err
	}
	f, err := os.Open(data)
	if err != nil {
		return res, nil, err
	}
	return res, f, nil
}

// Delete implements blob.Store.
func (s *fsStore) Delete(_ context.Context, key string) error {
	data, meta, err := s.paths(key)
	if err != nil {
		return err
	}
	for _, p := range []string{data, meta} {
		if err = os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
