// Package storage stores data export archives on the local filesystem or in S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
)

// LocalExportStore implements output.ExportStore on a filesystem
// Directory structure: <baseDir>/exports/<owner>/<name>
type LocalExportStore struct {
	fs      afero.Fs
	baseDir string
}

// NewLocalExportStore creates a filesystem-based export store
func NewLocalExportStore(fs afero.Fs, baseDir string) *LocalExportStore {
	return &LocalExportStore{fs: fs, baseDir: baseDir}
}

// SaveExport writes the archive atomically
func (s *LocalExportStore) SaveExport(ctx context.Context, req output.SaveExportRequest) (*output.ExportInfo, error) {
	path, err := s.path(req.Owner, req.Name)
	if err != nil {
		return nil, err
	}
	if err := WriteFileAtomic(s.fs, path, req.Content, 0o600); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat export: %w", err)
	}
	return &output.ExportInfo{
		Owner:    req.Owner,
		Name:     req.Name,
		Location: path,
		Size:     info.Size(),
		SavedAt:  info.ModTime(),
	}, nil
}

// LoadExport reads an archive back
func (s *LocalExportStore) LoadExport(ctx context.Context, owner, name string) ([]byte, error) {
	path, err := s.path(owner, name)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", output.ErrExportNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return data, nil
}

// ListExports lists the archives of an owner, oldest first
func (s *LocalExportStore) ListExports(ctx context.Context, owner string) ([]*output.ExportInfo, error) {
	dir, err := s.path(owner, "")
	if err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(s.fs, dir)
	if errors.Is(err, os.ErrNotExist) {
		return []*output.ExportInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}

	result := []*output.ExportInfo{}
	for _, e := range entries {
		if e.IsDir() || filepath.Base(e.Name())[0] == '.' {
			continue
		}
		result = append(result, &output.ExportInfo{
			Owner:    owner,
			Name:     e.Name(),
			Location: filepath.Join(dir, e.Name()),
			Size:     e.Size(),
			SavedAt:  e.ModTime(),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *LocalExportStore) path(owner, name string) (string, error) {
	if err := validateSegment("owner", owner); err != nil {
		return "", err
	}
	dir := filepath.Join(s.baseDir, "exports", owner)
	if name == "" {
		return dir, nil
	}
	if err := validateSegment("name", name); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// validateSegment rejects values that would escape their directory
func validateSegment(field, v string) error {
	if v == "" || v == "." || v == ".." || filepath.Base(v) != v {
		return fmt.Errorf("invalid export %s %q", field, v)
	}
	return nil
}
