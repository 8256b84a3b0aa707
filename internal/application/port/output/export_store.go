package output

import (
	"context"
	"errors"
	"time"
)

// ErrExportNotFound is returned when an export archive does not exist
var ErrExportNotFound = errors.New("export not found")

// ExportStore keeps data export archives outside the primary database
type ExportStore interface {
	// SaveExport writes an archive and returns where it was stored
	SaveExport(ctx context.Context, req SaveExportRequest) (*ExportInfo, error)

	// LoadExport reads an archive back by name
	LoadExport(ctx context.Context, owner, name string) ([]byte, error)

	// ListExports lists the archives of an owner, oldest first
	ListExports(ctx context.Context, owner string) ([]*ExportInfo, error)
}

// SaveExportRequest is an archive to store
type SaveExportRequest struct {
	Owner       string
	Name        string // File name, e.g. export-20250101T120000Z.yaml
	Content     []byte
	ContentType string
}

// ExportInfo describes a stored archive
type ExportInfo struct {
	Owner    string
	Name     string
	Location string // File path or s3:// URL
	Size     int64
	SavedAt  time.Time
}
