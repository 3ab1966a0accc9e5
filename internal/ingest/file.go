package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/store"
)

var _ store.LeadSource = (*FileSource)(nil)

// FileSource re-reads a local lead file on every ListLeads call.
type FileSource struct {
	path   string
	format Format
}

// NewFileSource returns a source for path. The format comes from the
// file extension.
func NewFileSource(path string) (*FileSource, error) {
	f, err := FormatFromName(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{path: path, format: f}, nil
}

// ListLeads implements store.LeadSource.
func (s *FileSource) ListLeads(ctx context.Context) ([]model.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open lead file: %w", err)
	}
	defer f.Close()

	leads, err := Decode(f, s.format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return leads, nil
}

func (s *FileSource) Close() error { return nil }
