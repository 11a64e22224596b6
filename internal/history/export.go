// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/equalearn/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the records matching opts to path as YAML and returns
// how many were written.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions, path string) (int, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return 0, err
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return 0, fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(records), nil
}

// ExportJSON writes the records matching opts to path as indented JSON
// and returns how many were written.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions, path string) (int, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return 0, err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshaling JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(records), nil
}

func (s *Store) exportRecords(ctx context.Context, opts QueryOptions) ([]types.Record, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	records, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return records, nil
}
