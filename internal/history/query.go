// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/equalearn/pkg/types"
)

// QueryOptions filters List.
type QueryOptions struct {
	// Search is a case-insensitive substring matched against the problem,
	// the final answer and the raw solution.
	Search string

	// Source restricts results to one problem source.
	Source types.ProblemSource

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns matching records, newest first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]types.Record, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + recordColumns + ` FROM solutions WHERE 1=1`)

	if q := strings.TrimSpace(opts.Search); q != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
		qb.WriteString(` AND (lower(problem) LIKE ? ESCAPE '\'
			OR lower(final_answer) LIKE ? ESCAPE '\'
			OR lower(raw_solution) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	if opts.Source != "" {
		qb.WriteString(` AND source = ?`)
		args = append(args, string(opts.Source))
	}

	qb.WriteString(` ORDER BY created_at DESC, rowid DESC LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	records := []types.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history rows: %w", err)
	}
	return records, nil
}
