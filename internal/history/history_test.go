// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/equalearn/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{Dir: filepath.Join(t.TempDir(), "history")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, s *Store) []types.Record {
	t.Helper()
	ctx := context.Background()
	in := []types.Record{
		{
			Problem:     "Solve 2x + 3 = 7",
			Source:      types.SourceText,
			RawSolution: "**Final Answer:** x = 2",
			Solution: types.StructuredSolution{
				FinalAnswer: "x = 2",
				Steps:       []types.Step{{Title: "Subtract", Content: "2x = 4"}},
			},
			CreatedAt: base,
		},
		{
			Problem:     "Area of a circle with r = 3",
			Source:      types.SourceImage,
			RawSolution: "A = 9π",
			Solution:    types.StructuredSolution{FinalAnswer: "A = 9π", Steps: []types.Step{}},
			Message:     "extracted from photo",
			CreatedAt:   base.Add(time.Hour),
		},
		{
			Problem:     "Factor x^2 - 4",
			Source:      types.SourceBatch,
			RawSolution: "(x-2)(x+2)",
			Solution:    types.StructuredSolution{FinalAnswer: types.PlaceholderAnswer},
			CreatedAt:   base.Add(90 * time.Minute),
		},
	}
	var out []types.Record
	for _, rec := range in {
		stored, err := s.Add(ctx, rec)
		require.NoError(t, err)
		out = append(out, stored)
	}
	return out
}

func ids(recs []types.Record) []string {
	var out []string
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	s := newTestStore(t)
	_, err := os.Stat(s.Path())
	assert.NoError(t, err)

	_, err = NewStore(types.HistoryConfig{})
	assert.Error(t, err)
}

func TestAdd_AssignsIDAndTime(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.Add(context.Background(), types.Record{Problem: "1+1", RawSolution: "2"})
	require.NoError(t, err)

	assert.Len(t, rec.ID, 36)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, types.SourceText, rec.Source)
	assert.NotNil(t, rec.Solution.Steps)

	_, err = s.Add(context.Background(), types.Record{Problem: "x", Source: "fax"})
	assert.Error(t, err)
}

func TestAdd_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add(context.Background(), types.Record{ID: "same", Problem: "a"})
	require.NoError(t, err)
	_, err = s.Add(context.Background(), types.Record{ID: "same", Problem: "b"})
	assert.Error(t, err)
}

func TestGet_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	recs := seed(t, s)

	got, err := s.Get(context.Background(), recs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, recs[0].Problem, got.Problem)
	assert.Equal(t, recs[0].Solution, got.Solution)
	assert.True(t, base.Equal(got.CreatedAt))

	got, err = s.Get(context.Background(), recs[2].ID)
	require.NoError(t, err)
	assert.Equal(t, []types.Step{}, got.Solution.Steps)

	_, err = s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	recs := seed(t, s)

	got, err := s.List(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{recs[2].ID, recs[1].ID, recs[0].ID}, ids(got))
}

func TestList_Filters(t *testing.T) {
	s := newTestStore(t)
	recs := seed(t, s)

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{"search problem case insensitive", QueryOptions{Search: "SOLVE"}, []string{recs[0].ID}},
		{"search answer", QueryOptions{Search: "9π"}, []string{recs[1].ID}},
		{"search raw solution", QueryOptions{Search: "(x-2)"}, []string{recs[2].ID}},
		{"search wildcard is literal", QueryOptions{Search: "%"}, nil},
		{"source", QueryOptions{Source: types.SourceImage}, []string{recs[1].ID}},
		{"limit", QueryOptions{MaxResults: 1}, []string{recs[2].ID}},
		{"search and source", QueryOptions{Search: "x", Source: types.SourceText}, []string{recs[0].ID}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.List(context.Background(), tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	recs := seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, recs[1].ID))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.ErrorIs(t, s.Delete(ctx, recs[1].ID), ErrNotFound)
}

func TestLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.Add(ctx, types.Record{ID: "abc123", Problem: "1+1"})
	require.NoError(t, err)
	_, err = s.Add(ctx, types.Record{ID: "abd456", Problem: "2+2"})
	require.NoError(t, err)
	_, err = s.Add(ctx, types.Record{ID: "abc123x", Problem: "3+3"})
	require.NoError(t, err)

	got, err := s.Lookup(ctx, "abd")
	require.NoError(t, err)
	assert.Equal(t, "2+2", got.Problem)

	got, err = s.Lookup(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = s.Lookup(ctx, "ab")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = s.Lookup(ctx, "zz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Lookup(ctx, "a%")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExport(t *testing.T) {
	s := newTestStore(t)
	recs := seed(t, s)
	ctx := context.Background()
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "history.yaml")
	n, err := s.ExportYAML(ctx, QueryOptions{}, yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []types.Record
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, []string{recs[2].ID, recs[1].ID, recs[0].ID}, ids(fromYAML))
	assert.Equal(t, "x = 2", fromYAML[2].Solution.FinalAnswer)

	jsonPath := filepath.Join(dir, "history.json")
	n, err = s.ExportJSON(ctx, QueryOptions{Source: types.SourceBatch}, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []types.Record
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, "Factor x^2 - 4", fromJSON[0].Problem)
}
