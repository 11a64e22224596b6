// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/equalearn/pkg/types"
)

// ProblemFile is the on-disk form of a batch: the problems to solve and,
// once run, their results. A solved file can be reopened without calling
// the backend again.
type ProblemFile struct {
	Problems []Problem `yaml:"problems"`
	Results  []Result  `yaml:"results,omitempty"`
	Summary  *Summary  `yaml:"summary,omitempty"`
}

// Problem is one entry in a problem file.
type Problem struct {
	ID   string `yaml:"id,omitempty"`
	Text string `yaml:"text"`
}

// Result is the outcome for one problem.
type Result struct {
	ID          string        `yaml:"id" json:"id"`
	Problem     string        `yaml:"problem" json:"problem"`
	FinalAnswer string        `yaml:"final_answer,omitempty" json:"finalAnswer,omitempty"`
	Steps       []types.Step  `yaml:"steps,omitempty" json:"steps,omitempty"`
	RawSolution string        `yaml:"raw_solution,omitempty" json:"raw_solution,omitempty"`
	Message     string        `yaml:"message,omitempty" json:"message,omitempty"`
	Error       string        `yaml:"error,omitempty" json:"error,omitempty"`
	Duration    time.Duration `yaml:"duration" json:"duration"`
}

// OK reports whether the problem was solved.
func (r Result) OK() bool { return r.Error == "" }

// Summary holds batch statistics and a timestamp.
type Summary struct {
	Total     int       `yaml:"total"`
	Solved    int       `yaml:"solved"`
	Failed    int       `yaml:"failed"`
	Timestamp time.Time `yaml:"timestamp"`
}

// ReadProblemFile loads a problem file. Problems without an ID get one;
// blank problems are rejected.
func ReadProblemFile(path string) (*ProblemFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading problem file: %w", err)
	}
	var pf ProblemFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing problem file: %w", err)
	}
	if len(pf.Problems) == 0 {
		return nil, fmt.Errorf("problem file %s has no problems", path)
	}

	seen := make(map[string]bool, len(pf.Problems))
	for i := range pf.Problems {
		p := &pf.Problems[i]
		if strings.TrimSpace(p.Text) == "" {
			return nil, fmt.Errorf("problem %d in %s is empty", i+1, path)
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate problem id %q in %s", p.ID, path)
		}
		seen[p.ID] = true
	}
	return &pf, nil
}

// WriteProblemFile saves pf as YAML.
func WriteProblemFile(path string, pf *ProblemFile) error {
	data, err := yaml.Marshal(pf)
	if err != nil {
		return fmt.Errorf("marshaling problem file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
