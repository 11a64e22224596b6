// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/equalearn/internal/i18n"
	"github.com/pdiddy/equalearn/internal/media"
	"github.com/pdiddy/equalearn/internal/solver"
	"github.com/pdiddy/equalearn/pkg/types"
)

func TestLanguagePreference(t *testing.T) {
	tests := []struct {
		name     string
		language string
		lcAll    string
		lang     string
		want     string
	}{
		{name: "config wins", language: "zh", lang: "en_US.UTF-8", want: "zh"},
		{name: "locale with encoding", lang: "zh_CN.UTF-8", want: "zh-CN"},
		{name: "LC_ALL before LANG", lcAll: "en_GB", lang: "zh_CN.UTF-8", want: "en-GB"},
		{name: "C locale skipped", lcAll: "C", lang: "zh_TW@latin", want: "zh-TW"},
		{name: "nothing set", want: "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("language", tt.language)
			t.Cleanup(func() { viper.Set("language", "") })
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LC_MESSAGES", "")
			t.Setenv("LANG", tt.lang)
			assert.Equal(t, tt.want, languagePreference())
		})
	}
}

func newTextCmd(stdin string) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().StringP("file", "f", "", "")
	cmd.SetIn(strings.NewReader(stdin))
	return cmd
}

func TestProblemText(t *testing.T) {
	got, err := problemText(newTextCmd(""), []string{"2x", "+", "3", "=", "7"})
	require.NoError(t, err)
	assert.Equal(t, "2x + 3 = 7", got)

	got, err = problemText(newTextCmd("x^2 = 9\n"), []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "x^2 = 9\n", got)

	path := filepath.Join(t.TempDir(), "p.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 + 1"), 0o644))
	cmd := newTextCmd("")
	require.NoError(t, cmd.Flags().Set("file", path))
	got, err = problemText(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "1 + 1", got)

	_, err = problemText(newTextCmd("  \n"), []string{"-"})
	assert.ErrorIs(t, err, solver.ErrEmptyProblem)

	_, err = problemText(newTextCmd(""), nil)
	assert.ErrorIs(t, err, solver.ErrEmptyProblem)
}

func TestLocalize(t *testing.T) {
	tr = i18n.New("en")

	err := localize(media.ErrTooLarge, 32<<20)
	assert.ErrorIs(t, err, media.ErrTooLarge)
	assert.Contains(t, err.Error(), "The file is larger than 32 MiB")

	err = localize(solver.ErrEmptyProblem, 0)
	assert.Contains(t, err.Error(), "Please enter a math problem")

	rejected := &solver.RejectedError{Message: "not a math problem"}
	assert.Same(t, rejected, localize(rejected, 0))

	err = localize(errors.New("boom"), 0)
	assert.Contains(t, err.Error(), "An error occurred while solving the problem.")

	assert.NoError(t, localize(nil, 0))

	tr = i18n.New("zh")
	t.Cleanup(func() { tr = i18n.New("en") })
	assert.Contains(t, localize(media.ErrUnsupported, 0).Error(), "请选择有效的图片或视频文件")
}

func TestFormatHistoryTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatHistoryTable(&buf, nil))
	assert.Equal(t, "No solutions found.\n", buf.String())

	buf.Reset()
	recs := []types.Record{{
		ID:       "0123456789abcdef",
		Problem:  "Solve\n2x + 3 = 7",
		Source:   types.SourceText,
		Solution: types.StructuredSolution{FinalAnswer: "x = 2"},
	}}
	require.NoError(t, formatHistoryTable(&buf, recs))
	assert.Contains(t, buf.String(), "01234...")
	assert.Contains(t, buf.String(), "Solve 2x + 3 = 7")
	assert.Contains(t, buf.String(), "1 solution(s)")
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "abc", shorten("abc", 8))
	assert.Equal(t, "abcde...", shorten("abcdefghijk", 8))
	assert.Equal(t, "二次方...", shorten("二次方程的解法", 6))
	assert.Equal(t, "ab", shorten("abcdef", 2))
}

func TestSourceFor(t *testing.T) {
	assert.Equal(t, types.SourceVideo, sourceFor(media.KindVideo))
	assert.Equal(t, types.SourceImage, sourceFor(media.KindImage))
}

func TestClientConfig_Defaults(t *testing.T) {
	setDefaults()
	cfg := clientConfig()
	assert.Equal(t, solver.DefaultBaseURL, cfg.Solver.BaseURL)
	assert.Equal(t, solver.DefaultTimeout, cfg.Solver.Timeout)
	assert.Equal(t, media.DefaultMaxFileSize, cfg.Media.MaxFileSize)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "inbox", cfg.Watch.Dir)
	assert.Equal(t, "ollama", cfg.Ollama.Container)
	assert.Equal(t, "equalearn/"+version, cfg.Solver.UserAgent)
}

func TestClientConfig_TokenFromSecrets(t *testing.T) {
	setDefaults()
	loadedSecrets = map[string]string{"equalearn-api-token": "from-file"}
	t.Cleanup(func() { loadedSecrets = nil })

	assert.Equal(t, "from-file", clientConfig().Solver.APIToken)

	viper.Set("server.api_token", "from-config")
	t.Cleanup(func() { viper.Set("server.api_token", "") })
	assert.Equal(t, "from-config", clientConfig().Solver.APIToken)
}
