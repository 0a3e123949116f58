package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/core/guide"
)

const answer = "레시피: 떡볶이\n재료:\n- 떡\n- 고추장\n\n단계 1: 떡을 5분간 불립니다.\n단계 2: 고추장을 넣고 10분간 끓입니다.\n"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseFromStdin(t *testing.T) {
	out, err := run(t, answer, "parse", "--query", "김치찌개 레시피")
	require.NoError(t, err)

	var g guide.Guide
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.Equal(t, "떡볶이", g.Title)
	assert.Len(t, g.Steps, 2)
	assert.Equal(t, 15, g.TotalTimeMinutes)
	assert.NotEmpty(t, g.ConsistencyWarning)
}

func TestParseFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.txt")
	require.NoError(t, os.WriteFile(path, []byte(answer), 0o644))

	out, err := run(t, "", "parse", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "떡볶이"`)
}

func TestParseBlankInput(t *testing.T) {
	_, err := run(t, "  \n", "parse")
	assert.Error(t, err)
}

func TestCheckWithCustomVocabulary(t *testing.T) {
	vocab := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(vocab, []byte("dish_keywords:\n  - 수제비\n  - 칼국수\n"), 0o644))

	out, err := run(t, "", "--vocab", vocab, "check", "-q", "수제비 만들기", "-t", "칼국수")
	require.NoError(t, err)
	assert.Contains(t, out, "수제비")
	assert.Contains(t, out, "칼국수")

	out, err = run(t, "", "check", "-q", "수제비 만들기", "-t", "칼국수")
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)

	_, err = run(t, "", "check", "-q", "only query")
	assert.Error(t, err)
}
