package rag

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

// newTestRunner 以 sh 取代 python 執行測試腳本
func newTestRunner(t *testing.T, recipeScript, guideScript string, timeout time.Duration) *Runner {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipe.sh"), []byte(recipeScript), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.sh"), []byte(guideScript), 0o755))

	return NewRunner(&config.Config{
		AI: config.AIConfig{Timeout: timeout},
		RAG: config.RAGConfig{
			PythonPath:         "sh",
			ScriptDirectory:    dir,
			RecipeScript:       "recipe.sh",
			CookingGuideScript: "guide.sh",
		},
	})
}

func TestGenerateExtractsEnvelopeAnswer(t *testing.T) {
	r := newTestRunner(t, `printf '{"status":"ok","data":{"answer":"답변: %s"}}\n' "$1"`, "", 0)

	got, err := r.Generate(context.Background(), "김치찌개")
	require.NoError(t, err)
	assert.Equal(t, "답변: 김치찌개", got)
	assert.Equal(t, Name, r.Name())
}

func TestGenerateReturnsRawText(t *testing.T) {
	r := newTestRunner(t, "printf '  레시피: 라면\\n단계 1: 끓입니다.  \\n'", "", 0)

	got, err := r.Generate(context.Background(), "라면")
	require.NoError(t, err)
	assert.Equal(t, "레시피: 라면\n단계 1: 끓입니다.", got)
}

func TestGenerateJSONWithoutAnswer(t *testing.T) {
	r := newTestRunner(t, `printf '{"data":{"other":1}}'`, "", 0)

	got, err := r.Generate(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, `{"data":{"other":1}}`, got)
}

func TestGeneratePassesEnvironment(t *testing.T) {
	r := newTestRunner(t, `printf '%s|%s|%s' "$PYTHONIOENCODING" "$LANG" "$PYTHONPATH"`, "", 0)

	got, err := r.Generate(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "utf-8|ko_KR.UTF-8|"+r.config.ScriptDirectory, got)
}

func TestGenerateNonZeroExit(t *testing.T) {
	r := newTestRunner(t, "echo 'ModuleNotFoundError: faiss' >&2\nexit 3", "", 0)

	_, err := r.Generate(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAIServiceError)
	assert.Contains(t, err.Error(), "ModuleNotFoundError: faiss")
}

func TestGenerateTimeout(t *testing.T) {
	r := newTestRunner(t, "exec sleep 5", "", 100*time.Millisecond)

	start := time.Now()
	_, err := r.Generate(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrGatewayTimeout)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestGenerateWithContextUsesPromptFile(t *testing.T) {
	r := newTestRunner(t, "", `printf '%s\n' "$1"; cat "$1"; printf '|%s' "$2"`, 0)

	got, err := r.GenerateWithContext(context.Background(), "현재 단계 2/5", "")
	require.NoError(t, err)

	lines := strings.SplitN(got, "\n", 2)
	require.Len(t, lines, 2)
	assert.Equal(t, "현재 단계 2/5|{}", lines[1])

	_, statErr := os.Stat(lines[0])
	assert.True(t, os.IsNotExist(statErr), "prompt file should be removed")
}
