package guide

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVocabularyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dishes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dish_keywords:\n  - 김치찌개\n  - 라면\n"), 0o644))

	words, err := LoadVocabularyFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"김치찌개", "라면"}, words)

	_, err = LoadVocabularyFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatchVocabularyFileReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dishes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dish_keywords:\n  - 김치찌개\n"), 0o644))

	vocab := NewVocabulary(nil)
	require.NoError(t, WatchVocabularyFile(path, vocab))
	assert.Equal(t, []string{"김치찌개"}, vocab.Words())

	require.NoError(t, os.WriteFile(path, []byte("dish_keywords:\n  - 김치찌개\n  - 찜닭\n"), 0o644))

	require.Eventually(t, func() bool {
		return len(vocab.Find("안동 찜닭")) == 1
	}, 5*time.Second, 50*time.Millisecond)
}

func TestReloadKeepsVocabularyWhenFileIsEmpty(t *testing.T) {
	vocab := NewVocabulary([]string{"김치찌개", "라면"})

	assert.False(t, applyReload(vocab, "dishes.yaml", nil))
	assert.False(t, applyReload(vocab, "dishes.yaml", []string{" ", ""}))
	assert.Equal(t, []string{"김치찌개", "라면"}, vocab.Words())

	assert.True(t, applyReload(vocab, "dishes.yaml", []string{"찜닭"}))
	assert.Equal(t, []string{"찜닭"}, vocab.Words())
}

func TestWatchVocabularyFileSurvivesKeylessWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dishes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dish_keywords:\n  - 김치찌개\n"), 0o644))

	vocab := NewVocabulary(nil)
	require.NoError(t, WatchVocabularyFile(path, vocab))

	require.NoError(t, os.WriteFile(path, []byte("other: 1\n"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, []string{"김치찌개"}, vocab.Words())
}
