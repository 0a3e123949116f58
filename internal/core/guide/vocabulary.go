package guide

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"recipe-assistant/internal/pkg/common"
)

const vocabularyKey = "dish_keywords"

// Vocabulary 可熱更新的菜名詞彙表
type Vocabulary struct {
	mu    sync.RWMutex
	words []string
}

// NewVocabulary 以給定詞彙建立詞彙表
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{}
	v.Replace(words)
	return v
}

// Replace 整批替換詞彙，空白項目會被忽略
func (v *Vocabulary) Replace(words []string) {
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			cleaned = append(cleaned, w)
		}
	}

	v.mu.Lock()
	v.words = cleaned
	v.mu.Unlock()
}

// Words 返回目前詞彙的副本
func (v *Vocabulary) Words() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]string, len(v.words))
	copy(out, v.words)
	return out
}

// Find 由左至右掃描文字，返回出現的詞彙（不分大小寫，保留重複）
//
// 同一位置依詞彙表順序嘗試，匹配後跳過該詞。
func (v *Vocabulary) Find(text string) []string {
	words := v.Words()
	if len(words) == 0 || text == "" {
		return nil
	}

	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	haystack := strings.ToLower(text)

	var found []string
	for pos := 0; pos < len(haystack); {
		matched := false
		for i, w := range lowered {
			if strings.HasPrefix(haystack[pos:], w) {
				found = append(found, words[i])
				pos += len(w)
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(haystack[pos:])
			pos += size
		}
	}
	return found
}

// LoadVocabularyFile 讀取含 dish_keywords 清單的設定檔
func LoadVocabularyFile(path string) ([]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("讀取詞彙檔失敗: %w", err)
	}
	return v.GetStringSlice(vocabularyKey), nil
}

// WatchVocabularyFile 載入詞彙檔並在檔案變更時更新詞彙表
func WatchVocabularyFile(path string, vocab *Vocabulary) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("讀取詞彙檔失敗: %w", err)
	}
	vocab.Replace(v.GetStringSlice(vocabularyKey))

	v.OnConfigChange(func(e fsnotify.Event) {
		applyReload(vocab, e.Name, v.GetStringSlice(vocabularyKey))
	})
	v.WatchConfig()

	common.LogInfo("監聽菜名詞彙檔", zap.String("file", path))
	return nil
}

// applyReload 重新載入的清單為空時保留原詞彙表，檔案可能仍在寫入中
func applyReload(vocab *Vocabulary, file string, words []string) bool {
	if len(NewVocabulary(words).Words()) == 0 {
		common.LogWarn("詞彙檔沒有可用的菜名，保留原詞彙表",
			zap.String("file", file),
			zap.Int("current", len(vocab.Words())),
		)
		return false
	}
	vocab.Replace(words)
	common.LogInfo("菜名詞彙已更新",
		zap.String("file", file),
		zap.Int("count", len(vocab.Words())),
	)
	return true
}
