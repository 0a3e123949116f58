package query

import (
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"recipe-assistant/internal/pkg/common"
)

// FallbackQuery 尚無成功查詢時使用
const FallbackQuery = "인기 레시피 추천해줘"

// 太籠統、需要以上一次查詢取代的字詞
var genericQueries = map[string]bool{
	"레시피": true, "요리": true, "음식": true, "요리법": true, "메뉴": true,
	"추천": true, "인기": true, "맛있는": true, "만들기": true, "조리법": true,
}

// History 最近成功查詢的 MRU 清單，新的在前且不重複
type History struct {
	mu      sync.RWMutex
	queries []string
	size    int
}

// NewHistory 創建查詢歷史
func NewHistory(size int) *History {
	if size <= 0 {
		size = 10
	}
	return &History{size: size}
}

// Save 保存成功的查詢；少於兩個字元的查詢會被忽略
func (h *History) Save(q string) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < 2 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	kept := make([]string, 0, h.size)
	kept = append(kept, q)
	for _, existing := range h.queries {
		if existing != q && len(kept) < h.size {
			kept = append(kept, existing)
		}
	}
	h.queries = kept

	common.LogDebug("保存成功查詢", zap.String("query", q))
}

// Last 最近一次成功查詢，沒有時返回 FallbackQuery
func (h *History) Last() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.queries) == 0 {
		return FallbackQuery
	}
	return h.queries[0]
}

// Recent 最近的成功查詢副本
func (h *History) Recent() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.queries))
	copy(out, h.queries)
	return out
}

// IsValid 至少兩個字元且不含方括號
func IsValid(q string) bool {
	q = strings.TrimSpace(q)
	return utf8.RuneCountInString(q) >= 2 && !strings.ContainsAny(q, "[]")
}

// Correct 無效或籠統的查詢以上一次成功查詢取代，否則返回去除空白後的查詢
func (h *History) Correct(q string) string {
	if !IsValid(q) {
		last := h.Last()
		common.LogWarn("無效查詢改用上一次查詢", zap.String("query", q), zap.String("last", last))
		return last
	}

	trimmed := strings.TrimSpace(q)
	if genericQueries[strings.ToLower(trimmed)] {
		last := h.Last()
		common.LogInfo("籠統查詢改用上一次查詢", zap.String("query", q), zap.String("last", last))
		return last
	}
	return trimmed
}
