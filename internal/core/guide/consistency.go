package guide

import (
	"fmt"
	"strings"
)

// Checker 以封閉的菜名詞彙比對查詢與生成的標題
type Checker struct {
	vocab *Vocabulary
}

// NewChecker 創建一致性檢查器
func NewChecker(vocab *Vocabulary) *Checker {
	return &Checker{vocab: vocab}
}

// Check 查詢與標題都含有已知菜名且彼此毫無交集時返回警告，否則返回空字串
func (c *Checker) Check(query, title string) string {
	if c == nil || c.vocab == nil {
		return ""
	}

	queryKeywords := c.vocab.Find(query)
	titleKeywords := c.vocab.Find(title)
	if len(queryKeywords) == 0 || len(titleKeywords) == 0 {
		return ""
	}

	for _, qk := range queryKeywords {
		for _, tk := range titleKeywords {
			if strings.Contains(qk, tk) || strings.Contains(tk, qk) {
				return ""
			}
		}
	}

	return fmt.Sprintf("주의: 요청하신 레시피(%s)와 생성된 레시피(%s)가 일치하지 않을 수 있습니다.",
		strings.Join(queryKeywords, ", "), strings.Join(titleKeywords, ", "))
}
