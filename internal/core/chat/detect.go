package chat

import (
	"fmt"
	"regexp"
	"strings"

	"recipe-assistant/internal/core/guide"
	"recipe-assistant/internal/model"
)

var recipeKeywords = []string{
	"레시피", "요리", "만드는 법", "만들기", "조리법", "요리법",
	"끓이", "볶", "찌개", "반찬", "파스타", "음식",
}

var recipeStepPattern = regexp.MustCompile(`(?i)(?:Step|단계|스텝)\s+\d+:`)

// 飲食限制關鍵字
var dietaryKeywords = []string{"채식", "알레르기", "글루텐", "유제품"}

// IsRecipeQuery 問題是否與食譜相關
func IsRecipeQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	for _, k := range recipeKeywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// ContainsRecipePattern 回答是否具備步驟標記、材料標籤與時間
func ContainsRecipePattern(answer string) bool {
	return recipeStepPattern.MatchString(answer) &&
		strings.Contains(answer, "재료:") &&
		strings.Contains(answer, "분")
}

// BuildContextualPrompt 組合包含目前食譜狀態的提示
func BuildContextualPrompt(message string, rc RecipeContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "현재 요리 중인 레시피: %s\n", rc.RecipeTitle)
	fmt.Fprintf(&b, "현재 단계: %d/%d\n", rc.CurrentStep, rc.TotalSteps)
	if rc.RecipeType != "" {
		fmt.Fprintf(&b, "요리 유형: %s\n", rc.RecipeType)
	}
	fmt.Fprintf(&b, "\n사용자 질문: %s\n", message)
	fmt.Fprintf(&b, "\n중요 지침: 현재 사용자가 요리 중인 \"%s\" 레시피에 대해서만 답변하세요. 다른 레시피를 제공하지 말고, "+
		"사용자의 질문에 현재 레시피의 맥락에서 답변해 주세요. "+
		"만약 재료 대체나 조리법 변경에 관한 질문이라면, 현재 레시피의 맥락에서 조언을 제공하세요.", rc.RecipeTitle)
	return b.String()
}

// AppendDietaryStep 對話中提到飲食限制時，在指南末尾加入提醒步驟
func AppendDietaryStep(g *guide.Guide, history []model.ChatMessage) bool {
	if g == nil {
		return false
	}
	for _, msg := range history {
		for _, k := range dietaryKeywords {
			if !strings.Contains(msg.Message, k) {
				continue
			}
			next := 1
			if n := len(g.Steps); n > 0 {
				next = g.Steps[n-1].Number + 1
			}
			g.Steps = append(g.Steps, guide.Step{
				Number:          next,
				Instruction:     "⚠️ 특별한 식단 요구사항 참고: " + msg.Message,
				StepIngredients: []string{},
			})
			return true
		}
	}
	return false
}
