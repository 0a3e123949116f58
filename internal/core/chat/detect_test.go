package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/core/guide"
	"recipe-assistant/internal/model"
)

func TestIsRecipeQuery(t *testing.T) {
	assert.True(t, IsRecipeQuery("김치찌개 만드는 법"))
	assert.True(t, IsRecipeQuery("파스타 추천"))
	assert.True(t, IsRecipeQuery("  감자 볶음  "))
	assert.False(t, IsRecipeQuery("오늘 날씨"))
	assert.False(t, IsRecipeQuery(""))
}

func TestContainsRecipePattern(t *testing.T) {
	assert.True(t, ContainsRecipePattern("재료: 김치\nstep 1: 5분 볶기"))
	assert.True(t, ContainsRecipePattern("재료: 김치\n단계 2: 10분 끓이기"))
	assert.False(t, ContainsRecipePattern("재료: 김치\n단계 1. 10분 끓이기"))
	assert.False(t, ContainsRecipePattern("단계 1: 10분 끓이기"))
	assert.False(t, ContainsRecipePattern("재료: 김치\n단계 1: 끓이기"))
}

func TestAppendDietaryStep(t *testing.T) {
	g := &guide.Guide{Steps: []guide.Step{{Number: 1, Instruction: "끓입니다."}}}
	history := []model.ChatMessage{
		{Message: "김치찌개 레시피"},
		{Message: "저는 유제품 알레르기가 있어요"},
	}

	assert.True(t, AppendDietaryStep(g, history))
	require.Len(t, g.Steps, 2)
	assert.Equal(t, 2, g.Steps[1].Number)
	assert.Equal(t, "⚠️ 특별한 식단 요구사항 참고: 저는 유제품 알레르기가 있어요", g.Steps[1].Instruction)

	empty := &guide.Guide{}
	assert.True(t, AppendDietaryStep(empty, []model.ChatMessage{{Message: "채식 위주로"}}))
	assert.Equal(t, 1, empty.Steps[0].Number)

	assert.False(t, AppendDietaryStep(&guide.Guide{}, []model.ChatMessage{{Message: "안녕"}}))
	assert.False(t, AppendDietaryStep(nil, history))
}

func TestAppendDietaryStepAfterGappedNumbers(t *testing.T) {
	g, err := guide.NewParser().Parse("레시피: 두부조림\n단계 2: 두부를 굽습니다.\n단계 5: 양념을 넣고 5분간 조립니다.")
	require.NoError(t, err)

	require.True(t, AppendDietaryStep(g, []model.ChatMessage{{Message: "채식 식단이에요"}}))
	numbers := make([]int, 0, len(g.Steps))
	for _, s := range g.Steps {
		numbers = append(numbers, s.Number)
	}
	assert.Equal(t, []int{2, 5, 6}, numbers)
}
