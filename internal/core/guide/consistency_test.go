package guide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testDishes = []string{"김치찌개", "된장찌개", "비빔밥", "김치볶음밥", "볶음밥", "Pasta"}

func TestCheckerMismatch(t *testing.T) {
	c := NewChecker(NewVocabulary(testDishes))

	warning := c.Check("김치찌개 레시피", "된장찌개")
	assert.Equal(t, "주의: 요청하신 레시피(김치찌개)와 생성된 레시피(된장찌개)가 일치하지 않을 수 있습니다.", warning)
}

func TestCheckerNoWarning(t *testing.T) {
	c := NewChecker(NewVocabulary(testDishes))

	tests := []struct {
		name  string
		query string
		title string
	}{
		{"same dish", "김치찌개 레시피", "얼큰한 김치찌개"},
		{"query without dish", "오늘 저녁 뭐 먹지", "된장찌개"},
		{"title without dish", "비빔밥 만드는 법", "레시피 가이드"},
		{"containment", "김치볶음밥", "새우 볶음밥"},
		{"case insensitive", "토마토 pasta", "크림 PASTA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, c.Check(tt.query, tt.title))
		})
	}
}

func TestCheckerNilVocabulary(t *testing.T) {
	var c *Checker
	assert.Empty(t, c.Check("김치찌개", "된장찌개"))
	assert.Empty(t, NewChecker(nil).Check("김치찌개", "된장찌개"))
}

func TestVocabularyFind(t *testing.T) {
	v := NewVocabulary([]string{"김치볶음밥", "볶음밥", " ", "Pasta"})

	assert.Equal(t, []string{"김치볶음밥", "볶음밥"}, v.Find("김치볶음밥 말고 볶음밥"))
	assert.Equal(t, []string{"Pasta"}, v.Find("PASTA 요리"))
	assert.Nil(t, v.Find("라면"))
	assert.Len(t, v.Words(), 3)
}
