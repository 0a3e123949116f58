package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"recipe-assistant/internal/core/guide"
	"recipe-assistant/internal/pkg/common"
)

// Difficulty 食譜難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// ParseDifficulty 不分大小寫解析難度字串
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToUpper(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", common.WithMessage(common.ErrInvalidInput, "알 수 없는 난이도입니다: "+s)
	}
}

// Recipe 食譜
type Recipe struct {
	ID              uint                            `gorm:"primaryKey" json:"recipeId"`
	Title           string                          `gorm:"size:255;not null;index" json:"title"`
	Description     string                          `gorm:"type:text" json:"description"`
	Instructions    string                          `gorm:"type:text" json:"instructions"`
	PreparationTime int                             `gorm:"index" json:"preparationTime"`
	Difficulty      Difficulty                      `gorm:"size:16;index" json:"difficulty"`
	Ingredients     datatypes.JSONSlice[string]     `json:"ingredients"`
	Steps           datatypes.JSONSlice[guide.Step] `json:"steps"`
	AuthorID        *uint                           `gorm:"index" json:"authorId,omitempty"`
	CreatedAt       time.Time                       `json:"createdAt"`
	UpdatedAt       time.Time                       `json:"updatedAt"`
}

// RecipeFromGuide 將解析後的指南轉為可儲存的食譜
func RecipeFromGuide(g *guide.Guide, difficulty Difficulty) *Recipe {
	instructions := make([]string, 0, len(g.Steps))
	for _, s := range g.Steps {
		instructions = append(instructions, s.Instruction)
	}
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	return &Recipe{
		Title:           g.Title,
		Instructions:    strings.Join(instructions, "\n"),
		PreparationTime: g.TotalTimeMinutes,
		Difficulty:      difficulty,
		Ingredients:     IngredientList(g.Ingredients),
		Steps:           datatypes.JSONSlice[guide.Step](nonNil(g.Steps)),
	}
}

// nonNil 空切片以 [] 而非 null 寫入欄位
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// IngredientList 以 JSON 欄位保存的食材清單
func IngredientList(items []string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](nonNil(items))
}
