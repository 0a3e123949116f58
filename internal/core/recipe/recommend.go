package recipe

import (
	"context"
	"sort"
	"strings"

	"recipe-assistant/internal/model"
)

// Recommend 依難度、準備時間 ±20% 與食材重疊數推薦最多五道食譜
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) ([]model.Recipe, error) {
	query := s.db.WithContext(ctx).Order("id")

	if strings.TrimSpace(req.Difficulty) != "" {
		d, err := model.ParseDifficulty(req.Difficulty)
		if err != nil {
			return nil, err
		}
		query = query.Where("difficulty = ?", d)
	}

	if req.PreparationTime > 0 {
		lower := int(float64(req.PreparationTime) * 0.8)
		upper := int(float64(req.PreparationTime) * 1.2)
		query = query.Where("preparation_time BETWEEN ? AND ?", lower, upper)
	}

	var candidates []model.Recipe
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}

	preferred := normalizeIngredients(req.Ingredients)
	if len(preferred) > 0 {
		scores := make(map[uint]int, len(candidates))
		for _, r := range candidates {
			scores[r.ID] = ingredientScore(r.Ingredients, preferred)
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return scores[candidates[i].ID] > scores[candidates[j].ID]
		})
	}

	if len(candidates) > maxRecommendations {
		candidates = candidates[:maxRecommendations]
	}
	return candidates, nil
}

func normalizeIngredients(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ingredientScore 食譜中含有偏好食材名稱的項目數
func ingredientScore(ingredients []string, preferred []string) int {
	score := 0
	for _, ing := range ingredients {
		for _, p := range preferred {
			if strings.Contains(ing, p) {
				score++
				break
			}
		}
	}
	return score
}
