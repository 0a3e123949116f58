package recipe

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"recipe-assistant/internal/core/guide"
	"recipe-assistant/internal/model"
	"recipe-assistant/internal/pkg/common"
)

// ErrRecipeNotFound 食譜不存在
var ErrRecipeNotFound = common.WithMessage(common.ErrNotFound, "레시피를 찾을 수 없습니다.")

// Service 食譜 CRUD 與查詢
type Service struct {
	db *gorm.DB
}

// NewService 創建新的食譜服務
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List 所有食譜
func (s *Service) List(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := s.db.WithContext(ctx).Order("id").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get 依 ID 取得食譜
func (s *Service) Get(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Create 建立食譜；難度為必填
func (s *Service) Create(ctx context.Context, req Request) (*model.Recipe, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, common.WithMessage(common.ErrInvalidInput, "레시피 제목이 필요합니다.")
	}
	if strings.TrimSpace(req.Difficulty) == "" {
		return nil, common.WithMessage(common.ErrInvalidInput, "Difficulty value cannot be null")
	}
	difficulty, err := model.ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Instructions:    req.Instructions,
		PreparationTime: req.PreparationTime,
		Difficulty:      difficulty,
		Ingredients:     model.IngredientList(req.Ingredients),
		Steps:           datatypes.JSONSlice[guide.Step]{},
		AuthorID:        req.AuthorID,
	}
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}

	common.LogInfo("食譜已建立", zap.Uint("recipe_id", recipe.ID), zap.String("title", recipe.Title))
	return recipe, nil
}

// Update 更新食譜；空白的難度沿用原值
func (s *Service) Update(ctx context.Context, id uint, req Request) (*model.Recipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Difficulty) != "" {
		difficulty, err := model.ParseDifficulty(req.Difficulty)
		if err != nil {
			return nil, err
		}
		recipe.Difficulty = difficulty
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		recipe.Title = title
	}
	recipe.Description = req.Description
	recipe.Instructions = req.Instructions
	recipe.PreparationTime = req.PreparationTime
	if req.Ingredients != nil {
		recipe.Ingredients = model.IngredientList(req.Ingredients)
	}

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// Delete 刪除食譜
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Recipe{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	common.LogInfo("食譜已刪除", zap.Uint("recipe_id", id))
	return nil
}

// Search 標題包含關鍵字的食譜
func (s *Service) Search(ctx context.Context, keyword string) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := s.db.WithContext(ctx).
		Where("title LIKE ?", "%"+strings.TrimSpace(keyword)+"%").
		Order("id").
		Find(&recipes).Error
	return recipes, err
}

// FilterByDifficulty 指定難度的食譜
func (s *Service) FilterByDifficulty(ctx context.Context, difficulty string) ([]model.Recipe, error) {
	d, err := model.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	var recipes []model.Recipe
	err = s.db.WithContext(ctx).Where("difficulty = ?", d).Order("id").Find(&recipes).Error
	return recipes, err
}

// FilterByPreparationTime 準備時間正好等於 minutes 的食譜
func (s *Service) FilterByPreparationTime(ctx context.Context, minutes int) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := s.db.WithContext(ctx).Where("preparation_time = ?", minutes).Order("id").Find(&recipes).Error
	return recipes, err
}

// SaveGuide 將解析後的指南存為食譜
func (s *Service) SaveGuide(ctx context.Context, g *guide.Guide, difficulty string, authorID *uint) (*model.Recipe, error) {
	if !g.HasSteps() {
		return nil, common.WithMessage(common.ErrInvalidInput, "저장할 단계가 없습니다.")
	}

	var d model.Difficulty
	if strings.TrimSpace(difficulty) != "" {
		parsed, err := model.ParseDifficulty(difficulty)
		if err != nil {
			return nil, err
		}
		d = parsed
	}

	recipe := model.RecipeFromGuide(g, d)
	recipe.AuthorID = authorID
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}

	common.LogInfo("指南已存為食譜",
		zap.Uint("recipe_id", recipe.ID),
		zap.Int("steps", len(recipe.Steps)),
	)
	return recipe, nil
}
