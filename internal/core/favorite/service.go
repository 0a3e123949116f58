package favorite

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipe-assistant/internal/model"
	"recipe-assistant/internal/pkg/common"
)

// ErrFavoriteNotFound 收藏不存在
var ErrFavoriteNotFound = common.WithMessage(common.ErrNotFound, "즐겨찾기를 찾을 수 없습니다.")

// Request 收藏請求
type Request struct {
	UserID   uint `json:"userId" binding:"required"`
	RecipeID uint `json:"recipeId" binding:"required"`
}

// Service 收藏管理，(使用者, 食譜) 最多一筆
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListAll 所有收藏
func (s *Service) ListAll(ctx context.Context) ([]model.Favorite, error) {
	var favs []model.Favorite
	err := s.db.WithContext(ctx).Order("id").Find(&favs).Error
	return favs, err
}

// ListByUser 使用者的收藏
func (s *Service) ListByUser(ctx context.Context, userID uint) ([]model.Favorite, error) {
	var favs []model.Favorite
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&favs).Error
	return favs, err
}

// Get 依 ID 取得收藏
func (s *Service) Get(ctx context.Context, id uint) (*model.Favorite, error) {
	var fav model.Favorite
	if err := s.db.WithContext(ctx).First(&fav, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}
	return &fav, nil
}

// Add 加入收藏；已收藏時回傳既有紀錄
func (s *Service) Add(ctx context.Context, req Request) (*model.Favorite, error) {
	if req.UserID == 0 || req.RecipeID == 0 {
		return nil, common.WithMessage(common.ErrInvalidInput, "userId와 recipeId가 필요합니다.")
	}
	if err := s.ensureExists(ctx, &model.User{}, req.UserID, "사용자를 찾을 수 없습니다."); err != nil {
		return nil, err
	}
	if err := s.ensureExists(ctx, &model.Recipe{}, req.RecipeID, "레시피를 찾을 수 없습니다."); err != nil {
		return nil, err
	}

	fav := model.Favorite{UserID: req.UserID, RecipeID: req.RecipeID}
	err := s.db.WithContext(ctx).
		Where(model.Favorite{UserID: req.UserID, RecipeID: req.RecipeID}).
		FirstOrCreate(&fav).Error
	if err != nil {
		return nil, err
	}

	common.LogInfo("已加入收藏", zap.Uint("user_id", fav.UserID), zap.Uint("recipe_id", fav.RecipeID))
	return &fav, nil
}

// Remove 移除使用者對食譜的收藏
func (s *Service) Remove(ctx context.Context, userID, recipeID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func (s *Service) ensureExists(ctx context.Context, m interface{}, id uint, notFound string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(m).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return common.WithMessage(common.ErrNotFound, notFound)
	}
	return nil
}
