package comment

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipe-assistant/internal/model"
	"recipe-assistant/internal/pkg/common"
)

var (
	// ErrCommentNotFound 留言不存在
	ErrCommentNotFound = common.WithMessage(common.ErrNotFound, "댓글을 찾을 수 없습니다.")
	// ErrNotOwner 只能刪除自己的留言
	ErrNotOwner = common.WithMessage(common.ErrForbidden, "타인이 작성한 댓글은 삭제할 수 없습니다!")
)

// Notifier 新留言通知
type Notifier interface {
	Broadcast(ctx context.Context, message string)
}

// Request 新增留言或回覆
type Request struct {
	RecipeID uint   `json:"recipeId"`
	UserID   uint   `json:"userId" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// Service 食譜留言
type Service struct {
	db       *gorm.DB
	notifier Notifier
}

// NewService 創建留言服務；notifier 可為 nil
func NewService(db *gorm.DB, notifier Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

// ListByRecipe 食譜的頂層留言，依建立順序
func (s *Service) ListByRecipe(ctx context.Context, recipeID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND parent_id IS NULL", recipeID).
		Order("created_at, id").
		Find(&comments).Error
	return comments, err
}

// ListReplies 留言的回覆
func (s *Service) ListReplies(ctx context.Context, commentID uint) ([]model.Comment, error) {
	if _, err := s.get(ctx, commentID); err != nil {
		return nil, err
	}
	var replies []model.Comment
	err := s.db.WithContext(ctx).
		Where("parent_id = ?", commentID).
		Order("created_at, id").
		Find(&replies).Error
	return replies, err
}

// Add 新增頂層留言；使用者與食譜都必須存在
func (s *Service) Add(ctx context.Context, req Request) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.WithMessage(common.ErrInvalidInput, "댓글 내용이 비어있습니다.")
	}
	if req.RecipeID == 0 || req.UserID == 0 {
		return nil, common.WithMessage(common.ErrInvalidInput, "postId와 userId는 null일 수 없습니다.")
	}
	if err := s.ensureExists(ctx, &model.User{}, req.UserID, "사용자를 찾을 수 없습니다."); err != nil {
		return nil, err
	}
	if err := s.ensureExists(ctx, &model.Recipe{}, req.RecipeID, "레시피를 찾을 수 없습니다."); err != nil {
		return nil, err
	}

	c := &model.Comment{RecipeID: req.RecipeID, UserID: req.UserID, Content: content}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}

	common.LogInfo("留言已新增", zap.Uint("comment_id", c.ID), zap.Uint("recipe_id", c.RecipeID))
	s.notify(ctx, "새 댓글이 등록되었습니다.")
	return c, nil
}

// Reply 回覆留言，回覆沿用父留言的食譜
func (s *Service) Reply(ctx context.Context, parentID uint, req Request) (*model.Comment, error) {
	parent, err := s.get(ctx, parentID)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.WithMessage(common.ErrInvalidInput, "댓글 내용이 비어있습니다.")
	}
	if err := s.ensureExists(ctx, &model.User{}, req.UserID, "사용자를 찾을 수 없습니다."); err != nil {
		return nil, err
	}

	c := &model.Comment{
		RecipeID: parent.RecipeID,
		UserID:   req.UserID,
		ParentID: &parent.ID,
		Content:  content,
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}

	s.notify(ctx, "댓글에 새 답글이 등록되었습니다.")
	return c, nil
}

// Delete 刪除留言與其回覆；只有作者可以刪除
func (s *Service) Delete(ctx context.Context, commentID, userID uint) error {
	c, err := s.get(ctx, commentID)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrNotOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", c.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(c).Error
	})
}

func (s *Service) get(ctx context.Context, id uint) (*model.Comment, error) {
	var c model.Comment
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
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

func (s *Service) notify(ctx context.Context, message string) {
	if s.notifier != nil {
		s.notifier.Broadcast(ctx, message)
	}
}
