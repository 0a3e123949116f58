package user

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"recipe-assistant/internal/model"
	"recipe-assistant/internal/pkg/common"
)

// ErrUserNotFound 使用者不存在
var ErrUserNotFound = common.WithMessage(common.ErrNotFound, "User not found")

// SignupRequest 註冊請求
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

// UpdateRequest 更新請求，空值欄位保持不變
type UpdateRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Service 使用者管理
type Service struct {
	db   *gorm.DB
	cost int
}

// NewService 創建使用者服務
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, cost: bcrypt.DefaultCost}
}

// Create 註冊使用者；電子郵件不可重複，未給名稱時以電子郵件代替
func (s *Service) Create(ctx context.Context, req SignupRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, common.WithMessage(common.ErrInvalidInput, "이메일과 비밀번호가 필요합니다.")
	}

	if err := s.ensureEmailAvailable(ctx, email, 0); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = email
	}

	u := &model.User{
		Email:        email,
		Username:     username,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}

	common.LogInfo("使用者已註冊", zap.Uint("user_id", u.ID))
	return u, nil
}

// List 所有使用者
func (s *Service) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

// Get 依 ID 取得使用者
func (s *Service) Get(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Update 更新使用者資料
func (s *Service) Update(ctx context.Context, id uint, req UpdateRequest) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" && email != u.Email {
		if err := s.ensureEmailAvailable(ctx, email, u.ID); err != nil {
			return nil, err
		}
		u.Email = email
	}
	if username := strings.TrimSpace(req.Username); username != "" {
		u.Username = username
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		u.Phone = phone
	}
	if req.Password != "" {
		hash, err := s.hash(req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// Delete 刪除使用者
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// VerifyPassword 比對密碼與儲存的雜湊
func VerifyPassword(u *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (s *Service) ensureEmailAvailable(ctx context.Context, email string, selfID uint) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email)
	if selfID != 0 {
		q = q.Where("id <> ?", selfID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return common.ErrEmailAlreadyInUse
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", common.Wrap(common.ErrInternalError, err)
	}
	return string(hash), nil
}
