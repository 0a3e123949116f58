package push

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipe-assistant/internal/model"
	"recipe-assistant/internal/pkg/common"
)

// SubscribeRequest 瀏覽器送出的訂閱資訊
type SubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// Sender 實際投遞推播的通道
type Sender interface {
	Send(ctx context.Context, sub model.PushSubscription, message string) error
}

// LogSender 只寫日誌的投遞通道
type LogSender struct{}

// Send 記錄一筆推播
func (LogSender) Send(_ context.Context, sub model.PushSubscription, message string) error {
	common.LogInfo("推播通知",
		zap.Uint("user_id", sub.UserID),
		zap.String("endpoint", common.Preview(sub.Endpoint, 48)),
		zap.String("message", message),
	)
	return nil
}

// Service 推播訂閱與發送
type Service struct {
	db     *gorm.DB
	sender Sender
}

// NewService 創建推播服務；sender 為 nil 時只寫日誌
func NewService(db *gorm.DB, sender Sender) *Service {
	if sender == nil {
		sender = LogSender{}
	}
	return &Service{db: db, sender: sender}
}

// Subscribe 登記或更新訂閱，同一使用者同一端點只保留一筆
func (s *Service) Subscribe(ctx context.Context, userID uint, req SubscribeRequest) (*model.PushSubscription, error) {
	endpoint := strings.TrimSpace(req.Endpoint)
	if endpoint == "" {
		return nil, common.WithMessage(common.ErrInvalidInput, "endpoint가 필요합니다.")
	}

	sub := model.PushSubscription{UserID: userID, Endpoint: endpoint}
	err := s.db.WithContext(ctx).
		Where(model.PushSubscription{UserID: userID, Endpoint: endpoint}).
		Assign(model.PushSubscription{P256dh: req.Keys.P256dh, Auth: req.Keys.Auth}).
		FirstOrCreate(&sub).Error
	if err != nil {
		return nil, err
	}

	common.LogInfo("推播訂閱已登記", zap.Uint("user_id", userID))
	return &sub, nil
}

// SendToUser 發送給使用者的所有訂閱，回傳成功數
func (s *Service) SendToUser(ctx context.Context, userID uint, message string) (int, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return 0, err
	}
	if len(subs) == 0 {
		return 0, common.WithMessage(common.ErrNotFound, "구독 정보가 없습니다.")
	}
	return s.deliver(ctx, subs, message), nil
}

// SendToAll 發送給所有訂閱
func (s *Service) SendToAll(ctx context.Context, message string) (int, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return 0, err
	}
	return s.deliver(ctx, subs, message), nil
}

// Broadcast 發送給所有訂閱，錯誤只記錄
func (s *Service) Broadcast(ctx context.Context, message string) {
	if _, err := s.SendToAll(ctx, message); err != nil {
		common.LogWarn("推播廣播失敗", zap.Error(err))
	}
}

func (s *Service) deliver(ctx context.Context, subs []model.PushSubscription, message string) int {
	sent := 0
	for _, sub := range subs {
		if err := s.sender.Send(ctx, sub, message); err != nil {
			common.LogWarn("推播發送失敗",
				zap.Uint("subscription_id", sub.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}
	return sent
}
