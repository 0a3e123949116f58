package model

import "time"

// MessageType 對話訊息來源
type MessageType string

const (
	MessageTypeUser   MessageType = "USER"
	MessageTypeAI     MessageType = "AI"
	MessageTypeSystem MessageType = "SYSTEM"
)

// ChatMessage 持久化的對話訊息
type ChatMessage struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Sender      string      `gorm:"size:64;index" json:"sender"`
	Message     string      `gorm:"type:text" json:"message"`
	MessageType MessageType `gorm:"size:16" json:"messageType"`
	CreatedAt   time.Time   `gorm:"index" json:"createdAt"`
}

// PushSubscription 瀏覽器推播訂閱
type PushSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Endpoint  string    `gorm:"size:512;not null" json:"endpoint"`
	P256dh    string    `gorm:"size:255" json:"p256dh"`
	Auth      string    `gorm:"size:255" json:"auth"`
	CreatedAt time.Time `json:"createdAt"`
}

// All 需要自動遷移的模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Recipe{},
		&Comment{},
		&Favorite{},
		&ChatMessage{},
		&PushSubscription{},
		&Cover{},
	}
}
