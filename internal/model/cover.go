package model

import "time"

// Cover 食譜封面圖片，檔案存於上傳目錄
type Cover struct {
	ID          uint      `gorm:"primaryKey" json:"coverId"`
	RecipeID    *uint     `gorm:"index" json:"recipeId,omitempty"`
	FileName    string    `gorm:"size:255;not null;uniqueIndex" json:"fileName"`
	ContentType string    `gorm:"size:64" json:"contentType"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}
