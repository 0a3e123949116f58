package model

import "time"

// Comment 食譜留言；ParentID 不為空時為回覆
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"commentId"`
	RecipeID  uint      `gorm:"not null;index" json:"recipeId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	ParentID  *uint     `gorm:"index" json:"parentId,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Favorite 使用者收藏的食譜，(UserID, RecipeID) 唯一
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"favoriteId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe" json:"userId"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe" json:"recipeId"`
	CreatedAt time.Time `json:"createdAt"`
}
