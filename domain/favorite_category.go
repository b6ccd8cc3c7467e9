package domain

import "time"

type FavoriteCategory struct {
	UserID    uint      `gorm:"column:user_id;primaryKey" json:"user_id"`
	Category  string    `gorm:"column:category;type:text;primaryKey" json:"category"`
	Priority  int       `gorm:"column:priority;not null;default:0" json:"priority"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (FavoriteCategory) TableName() string {
	return "user_favorite_categories"
}
