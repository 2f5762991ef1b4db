package models

import "time"

// Rating is one user's score for one product. One row per (product, user);
// resubmitting overwrites the existing row.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"uniqueIndex:idx_product_user" json:"product_id"`
	UserID    string    `gorm:"uniqueIndex:idx_product_user" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"` // 1..5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
