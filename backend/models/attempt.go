package models

import "time"

// Attempt is one finished quiz. Rows are never updated.
type Attempt struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"-"`
	Total      int       `gorm:"not null" json:"total"`
	Correct    int       `gorm:"not null" json:"correct"`
	Category   string    `gorm:"size:128" json:"category"`
	Difficulty string    `gorm:"size:32" json:"difficulty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
