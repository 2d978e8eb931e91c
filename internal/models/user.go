package models

import "time"

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"not null" json:"email"`
	DisplayName string    `gorm:"not null;default:''" json:"display_name"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
