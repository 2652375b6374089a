package domain

import "time"

// User mirrors what the account service manages. This service only reads it
// for ownership checks and foreign keys; registration and authentication live
// upstream.
type User struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Username  string    `json:"username" gorm:"size:150;not null"`
	Phone     string    `json:"phone" gorm:"size:20"`
	Address   string    `json:"address" gorm:"type:text"`
	City      string    `json:"city" gorm:"size:100"`
	Country   string    `json:"country" gorm:"size:100"`
	IsSeller  bool      `json:"isSeller" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
