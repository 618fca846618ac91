package models

import "time"

// Profile is a registered user account. Profiles are created inactive and
// must redeem their activation token before they can log in.
type Profile struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FullName        string    `gorm:"not null" json:"fullName"`
	Email           string    `gorm:"unique;not null;index" json:"email"`
	Password        string    `gorm:"not null" json:"-"`
	ProfileImageURL string    `json:"profileImageUrl"`
	IsActive        bool      `gorm:"not null;default:false" json:"isActive"`
	ActivationToken string    `gorm:"index" json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
