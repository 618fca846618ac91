package models

import "time"

const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
)

// Category is a named income/expense tag owned by exactly one profile.
// The name is unique per profile, enforced at write time.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uint      `gorm:"not null;index" json:"profileId"`
	Name      string    `gorm:"not null" json:"name"`
	Icon      string    `json:"icon"`
	Type      string    `gorm:"not null" json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Category) GetProfileID() uint { return c.ProfileID }

func ValidCategoryType(t string) bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}
