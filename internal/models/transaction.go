package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income and Expense are stored in separate tables but share the same shape.
// Amounts are exact decimals so totals never drift.

type Income struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ProfileID  uint            `gorm:"not null;index" json:"profileId"`
	CategoryID *uint           `gorm:"index" json:"categoryId"`
	Category   *Category       `gorm:"foreignKey:CategoryID" json:"-"`
	Name       string          `gorm:"not null" json:"name"`
	Icon       string          `json:"icon"`
	Amount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Date       Date            `gorm:"not null;index" json:"date"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (i Income) GetProfileID() uint { return i.ProfileID }

type Expense struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ProfileID  uint            `gorm:"not null;index" json:"profileId"`
	CategoryID *uint           `gorm:"index" json:"categoryId"`
	Category   *Category       `gorm:"foreignKey:CategoryID" json:"-"`
	Name       string          `gorm:"not null" json:"name"`
	Icon       string          `json:"icon"`
	Amount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Date       Date            `gorm:"not null;index" json:"date"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (e Expense) GetProfileID() uint { return e.ProfileID }

// Transaction is the read model returned by queries: a row from either table
// joined with its category name. It is never migrated or written directly.
type Transaction struct {
	ID           uint            `json:"id"`
	ProfileID    uint            `json:"profileId"`
	CategoryID   *uint           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Name         string          `json:"name"`
	Icon         string          `json:"icon"`
	Amount       decimal.Decimal `json:"amount"`
	Date         Date            `json:"date"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	// Type is only populated on merged dashboard lists ("income"/"expense").
	Type string `json:"type,omitempty"`
}
