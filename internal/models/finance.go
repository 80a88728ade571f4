package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// Account types
const (
	AccountTypeChecking   = "checking"
	AccountTypeSavings    = "savings"
	AccountTypeInvestment = "investment"
	AccountTypeCredit     = "credit"
)

// Account represents a linked bank or investment account. Credit balances
// are stored negative.
type Account struct {
	ID          string          `gorm:"primary_key;type:varchar(36)" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Type        string          `gorm:"not null" json:"type"`
	Institution string          `json:"institution"`
	Mask        string          `json:"mask"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,2)" json:"balance"`
	Currency    string          `gorm:"not null;default:'USD'" json:"currency"`
	Connected   bool            `gorm:"not null;default:true" json:"connected"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BeforeCreate assigns a UUID when none was provided
func (a *Account) BeforeCreate(scope *gorm.Scope) error {
	if a.ID == "" {
		return scope.SetColumn("ID", uuid.NewString())
	}
	return nil
}

// Transaction represents one account transaction. Debits are negative,
// credits positive.
type Transaction struct {
	ID        string          `gorm:"primary_key;type:varchar(36)" json:"id"`
	Name      string          `gorm:"not null" json:"name"`
	Merchant  string          `json:"merchant"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	Date      time.Time       `gorm:"index" json:"date"`
	Category  string          `gorm:"index" json:"category"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// BeforeCreate assigns a UUID when none was provided
func (t *Transaction) BeforeCreate(scope *gorm.Scope) error {
	if t.ID == "" {
		return scope.SetColumn("ID", uuid.NewString())
	}
	return nil
}

// Holding represents one portfolio position.
type Holding struct {
	ID            string          `gorm:"primary_key;type:varchar(36)" json:"id"`
	Symbol        string          `gorm:"unique_index;not null" json:"symbol"`
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,8)" json:"quantity"`
	Price         decimal.Decimal `gorm:"type:decimal(20,2)" json:"price"`
	Value         decimal.Decimal `gorm:"type:decimal(20,2)" json:"value"`
	ChangePercent decimal.Decimal `gorm:"type:decimal(10,4)" json:"change_percent"`
	Currency      string          `gorm:"not null;default:'USD'" json:"currency"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none was provided
func (h *Holding) BeforeCreate(scope *gorm.Scope) error {
	if h.ID == "" {
		return scope.SetColumn("ID", uuid.NewString())
	}
	return nil
}
