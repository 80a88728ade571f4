package database

import (
	"context"
	"strings"

	"github.com/jinzhu/gorm"

	"financeos/internal/models"
	apperrors "financeos/pkg/errors"
)

// FinanceRepository provides typed access to the linked-account datasets
// shown on the dashboard pages.
type FinanceRepository struct {
	db *gorm.DB
}

// NewFinanceRepository creates a finance repository
func NewFinanceRepository(db *gorm.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

// ListAccounts returns all linked accounts
func (r *FinanceRepository) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.Order("created_at asc").Find(&accounts).Error; err != nil {
		return nil, apperrors.NewInternalErrorWithCause("failed to list accounts", err)
	}
	return accounts, nil
}

// ListTransactions returns transactions newest first, optionally filtered by
// a case-insensitive name/merchant search and a category.
func (r *FinanceRepository) ListTransactions(ctx context.Context, search, category string) ([]models.Transaction, error) {
	query := r.db.Order("date desc")
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(merchant) LIKE ?", term, term)
	}
	if category != "" && category != "All" {
		query = query.Where("category = ?", category)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, apperrors.NewInternalErrorWithCause("failed to list transactions", err)
	}
	return transactions, nil
}

// Categories returns the distinct transaction categories
func (r *FinanceRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	rows, err := r.db.Model(&models.Transaction{}).Select("DISTINCT category").Order("category asc").Rows()
	if err != nil {
		return nil, apperrors.NewInternalErrorWithCause("failed to list categories", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, apperrors.NewInternalErrorWithCause("failed to scan category", err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// ListHoldings returns all portfolio holdings
func (r *FinanceRepository) ListHoldings(ctx context.Context) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := r.db.Order("symbol asc").Find(&holdings).Error; err != nil {
		return nil, apperrors.NewInternalErrorWithCause("failed to list holdings", err)
	}
	return holdings, nil
}

// CreateAccount inserts a linked account (seed data)
func (r *FinanceRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		return apperrors.NewInternalErrorWithCause("failed to create account", err)
	}
	return nil
}

// CreateTransaction inserts a transaction (seed data)
func (r *FinanceRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if err := r.db.Create(txn).Error; err != nil {
		return apperrors.NewInternalErrorWithCause("failed to create transaction", err)
	}
	return nil
}

// CreateHolding inserts a holding (seed data)
func (r *FinanceRepository) CreateHolding(ctx context.Context, holding *models.Holding) error {
	if err := r.db.Create(holding).Error; err != nil {
		return apperrors.NewInternalErrorWithCause("failed to create holding", err)
	}
	return nil
}
