package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"financeos/internal/database"
	"financeos/internal/models"
	apperrors "financeos/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// Service computes the read models behind the dashboard pages.
type Service struct {
	finance  *database.FinanceRepository
	profiles *database.ProfileRepository
}

// NewService creates the dashboard service
func NewService(finance *database.FinanceRepository, profiles *database.ProfileRepository) *Service {
	return &Service{finance: finance, profiles: profiles}
}

// AccountsOverview is the accounts page payload.
type AccountsOverview struct {
	Accounts         []models.Account `json:"accounts"`
	TotalAssets      decimal.Decimal  `json:"total_assets"`
	TotalLiabilities decimal.Decimal  `json:"total_liabilities"`
	NetWorth         decimal.Decimal  `json:"net_worth"`
}

// TransactionsPage is the transactions page payload.
type TransactionsPage struct {
	Transactions []models.Transaction `json:"transactions"`
	Categories   []string             `json:"categories"`
}

// PortfolioSummary is the portfolio page payload.
type PortfolioSummary struct {
	Holdings           []models.Holding `json:"holdings"`
	TotalValue         decimal.Decimal  `json:"total_value"`
	DailyChange        decimal.Decimal  `json:"daily_change"`
	DailyChangePercent decimal.Decimal  `json:"daily_change_percent"`
}

// GetAccounts returns all linked accounts with asset and liability totals.
// Credit balances are stored negative and counted as liabilities.
func (s *Service) GetAccounts(ctx context.Context) (*AccountsOverview, error) {
	accounts, err := s.finance.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	assets := decimal.Zero
	liabilities := decimal.Zero
	for _, account := range accounts {
		if account.Balance.IsNegative() {
			liabilities = liabilities.Add(account.Balance.Abs())
		} else {
			assets = assets.Add(account.Balance)
		}
	}

	return &AccountsOverview{
		Accounts:         accounts,
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		NetWorth:         assets.Sub(liabilities),
	}, nil
}

// GetTransactions returns transactions filtered by search term and category,
// along with the category filter options.
func (s *Service) GetTransactions(ctx context.Context, search, category string) (*TransactionsPage, error) {
	transactions, err := s.finance.ListTransactions(ctx, search, category)
	if err != nil {
		return nil, err
	}
	categories, err := s.finance.Categories(ctx)
	if err != nil {
		return nil, err
	}

	return &TransactionsPage{
		Transactions: transactions,
		Categories:   append([]string{"All"}, categories...),
	}, nil
}

// GetPortfolio returns all holdings with total value and the day's change.
func (s *Service) GetPortfolio(ctx context.Context) (*PortfolioSummary, error) {
	holdings, err := s.finance.ListHoldings(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	change := decimal.Zero
	for _, holding := range holdings {
		total = total.Add(holding.Value)
		change = change.Add(holding.Value.Mul(holding.ChangePercent).Div(hundred))
	}

	percent := decimal.Zero
	if base := total.Sub(change); !base.IsZero() {
		percent = change.Div(base).Mul(hundred)
	}

	return &PortfolioSummary{
		Holdings:           holdings,
		TotalValue:         total.Round(2),
		DailyChange:        change.Round(2),
		DailyChangePercent: percent.Round(2),
	}, nil
}

// UpdateProfile applies the user-editable profile fields. Users can only
// update their own record here; role and ban fields are out of reach.
func (s *Service) UpdateProfile(ctx context.Context, profile *models.Profile, fullName string, avatarURL *string) (*models.Profile, error) {
	if fullName == "" {
		return nil, apperrors.NewInvalidInputError("full name is required")
	}

	fields := map[string]interface{}{"full_name": fullName}
	if avatarURL != nil {
		fields["avatar_url"] = *avatarURL
	}
	if err := s.profiles.UpdateFields(ctx, profile.ID, fields); err != nil {
		return nil, err
	}

	return s.profiles.GetByID(ctx, profile.ID)
}
