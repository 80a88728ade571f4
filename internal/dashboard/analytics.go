package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
)

// MonthlyCashflow is one month of income versus expenses.
type MonthlyCashflow struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// CategorySpending is one spending category with its share of the total.
type CategorySpending struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// WeeklyActivity is one day of transaction activity.
type WeeklyActivity struct {
	Day          string          `json:"day"`
	Transactions int             `json:"transactions"`
	Amount       decimal.Decimal `json:"amount"`
}

// Analytics is the analytics page payload.
type Analytics struct {
	Monthly  []MonthlyCashflow  `json:"monthly"`
	Spending []CategorySpending `json:"spending"`
	Weekly   []WeeklyActivity   `json:"weekly"`
}

// Demo analytics datasets shown until real aggregation over linked accounts
// lands. Percentages are computed, not stored.
var (
	monthlyData = []MonthlyCashflow{
		{Month: "Jul", Income: dec(5200), Expenses: dec(3200)},
		{Month: "Aug", Income: dec(4800), Expenses: dec(3500)},
		{Month: "Sep", Income: dec(5500), Expenses: dec(3100)},
		{Month: "Oct", Income: dec(5100), Expenses: dec(3800)},
		{Month: "Nov", Income: dec(5900), Expenses: dec(3400)},
		{Month: "Dec", Income: dec(6200), Expenses: dec(4200)},
	}

	spendingAmounts = []struct {
		category string
		amount   int64
	}{
		{"Housing", 1500},
		{"Food", 650},
		{"Transportation", 450},
		{"Utilities", 320},
		{"Entertainment", 280},
		{"Shopping", 520},
		{"Other", 180},
	}

	weeklyActivity = []WeeklyActivity{
		{Day: "Mon", Transactions: 5, Amount: dec(245)},
		{Day: "Tue", Transactions: 8, Amount: dec(380)},
		{Day: "Wed", Transactions: 3, Amount: dec(120)},
		{Day: "Thu", Transactions: 12, Amount: dec(560)},
		{Day: "Fri", Transactions: 15, Amount: dec(720)},
		{Day: "Sat", Transactions: 18, Amount: dec(890)},
		{Day: "Sun", Transactions: 6, Amount: dec(280)},
	}
)

// GetAnalytics returns the spending analytics datasets with category shares
// computed against the period total.
func (s *Service) GetAnalytics(ctx context.Context) (*Analytics, error) {
	total := decimal.Zero
	for _, entry := range spendingAmounts {
		total = total.Add(dec(entry.amount))
	}

	spending := make([]CategorySpending, 0, len(spendingAmounts))
	for _, entry := range spendingAmounts {
		amount := dec(entry.amount)
		percentage := decimal.Zero
		if !total.IsZero() {
			percentage = amount.Div(total).Mul(hundred).Round(1)
		}
		spending = append(spending, CategorySpending{
			Category:   entry.category,
			Amount:     amount,
			Percentage: percentage,
		})
	}

	return &Analytics{
		Monthly:  monthlyData,
		Spending: spending,
		Weekly:   weeklyActivity,
	}, nil
}

func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
