package database

import (
	"time"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"financeos/internal/models"
)

// Seed ensures essential demo data exists in the database
func Seed(db *gorm.DB) error {
	if err := seedProfiles(db); err != nil {
		return err
	}
	if err := seedAgents(db); err != nil {
		return err
	}
	return seedFinanceData(db)
}

func seedProfiles(db *gorm.DB) error {
	var count int64
	db.Model(&models.Profile{}).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	profiles := []models.Profile{
		{Email: "root@financeos.dev", FullName: "System Owner", Role: models.RoleSuperAdmin, PasswordHash: string(hash)},
		{Email: "admin@financeos.dev", FullName: "Operations Admin", Role: models.RoleAdmin, PasswordHash: string(hash)},
		{Email: "demo@financeos.dev", FullName: "Demo User", Role: models.RoleUser, PasswordHash: string(hash)},
	}
	for i := range profiles {
		if err := db.Create(&profiles[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedAgents(db *gorm.DB) error {
	var count int64
	db.Model(&models.Agent{}).Count(&count)
	if count > 0 {
		return nil
	}

	desc := func(s string) *string { return &s }
	agents := []models.Agent{
		{Name: "Ledger", Type: "finance", Description: desc("Reconciles account balances and flags anomalies"), Status: models.AgentStatusActive},
		{Name: "Scout", Type: "business", Description: desc("Summarizes market movers relevant to held positions"), Status: models.AgentStatusActive},
		{Name: "Builder", Type: "development", Description: desc("Maintains integration glue for data providers"), Status: models.AgentStatusActive},
		{Name: "Probe", Type: "testing", Description: desc("Runs regression suites against the data pipeline"), Status: models.AgentStatusPaused},
		{Name: "Herald", Type: "marketing", Description: desc("Drafts user-facing digest emails"), Status: models.AgentStatusPaused},
		{Name: "Closer", Type: "sales", Description: desc("Tracks upgrade funnel conversions"), Status: models.AgentStatusActive},
		{Name: "Keeper", Type: "operations", Description: desc("Schedules backups and housekeeping jobs"), Status: models.AgentStatusActive},
		{Name: "Warden", Type: "security", Description: desc("Scans for credential leaks and access drift"), Status: models.AgentStatusActive},
	}
	for i := range agents {
		if err := db.Create(&agents[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedFinanceData(db *gorm.DB) error {
	var count int64
	db.Model(&models.Account{}).Count(&count)
	if count == 0 {
		accounts := []models.Account{
			{Name: "Chase Checking", Type: models.AccountTypeChecking, Institution: "Chase Bank", Mask: "4532", Balance: dec("5420.50"), Connected: true},
			{Name: "Ally Savings", Type: models.AccountTypeSavings, Institution: "Ally Bank", Mask: "7891", Balance: dec("12500.00"), Connected: true},
			{Name: "Fidelity 401k", Type: models.AccountTypeInvestment, Institution: "Fidelity", Mask: "2341", Balance: dec("45800.00"), Connected: true},
			{Name: "Amex Platinum", Type: models.AccountTypeCredit, Institution: "American Express", Mask: "1004", Balance: dec("-1245.80"), Connected: true},
			{Name: "Vanguard IRA", Type: models.AccountTypeInvestment, Institution: "Vanguard", Mask: "5678", Balance: dec("32100.00"), Connected: false},
		}
		for i := range accounts {
			if err := db.Create(&accounts[i]).Error; err != nil {
				return err
			}
		}
	}

	db.Model(&models.Transaction{}).Count(&count)
	if count == 0 {
		transactions := []models.Transaction{
			{Name: "Amazon", Merchant: "Amazon", Amount: dec("-89.99"), Date: day("2024-01-15"), Category: "Shopping", Type: "debit", Status: "completed"},
			{Name: "Salary Deposit", Merchant: "Employer Inc.", Amount: dec("3500.00"), Date: day("2024-01-14"), Category: "Income", Type: "credit", Status: "completed"},
			{Name: "Whole Foods", Merchant: "Whole Foods Market", Amount: dec("-156.23"), Date: day("2024-01-13"), Category: "Food & Drink", Type: "debit", Status: "completed"},
			{Name: "Netflix", Merchant: "Netflix", Amount: dec("-15.99"), Date: day("2024-01-12"), Category: "Entertainment", Type: "debit", Status: "completed"},
			{Name: "Uber", Merchant: "Uber", Amount: dec("-24.50"), Date: day("2024-01-11"), Category: "Transportation", Type: "debit", Status: "completed"},
			{Name: "Starbucks", Merchant: "Starbucks", Amount: dec("-8.75"), Date: day("2024-01-10"), Category: "Food & Drink", Type: "debit", Status: "pending"},
			{Name: "Electric Bill", Merchant: "Electric Company", Amount: dec("-145.00"), Date: day("2024-01-09"), Category: "Utilities", Type: "debit", Status: "completed"},
			{Name: "Freelance Work", Merchant: "Client Corp", Amount: dec("1250.00"), Date: day("2024-01-08"), Category: "Income", Type: "credit", Status: "completed"},
		}
		for i := range transactions {
			if err := db.Create(&transactions[i]).Error; err != nil {
				return err
			}
		}
	}

	db.Model(&models.Holding{}).Count(&count)
	if count == 0 {
		holdings := []models.Holding{
			{Symbol: "AAPL", Name: "Apple Inc.", Quantity: dec("50"), Price: dec("178.50"), Value: dec("8925.00"), ChangePercent: dec("2.5")},
			{Symbol: "GOOGL", Name: "Alphabet Inc.", Quantity: dec("20"), Price: dec("142.30"), Value: dec("2846.00"), ChangePercent: dec("-0.8")},
			{Symbol: "MSFT", Name: "Microsoft Corp.", Quantity: dec("35"), Price: dec("378.90"), Value: dec("13261.50"), ChangePercent: dec("1.2")},
			{Symbol: "AMZN", Name: "Amazon.com Inc.", Quantity: dec("15"), Price: dec("178.25"), Value: dec("2673.75"), ChangePercent: dec("3.1")},
			{Symbol: "TSLA", Name: "Tesla Inc.", Quantity: dec("25"), Price: dec("248.50"), Value: dec("6212.50"), ChangePercent: dec("-2.3")},
		}
		for i := range holdings {
			if err := db.Create(&holdings[i]).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}
