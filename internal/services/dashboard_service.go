package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"moneymanager/internal/models"
)

const recentTransactionCount = 5

type DashboardService struct {
	transactions *TransactionService
}

func NewDashboardService(transactions *TransactionService) *DashboardService {
	return &DashboardService{transactions: transactions}
}

type Dashboard struct {
	TotalBalance       decimal.Decimal      `json:"totalBalance"`
	TotalIncomes       decimal.Decimal      `json:"totalIncomes"`
	TotalExpenses      decimal.Decimal      `json:"totalExpenses"`
	Recent5Incomes     []models.Transaction `json:"recent5incomes"`
	Recent5Expenses    []models.Transaction `json:"recent5expenses"`
	RecentTransactions []models.Transaction `json:"recentTransactions"`
}

// Summary assembles the dashboard: all-time totals, the five most recent
// records per kind, and the two lists merged newest-first.
func (s *DashboardService) Summary(ctx context.Context, profileID uint) (*Dashboard, error) {
	totalIncomes, err := s.transactions.Total(ctx, profileID, KindIncome)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}
	totalExpenses, err := s.transactions.Total(ctx, profileID, KindExpense)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}
	latestIncomes, err := s.transactions.Latest(ctx, profileID, KindIncome, recentTransactionCount)
	if err != nil {
		return nil, fmt.Errorf("dashboard recents: %w", err)
	}
	latestExpenses, err := s.transactions.Latest(ctx, profileID, KindExpense, recentTransactionCount)
	if err != nil {
		return nil, fmt.Errorf("dashboard recents: %w", err)
	}

	merged := make([]models.Transaction, 0, len(latestIncomes)+len(latestExpenses))
	for _, t := range latestIncomes {
		t.Type = string(KindIncome)
		merged = append(merged, t)
	}
	for _, t := range latestExpenses {
		t.Type = string(KindExpense)
		merged = append(merged, t)
	}
	// Date descending, then creation time descending; stable beyond that.
	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date.Time) {
			return merged[i].Date.After(merged[j].Date.Time)
		}
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return &Dashboard{
		TotalBalance:       totalIncomes.Sub(totalExpenses),
		TotalIncomes:       totalIncomes,
		TotalExpenses:      totalExpenses,
		Recent5Incomes:     latestIncomes,
		Recent5Expenses:    latestExpenses,
		RecentTransactions: merged,
	}, nil
}
