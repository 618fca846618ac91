package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneymanager/internal/models"
)

// Kind selects the income or expense store.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindIncome, KindExpense:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("type must be 'income' or 'expense', got %q: %w", s, ErrInvalidArgument)
	}
}

func (k Kind) table() string {
	if k == KindIncome {
		return "incomes"
	}
	return "expenses"
}

// sortColumns whitelists filter sort fields against the joined query.
var sortColumns = map[string]string{
	"date":       "t.date",
	"amount":     "t.amount",
	"name":       "t.name",
	"createdAt":  "t.created_at",
	"created_at": "t.created_at",
}

type TransactionService struct {
	db         *gorm.DB
	categories *CategoryService
	now        func() time.Time
}

func NewTransactionService(db *gorm.DB, categories *CategoryService) *TransactionService {
	return &TransactionService{db: db, categories: categories, now: time.Now}
}

type TransactionInput struct {
	Name       string          `json:"name"`
	Icon       string          `json:"icon"`
	CategoryID *uint           `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Date       models.Date     `json:"date"`
}

// Add records a new transaction. The category must exist and belong to the
// same profile; that invariant is enforced here, not by the schema.
func (s *TransactionService) Add(ctx context.Context, profileID uint, kind Kind, in TransactionInput) (*models.Transaction, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("transaction name is required: %w", ErrInvalidArgument)
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative: %w", ErrInvalidArgument)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("date is required: %w", ErrInvalidArgument)
	}
	if in.CategoryID == nil {
		return nil, fmt.Errorf("categoryId is required: %w", ErrInvalidArgument)
	}
	if _, err := s.categories.ByIDForProfile(ctx, profileID, *in.CategoryID); err != nil {
		return nil, err
	}

	var id uint
	switch kind {
	case KindIncome:
		rec := models.Income{ProfileID: profileID, CategoryID: in.CategoryID,
			Name: in.Name, Icon: in.Icon, Amount: in.Amount, Date: in.Date}
		if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
			return nil, fmt.Errorf("create income: %w", err)
		}
		id = rec.ID
	case KindExpense:
		rec := models.Expense{ProfileID: profileID, CategoryID: in.CategoryID,
			Name: in.Name, Icon: in.Icon, Amount: in.Amount, Date: in.Date}
		if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
			return nil, fmt.Errorf("create expense: %w", err)
		}
		id = rec.ID
	default:
		return nil, fmt.Errorf("unknown kind %q: %w", kind, ErrInvalidArgument)
	}
	return s.byID(ctx, profileID, kind, id)
}

// CurrentMonth lists the profile's transactions for the running month.
func (s *TransactionService) CurrentMonth(ctx context.Context, profileID uint, kind Kind) ([]models.Transaction, error) {
	now := s.now()
	return s.ForMonth(ctx, profileID, kind, now.Year(), int(now.Month()))
}

// ForMonth lists transactions within the given month, first day through
// last day inclusive.
func (s *TransactionService) ForMonth(ctx context.Context, profileID uint, kind Kind, year, month int) ([]models.Transaction, error) {
	start, end, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	var out []models.Transaction
	err = s.scope(ctx, kind).
		Where("t.profile_id = ? AND t.date BETWEEN ? AND ?", profileID, start, end).
		Order("t.date, t.id").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list %s for month: %w", kind, err)
	}
	return out, nil
}

// Latest returns the n most recent transactions, newest first. Date ties
// break on id descending so the order is reproducible.
func (s *TransactionService) Latest(ctx context.Context, profileID uint, kind Kind, n int) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.scope(ctx, kind).
		Where("t.profile_id = ?", profileID).
		Order("t.date DESC, t.id DESC").
		Limit(n).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("latest %s: %w", kind, err)
	}
	return out, nil
}

// Total sums every historical amount for the profile. The fold happens in
// Go on exact decimals; a SQL SUM would go through the driver's float path.
func (s *TransactionService) Total(ctx context.Context, profileID uint, kind Kind) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := s.db.WithContext(ctx).Table(kind.table()).
		Where("profile_id = ?", profileID).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("total %s: %w", kind, err)
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}

// Delete removes a transaction after an ownership check. The delete is a
// single conditional statement so the owner cannot change between check
// and delete; zero rows affected is then disambiguated.
func (s *TransactionService) Delete(ctx context.Context, profileID uint, kind Kind, id uint) error {
	var res *gorm.DB
	switch kind {
	case KindIncome:
		res = s.db.WithContext(ctx).Where("id = ? AND profile_id = ?", id, profileID).Delete(&models.Income{})
	default:
		res = s.db.WithContext(ctx).Where("id = ? AND profile_id = ?", id, profileID).Delete(&models.Expense{})
	}
	if res.Error != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the record never existed or it belongs to
	// someone else.
	var record models.Ownable
	var err error
	switch kind {
	case KindIncome:
		income := models.Income{}
		err = s.db.WithContext(ctx).First(&income, id).Error
		record = income
	default:
		expense := models.Expense{}
		err = s.db.WithContext(ctx).First(&expense, id).Error
		record = expense
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("probe %s %d: %w", kind, id, err)
	}
	if err := CheckOwnership(profileID, record); err != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, err)
	}
	// A concurrent writer restored the row between the delete and the
	// probe; report it gone, which is what the caller asked for.
	return nil
}

type Filter struct {
	StartDate models.Date
	EndDate   models.Date
	Keyword   string
	SortField string
	SortDesc  bool
}

// Search lists transactions in the inclusive date range whose name contains
// the keyword, case-insensitively. An empty keyword matches everything.
func (s *TransactionService) Search(ctx context.Context, profileID uint, kind Kind, f Filter) ([]models.Transaction, error) {
	column, ok := sortColumns[f.SortField]
	if !ok {
		return nil, fmt.Errorf("sort field %q: %w", f.SortField, ErrInvalidArgument)
	}
	direction := "ASC"
	if f.SortDesc {
		direction = "DESC"
	}
	var out []models.Transaction
	err := s.scope(ctx, kind).
		Where("t.profile_id = ? AND t.date BETWEEN ? AND ?", profileID, f.StartDate, f.EndDate).
		Where("LOWER(t.name) LIKE ?", "%"+strings.ToLower(f.Keyword)+"%").
		Order(column + " " + direction).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", kind, err)
	}
	return out, nil
}

// ForDate lists the profile's transactions on a single day.
func (s *TransactionService) ForDate(ctx context.Context, profileID uint, kind Kind, day models.Date) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.scope(ctx, kind).
		Where("t.profile_id = ? AND t.date = ?", profileID, day).
		Order("t.id").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list %s for date: %w", kind, err)
	}
	return out, nil
}

func (s *TransactionService) byID(ctx context.Context, profileID uint, kind Kind, id uint) (*models.Transaction, error) {
	var out []models.Transaction
	err := s.scope(ctx, kind).
		Where("t.id = ? AND t.profile_id = ?", id, profileID).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("lookup %s %d: %w", kind, id, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return &out[0], nil
}

// scope builds the base read query: the kind's table joined with the
// category name, "N/A" when uncategorized.
func (s *TransactionService) scope(ctx context.Context, kind Kind) *gorm.DB {
	return s.db.WithContext(ctx).
		Table(kind.table()+" AS t").
		Select("t.*, COALESCE(c.name, 'N/A') AS category_name").
		Joins("LEFT JOIN categories c ON c.id = t.category_id")
}

func monthRange(year, month int) (models.Date, models.Date, error) {
	if month < 1 || month > 12 {
		return models.Date{}, models.Date{}, fmt.Errorf("month must be between 1 and 12, got %d: %w", month, ErrInvalidArgument)
	}
	start := models.NewDate(year, time.Month(month), 1)
	end := models.DateOf(start.AddDate(0, 1, -1))
	return start, end, nil
}
