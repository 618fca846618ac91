package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"moneymanager/internal/auth"
	"moneymanager/internal/mail"
	"moneymanager/internal/models"
	"moneymanager/internal/services"
)

// env wires the handlers onto a mux the same way the server package does,
// against a per-test in-memory database.
type env struct {
	db     *gorm.DB
	tokens *auth.Manager
	mailer *recordingMailer
	mux    *http.ServeMux
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}, &models.Category{}, &models.Income{}, &models.Expense{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tokens := auth.NewManager("handler-test-secret", time.Hour)
	mailer := &recordingMailer{}
	profiles := services.NewProfileService(db, tokens, mailer, "http://localhost:8080/activate")
	categories := services.NewCategoryService(db)
	transactions := services.NewTransactionService(db, categories)

	mux := http.NewServeMux()
	protected := func(h http.HandlerFunc) http.Handler {
		return tokens.RequireAuth(profiles.ResolveEmail, h)
	}

	ph := NewProfileHandler(profiles)
	mux.HandleFunc("POST /register", ph.Register)
	mux.HandleFunc("GET /activate", ph.Activate)
	mux.HandleFunc("POST /login", ph.Login)
	mux.Handle("GET /profile", protected(ph.Me))

	ch := NewCategoryHandler(categories)
	mux.Handle("POST /categories", protected(ch.Create))
	mux.Handle("GET /categories", protected(ch.List))
	mux.Handle("GET /categories/{type}", protected(ch.ListByType))
	mux.Handle("PUT /categories/{id}", protected(ch.Update))

	for route, th := range map[string]*TransactionHandler{
		"/incomes":  NewIncomeHandler(transactions),
		"/expenses": NewExpenseHandler(transactions),
	} {
		mux.Handle("POST "+route, protected(th.Add))
		mux.Handle("GET "+route, protected(th.List))
		mux.Handle("GET "+route+"/by-month", protected(th.ByMonth))
		mux.Handle("DELETE "+route+"/{id}", protected(th.Delete))
		mux.Handle("GET "+route+"/download/excel", protected(th.DownloadExcel))
	}

	fh := NewFilterHandler(transactions)
	mux.Handle("POST /filter", protected(fh.Filter))
	eh := NewEmailHandler(transactions, profiles, mailer)
	mux.Handle("GET /email/income-excel", protected(eh.IncomeExcel))
	mux.Handle("GET /email/expense-excel", protected(eh.ExpenseExcel))

	return &env{db: db, tokens: tokens, mailer: mailer, mux: mux}
}

// seedActiveProfile creates an activated profile and returns it with a
// valid bearer token.
func (e *env) seedActiveProfile(t *testing.T, email string) (models.Profile, string) {
	t.Helper()
	profile := models.Profile{FullName: "Test User", Email: email, Password: "x", IsActive: true}
	if err := e.db.Create(&profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	token, err := e.tokens.Generate(email)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return profile, token
}

func (e *env) seedIncome(t *testing.T, profileID uint, name, amount string, date models.Date) models.Income {
	t.Helper()
	income := models.Income{
		ProfileID: profileID,
		Name:      name,
		Amount:    decimal.RequireFromString(amount),
		Date:      date,
	}
	if err := e.db.Create(&income).Error; err != nil {
		t.Fatalf("create income: %v", err)
	}
	return income
}

// do performs a request against the mux. An empty token leaves the request
// anonymous.
func (e *env) do(method, target, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// recordingMailer satisfies mail.Mailer without a network.
type recordingMailer struct {
	sent     []string
	lastFile string
	fail     bool
}

var _ mail.Mailer = (*recordingMailer)(nil)

func (m *recordingMailer) Send(_ context.Context, to, _, _ string, _ bool) error {
	if m.fail {
		return fmt.Errorf("smtp: boom")
	}
	m.sent = append(m.sent, to)
	return nil
}

func (m *recordingMailer) SendWithAttachment(_ context.Context, to, _, _ string, _ []byte, filename string) error {
	if m.fail {
		return fmt.Errorf("smtp: boom")
	}
	m.sent = append(m.sent, to)
	m.lastFile = filename
	return nil
}
