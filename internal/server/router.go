package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
	"gorm.io/gorm"

	"moneymanager/internal/auth"
	"moneymanager/internal/handlers"
	"moneymanager/internal/httpx"
	"moneymanager/internal/mail"
	"moneymanager/internal/services"
)

// Deps bundles everything the router wires together. Services are built in
// main so the scheduler can share them.
type Deps struct {
	DB            *gorm.DB
	Tokens        *auth.Manager
	Profiles      *services.ProfileService
	Categories    *services.CategoryService
	Transactions  *services.TransactionService
	Dashboard     *services.DashboardService
	Notifications *services.NotificationService
	Mailer        mail.Mailer
}

// New constructs the root http.Handler with all routes and middlewares.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := d.DB.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	protected := func(h http.HandlerFunc) http.Handler {
		return d.Tokens.RequireAuth(d.Profiles.ResolveEmail, h)
	}

	// Identity
	ph := handlers.NewProfileHandler(d.Profiles)
	mux.HandleFunc("POST /register", ph.Register)
	mux.HandleFunc("GET /activate", ph.Activate)
	mux.HandleFunc("POST /login", ph.Login)
	mux.Handle("GET /profile", protected(ph.Me))

	// Categories
	ch := handlers.NewCategoryHandler(d.Categories)
	mux.Handle("POST /categories", protected(ch.Create))
	mux.Handle("GET /categories", protected(ch.List))
	mux.Handle("GET /categories/{type}", protected(ch.ListByType))
	mux.Handle("PUT /categories/{id}", protected(ch.Update))

	// Transactions, one handler per store
	for route, th := range map[string]*handlers.TransactionHandler{
		"/incomes":  handlers.NewIncomeHandler(d.Transactions),
		"/expenses": handlers.NewExpenseHandler(d.Transactions),
	} {
		mux.Handle("POST "+route, protected(th.Add))
		mux.Handle("GET "+route, protected(th.List))
		mux.Handle("GET "+route+"/by-month", protected(th.ByMonth))
		mux.Handle("DELETE "+route+"/{id}", protected(th.Delete))
		mux.Handle("GET "+route+"/download/excel", protected(th.DownloadExcel))
	}

	// Aggregation
	dh := handlers.NewDashboardHandler(d.Dashboard)
	mux.Handle("GET /dashboard", protected(dh.Summary))
	fh := handlers.NewFilterHandler(d.Transactions)
	mux.Handle("POST /filter", protected(fh.Filter))

	// Current-month spreadsheet downloads
	xh := handlers.NewExcelHandler(d.Transactions)
	mux.Handle("GET /excel/download/income", protected(xh.DownloadIncome))
	mux.Handle("GET /excel/download/expense", protected(xh.DownloadExpense))

	// Mailed reports
	eh := handlers.NewEmailHandler(d.Transactions, d.Profiles, d.Mailer)
	mux.Handle("GET /email/income-excel", protected(eh.IncomeExcel))
	mux.Handle("GET /email/expense-excel", protected(eh.ExpenseExcel))

	// On-demand job triggers
	nh := handlers.NewNotificationHandler(d.Notifications)
	mux.Handle("POST /notifications/reminder", protected(nh.Reminder))
	mux.Handle("POST /notifications/expense-summary", protected(nh.ExpenseSummary))

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return corsWrapper.Handler(withRecover(withLogging(mux)))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "path", r.URL.Path, "panic", rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
