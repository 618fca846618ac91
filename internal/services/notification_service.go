package services

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"moneymanager/internal/mail"
	"moneymanager/internal/models"
)

// NotificationService runs the mail jobs: a daily reminder for every
// profile and a per-profile expense summary. Each profile's send is
// independent; one failure never stops the loop.
type NotificationService struct {
	db           *gorm.DB
	transactions *TransactionService
	mailer       mail.Mailer
	frontendURL  string
	loc          *time.Location
	now          func() time.Time
}

func NewNotificationService(db *gorm.DB, transactions *TransactionService, mailer mail.Mailer, frontendURL string, loc *time.Location) *NotificationService {
	return &NotificationService{
		db:           db,
		transactions: transactions,
		mailer:       mailer,
		frontendURL:  frontendURL,
		loc:          loc,
		now:          time.Now,
	}
}

// Outcome records what happened for one profile during a job run.
type Outcome struct {
	ProfileID uint   `json:"profileId"`
	Email     string `json:"email"`
	Sent      bool   `json:"sent"`
	Skipped   bool   `json:"skipped,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SendDailyReminder mails every profile a static nudge to log the day's
// income and expenses.
func (s *NotificationService) SendDailyReminder(ctx context.Context) ([]Outcome, error) {
	slog.Info("job started", "job", "daily_reminder")
	profiles, err := s.allProfiles(ctx)
	if err != nil {
		return nil, err
	}
	outcomes := make([]Outcome, 0, len(profiles))
	for _, profile := range profiles {
		body := "Hi " + html.EscapeString(profile.FullName) + ",<br><br>" +
			"This is a friendly reminder to log your daily income and expenses in the Money Manager application.<br><br>" +
			`<a href="` + s.frontendURL + `" style="display:inline-block;padding:10px 20px;font-size:16px;color:#ffffff;background-color:#4CAF50;text-decoration:none;border-radius:5px;font-weight:bold;">Go to Money Manager</a>` +
			"<br><br>Best regards,<br>Money Manager Team"
		outcomes = append(outcomes, s.attempt(ctx, profile,
			"Daily Reminder: Add Your Income and Expenses", body))
	}
	slog.Info("job completed", "job", "daily_reminder", "profiles", len(outcomes))
	return outcomes, nil
}

// SendDailyExpenseSummary mails each profile a table of today's expenses in
// the configured reference zone. Profiles with nothing logged today get no
// mail at all.
func (s *NotificationService) SendDailyExpenseSummary(ctx context.Context) ([]Outcome, error) {
	slog.Info("job started", "job", "daily_expense_summary")
	profiles, err := s.allProfiles(ctx)
	if err != nil {
		return nil, err
	}
	today := models.DateOf(s.now().In(s.loc))
	outcomes := make([]Outcome, 0, len(profiles))
	for _, profile := range profiles {
		expenses, err := s.transactions.ForDate(ctx, profile.ID, KindExpense, today)
		if err != nil {
			slog.Warn("summary query failed", "profile_id", profile.ID, "error", err)
			outcomes = append(outcomes, Outcome{ProfileID: profile.ID, Email: profile.Email, Error: err.Error()})
			continue
		}
		if len(expenses) == 0 {
			outcomes = append(outcomes, Outcome{ProfileID: profile.ID, Email: profile.Email, Skipped: true})
			continue
		}
		body := "Hi " + html.EscapeString(profile.FullName) + ",<br><br>" +
			"Here is the summary of your expenses for today:<br><br>" +
			summaryTable(expenses) +
			"<br>Best regards,<br>Money Manager Team"
		outcomes = append(outcomes, s.attempt(ctx, profile, "Daily Expense Summary", body))
	}
	slog.Info("job completed", "job", "daily_expense_summary", "profiles", len(outcomes))
	return outcomes, nil
}

func (s *NotificationService) attempt(ctx context.Context, profile models.Profile, subject, body string) Outcome {
	out := Outcome{ProfileID: profile.ID, Email: profile.Email}
	if err := s.mailer.Send(ctx, profile.Email, subject, body, true); err != nil {
		slog.Warn("notification mail failed", "profile_id", profile.ID, "error", err)
		out.Error = err.Error()
		return out
	}
	out.Sent = true
	return out
}

func (s *NotificationService) allProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

const summaryCellStyle = "border:1px solid #dddddd;text-align:left;padding:8px;"

func summaryTable(expenses []models.Transaction) string {
	var b strings.Builder
	b.WriteString(`<table style="border-collapse:collapse;width:100%;">`)
	b.WriteString(`<tr>`)
	for _, h := range []string{"No", "Name", "Amount", "Category"} {
		b.WriteString(`<th style="` + summaryCellStyle + `">` + h + `</th>`)
	}
	b.WriteString(`</tr>`)
	for i, e := range expenses {
		b.WriteString(`<tr>`)
		b.WriteString(fmt.Sprintf(`<td style=%q>%d</td>`, summaryCellStyle, i+1))
		b.WriteString(`<td style="` + summaryCellStyle + `">` + html.EscapeString(e.Name) + `</td>`)
		b.WriteString(`<td style="` + summaryCellStyle + `">` + e.Amount.String() + `</td>`)
		b.WriteString(`<td style="` + summaryCellStyle + `">` + html.EscapeString(e.CategoryName) + `</td>`)
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</table>`)
	return b.String()
}
