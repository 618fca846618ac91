package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"moneymanager/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open db")
	err = conn.AutoMigrate(&models.Profile{}, &models.Category{}, &models.Income{}, &models.Expense{})
	require.NoError(t, err, "migrate")
	return conn
}

func seedProfile(t *testing.T, conn *gorm.DB, email string) models.Profile {
	t.Helper()
	profile := models.Profile{
		FullName: "Test User",
		Email:    email,
		Password: "x",
		IsActive: true,
	}
	require.NoError(t, conn.Create(&profile).Error)
	return profile
}

func seedCategory(t *testing.T, conn *gorm.DB, profileID uint, name, typ string) models.Category {
	t.Helper()
	category := models.Category{ProfileID: profileID, Name: name, Type: typ}
	require.NoError(t, conn.Create(&category).Error)
	return category
}

func seedExpense(t *testing.T, conn *gorm.DB, profileID uint, categoryID *uint, name, amount string, date models.Date) models.Expense {
	t.Helper()
	expense := models.Expense{
		ProfileID:  profileID,
		CategoryID: categoryID,
		Name:       name,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
	}
	require.NoError(t, conn.Create(&expense).Error)
	return expense
}

func seedIncome(t *testing.T, conn *gorm.DB, profileID uint, categoryID *uint, name, amount string, date models.Date) models.Income {
	t.Helper()
	income := models.Income{
		ProfileID:  profileID,
		CategoryID: categoryID,
		Name:       name,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
	}
	require.NoError(t, conn.Create(&income).Error)
	return income
}

// fakeMailer records sends and can fail on demand.
type fakeMailer struct {
	sent   []sentMail
	failTo map[string]bool
}

type sentMail struct {
	To       string
	Subject  string
	Body     string
	HTML     bool
	Filename string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failTo: map[string]bool{}}
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string, html bool) error {
	if m.failTo[to] {
		return fmt.Errorf("smtp: connection refused for %s", to)
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body, HTML: html})
	return nil
}

func (m *fakeMailer) SendWithAttachment(_ context.Context, to, subject, body string, _ []byte, filename string) error {
	if m.failTo[to] {
		return fmt.Errorf("smtp: connection refused for %s", to)
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body, Filename: filename})
	return nil
}

func fixedNow(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}
