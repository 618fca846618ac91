package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"moneymanager/internal/auth"
	"moneymanager/internal/mail"
	"moneymanager/internal/models"
)

type ProfileService struct {
	db            *gorm.DB
	tokens        *auth.Manager
	mailer        mail.Mailer
	activationURL string
}

func NewProfileService(db *gorm.DB, tokens *auth.Manager, mailer mail.Mailer, activationURL string) *ProfileService {
	return &ProfileService{db: db, tokens: tokens, mailer: mailer, activationURL: activationURL}
}

type RegisterRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// Register creates an inactive profile and mails it an activation link.
// A failed activation mail is logged but does not fail the registration;
// the token can be re-sent out of band.
func (s *ProfileService) Register(ctx context.Context, req RegisterRequest) (*models.Profile, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrInvalidArgument)
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("profile with email %s: %w", req.Email, ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	profile := models.Profile{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        string(hash),
		ProfileImageURL: req.ProfileImageURL,
		IsActive:        false,
		ActivationToken: uuid.NewString(),
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	link := s.activationURL + "?token=" + url.QueryEscape(profile.ActivationToken)
	body := "Hi " + profile.FullName + ",\n\n" +
		"Welcome to Money Manager. Click the link below to activate your account:\n\n" +
		link + "\n\nBest regards,\nMoney Manager Team"
	if err := s.mailer.Send(ctx, profile.Email, "Activate your Money Manager account", body, false); err != nil {
		slog.Warn("activation mail failed", "profile_id", profile.ID, "error", err)
	}
	return &profile, nil
}

// Activate redeems an activation token. The token is cleared so it cannot
// be used twice.
func (s *ProfileService) Activate(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("activation token is required: %w", ErrInvalidArgument)
	}
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("activation_token = ?", token).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("activation token not found or already used: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup activation token: %w", err)
	}
	updates := map[string]any{"is_active": true, "activation_token": "", "updated_at": time.Now()}
	if err := s.db.WithContext(ctx).Model(&profile).Updates(updates).Error; err != nil {
		return fmt.Errorf("activate profile: %w", err)
	}
	return nil
}

// Login verifies credentials and returns a bearer token plus the profile.
func (s *ProfileService) Login(ctx context.Context, email, password string) (string, *models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("invalid credentials: %w", ErrInvalidArgument)
	}
	if err != nil {
		return "", nil, fmt.Errorf("lookup profile: %w", err)
	}
	if !profile.IsActive {
		return "", nil, fmt.Errorf("account is not activated: %w", ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(password)) != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", ErrInvalidArgument)
	}
	token, err := s.tokens.Generate(profile.Email)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, &profile, nil
}

// ByID loads a profile by id.
func (s *ProfileService) ByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).First(&profile, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("profile %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ResolveEmail maps a token subject to the profile id, for the auth
// middleware. Unknown emails report false so stale tokens stop working.
func (s *ProfileService) ResolveEmail(ctx context.Context, email string) (uint, bool) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Select("id").Where("email = ?", email).First(&profile).Error; err != nil {
		return 0, false
	}
	return profile.ID, true
}
