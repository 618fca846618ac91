package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"moneymanager/internal/auth"
	"moneymanager/internal/models"
)

func newProfileService(t *testing.T) (*ProfileService, *fakeMailer, *auth.Manager) {
	t.Helper()
	conn := setupTestDB(t)
	mailer := newFakeMailer()
	tokens := auth.NewManager("test-secret-test-secret-test-secret", time.Hour)
	return NewProfileService(conn, tokens, mailer, "http://localhost:8080/activate"), mailer, tokens
}

func TestRegisterCreatesInactiveProfile(t *testing.T) {
	svc, mailer, _ := newProfileService(t)

	profile, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Ada Example",
		Email:    "ada@test",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.False(t, profile.IsActive)
	assert.NotEmpty(t, profile.ActivationToken)
	assert.NotEqual(t, "s3cret", profile.Password, "password must be hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte("s3cret")))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ada@test", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, profile.ActivationToken)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newProfileService(t)
	req := RegisterRequest{FullName: "A", Email: "dup@test", Password: "pw"}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	svc, mailer, _ := newProfileService(t)
	mailer.failTo["flaky@test"] = true

	profile, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Flaky", Email: "flaky@test", Password: "pw",
	})
	require.NoError(t, err, "registration must succeed even when the activation mail fails")
	assert.NotZero(t, profile.ID)
}

func TestActivateRedeemsTokenOnce(t *testing.T) {
	svc, _, _ := newProfileService(t)
	profile, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "B", Email: "b@test", Password: "pw",
	})
	require.NoError(t, err)
	token := profile.ActivationToken

	require.NoError(t, svc.Activate(context.Background(), token))

	activated, err := svc.ByID(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
	assert.Empty(t, activated.ActivationToken)

	// Second redemption fails: the token was cleared.
	assert.ErrorIs(t, svc.Activate(context.Background(), token), ErrNotFound)
	assert.ErrorIs(t, svc.Activate(context.Background(), "nonsense"), ErrNotFound)
}

func TestLoginFlow(t *testing.T) {
	svc, _, tokens := newProfileService(t)
	profile, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "C", Email: "c@test", Password: "pw",
	})
	require.NoError(t, err)

	// Not activated yet.
	_, _, err = svc.Login(context.Background(), "c@test", "pw")
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.Activate(context.Background(), profile.ActivationToken))

	_, _, err = svc.Login(context.Background(), "c@test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, _, err = svc.Login(context.Background(), "nobody@test", "pw")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	token, logged, err := svc.Login(context.Background(), "c@test", "pw")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, logged.ID)

	subject, err := tokens.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "c@test", subject)
}

func TestResolveEmail(t *testing.T) {
	svc, _, _ := newProfileService(t)
	profile, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "D", Email: "d@test", Password: "pw",
	})
	require.NoError(t, err)

	id, ok := svc.ResolveEmail(context.Background(), "d@test")
	assert.True(t, ok)
	assert.Equal(t, profile.ID, id)

	_, ok = svc.ResolveEmail(context.Background(), "ghost@test")
	assert.False(t, ok)
}

func TestProfileJSONHidesSecrets(t *testing.T) {
	profile := models.Profile{Password: "hash", ActivationToken: "secret-token"}
	// The json tags carry the contract; a quick guard that they stay "-".
	out, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hash")
	assert.NotContains(t, string(out), "secret-token")
}
