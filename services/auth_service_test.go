package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeremiapane/catering-app/models"
	"github.com/yeremiapane/catering-app/utils"
)

func newAuthService(t *testing.T) (*AuthService, *utils.JWTManager) {
	db := newTestDB(t)
	tokens := utils.NewJWTManager("test-secret", time.Hour, nil)
	svc := NewAuthService(db, tokens)
	svc.SetHashCost(bcrypt.MinCost)
	return svc, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Email: " Alice@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", reg.Email)
	assert.Equal(t, models.RoleCustomer, reg.Role)
	assert.NotEmpty(t, reg.Token)

	claims, err := tokens.ParseToken(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, claims.UserID)

	login, err := svc.Login(ctx, LoginRequest{Email: "ALICE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, login.ID)

	_, err = svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnauthorized))
	assert.Equal(t, "Invalid email or password", err.Error())

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.True(t, IsKind(err, KindUnauthorized))

	profile, err := svc.Profile(ctx, Identity{UserID: reg.ID})
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Imposter", Email: "ALICE@example.com", Password: "secret2"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConflict))
	assert.Equal(t, "User already exists", err.Error())
	assert.Equal(t, int64(1), countRows(t, svc.db, &models.User{}))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	for _, req := range []RegisterRequest{
		{Name: "", Email: "a@example.com", Password: "secret1"},
		{Name: "A", Email: "a@example.com", Password: "123"},
		{Name: "A", Email: "a@example.com", Password: "secret1", Role: "admin"},
		{Name: "A", Email: "a@example.com", Password: "secret1", Role: "staff"},
	} {
		_, err := svc.Register(context.Background(), req)
		assert.True(t, IsKind(err, KindValidation), "request %+v", req)
	}

	res, err := svc.Register(context.Background(), RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1", Role: "Customer"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, res.Role)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, tokens := newAuthService(t)
	res, err := svc.Register(context.Background(), RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	claims, err := tokens.ParseToken(res.Token)
	require.NoError(t, err)
	svc.Logout(res.Token, claims)

	_, err = tokens.ParseToken(res.Token)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestEnsureAdmin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "", "Admin@Example.com", "admin-pass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "Other", "admin@example.com", "changed"))
	assert.Equal(t, int64(1), countRows(t, svc.db, &models.User{}))

	login, err := svc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "admin-pass"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, login.Role)
	assert.Equal(t, "Administrator", login.Name)

	// nothing configured
	require.NoError(t, svc.EnsureAdmin(ctx, "", "", ""))
}
