package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rihla/internal/database"
	"rihla/internal/domain"
	jwtsvc "rihla/internal/pkg/jwt"
)

func setupAuthService(t *testing.T) *Service {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.Connect(fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	tokens := jwtsvc.New("test-secret", time.Hour)
	return NewService(db, tokens, zerolog.Nop())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterRequest{
		Email:    "Pilgrim@Example.com",
		Password: "s3cret-pass",
		Name:     "Bilal",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "pilgrim@example.com", res.User.Email)
	assert.Equal(t, domain.RoleRequester, res.User.Role)
	assert.Nil(t, res.Provider)

	login, err := svc.Login(ctx, LoginRequest{Email: "pilgrim@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	req := RegisterRequest{Email: "dup@example.com", Password: "s3cret-pass", Name: "A"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterProviderCreatesProfile(t *testing.T) {
	svc := setupAuthService(t)

	res, err := svc.RegisterProvider(context.Background(), RegisterProviderRequest{
		Email:        "agency@example.com",
		Password:     "s3cret-pass",
		Name:         "Yusuf",
		CompanyName:  "Al-Safa Tours",
		BusinessType: "agency",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Provider)
	assert.Equal(t, domain.RoleProvider, res.User.Role)
	assert.Equal(t, domain.BusinessAgency, res.Provider.BusinessType)
	assert.False(t, res.Provider.Verified)
	assert.True(t, res.Provider.Active)
}

func TestRegisterProviderRejectsUnknownBusinessType(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.RegisterProvider(context.Background(), RegisterProviderRequest{
		Email:        "x@example.com",
		Password:     "s3cret-pass",
		Name:         "X",
		CompanyName:  "X Ltd",
		BusinessType: "plumbing",
	})
	assert.ErrorIs(t, err, ErrInvalidBusinessType)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "correct-pass", Name: "A"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
