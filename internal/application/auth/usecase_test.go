package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/application/auth"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/memory"
)

func newAuth(t *testing.T, ttl time.Duration) *auth.AuthUseCase {
	t.Helper()
	store := memory.NewStore()
	return auth.NewAuthUseCase(
		memory.NewUserRepository(store),
		memory.NewSessionRepository(store),
		memory.NewStatsRepository(store),
		auth.JWTConfig{Secret: "test-secret", TTL: ttl, Issuer: "test"},
		zerolog.Nop(),
	)
}

func TestRegisterLoginValidate(t *testing.T) {
	uc := newAuth(t, time.Hour)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Name: "Ali", Email: "Ali@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ali@example.com", u.Email)
	assert.Equal(t, entity.RoleUser, u.Role)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Name: "Otro", Email: "ALI@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	login, err := uc.Login(ctx, dto.LoginRequest{Email: "ali@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	require.NotNil(t, login.User.LastLogin)

	who, err := uc.ValidateSession(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, who.UserID)
	assert.Equal(t, entity.RoleUser, who.Role)

	require.NoError(t, uc.Logout(ctx, who.SessionID))
	_, err = uc.ValidateSession(ctx, login.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuth(t, time.Hour)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Name: "Ali", Email: "ali@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ali@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_Validacion(t *testing.T) {
	uc := newAuth(t, time.Hour)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Name: "", Email: "no-es-email", Password: "123"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestValidateSession_TokenInvalido(t *testing.T) {
	uc := newAuth(t, time.Hour)
	_, err := uc.ValidateSession(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.ValidateSession(context.Background(), "a.b.c")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUpdateProfile(t *testing.T) {
	uc := newAuth(t, time.Hour)
	ctx := context.Background()
	a, err := uc.RegisterUser(ctx, dto.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Name: "B", Email: "b@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = uc.UpdateProfile(ctx, a.ID, dto.UpdateProfileRequest{Name: "A", Email: "b@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	me, err := uc.UpdateProfile(ctx, a.ID, dto.UpdateProfileRequest{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", me.Name)
	assert.Equal(t, "ana@example.com", me.Email)
}
