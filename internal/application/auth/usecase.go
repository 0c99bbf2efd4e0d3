package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	"github.com/jhoicas/fbr-invoicing/pkg/jwt"
)

// MinPasswordLength largo mínimo de contraseña en el registro.
const MinPasswordLength = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// AuthUser identidad resuelta por ValidateSession.
type AuthUser struct {
	UserID    string
	Role      string
	SessionID string
}

// AuthUseCase casos de uso de autenticación: registro, login con sesión de servidor y perfil.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	statsRepo   repository.StatsRepository
	jwtCfg      JWTConfig
	log         zerolog.Logger
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	statsRepo repository.StatsRepository,
	jwtCfg JWTConfig,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		statsRepo:   statsRepo,
		jwtCfg:      jwtCfg,
		log:         log.With().Str("component", "auth").Logger(),
		now:         time.Now,
	}
}

// RegisterUser crea un usuario con rol user: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe (sin distinguir mayúsculas).
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	return uc.createUser(ctx, in, entity.RoleUser)
}

// CreateAdmin crea un administrador; lo usa `invoicectl seed`.
func (uc *AuthUseCase) CreateAdmin(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	return uc.createUser(ctx, in, entity.RoleAdmin)
}

func (uc *AuthUseCase) createUser(ctx context.Context, in dto.RegisterRequest, role string) (*dto.UserResponse, error) {
	name := strings.TrimSpace(in.Name)
	email, err := normalizeEmail(in.Email)
	var fields []domain.FieldError
	if name == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "es obligatorio"})
	}
	if err != nil {
		fields = append(fields, domain.FieldError{Field: "email", Message: "email inválido"})
	}
	if len(in.Password) < MinPasswordLength {
		fields = append(fields, domain.FieldError{Field: "password", Message: fmt.Sprintf("debe tener al menos %d caracteres", MinPasswordLength)})
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:               uuid.New().String(),
		Name:             name,
		Email:            email,
		PasswordHash:     string(hash),
		Role:             role,
		RegistrationDate: uc.now().UTC(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", role).Msg("usuario registrado")
	return ToUserResponse(user), nil
}

// Login verifica email/password, crea la sesión y devuelve el JWT ligado a ella.
// Email desconocido y contraseña incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	now := uc.now().UTC()
	session := &entity.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: now.Add(uc.jwtCfg.TTL),
		CreatedAt: now,
	}
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, session.ID, uc.jwtCfg.Issuer, uc.jwtCfg.TTL)
	if err != nil {
		return nil, err
	}
	session.ExpiresAt = exp.UTC()
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	if err := uc.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo actualizar last_login")
	} else {
		user.LastLogin = &now
	}
	if stats, err := uc.statsRepo.Get(ctx, user.ID); err == nil {
		user.Stats = stats
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      *ToUserResponse(user),
	}, nil
}

// Logout elimina la sesión del token. Un token ya inválido no es error.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return uc.sessionRepo.Delete(ctx, sessionID)
}

// ValidateSession verifica firma y expiración del token y que su sesión siga viva.
func (uc *AuthUseCase) ValidateSession(ctx context.Context, token string) (*AuthUser, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	session, err := uc.sessionRepo.GetByID(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != claims.UserID {
		return nil, domain.ErrSessionExpired
	}
	if session.Expired(uc.now()) {
		if err := uc.sessionRepo.Delete(ctx, session.ID); err != nil {
			uc.log.Warn().Err(err).Str("session_id", session.ID).Msg("no se pudo borrar sesión vencida")
		}
		return nil, domain.ErrSessionExpired
	}
	return &AuthUser{UserID: claims.UserID, Role: claims.Role, SessionID: session.ID}, nil
}

// Me perfil del usuario con sus contadores.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

// UpdateProfile cambia nombre y email.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	name := strings.TrimSpace(in.Name)
	email, err := normalizeEmail(in.Email)
	var fields []domain.FieldError
	if name == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "es obligatorio"})
	}
	if err != nil {
		fields = append(fields, domain.FieldError{Field: "email", Message: "email inválido"})
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	other, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != userID {
		return nil, domain.ErrEmailAlreadyExists
	}
	if err := uc.userRepo.UpdateProfile(ctx, userID, name, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return uc.Me(ctx, userID)
}

// PurgeExpiredSessions borra sesiones vencidas.
func (uc *AuthUseCase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return uc.sessionRepo.DeleteExpired(ctx, uc.now())
}

func normalizeEmail(s string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return strings.ToLower(addr.Address), nil
}

// ToUserResponse mapea el usuario sin el hash de contraseña.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		RegistrationDate: u.RegistrationDate,
		LastLogin:        u.LastLogin,
		Stats: dto.UserStatsDTO{
			InvoiceCount:  u.Stats.InvoiceCount,
			PaidAmount:    u.Stats.PaidAmount,
			PendingAmount: u.Stats.PendingAmount,
		},
	}
}
