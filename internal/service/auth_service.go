package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"simple-microservice/internal/domain"
	"simple-microservice/internal/repository"
)

// AuthService implementa login, refresh (validate) y logout.
type AuthService struct {
	logger *zap.Logger
	users  repository.UserRepository
	tokens repository.TokenRepository
	codec  *TokenCodec
	now    func() time.Time
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, tokens repository.TokenRepository, codec *TokenCodec) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		logger: logger,
		users:  users,
		tokens: tokens,
		codec:  codec,
		now:    time.Now,
	}
}

// LoginResult es la respuesta de un login exitoso.
type LoginResult struct {
	AccessToken string    `json:"accessToken"`
	ExpiryDate  time.Time `json:"expiryDate"`
}

// Login valida credenciales, emite un token y persiste un TokenRecord nuevo.
// Cada login crea un registro independiente; varias sesiones por usuario son validas.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidInput
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrUserNotFound
		}
		return LoginResult{}, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.codec.Issue(ClaimsForUser(user))
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	now := s.now().UTC()
	record := domain.TokenRecord{
		ID:          uuid.NewString(),
		Email:       user.Email,
		AccessToken: token,
		State:       domain.TokenActive,
		ExpiryDate:  expiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return LoginResult{}, fmt.Errorf("create token record: %w", err)
	}

	s.logger.Debug("login succeeded", zap.String("email", user.Email), zap.Time("expiry", expiresAt))
	return LoginResult{AccessToken: token, ExpiryDate: expiresAt}, nil
}

// Refresh re-emite un token con TTL renovado a partir de claims ya
// verificados. No consulta ni modifica el almacenamiento: el token original
// sigue siendo valido hasta su propia expiracion.
func (s *AuthService) Refresh(claims Claims) (string, error) {
	if strings.TrimSpace(claims.Email) == "" {
		return "", ErrInvalidInput
	}
	token, _, err := s.codec.Issue(claims.withoutTimestamps())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Logout revoca el TokenRecord cuyo valor coincide con accessToken.
// Solo actualiza el registro; el token firmado sigue pasando Verify.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	record, err := s.tokens.GetByValue(ctx, accessToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenRevoked
		}
		return fmt.Errorf("find token record: %w", err)
	}

	record.Revoke(s.now().UTC())
	if err := s.tokens.Update(ctx, record); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenRevoked
		}
		return fmt.Errorf("update token record: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
