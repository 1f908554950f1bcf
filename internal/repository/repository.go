package repository

import (
	"context"
	"errors"

	"simple-microservice/internal/domain"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, user domain.User) error
}

// TokenRepository define el contrato de persistencia para registros de token.
type TokenRepository interface {
	// GetByValue busca el registro activo cuyo accessToken coincide exactamente.
	GetByValue(ctx context.Context, accessToken string) (domain.TokenRecord, error)
	Create(ctx context.Context, record domain.TokenRecord) error
	Update(ctx context.Context, record domain.TokenRecord) error
}
