package service

import "errors"

var (
	// Datos de entrada faltantes o vacios.
	ErrInvalidInput = errors.New("invalid input")
	// Email desconocido en login o perfil.
	ErrUserNotFound = errors.New("user not found")
	// Password incorrecta.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already exists")
	// Logout sin registro activo para el token presentado.
	ErrTokenRevoked = errors.New("token record not found or revoked")

	ErrSigningKeyMissing = errors.New("token signing key missing")
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
)

// IsTokenRejected reporta si err es un rechazo de verificacion del token
// (firma, expiracion o formato), en contraste con una falla interna.
func IsTokenRejected(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenBadSignature) ||
		errors.Is(err, ErrTokenExpired)
}
