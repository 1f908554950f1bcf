package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"simple-microservice/internal/domain"
)

// Claims es el payload firmado: atributos del usuario (nunca el hash de la
// password) mas iat/exp, que agrega TokenCodec al emitir.
type Claims struct {
	UserID    string `json:"uid,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	DOB       string `json:"dob,omitempty"`
	jwt.RegisteredClaims
}

// ClaimsForUser construye los claims de identidad de un usuario.
func ClaimsForUser(user domain.User) Claims {
	return Claims{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		DOB:       user.DOB,
	}
}

// withoutTimestamps descarta iat/exp para que no se hereden al re-emitir.
func (c Claims) withoutTimestamps() Claims {
	c.IssuedAt = nil
	c.ExpiresAt = nil
	return c
}

// CodecOption configura un TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock reemplaza el reloj usado para iat/exp y para validar expiracion.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// TokenCodec firma y verifica access tokens HS256 con un secreto compartido.
// No tiene estado mutable; es seguro para uso concurrente.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret string, ttl time.Duration, opts ...CodecOption) *TokenCodec {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	c := &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL devuelve la duracion de los tokens emitidos.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue firma claims con iat = ahora y exp = ahora + TTL. Devuelve el token y
// la expiracion embebida.
func (c *TokenCodec) Issue(claims Claims) (string, time.Time, error) {
	if len(c.secret) == 0 {
		return "", time.Time{}, ErrSigningKeyMissing
	}
	now := c.now().UTC()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify valida firma y expiracion. La firma se comprueba antes que exp, asi
// que un token con otro secreto siempre falla con ErrTokenBadSignature.
func (c *TokenCodec) Verify(tokenString string) (Claims, error) {
	if len(c.secret) == 0 {
		return Claims{}, ErrSigningKeyMissing
	}
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenMalformed
	}

	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, classifyTokenError(err)
	}
	return claims, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrTokenBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
