package domain

import "time"

// TokenState indica si un TokenRecord sigue activo o fue revocado en logout.
type TokenState string

const (
	TokenActive  TokenState = "active"
	TokenRevoked TokenState = "revoked"
)

// TokenRecord registra un access token emitido en login.
//
// ExpiryDate es solo informativo: la validez real la decide la expiracion
// firmada dentro del token.
type TokenRecord struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	AccessToken string     `json:"accessToken"`
	State       TokenState `json:"state"`
	ExpiryDate  time.Time  `json:"expiryDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Active reporta si el registro todavia referencia un token.
func (t TokenRecord) Active() bool {
	return t.State == TokenActive && t.AccessToken != ""
}

// Revoke limpia el valor del token y marca el registro como revocado.
// No afecta la validez criptografica del token ya emitido.
func (t *TokenRecord) Revoke(now time.Time) {
	t.AccessToken = ""
	t.State = TokenRevoked
	t.UpdatedAt = now
}
