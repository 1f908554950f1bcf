package db

import (
	"context"
	"errors"
	"sync"

	"simple-microservice/internal/domain"
	"simple-microservice/internal/repository"
)

// ErrStoreUnavailable se devuelve mientras no hay conexion con el almacenamiento.
var ErrStoreUnavailable = errors.New("store unavailable")

// Handle mantiene el Backend actual. Los repositorios que expone delegan en
// el backend conectado o fallan con ErrStoreUnavailable, sin encolar nada.
type Handle struct {
	mu      sync.RWMutex
	backend Backend
}

func NewHandle() *Handle {
	return &Handle{}
}

// Set instala un backend conectado.
func (h *Handle) Set(b Backend) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.backend = b
}

// Connected reporta si hay un backend instalado.
func (h *Handle) Connected() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.backend != nil
}

// Close cierra y descarta el backend actual, si existe.
func (h *Handle) Close(ctx context.Context) error {
	h.mu.Lock()
	b := h.backend
	h.backend = nil
	h.mu.Unlock()
	if b == nil {
		return nil
	}
	return b.Close(ctx)
}

func (h *Handle) current() (Backend, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.backend == nil {
		return nil, ErrStoreUnavailable
	}
	return h.backend, nil
}

func (h *Handle) Users() repository.UserRepository   { return handleUsers{h: h} }
func (h *Handle) Tokens() repository.TokenRepository { return handleTokens{h: h} }

type handleUsers struct{ h *Handle }

func (u handleUsers) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	b, err := u.h.current()
	if err != nil {
		return domain.User{}, err
	}
	return b.Users().GetByEmail(ctx, email)
}

func (u handleUsers) Create(ctx context.Context, user domain.User) error {
	b, err := u.h.current()
	if err != nil {
		return err
	}
	return b.Users().Create(ctx, user)
}

type handleTokens struct{ h *Handle }

func (t handleTokens) GetByValue(ctx context.Context, accessToken string) (domain.TokenRecord, error) {
	b, err := t.h.current()
	if err != nil {
		return domain.TokenRecord{}, err
	}
	return b.Tokens().GetByValue(ctx, accessToken)
}

func (t handleTokens) Create(ctx context.Context, record domain.TokenRecord) error {
	b, err := t.h.current()
	if err != nil {
		return err
	}
	return b.Tokens().Create(ctx, record)
}

func (t handleTokens) Update(ctx context.Context, record domain.TokenRecord) error {
	b, err := t.h.current()
	if err != nil {
		return err
	}
	return b.Tokens().Update(ctx, record)
}
