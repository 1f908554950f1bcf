package service

import (
	"context"
	"sync"
	"time"

	"simple-microservice/internal/domain"
	"simple-microservice/internal/repository"
)

type mockUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]domain.User
	err     error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: make(map[string]domain.User)}
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.User{}, m.err
	}
	user, ok := m.byEmail[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return repository.ErrDuplicate
	}
	m.byEmail[user.Email] = user
	return nil
}

type mockTokenRepo struct {
	mu      sync.Mutex
	records []domain.TokenRecord
	calls   int
	err     error
}

func (m *mockTokenRepo) GetByValue(_ context.Context, accessToken string) (domain.TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return domain.TokenRecord{}, m.err
	}
	for _, rec := range m.records {
		if rec.Active() && rec.AccessToken == accessToken {
			return rec, nil
		}
	}
	return domain.TokenRecord{}, repository.ErrNotFound
}

func (m *mockTokenRepo) Create(_ context.Context, record domain.TokenRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, record)
	return nil
}

func (m *mockTokenRepo) Update(_ context.Context, record domain.TokenRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	for i := range m.records {
		if m.records[i].ID == record.ID {
			m.records[i] = record
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockTokenRepo) snapshot() []domain.TokenRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.TokenRecord, len(m.records))
	copy(out, m.records)
	return out
}

// fakeClock es un reloj manual para TokenCodec.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
