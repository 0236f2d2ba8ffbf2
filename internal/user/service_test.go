package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioops/reservation-backend/internal/auth"
)

type memoryRepository struct {
	seq     int
	byID    map[string]*User
	byEmail map[string]*User

	lastLoginErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (m *memoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *memoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *memoryRepository) Create(_ context.Context, u *User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return ErrEmailAlreadyUsed
	}
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	u.CreatedAt = time.Now()
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *memoryRepository) UpdateLastLogin(_ context.Context, id string, t time.Time) error {
	if m.lastLoginErr != nil {
		return m.lastLoginErr
	}
	if u, ok := m.byID[id]; ok {
		u.LastLoginAt = &t
	}
	return nil
}

func (m *memoryRepository) List(_ context.Context, _ Filter) ([]*User, int, error) {
	out := make([]*User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, len(out), nil
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	svc := NewService(repo, auth.NewBcryptPasswordHasherWithCost(4))

	t.Run("success normalizes email and trims name", func(t *testing.T) {
		u, err := svc.Register(ctx, "  Alex@Example.COM ", "password123", "  Alex  ", "BU1")
		require.NoError(t, err)
		assert.Equal(t, "alex@example.com", u.Email)
		assert.Equal(t, "Alex", u.Name)
		require.NotNil(t, u.BUCode)
		assert.Equal(t, "BU1", *u.BUCode)
		assert.True(t, u.IsActive)
		assert.NotEqual(t, "password123", u.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "alex@example.com", "password123", "Alex", "")
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})

	t.Run("empty email", func(t *testing.T) {
		_, err := svc.Register(ctx, "   ", "password123", "Alex", "")
		assert.ErrorIs(t, err, ErrEmailRequired)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, "short@example.com", "1234567", "Alex", "")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("blank business unit stays nil", func(t *testing.T) {
		u, err := svc.Register(ctx, "nobu@example.com", "password123", "NoBU", "   ")
		require.NoError(t, err)
		assert.Nil(t, u.BUCode)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	svc := NewService(repo, auth.NewBcryptPasswordHasherWithCost(4))

	registered, err := svc.Register(ctx, "alex@example.com", "password123", "Alex", "BU1")
	require.NoError(t, err)

	t.Run("success records last login", func(t *testing.T) {
		u, err := svc.Login(ctx, "Alex@Example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
		assert.NotNil(t, repo.byID[u.ID].LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alex@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		repo.byEmail["alex@example.com"].IsActive = false
		defer func() { repo.byEmail["alex@example.com"].IsActive = true }()

		_, err := svc.Login(ctx, "alex@example.com", "password123")
		assert.ErrorIs(t, err, ErrInactiveUser)
	})

	t.Run("last-login failure does not block login", func(t *testing.T) {
		repo.lastLoginErr = fmt.Errorf("db down")
		defer func() { repo.lastLoginErr = nil }()

		_, err := svc.Login(ctx, "alex@example.com", "password123")
		assert.NoError(t, err)
	})
}
