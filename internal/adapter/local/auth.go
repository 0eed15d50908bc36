package local

import (
	"context"
	"errors"
	"sync"
	"time"

	"weightlog/internal/domain"
)

// AuthStore keeps users and sessions in memory. Accounts in demo mode are
// throwaway, so they are deliberately not persisted to the data file.
type AuthStore struct {
	mu            sync.Mutex
	users         []*domain.User
	sessions      map[string]*domain.Session
	userIDCounter int64
}

var (
	_ domain.UserRepository    = (*AuthStore)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// NewAuthStore creates an empty in-memory auth store.
func NewAuthStore() *AuthStore {
	return &AuthStore{sessions: make(map[string]*domain.Session)}
}

// SessionRepo exposes the session half of the auth store.
type SessionRepo struct {
	store *AuthStore
}

// Sessions wraps the store as a SessionRepository.
func (a *AuthStore) Sessions() *SessionRepo {
	return &SessionRepo{store: a}
}

// GetByUsername retrieves a user by username.
func (a *AuthStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, u := range a.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (a *AuthStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, u := range a.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (a *AuthStore) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, u := range a.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	a.userIDCounter++
	u := &domain.User{
		ID:           a.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	a.users = append(a.users, u)
	return u, nil
}

// Count returns the total number of users.
func (a *AuthStore) Count(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.users), nil
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if s, ok := r.store.sessions[token]; ok {
		return s, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	for k, v := range r.store.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.store.sessions, k)
		}
	}
	return nil
}
