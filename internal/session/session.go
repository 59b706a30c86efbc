// Package session owns the admin session map. A session is created by a
// successful login, lives for a fixed TTL from creation and is keyed by a
// random id carried in a signed cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "portfolio.sid"
	DefaultTTL = 24 * time.Hour
)

var ErrNoSession = errors.New("no active session")

type Session struct {
	ID        string
	IsAdmin   bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

type Options struct {
	Secret     string
	TTL        time.Duration
	Production bool
	Now        func() time.Time
	Logger     *slog.Logger
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]Session

	secret     []byte
	ttl        time.Duration
	production bool
	now        func() time.Time
	logger     *slog.Logger
}

func NewManager(opt Options) *Manager {
	if opt.TTL <= 0 {
		opt.TTL = DefaultTTL
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return &Manager{
		sessions:   make(map[string]Session),
		secret:     []byte(opt.Secret),
		ttl:        opt.TTL,
		production: opt.Production,
		now:        opt.Now,
		logger:     opt.Logger,
	}
}

// Create starts an admin session and returns the signed cookie token.
func (m *Manager) Create() (string, Session, error) {
	now := m.now()
	s := Session{
		ID:        uuid.NewString(),
		IsAdmin:   true,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SID: s.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}).SignedString(m.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return token, s, nil
}

func (m *Manager) parse(token string) (string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", err
	}
	if c.SID == "" {
		return "", ErrNoSession
	}
	return c.SID, nil
}

// Lookup returns the live admin session behind token. It never mutates state.
func (m *Manager) Lookup(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}
	sid, err := m.parse(token)
	if err != nil {
		return Session{}, ErrNoSession
	}

	m.mu.RLock()
	s, ok := m.sessions[sid]
	m.mu.RUnlock()
	if !ok || !s.IsAdmin || s.expired(m.now()) {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Destroy removes the session behind token. Unknown or invalid tokens are a no-op.
func (m *Manager) Destroy(token string) {
	sid, err := m.parse(token)
	if err != nil {
		return
	}
	m.mu.Lock()
	delete(m.sessions, sid)
	m.mu.Unlock()
}

// Sweep drops expired sessions and reports how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}
