// Package session resolves opaque session tokens into principals.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/pkg/jwt"
	"github.com/nagacare/health-admin-api/pkg/logger"
)

// Store persists session records. Get returns nil, nil for an unknown id.
type Store interface {
	Save(ctx context.Context, s *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}

// Config token signing and lifetime.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Provider issues, resolves and revokes sessions.
type Provider struct {
	store Store
	cfg   Config
	log   *logger.Logger
	now   func() time.Time
}

// NewProvider builds a Provider using the wall clock.
func NewProvider(store Store, cfg Config, log *logger.Logger) *Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &Provider{store: store, cfg: cfg, log: log, now: time.Now}
}

// WithClock replaces the clock used for expiry decisions.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

// Create opens a session for user and returns the signed token bound to it.
func (p *Provider) Create(ctx context.Context, user *entity.User) (string, *entity.Session, error) {
	if user == nil {
		return "", nil, errors.New("session: nil user")
	}
	now := p.now()
	s := &entity.Session{
		ID:               uuid.New().String(),
		UserID:           user.ID,
		Username:         user.Username,
		Role:             user.Role,
		AssignedBarangay: user.AssignedBarangay,
		CreatedAt:        now,
		ExpiresAt:        now.Add(p.cfg.TTL),
	}
	if err := p.store.Save(ctx, s, p.cfg.TTL); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}
	token, err := jwt.Generate(p.cfg.Secret, s.ID, s.UserID, p.cfg.Issuer, now, s.ExpiresAt)
	if err != nil {
		_ = p.store.Delete(ctx, s.ID)
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, s, nil
}

// Resolve returns the principal behind token, or nil when the token is missing, malformed,
// unknown, revoked or past its absolute expiry. It never returns an error.
func (p *Provider) Resolve(ctx context.Context, token string) *entity.Principal {
	if token == "" {
		return nil
	}
	sid, uid, err := jwt.Parse(p.cfg.Secret, token)
	if err != nil {
		return nil
	}
	s, err := p.store.Get(ctx, sid)
	if err != nil {
		p.log.Warn().Err(err).Str("session_id", sid).Msg("session lookup failed")
		return nil
	}
	if s == nil || s.UserID != uid || !entity.IsValidRole(s.Role) {
		return nil
	}
	if !p.now().Before(s.ExpiresAt) {
		return nil
	}
	return entity.PrincipalFromSession(s)
}

// Revoke deletes the session bound to token. Unknown or invalid tokens are a no-op.
func (p *Provider) Revoke(ctx context.Context, token string) error {
	sid, _, err := jwt.Parse(p.cfg.Secret, token)
	if err != nil {
		return nil
	}
	if err := p.store.Delete(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
