// Package session merges the identity-provider session with the
// application profile fetched from the backend.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/CrestNiraj12/terminalmumble/app"
	"github.com/CrestNiraj12/terminalmumble/domain"
)

// Enricher fetches the current user's profile and merges it into sessions.
// Profiles are cached per access token, and concurrent fetches for the same
// token share one request.
type Enricher struct {
	users  app.UserService
	logger *zap.Logger

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]domain.MumbleUser
}

// NewEnricher creates an Enricher backed by users.
func NewEnricher(users app.UserService, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		users:  users,
		logger: logger.Named("session"),
		cache:  make(map[string]domain.MumbleUser),
	}
}

// Enrich returns s with the profile fields merged in. A session without an
// access token is returned unchanged and nothing is fetched. On a failed
// fetch the original session is returned together with the error; nothing
// is retried.
func (e *Enricher) Enrich(ctx context.Context, s domain.Session) (domain.Session, error) {
	if !s.Authenticated() {
		return s, nil
	}

	user, err := e.profile(ctx, s.AccessToken)
	if err != nil {
		e.logger.Warn("session enrichment failed", zap.Error(err))
		return s, fmt.Errorf("enriching session: %w", err)
	}
	return s.WithUser(user), nil
}

// Forget drops the cached profile for token, e.g. after sign-out.
func (e *Enricher) Forget(token string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.cache, token)
}

func (e *Enricher) profile(ctx context.Context, token string) (domain.MumbleUser, error) {
	e.mu.Lock()
	cached, ok := e.cache[token]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	v, err, shared := e.group.Do(token, func() (any, error) {
		u, err := e.users.CurrentUser(ctx, token)
		if err != nil {
			return domain.MumbleUser{}, err
		}
		e.mu.Lock()
		e.cache[token] = u
		e.mu.Unlock()
		return u, nil
	})
	if err != nil {
		return domain.MumbleUser{}, err
	}
	user := v.(domain.MumbleUser)
	e.logger.Debug("session enriched", zap.String("user", user.UserName), zap.Bool("shared", shared))
	return user, nil
}
