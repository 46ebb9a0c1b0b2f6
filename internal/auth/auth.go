// Package auth supplies the bearer token sent to the POS backend and works
// out which operator it belongs to.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pos-billing/internal/core"
)

// ErrOpaqueToken means the token is not a JWT, so only the backend can say
// who it belongs to.
var ErrOpaqueToken = errors.New("token is not a JWT")

// TokenSource returns the bearer token for backend calls.
type TokenSource struct {
	mu     sync.RWMutex
	static string
	path   string
	cached string
}

// NewTokenSource prefers the token file when path is set, so a rotated token
// is picked up by Reload without a restart.
func NewTokenSource(token, path string) (*TokenSource, error) {
	ts := &TokenSource{static: strings.TrimSpace(token), path: path}
	if path != "" {
		if err := ts.Reload(); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// Reload re-reads the token file. It is a no-op without one.
func (ts *TokenSource) Reload() error {
	if ts.path == "" {
		return nil
	}
	raw, err := os.ReadFile(ts.path)
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}
	ts.mu.Lock()
	ts.cached = strings.TrimSpace(string(raw))
	ts.mu.Unlock()
	return nil
}

func (ts *TokenSource) Token() string {
	if ts.path == "" {
		return ts.static
	}
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.cached
}

// Identity is what a JWT says about its holder. The signature is not checked;
// the backend does that on every call.
type Identity struct {
	UserID    int
	Name      string
	Role      string
	ExpiresAt time.Time
}

func (i *Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

type tokenClaims struct {
	UserID any    `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Inspect decodes token without verifying it.
func Inspect(token string) (*Identity, error) {
	if strings.Count(token, ".") != 2 {
		return nil, ErrOpaqueToken
	}
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}
	id := &Identity{Name: claims.Name, Role: claims.Role, UserID: numericID(claims.UserID)}
	if id.UserID == 0 {
		id.UserID, _ = strconv.Atoi(claims.Subject)
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

func numericID(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}

// Profiler is the part of the backend that knows the current operator.
type Profiler interface {
	Me(ctx context.Context) (*core.User, error)
}

// Resolver answers "who is at the till". JWT claims carrying a role are used
// directly; anything else asks the backend.
type Resolver struct {
	tokens interface{ Token() string }
	me     Profiler
	logger *slog.Logger
	now    func() time.Time
}

func NewResolver(tokens interface{ Token() string }, me Profiler, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{tokens: tokens, me: me, logger: logger, now: time.Now}
}

func (r *Resolver) Current(ctx context.Context) (*core.User, error) {
	tok := r.tokens.Token()
	if tok == "" {
		return nil, errors.New("no API token configured")
	}
	id, err := Inspect(tok)
	switch {
	case err == nil && id.Expired(r.now()):
		r.logger.Warn("API token has expired", "expired_at", id.ExpiresAt)
	case err == nil && id.Role != "":
		return &core.User{ID: id.UserID, Name: id.Name, Role: id.Role}, nil
	}

	u, err := r.me.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	return u, nil
}
