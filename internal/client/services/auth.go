// Package services contains the feature layers built on top of the
// request router: authentication, clinical events, appointments/vitals,
// and AI-assisted analysis. Feature-specific policies (queue caps,
// cache keys) live here, not in the router.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/arogyahealth/arogya-go/internal/client/metadata"
	"github.com/arogyahealth/arogya-go/internal/client/router"
	"github.com/arogyahealth/arogya-go/internal/common"
)

// Profile is the authenticated user as reported by /auth/me.
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
}

// AuthService logs in against the backend and keeps the bearer token in
// the local metadata store so it survives restarts.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) error
	Me(ctx context.Context) (*Profile, bool, error)
	Logout(ctx context.Context) error
	Username(ctx context.Context) (string, error)
}

type authService struct {
	router *router.Router
	meta   metadata.Repository
}

// NewAuthService constructs an AuthService over the router and metadata store.
func NewAuthService(r *router.Router, meta metadata.Repository) AuthService {
	return &authService{router: r, meta: meta}
}

// Login exchanges credentials for an access token at the form-encoded
// token endpoint and persists it. Login is an online-only operation.
func (s *authService) Login(ctx context.Context, username string, password []byte) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", string(password))

	resp, err := s.router.Client().PostForm(ctx, "/auth/login/access-token", form)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(resp, &payload); err != nil {
		return fmt.Errorf("unexpected token response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", common.ErrUnauthorized)
	}

	// One transaction: a token must never be persisted without the
	// username it was issued for.
	return s.meta.SetAll(ctx, map[string][]byte{
		common.TokenMetadataKey:    []byte(payload.AccessToken),
		common.UsernameMetadataKey: []byte(username),
	})
}

// Me returns the current profile, served from cache while offline. The
// bool result reports whether the profile came from cache.
func (s *authService) Me(ctx context.Context) (*Profile, bool, error) {
	raw, fromCache, err := s.router.PerformQuery(ctx, "auth_me", func(ctx context.Context) (json.RawMessage, error) {
		return s.router.Client().Do(ctx, "GET", "/auth/me", nil)
	})
	if err != nil {
		return nil, false, err
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("unexpected profile response: %w", err)
	}
	return &p, fromCache, nil
}

// Logout drops the persisted token and username. Queued offline actions
// are intentionally left in the log.
func (s *authService) Logout(ctx context.Context) error {
	if err := s.router.Client().ClearToken(ctx); err != nil {
		return err
	}
	return s.meta.Delete(ctx, common.UsernameMetadataKey)
}

// Username returns the persisted login name, or "" when nobody has
// logged in on this device yet.
func (s *authService) Username(ctx context.Context) (string, error) {
	v, err := s.meta.Get(ctx, common.UsernameMetadataKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}
