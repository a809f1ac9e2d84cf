package console

import (
	"context"

	"github.com/promptdeck/deckhand/internal/client"
	"github.com/promptdeck/deckhand/internal/session"
)

// AuthService drives login, renewal, and logout against the auth endpoints.
// It implements session.Renewer, so the pipeline can use it for single-flight
// renewal.
type AuthService struct {
	client    *client.Client
	renewPath string
}

// loginRequest is the wire shape for /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// renewRequest is the wire shape for the renewal endpoint.
type renewRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for a session credential. A 401 here means bad
// credentials, not an expired session, so renewal and notifications are both
// disabled.
func (s *AuthService) Login(ctx context.Context, email, password string) (session.Credential, error) {
	resp, err := s.client.Post(ctx, "/auth/login",
		loginRequest{Email: email, Password: password},
		client.WithNoRenewal(),
		client.WithSkipNotify(),
		client.WithSkipRetry())
	if err != nil {
		return session.Credential{}, err
	}
	var cred session.Credential
	if err := resp.JSON(&cred); err != nil {
		return session.Credential{}, err
	}
	return cred, nil
}

// Renew exchanges a refresh token for a fresh credential.
func (s *AuthService) Renew(ctx context.Context, refreshToken string) (session.Credential, error) {
	resp, err := s.client.Post(ctx, s.renewPath,
		renewRequest{RefreshToken: refreshToken},
		client.WithNoRenewal(),
		client.WithSkipNotify(),
		client.WithSkipRetry())
	if err != nil {
		return session.Credential{}, err
	}
	var cred session.Credential
	if err := resp.JSON(&cred); err != nil {
		return session.Credential{}, err
	}
	return cred, nil
}

// Logout revokes the session server-side on a best-effort basis, then clears
// local session state unconditionally.
func (s *AuthService) Logout(ctx context.Context) error {
	_, _ = s.client.Post(ctx, "/auth/logout", nil,
		client.WithNoRenewal(),
		client.WithSkipNotify(),
		client.WithSkipRetry())
	return s.client.Logout(ctx)
}
