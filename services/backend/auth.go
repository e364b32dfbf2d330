package backendsvc

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/session"
	"github.com/trezcool/upeo/core/user"
)

var _ session.Authenticator = (*Client)(nil)

type (
	loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	refreshRequest struct {
		RefreshToken string `json:"refreshToken"`
	}

	credentialsResponse struct {
		AccessToken  string    `json:"accessToken"`
		RefreshToken string    `json:"refreshToken"`
		ExpiresIn    int64     `json:"expiresIn"` // seconds
		User         user.User `json:"user"`
	}
)

func (r credentialsResponse) credentials() session.Credentials {
	return session.Credentials{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		User:         r.User,
		ExpiresIn:    time.Duration(r.ExpiresIn) * time.Second,
	}
}

// Login exchanges credentials for tokens. A 400/401 rejection surfaces
// core.ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (session.Credentials, error) {
	var res credentialsResponse
	err := c.anon(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &res)
	if err != nil {
		if berr, ok := errors.Cause(err).(*core.BackendError); ok {
			if berr.StatusCode == http.StatusBadRequest || berr.StatusCode == http.StatusUnauthorized {
				return session.Credentials{}, core.ErrInvalidCredentials
			}
		}
		return session.Credentials{}, err
	}
	return res.credentials(), nil
}

// Refresh exchanges a refresh token for new credentials. Failures propagate
// as-is; the session manager decides to clear the session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (session.Credentials, error) {
	var res credentialsResponse
	err := c.anon(ctx, http.MethodPost, "/auth/refresh", refreshRequest{RefreshToken: refreshToken}, &res)
	if err != nil {
		return session.Credentials{}, err
	}
	return res.credentials(), nil
}
