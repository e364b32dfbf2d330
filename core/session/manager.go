package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/trezcool/upeo/core"
)

var nowFunc = time.Now // mockable

// Authenticator exchanges credentials for tokens against the auth API.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (Credentials, error)
	Refresh(ctx context.Context, refreshToken string) (Credentials, error)
}

// Manager is the single source of truth for "who is logged in, and with
// what valid credential". It owns all writes to the Store; a session read
// through it is never stale past one refresh attempt.
type Manager struct {
	store Store
	auth  Authenticator
	slack time.Duration

	// refreshGroup collapses concurrent refresh attempts into one network
	// call; callers hitting an expired session simultaneously all await the
	// same in-flight refresh.
	refreshGroup singleflight.Group
}

func NewManager(store Store, auth Authenticator) *Manager {
	return &Manager{
		store: store,
		auth:  auth,
		slack: core.Conf.GetDuration("sessionExpirySlack"),
	}
}

// Login authenticates against the backend and persists the resulting
// session, replacing any previous one (last login wins). A backend
// rejection surfaces core.ErrInvalidCredentials; it is never retried.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	creds, err := m.auth.Login(ctx, core.CleanString(email, true), password)
	if err != nil {
		if errors.Cause(err) == core.ErrInvalidCredentials {
			return nil, core.ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "logging in")
	}

	sess := m.sessionFromCredentials(creds, nil)
	if err := m.store.Save(sess); err != nil {
		return nil, errors.Wrap(err, "persisting session")
	}
	return sess, nil
}

// Current returns the stored session if present and unexpired. An expired
// session triggers exactly one refresh attempt; on refresh failure the
// store is cleared and (nil, nil) is returned — callers must treat a nil
// session as "not logged in".
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	sess, err := m.store.Load()
	if err != nil {
		return nil, errors.Wrap(err, "loading session")
	}
	if sess == nil {
		return nil, nil
	}
	if !sess.Expired(nowFunc(), m.slack) {
		return sess, nil
	}

	refreshed, err := m.refresh(ctx, sess)
	if err != nil {
		// Refresh is unrecoverable here: destroy the session and require re-login.
		_ = m.store.Clear()
		return nil, nil
	}
	return refreshed, nil
}

// Logout unconditionally clears the stored session. Idempotent; purely local.
func (m *Manager) Logout() error {
	return m.store.Clear()
}

// Token returns a fresh bearer token for an authenticated network call,
// applying the same refresh-or-clear rule as Current. Callers must not send
// the request when core.ErrUnauthenticated is returned.
func (m *Manager) Token(ctx context.Context) (string, error) {
	sess, err := m.Current(ctx)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", core.ErrUnauthenticated
	}
	return sess.AccessToken, nil
}

func (m *Manager) refresh(ctx context.Context, curr *Session) (*Session, error) {
	v, err, _ := m.refreshGroup.Do("refresh", func() (interface{}, error) {
		// another caller may have refreshed while we waited
		if s, err := m.store.Load(); err == nil && s != nil && !s.Expired(nowFunc(), m.slack) {
			return s, nil
		}

		creds, err := m.auth.Refresh(ctx, curr.RefreshToken)
		if err != nil {
			return nil, errors.Wrap(err, "refreshing session")
		}
		sess := m.sessionFromCredentials(creds, curr)
		if err := m.store.Save(sess); err != nil {
			return nil, errors.Wrap(err, "persisting refreshed session")
		}
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// sessionFromCredentials builds a Session, falling back on the access token
// claims (then on the previous session) for fields the payload omits.
func (m *Manager) sessionFromCredentials(creds Credentials, prev *Session) *Session {
	sess := &Session{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		User:         creds.User,
	}

	tokUsr, tokExp := inspectToken(creds.AccessToken)
	if sess.User.ID == "" {
		sess.User.ID = tokUsr.ID
	}
	if sess.User.Role == "" {
		sess.User.Role = tokUsr.Role
	}

	if creds.ExpiresIn > 0 {
		sess.ExpirationTime = core.EpochMillis(nowFunc().Add(creds.ExpiresIn))
	} else if !tokExp.IsZero() {
		sess.ExpirationTime = core.EpochMillis(tokExp)
	}

	if prev != nil {
		// token rotation is optional on refresh
		if sess.RefreshToken == "" {
			sess.RefreshToken = prev.RefreshToken
		}
		if sess.User.ID == "" {
			sess.User = prev.User
		}
	}
	return sess
}
