package session

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/user"
)

// Session is the persisted record of an authenticated user. Its JSON shape
// (the "user" record) is shared with every consumer of the stored profile;
// renaming a field here is a breaking change.
type Session struct {
	AccessToken    string    `json:"accessToken"`
	RefreshToken   string    `json:"refreshToken"`
	User           user.User `json:"user"`
	ExpirationTime int64     `json:"expirationTime"` // epoch ms
}

func (s *Session) ExpiresAt() time.Time {
	return core.FromEpochMillis(s.ExpirationTime)
}

// Expired reports whether the access token is past (or within slack of) expiry.
func (s *Session) Expired(now time.Time, slack time.Duration) bool {
	return !now.Add(slack).Before(s.ExpiresAt())
}

// Store persists the session record across process restarts. Load returns
// (nil, nil) when no session is stored. Only the Manager may call Save/Clear.
type Store interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// Credentials is the result of a login or refresh call against the auth API.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	User         user.User
	ExpiresIn    time.Duration // server-provided access token lifetime
}

// claims is the subset of the access token claims the client inspects.
// Tokens are issued and verified by the backend; the client only reads them.
type claims struct {
	jwt.StandardClaims
	Role   string `json:"role,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

// inspectToken extracts identity and expiry from an access token without
// verifying the signature (the signing key never leaves the backend).
func inspectToken(token string) (user.User, time.Time) {
	clms := new(claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, clms); err != nil {
		return user.User{}, time.Time{}
	}

	usr := user.User{Role: user.Role(clms.Role)}
	if clms.UserID != "" {
		usr.ID = clms.UserID
	} else {
		usr.ID = clms.Subject
	}

	var exp time.Time
	if clms.ExpiresAt > 0 {
		exp = time.Unix(clms.ExpiresAt, 0).UTC()
	}
	return usr, exp
}
