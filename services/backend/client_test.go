package backendsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/user"
)

type tokenSourceFunc func(ctx context.Context) (string, error)

func (f tokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

func staticToken(tok string) TokenSource {
	return tokenSourceFunc(func(context.Context) (string, error) { return tok, nil })
}

func noToken() TokenSource {
	return tokenSourceFunc(func(context.Context) (string, error) { return "", core.ErrUnauthenticated })
}

func TestClientLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["email"] != "admin@college.edu" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"accessToken":  "acc",
			"refreshToken": "ref",
			"expiresIn":    3600,
			"user":         map[string]string{"id": "1", "role": "admin"},
		})
	}))
	defer srv.Close()

	client := NewClientAt(srv.URL)

	t.Run("success", func(t *testing.T) {
		creds, err := client.Login(context.Background(), "admin@college.edu", "pwd")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if creds.AccessToken != "acc" || creds.User.Role != user.RoleAdmin {
			t.Errorf("Login() creds = %+v", creds)
		}
		if creds.ExpiresIn.Seconds() != 3600 {
			t.Errorf("Login() expiresIn = %v; want 1h", creds.ExpiresIn)
		}
	})

	t.Run("rejection", func(t *testing.T) {
		if _, err := client.Login(context.Background(), "who@college.edu", "pwd"); err != core.ErrInvalidCredentials {
			t.Errorf("Login() error = %v; want %v", err, core.ErrInvalidCredentials)
		}
	})
}

func TestClientBearerInjection(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		_ = json.NewEncoder(w).Encode([]Course{})
	}))
	defer srv.Close()

	client := NewClientAt(srv.URL)
	client.UseTokens(staticToken("tok-123"))

	if _, err := client.QueryCourses(context.Background(), "", 0); err != nil {
		t.Fatalf("QueryCourses() error = %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q; want bearer token", gotAuth)
	}
}

// Without a valid session the call must fail before it is ever dispatched.
func TestClientUnauthenticatedNotSent(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	client := NewClientAt(srv.URL)
	client.UseTokens(noToken())

	_, err := client.QueryCourses(context.Background(), "", 0)
	if errors.Cause(err) != core.ErrUnauthenticated {
		t.Errorf("QueryCourses() error = %v; want %v", err, core.ErrUnauthenticated)
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("backend hits = %d; want 0", n)
	}
}

func TestClientErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "upstream exploded"})
	}))
	defer srv.Close()

	client := NewClientAt(srv.URL)
	client.UseTokens(staticToken("tok"))

	_, err := client.QueryFaculty(context.Background())
	berr, ok := errors.Cause(err).(*core.BackendError)
	if !ok {
		t.Fatalf("error = %v; want *core.BackendError", err)
	}
	assert.Equal(t, 502, berr.StatusCode)
	assert.Equal(t, "upstream exploded", berr.Message)
}
