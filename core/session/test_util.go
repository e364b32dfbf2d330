package session

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemStore is an in-memory Store for tests and ephemeral use.
type MemStore struct {
	mu   sync.Mutex
	sess *Session
}

var _ Store = (*MemStore)(nil)

func NewMemStore(sess ...*Session) *MemStore {
	st := new(MemStore)
	if len(sess) > 0 {
		st.sess = sess[0]
	}
	return st
}

func (st *MemStore) Load() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.sess == nil {
		return nil, nil
	}
	cp := *st.sess
	return &cp, nil
}

func (st *MemStore) Save(sess *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	cp := *sess
	st.sess = &cp
	return nil
}

func (st *MemStore) Clear() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sess = nil
	return nil
}

// AuthenticatorMock counts calls and delegates to overridable funcs.
type AuthenticatorMock struct {
	LoginFn   func(ctx context.Context, email, password string) (Credentials, error)
	RefreshFn func(ctx context.Context, refreshToken string) (Credentials, error)

	loginCalls   int32
	refreshCalls int32
}

var _ Authenticator = (*AuthenticatorMock)(nil)

func (a *AuthenticatorMock) Login(ctx context.Context, email, password string) (Credentials, error) {
	atomic.AddInt32(&a.loginCalls, 1)
	return a.LoginFn(ctx, email, password)
}

func (a *AuthenticatorMock) Refresh(ctx context.Context, refreshToken string) (Credentials, error) {
	atomic.AddInt32(&a.refreshCalls, 1)
	return a.RefreshFn(ctx, refreshToken)
}

func (a *AuthenticatorMock) LoginCalls() int   { return int(atomic.LoadInt32(&a.loginCalls)) }
func (a *AuthenticatorMock) RefreshCalls() int { return int(atomic.LoadInt32(&a.refreshCalls)) }
