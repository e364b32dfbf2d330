package echoapi

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/session"
	"github.com/trezcool/upeo/core/user"
	backendsvc "github.com/trezcool/upeo/services/backend"
	emailsvc "github.com/trezcool/upeo/services/email"
	logsvc "github.com/trezcool/upeo/services/logger"
)

func init() {
	core.Conf.Set("testMode", true)
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

// testEnv wires a gateway server against an in-memory session store and a
// stubbed backend. backendHits counts every request that actually reached
// the stub; lock and validation tests assert it stays at zero.
type testEnv struct {
	server Server
	store  *session.MemStore
	auth   *session.AuthenticatorMock
	mail   interface {
		core.EmailService
		SentMessages() []core.EmailMessage
	}

	backendHits int32
}

func setupEnv(t *testing.T, sess *session.Session, backend http.HandlerFunc) *testEnv {
	t.Helper()

	env := &testEnv{
		store: session.NewMemStore(),
		auth:  new(session.AuthenticatorMock),
		mail:  emailsvc.NewConsoleServiceMock(),
	}
	if sess != nil {
		if err := env.store.Save(sess); err != nil {
			t.Fatalf("store.Save() failed: %v", err)
		}
	}
	if backend == nil {
		backend = func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }
	}

	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&env.backendHits, 1)
		backend(w, r)
	}))
	t.Cleanup(stub.Close)

	mgr := session.NewManager(env.store, env.auth)
	client := backendsvc.NewClientAt(stub.URL)
	client.UseTokens(mgr)

	env.server = NewServer(&Options{
		DisableReqLogs: true,
		Manager:        mgr,
		Backend:        client,
		Mail:           env.mail,
		Logger:         logsvc.NewRollbarLogger(log.New(os.Stderr, "TEST ", log.LstdFlags)),
	})
	return env
}

func (env *testEnv) hits() int { return int(atomic.LoadInt32(&env.backendHits)) }

func freshSession(role user.Role) *session.Session {
	return &session.Session{
		AccessToken:    "access-token",
		RefreshToken:   "refresh-token",
		User:           user.User{ID: "usr1", Role: role, Name: "Jay Tester", Email: "jay@test.cd"},
		ExpirationTime: core.EpochMillis(time.Now().Add(time.Hour)),
	}
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(tt.wantData)),
			B:        difflib.SplitLines(rec.Body.String()),
			FromFile: "want",
			ToFile:   "got",
			Context:  2,
		})
		t.Errorf("failed! data mismatch:\n%s", diff)
	}
}

func checkRedirect(t *testing.T, rec *httptest.ResponseRecorder, wantLocation string) {
	t.Helper()

	if rec.Code != http.StatusFound {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != wantLocation {
		t.Errorf("failed! location = %q; want %q", loc, wantLocation)
	}
}

func jsonResponse(t *testing.T, obj interface{}) http.HandlerFunc {
	data := marchallObj(t, obj)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		_, _ = w.Write(data)
	}
}
