package localstore

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/upeo/core/session"
	"github.com/trezcool/upeo/core/user"
)

func testSession() *session.Session {
	return &session.Session{
		AccessToken:    "acc",
		RefreshToken:   "ref",
		User:           user.User{ID: "42", Role: user.RoleCoordinator},
		ExpirationTime: 1735689600000,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	st := NewAt(t.TempDir())

	if sess, err := st.Load(); err != nil || sess != nil {
		t.Fatalf("Load() on empty store = %+v, %v; want nil, nil", sess, err)
	}

	if err := st.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := st.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assert.Equal(t, testSession(), got)

	if err := st.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if sess, _ := st.Load(); sess != nil {
		t.Errorf("Load() after Clear() = %+v; want nil", sess)
	}
	// idempotent
	if err := st.Clear(); err != nil {
		t.Errorf("Clear() second call error = %v", err)
	}
}

// The on-disk record keeps the exact field names every consumer of the
// stored profile expects.
func TestFileStoreRecordShape(t *testing.T) {
	dir := t.TempDir()
	st := NewAt(dir)
	if err := st.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := ioutil.ReadFile(filepath.Join(dir, "user.json"))
	if err != nil {
		t.Fatalf("reading record: %v", err)
	}
	var record map[string]interface{}
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("decoding record: %v", err)
	}

	for _, key := range []string{"accessToken", "refreshToken", "user", "expirationTime"} {
		if _, ok := record[key]; !ok {
			t.Errorf("record missing %q key", key)
		}
	}
	usr, ok := record["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("user = %T; want object", record["user"])
	}
	if usr["id"] != "42" || usr["role"] != "coordinator" {
		t.Errorf("user = %v; want id/role fields", usr)
	}
}

func TestFileStoreCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	if err := ioutil.WriteFile(filepath.Join(dir, "user.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	st := NewAt(dir)
	sess, err := st.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if sess != nil {
		t.Errorf("Load() = %+v; want nil for corrupt record", sess)
	}
}
