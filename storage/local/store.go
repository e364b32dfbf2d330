// Package localstore persists the session record on the local profile,
// playing the part browser storage plays for the web dashboard.
package localstore

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/session"
)

// userFile is the storage key of the persisted session record.
const userFile = "user.json"

type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ session.Store = (*FileStore)(nil)

// New opens the store in the configured profile dir, defaulting to the OS
// user config dir. At most one session lives there at a time.
func New() (*FileStore, error) {
	dir := core.Conf.GetString("profileDir")
	if dir == "" {
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolving user config dir")
		}
		dir = filepath.Join(cfgDir, strings.ToLower(core.Conf.GetString("appName")))
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "creating profile dir %s", dir)
	}
	return &FileStore{path: filepath.Join(dir, userFile)}, nil
}

// NewAt opens the store at an explicit directory.
func NewAt(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, userFile)}
}

func (st *FileStore) Load() (*session.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := ioutil.ReadFile(st.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading session record")
	}

	sess := new(session.Session)
	if err := json.Unmarshal(data, sess); err != nil {
		// a corrupt record is unusable; treat as logged out
		_ = os.Remove(st.path)
		return nil, nil
	}
	return sess, nil
}

func (st *FileStore) Save(sess *session.Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session record")
	}

	// write-then-rename keeps the record whole under concurrent readers
	tmp := st.path + ".tmp"
	if err := ioutil.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "writing session record")
	}
	return errors.Wrap(os.Rename(tmp, st.path), "replacing session record")
}

func (st *FileStore) Clear() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := os.Remove(st.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session record")
	}
	return nil
}
