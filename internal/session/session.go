// Package session stores the signed-in user's token and profile on disk.
//
// A remembered session lives in the persistent area under XDG_CONFIG_HOME and
// survives reboots. Otherwise it lives in the session-scoped area under
// XDG_RUNTIME_DIR, which the OS clears at logout.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"join/internal/api"

	"github.com/bytedance/sonic"
)

const (
	AppName     = "join"
	SessionFile = "session.json"
)

// ErrNoSession is returned by Load when neither area holds a session.
var ErrNoSession = errors.New("not logged in")

type Session struct {
	Token   string    `json:"token"`
	User    api.User  `json:"user"`
	SavedAt time.Time `json:"saved_at"`
}

type Store struct {
	// PersistentDir holds remembered sessions.
	PersistentDir string
	// SessionDir holds sessions that end with the OS login session.
	SessionDir string

	mu     sync.Mutex
	cached *Session
}

// NewStore uses the default directories for any argument left empty.
func NewStore(persistentDir, sessionDir string) *Store {
	if persistentDir == "" {
		persistentDir = DefaultPersistentDir()
	}
	if sessionDir == "" {
		sessionDir = DefaultSessionDir()
	}
	return &Store{PersistentDir: persistentDir, SessionDir: sessionDir}
}

// DefaultPersistentDir uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultPersistentDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultSessionDir uses XDG_RUNTIME_DIR if set, otherwise the temp dir.
func DefaultSessionDir() string {
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d", AppName, os.Getuid()))
}

// Save writes sess to the area chosen by remember and clears the other one,
// so at most one area holds a session.
func (s *Store) Save(sess Session, remember bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, other := s.SessionDir, s.PersistentDir
	if remember {
		target, other = s.PersistentDir, s.SessionDir
	}
	if sess.SavedAt.IsZero() {
		sess.SavedAt = time.Now()
	}

	data, err := sonic.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(target, 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(target, SessionFile), data, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := removeFile(filepath.Join(other, SessionFile)); err != nil {
		return err
	}

	s.cached = &sess
	return nil
}

// Load returns the persistent session if present, else the session-scoped one.
func (s *Store) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*Session, error) {
	if s.cached != nil {
		return s.cached, nil
	}
	for _, dir := range []string{s.PersistentDir, s.SessionDir} {
		data, err := os.ReadFile(filepath.Join(dir, SessionFile))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read session: %w", err)
		}
		var sess Session
		if err := sonic.Unmarshal(data, &sess); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", dir, err)
		}
		s.cached = &sess
		return s.cached, nil
	}
	return nil, ErrNoSession
}

// Clear removes the session from both areas.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	for _, dir := range []string{s.PersistentDir, s.SessionDir} {
		if err := removeFile(filepath.Join(dir, SessionFile)); err != nil {
			return err
		}
	}
	return nil
}

// Token returns the stored bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.load()
	if err != nil {
		return ""
	}
	return sess.Token
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
