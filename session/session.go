// Package session persists picker/auth session tokens on disk so that
// subsequent runs (and Logout) can reuse or invalidate them. The cache lives
// at ~/.filestack/session.json, keyed by API key.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mitchellh/go-homedir"
)

const (
	cacheDirName  = ".filestack"
	cacheFileName = "session.json"
)

// Session is a cached auth session for one API key.
type Session struct {
	APIKey  string    `json:"apikey"`
	Token   string    `json:"token"`
	Expiry  time.Time `json:"expiry,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// Expired reports whether the session carries an expiry in the past.
func (s Session) Expired() bool {
	return !s.Expiry.IsZero() && time.Now().After(s.Expiry)
}

// Cache is an on-disk session store. Safe for concurrent use within a
// process; cross-process writers last-write-win.
type Cache struct {
	mu   sync.Mutex
	path string
}

// NewCache returns a Cache at the default location under the user's home
// directory.
func NewCache() (*Cache, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	return NewCacheAt(filepath.Join(home, cacheDirName, cacheFileName)), nil
}

// NewCacheAt returns a Cache backed by the given file path.
func NewCacheAt(path string) *Cache {
	return &Cache{path: path}
}

// Load returns the cached session for apiKey, or nil when none exists or the
// cached session has expired.
func (c *Cache) Load(apiKey string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sessions, err := c.read()
	if err != nil {
		return nil, err
	}
	s, ok := sessions[apiKey]
	if !ok || s.Expired() {
		return nil, nil
	}
	return &s, nil
}

// Save stores s, replacing any session cached for the same API key.
func (c *Cache) Save(s Session) error {
	if s.APIKey == "" {
		return errors.New("session apikey is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	sessions, err := c.read()
	if err != nil {
		return err
	}
	s.SavedAt = time.Now()
	sessions[s.APIKey] = s
	return c.write(sessions)
}

// Clear removes the cached session for apiKey, if any.
func (c *Cache) Clear(apiKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sessions, err := c.read()
	if err != nil {
		return err
	}
	if _, ok := sessions[apiKey]; !ok {
		return nil
	}
	delete(sessions, apiKey)
	return c.write(sessions)
}

func (c *Cache) read() (map[string]Session, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Session{}, nil
		}
		return nil, fmt.Errorf("read session cache: %w", err)
	}

	sessions := map[string]Session{}
	if err := json.Unmarshal(raw, &sessions); err != nil {
		// a corrupt cache is treated as empty rather than wedging the client
		return map[string]Session{}, nil
	}
	return sessions, nil
}

func (c *Cache) write(sessions map[string]Session) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("create session cache dir: %w", err)
	}
	raw, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session cache: %w", err)
	}
	if err := os.WriteFile(c.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session cache: %w", err)
	}
	return nil
}
