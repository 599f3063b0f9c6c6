// Package account keeps the list of saved login profiles in a JSON file.
//
// Every mutating call rewrites the whole file. The store is meant for a
// single owner goroutine; it does no locking.
package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kattitatu/riot-account-manager/internal/models"
)

// Store is the in-memory account list backed by a JSON file.
type Store struct {
	path     string
	log      *slog.Logger
	accounts []Account
	nextID   int
	now      func() time.Time
}

// Open loads the accounts file at path. A missing or unreadable file yields
// an empty store; the problem is logged, never returned.
func Open(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{path: path, log: log, now: time.Now}
	s.load()
	return s
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) load() {
	s.accounts = []Account{}
	s.nextID = 0

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Error("load accounts", slog.String("path", s.path), slog.Any("error", err))
		}
		return
	}

	var accounts []Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		s.log.Error("parse accounts", slog.String("path", s.path), slog.Any("error", err))
		return
	}
	if accounts == nil {
		accounts = []Account{}
	}
	s.accounts = accounts
	// IDs come from a counter, not the list length, so a delete followed by
	// an add cannot reuse a surviving record's id.
	for _, a := range accounts {
		if a.ID >= s.nextID {
			s.nextID = a.ID + 1
		}
	}
}

// Save rewrites the accounts file. Failures are logged and reported as false.
func (s *Store) Save() bool {
	data, err := json.MarshalIndent(s.accounts, "", "    ")
	if err != nil {
		s.log.Error("encode accounts", slog.Any("error", err))
		return false
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.log.Error("create accounts dir", slog.String("dir", dir), slog.Any("error", err))
			return false
		}
	}
	// 0600: the file holds plaintext passwords.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.log.Error("save accounts", slog.String("path", s.path), slog.Any("error", err))
		return false
	}
	return true
}

// Add appends a new account and persists the list. Empty display names fall
// back to the username.
func (s *Store) Add(username, displayName, riotID, password string) Account {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}

	a := Account{
		ID:          s.nextID,
		Username:    username,
		DisplayName: displayName,
		Rank:        models.Unranked,
		RiotID:      strings.TrimSpace(riotID),
		Password:    password,
		CreatedAt:   Timestamp{s.now()},
	}
	s.nextID++
	s.accounts = append(s.accounts, a)
	s.Save()
	return a
}

// Update merges p into the account with the given id and persists the list.
// It reports whether the account exists.
func (s *Store) Update(id int, p Patch) bool {
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			p.apply(&s.accounts[i])
			s.Save()
			return true
		}
	}
	return false
}

// Delete removes every account with the given id. Other ids are untouched.
func (s *Store) Delete(id int) {
	kept := s.accounts[:0:0]
	for _, a := range s.accounts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.accounts = kept
	s.Save()
}

// Get returns a copy of the account with the given id.
func (s *Store) Get(id int) (Account, bool) {
	for _, a := range s.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// FindByUsername looks an account up by login name or display name.
func (s *Store) FindByUsername(name string) (Account, bool) {
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, name) {
			return a, true
		}
	}
	for _, a := range s.accounts {
		if strings.EqualFold(a.DisplayName, name) {
			return a, true
		}
	}
	return Account{}, false
}

// List returns the accounts in insertion order.
func (s *Store) List() []Account {
	out := make([]Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Len returns the number of accounts.
func (s *Store) Len() int { return len(s.accounts) }
