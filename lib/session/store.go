// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the admin session: the bearer token persisted
// between runs, the identity behind it, and the status transitions
// every screen observes. The store is an explicit injected dependency;
// nothing in this repository reaches for a package-level session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fathomline/studioctl/lib/studio"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusUnauthenticated means no token is held. The console shows
	// the login screen.
	StatusUnauthenticated Status = iota

	// StatusValidating means a stored token was found and is being
	// checked against /auth/me.
	StatusValidating

	// StatusAuthenticated means the token was verified and the user
	// identity is known.
	StatusAuthenticated

	// StatusExpired means an authenticated request was rejected with
	// 401 mid-session. The token has been discarded.
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusValidating:
		return "validating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusExpired:
		return "expired"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// FilePath returns the session file location: $STUDIOCTL_SESSION_FILE
// if set, otherwise $XDG_CONFIG_HOME/studioctl/session.json, otherwise
// ~/.config/studioctl/session.json.
func FilePath() (string, error) {
	if override := os.Getenv("STUDIOCTL_SESSION_FILE"); override != "" {
		return override, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "studioctl", "session.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "studioctl", "session.json"), nil
}

// sessionFile is the on-disk format: the bearer token and nothing
// else. Identity is re-fetched from /auth/me on every start so a role
// change takes effect without re-login.
type sessionFile struct {
	Token string `json:"token"`
}

// Config holds the dependencies for creating a Store.
type Config struct {
	// Client is the content API client. Required. The store registers
	// the client's unauthorized hook so a 401 on any screen's request
	// expires the session globally.
	Client *studio.Client

	// FilePath overrides the session file location. If empty,
	// FilePath() is used.
	FilePath string

	// Logger receives session lifecycle logs. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Store tracks the current session. It is safe for concurrent use:
// the UI goroutine reads it while bubbletea commands mutate it.
type Store struct {
	client   *studio.Client
	filePath string
	logger   *slog.Logger

	mutex       sync.RWMutex
	status      Status
	user        *studio.User
	session     *studio.Session
	subscribers []chan Status
}

// NewStore creates a session store and wires it into the client's
// unauthorized hook.
func NewStore(config Config) (*Store, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("Client is required")
	}
	filePath := config.FilePath
	if filePath == "" {
		resolved, err := FilePath()
		if err != nil {
			return nil, err
		}
		filePath = resolved
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := &Store{
		client:   config.Client,
		filePath: filePath,
		logger:   logger,
		status:   StatusUnauthenticated,
	}
	config.Client.SetUnauthorizedHook(store.Expire)
	return store, nil
}

// Status returns the current lifecycle state.
func (s *Store) Status() Status {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.status
}

// User returns the authenticated identity. It is non-nil exactly when
// Status is StatusAuthenticated.
func (s *Store) User() *studio.User {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.user
}

// Session returns the authenticated API handle, or nil when no
// verified session is held.
func (s *Store) Session() *studio.Session {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.session
}

// Subscribe returns a channel that receives every status transition.
// The channel is buffered; a subscriber that falls behind misses
// intermediate transitions, never the store's current state, which it
// can always re-read via Status.
func (s *Store) Subscribe() <-chan Status {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	channel := make(chan Status, 8)
	s.subscribers = append(s.subscribers, channel)
	return channel
}

// transition updates the state under the lock and notifies
// subscribers. user must be non-nil iff status is StatusAuthenticated.
func (s *Store) transition(status Status, user *studio.User, apiSession *studio.Session) {
	s.mutex.Lock()
	s.status = status
	s.user = user
	s.session = apiSession
	subscribers := s.subscribers
	s.mutex.Unlock()

	for _, channel := range subscribers {
		select {
		case channel <- status:
		default:
		}
	}
}

// Initialize restores a persisted session. With no session file the
// store stays unauthenticated. With a file, the token is verified via
// /auth/me: success lands on StatusAuthenticated, a rejected token is
// discarded (file removed, StatusUnauthenticated), and a transport
// failure also lands on StatusUnauthenticated with the error returned
// so the UI can show it. There is no automatic retry.
func (s *Store) Initialize(ctx context.Context) (Status, error) {
	raw, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		s.transition(StatusUnauthenticated, nil, nil)
		return StatusUnauthenticated, nil
	}
	if err != nil {
		s.transition(StatusUnauthenticated, nil, nil)
		return StatusUnauthenticated, fmt.Errorf("read session file: %w", err)
	}
	var file sessionFile
	if err := json.Unmarshal(raw, &file); err != nil || file.Token == "" {
		s.logger.Warn("discarding malformed session file", "path", s.filePath)
		s.removeFile()
		s.transition(StatusUnauthenticated, nil, nil)
		return StatusUnauthenticated, nil
	}

	s.transition(StatusValidating, nil, nil)
	apiSession := s.client.WithToken(file.Token)
	user, err := apiSession.Me(ctx)
	if err != nil {
		if studio.IsUnauthorized(err) {
			s.logger.Info("stored token rejected, clearing session")
			s.removeFile()
			s.transition(StatusUnauthenticated, nil, nil)
			return StatusUnauthenticated, nil
		}
		s.transition(StatusUnauthenticated, nil, nil)
		return StatusUnauthenticated, fmt.Errorf("verify session: %w", err)
	}
	s.transition(StatusAuthenticated, user, apiSession)
	return StatusAuthenticated, nil
}

// Login authenticates with the backend, verifies the issued token,
// persists it, and moves the store to StatusAuthenticated. On failure
// the store is left unauthenticated and nothing is written.
func (s *Store) Login(ctx context.Context, email, password string) (*studio.User, error) {
	apiSession, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	user, err := apiSession.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify new session: %w", err)
	}
	if err := s.writeFile(apiSession.Token()); err != nil {
		return nil, err
	}
	s.transition(StatusAuthenticated, user, apiSession)
	s.logger.Info("logged in", "user", user.Email, "role", user.Role)
	return user, nil
}

// Logout discards the session and removes the persisted token.
func (s *Store) Logout() {
	s.removeFile()
	s.transition(StatusUnauthenticated, nil, nil)
}

// Expire handles a 401 observed mid-session: the token is discarded
// and subscribers are told to fall back to the login screen. Calls in
// any state other than StatusAuthenticated are ignored, so a failed
// login attempt or a second in-flight 401 cannot double-expire.
func (s *Store) Expire() {
	s.mutex.Lock()
	if s.status != StatusAuthenticated {
		s.mutex.Unlock()
		return
	}
	s.status = StatusExpired
	s.user = nil
	s.session = nil
	subscribers := s.subscribers
	s.mutex.Unlock()

	s.logger.Info("session expired")
	s.removeFile()
	for _, channel := range subscribers {
		select {
		case channel <- StatusExpired:
		default:
		}
	}
}

func (s *Store) writeFile(token string) error {
	encoded, err := json.Marshal(sessionFile{Token: token})
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	// 0600: the file holds a live access token.
	if err := os.WriteFile(s.filePath, encoded, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *Store) removeFile() {
	if err := os.Remove(s.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("remove session file", "path", s.filePath, "error", err)
	}
}
