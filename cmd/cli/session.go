package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

// storedSession is the on-disk form of a session. Cookie values stay opaque.
type storedSession struct {
	Email   string         `json:"email"`
	Name    string         `json:"name,omitempty"`
	IsAdmin bool           `json:"isAdmin"`
	Cookies []storedCookie `json:"cookies"`
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func saveSession(path string, s domain.Session) error {
	stored := storedSession{Email: s.Email, Name: s.Name, IsAdmin: s.IsAdmin}
	for _, c := range s.Cookies {
		stored.Cookies = append(stored.Cookies, storedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// loadSession returns the zero session when no file exists.
func loadSession(path string) (domain.Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return domain.Session{}, fmt.Errorf("decode session %s: %w", path, err)
	}
	s := domain.Session{Email: stored.Email, Name: stored.Name, IsAdmin: stored.IsAdmin}
	for _, c := range stored.Cookies {
		s.Cookies = append(s.Cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return s, nil
}

func clearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
