// Package users resolves the human account displayctl acts for, which is the
// invoking user even under sudo.
package users

import (
	"os"
	"os/user"
)

// Unknown is returned when no source names the current user
const Unknown = "unknown"

// Lookup abstracts the account database
type Lookup struct {
	Getenv  func(string) string
	Current func() (*user.User, error)
	ByName  func(string) (*user.User, error)
}

// System uses the process environment and os/user
func System() Lookup {
	return Lookup{Getenv: os.Getenv, Current: user.Current, ByName: user.Lookup}
}

// CurrentUser returns SUDO_USER, USER or USERNAME, falling back to the
// account of the running process.
func (l Lookup) CurrentUser() string {
	for _, key := range []string{"SUDO_USER", "USER", "USERNAME"} {
		if v := l.Getenv(key); v != "" {
			return v
		}
	}
	if l.Current != nil {
		if u, err := l.Current(); err == nil && u.Username != "" {
			return u.Username
		}
	}
	return Unknown
}

// HomeDir returns the home directory of name. ok is false when the account
// does not exist.
func (l Lookup) HomeDir(name string) (string, bool) {
	if l.ByName != nil {
		if u, err := l.ByName(name); err == nil && u.HomeDir != "" {
			return u.HomeDir, true
		}
		return "", false
	}
	if name == l.CurrentUser() {
		if home, err := os.UserHomeDir(); err == nil {
			return home, true
		}
	}
	return "", false
}
