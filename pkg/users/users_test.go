package users

import (
	"errors"
	"os/user"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixedEnv(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestCurrentUser(t *testing.T) {
	noCurrent := func() (*user.User, error) { return nil, errors.New("no passwd") }
	current := func() (*user.User, error) { return &user.User{Username: "proc"}, nil }

	tests := []struct {
		name    string
		env     map[string]string
		current func() (*user.User, error)
		want    string
	}{
		{"sudo user wins", map[string]string{"SUDO_USER": "ana", "USER": "root"}, current, "ana"},
		{"user", map[string]string{"USER": "bob", "USERNAME": "other"}, current, "bob"},
		{"username", map[string]string{"USERNAME": "carl"}, current, "carl"},
		{"process account", nil, current, "proc"},
		{"unknown", nil, noCurrent, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Lookup{Getenv: fixedEnv(tt.env), Current: tt.current}
			assert.Equal(t, tt.want, l.CurrentUser())
		})
	}
}

func TestHomeDir(t *testing.T) {
	l := Lookup{
		Getenv: fixedEnv(nil),
		ByName: func(name string) (*user.User, error) {
			if name == "ana" {
				return &user.User{Username: "ana", HomeDir: "/home/ana"}, nil
			}
			return nil, user.UnknownUserError(name)
		},
	}

	home, ok := l.HomeDir("ana")
	assert.True(t, ok)
	assert.Equal(t, "/home/ana", home)

	_, ok = l.HomeDir("ghost")
	assert.False(t, ok)
}
