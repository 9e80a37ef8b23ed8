package testutil

import (
	"io/fs"
	"sync"

	"github.com/textyre/bootstrap/pkg/types"
)

// Owners is an in-memory OwnerLookup keyed by path
type Owners struct {
	mu      sync.Mutex
	entries map[string][2]string
}

var _ types.OwnerLookup = (*Owners)(nil)

// NewOwners creates an empty ownership table
func NewOwners() *Owners {
	return &Owners{entries: make(map[string][2]string)}
}

// Set records owner and group for path
func (o *Owners) Set(path, owner, group string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[path] = [2]string{owner, group}
}

// Owner implements types.OwnerLookup
func (o *Owners) Owner(path string) (string, string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.entries[path]
	if !ok {
		return "", "", &fs.PathError{Op: "owner", Path: path, Err: fs.ErrNotExist}
	}
	return e[0], e[1], nil
}
