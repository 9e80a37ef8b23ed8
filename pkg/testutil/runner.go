package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/textyre/bootstrap/pkg/types"
)

// Response is a scripted result for one command line
type Response struct {
	Stdout string
	Err    error
}

// Call records one Run invocation
type Call struct {
	Name  string
	Args  []string
	Stdin string
}

// CommandLine renders the call as a single space-joined string
func (c Call) CommandLine() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// FakeRunner implements types.Runner with scripted responses.
// Commands are matched on their full command line; unscripted commands
// succeed with empty output unless Strict is set.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]Response
	present   map[string]bool
	calls     []Call

	// Strict makes unscripted commands fail
	Strict bool
	// Hook runs before the scripted response is returned
	Hook func(call Call) error
}

var _ types.Runner = (*FakeRunner)(nil)

// NewFakeRunner creates a runner where the given tools are on PATH
func NewFakeRunner(tools ...string) *FakeRunner {
	r := &FakeRunner{
		responses: make(map[string]Response),
		present:   make(map[string]bool),
	}
	for _, tool := range tools {
		r.present[tool] = true
	}
	return r
}

// On scripts the response for a command line such as "xrandr --query"
func (r *FakeRunner) On(commandLine string, stdout string, err error) *FakeRunner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[commandLine] = Response{Stdout: stdout, Err: err}
	return r
}

// Run implements types.Runner
func (r *FakeRunner) Run(_ context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	call := Call{Name: name, Args: append([]string(nil), args...), Stdin: string(stdin)}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	resp, ok := r.responses[call.CommandLine()]
	strict, hook := r.Strict, r.Hook
	r.mu.Unlock()

	if hook != nil {
		if err := hook(call); err != nil {
			return nil, err
		}
	}
	if !ok {
		if strict {
			return nil, fmt.Errorf("unexpected command: %s", call.CommandLine())
		}
		return nil, nil
	}
	return []byte(resp.Stdout), resp.Err
}

// LookPath implements types.Runner
func (r *FakeRunner) LookPath(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.present[name] {
		return "/usr/bin/" + name, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Calls returns a copy of the recorded invocations
func (r *FakeRunner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CommandLines returns the recorded invocations as strings
func (r *FakeRunner) CommandLines() []string {
	var lines []string
	for _, c := range r.Calls() {
		lines = append(lines, c.CommandLine())
	}
	return lines
}
