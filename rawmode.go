//go:build unix

package hexes

import (
	"os"

	"golang.org/x/term"
)

// rawState owns the line discipline of one descriptor for the life of
// a session: the *os.File it modified and the state needed to put it
// back. Binding the descriptor to the saved state (rather than passing
// *os.File separately into every caller that later wants to restore
// it) means Close, unwind, and the SIGCONT resume path only ever need
// to carry the one value.
type rawState struct {
	f     *os.File
	saved *term.State
}

// enterRawMode puts f into raw mode and returns the state needed to
// reverse it. Called both during New's init sequence and again by
// resume after a SIGCONT, since a stopped-and-continued process loses
// its line discipline to the shell that regained the terminal.
func enterRawMode(f *os.File) (*rawState, error) {
	saved, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return nil, err
	}
	return &rawState{f: f, saved: saved}, nil
}

// restore reverses enterRawMode on the same descriptor it was captured
// from. A nil receiver or a state with nothing saved is a no-op, so
// teardown can call it unconditionally regardless of how far init got.
func (s *rawState) restore() error {
	if s == nil || s.saved == nil {
		return nil
	}
	return term.Restore(int(s.f.Fd()), s.saved)
}
