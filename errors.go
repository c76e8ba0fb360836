package hexes

import "fmt"

// Sentinel errors for the conditions the library distinguishes by value
// rather than by a dedicated struct.
var (
	// ErrSignalSetup means a signal handler could not be installed.
	// New never returns it: registering with os/signal cannot fail.
	ErrSignalSetup = newErr("hexes: signal handler setup failed")

	// ErrRawMode means the terminal's line discipline could not be
	// changed. Fatal during Init.
	ErrRawMode = newErr("hexes: failed to enter raw mode")

	// ErrUnicodeRequired is returned by New when WithRequireUnicode was
	// set and the startup probe reported no Unicode support.
	ErrUnicodeRequired = newErr("hexes: terminal does not support unicode")

	// ErrClosed is returned by operations attempted on a Terminal after
	// Close has already torn it down.
	ErrClosed = newErr("hexes: terminal already closed")
)

type sentinelError string

func newErr(s string) error        { return sentinelError(s) }
func (e sentinelError) Error() string { return string(e) }

// SizeError reports that the terminal's dimensions are below a
// caller-requested minimum, or that dimensions could not be determined
// at all.
type SizeError struct {
	Want  [2]int // minimum width, height requested
	Got   [2]int // actual width, height found (zero if unknown)
	Cause error  // non-nil if the size query itself failed
}

func (e *SizeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("hexes: could not determine terminal size: %v", e.Cause)
	}
	return fmt.Sprintf("hexes: terminal too small: got %dx%d, need at least %dx%d",
		e.Got[0], e.Got[1], e.Want[0], e.Want[1])
}

func (e *SizeError) Unwrap() error { return e.Cause }

// InitError wraps the staged-lifecycle stage at which initialization
// failed, for unwind diagnostics.
type InitError struct {
	Stage int
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("hexes: init failed at stage %d: %v", e.Stage, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
