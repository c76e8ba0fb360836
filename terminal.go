package hexes

import (
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/richwalm/hexes/capinfo"
)

// Terminal is the single owning object for one terminal session: the
// capability store, signal handlers, raw input mode, the shadow/pending
// buffers, and the output sink. Exactly one Init stage-sequence runs
// per Terminal, constructed with New and torn down with Close.
type Terminal struct {
	in     *os.File
	outDst io.Writer
	out    *writerHandle

	raw *rawState
	sig *sigState
	pol *poller

	store    *capinfo.Store
	keyTable *keyTable
	dec      *decoder

	quirks     Quirks
	unicode    bool
	colorCount int

	flags      Flag
	mouseLevel MouseLevel

	Pending *Buffer
	shadow  *Buffer

	minW, minH int

	forceUnicode     bool
	requireUnicode   bool
	skipUnicodeProbe bool
	skipColorProbe   bool

	logger zerolog.Logger

	closed bool
}

// Option configures a Terminal before New runs its init sequence.
type Option func(*Terminal)

func WithMinSize(w, h int) Option {
	return func(t *Terminal) { t.minW, t.minH = w, h }
}

func WithForceUnicode() Option       { return func(t *Terminal) { t.forceUnicode = true } }
func WithRequireUnicode() Option     { return func(t *Terminal) { t.requireUnicode = true } }
func WithSkipUnicodeProbe() Option   { return func(t *Terminal) { t.skipUnicodeProbe = true } }
func WithSkipColorProbe() Option     { return func(t *Terminal) { t.skipColorProbe = true } }
func WithLogger(l zerolog.Logger) Option {
	return func(t *Terminal) { t.logger = l }
}
func WithOutput(w io.Writer) Option { return func(t *Terminal) { t.outDst = w } }
func WithInput(f *os.File) Option   { return func(t *Terminal) { t.in = f } }

// New runs the staged init sequence (capability store, signal handlers,
// raw mode + polling + self-pipe, output buffer, quirk/unicode/color
// probes, buffers + alternate screen) and returns a ready Terminal. On
// any failure it unwinds everything acquired so far and returns an
// *InitError (or *SizeError for the sizing stage).
func New(opts ...Option) (*Terminal, error) {
	t := &Terminal{logger: Logger}
	for _, o := range opts {
		o(t)
	}
	if t.in == nil {
		t.in = os.Stdin
	}
	if t.outDst == nil {
		t.outDst = os.Stdout
	}

	// Stage 0: capability store. Missing or malformed is non-fatal per
	// the error taxonomy — the library falls back to an empty store
	// (every capability reads as absent) and hardcoded defaults.
	store, err := capinfo.Load(os.Getenv("TERM"))
	if err != nil {
		t.logger.Debug().Err(err).Msg("capability load failed, using defaults")
		store = &capinfo.Store{}
	}
	t.store = store
	t.keyTable = buildKeyTable(store)

	// Stage 1: signal handlers. os/signal.Notify has no failure mode the
	// way sigaction does, so ErrSignalSetup is kept for API parity but
	// is never actually returned here.
	t.sig = newSigState(nil)

	// Stage 2: raw mode, polling primitive, self-pipe.
	raw, err := enterRawMode(t.in)
	if err != nil {
		t.unwind(1)
		return nil, &InitError{Stage: 2, Err: ErrRawMode}
	}
	t.raw = raw

	pol, err := newPoller(int(t.in.Fd()))
	if err != nil {
		t.unwind(2)
		return nil, &InitError{Stage: 2, Err: err}
	}
	t.pol = pol
	t.sig.SetWake(t.pol.wakeSignal)

	w, h, err := termSize(int(t.in.Fd()))
	if err != nil {
		t.unwind(2)
		return nil, &SizeError{Want: [2]int{t.minW, t.minH}, Cause: err}
	}
	if w < t.minW || h < t.minH {
		t.unwind(2)
		return nil, &SizeError{Want: [2]int{t.minW, t.minH}, Got: [2]int{w, h}}
	}

	t.out = newWriterHandle(t.outDst, w, h)

	// Detection probes, gated on raw mode + polling being live.
	t.quirks = probeQuirks(t.in, t.out.w, t.pol, w)

	switch {
	case t.forceUnicode:
		t.unicode = true
	case t.skipUnicodeProbe:
		t.unicode = false
	default:
		t.unicode = probeUnicode(t.in, t.out.w, t.pol)
	}
	if t.requireUnicode && !t.unicode {
		t.unwind(2)
		return nil, &InitError{Stage: 2, Err: ErrUnicodeRequired}
	}

	if t.skipColorProbe {
		fallback, _ := t.store.Number(ordMaxColors)
		t.colorCount = fallback
	} else {
		fallback, _ := t.store.Number(ordMaxColors)
		t.colorCount = probeColorCount(t.in, t.out.w, t.pol, fallback)
	}

	t.dec = newDecoder(t.in, t.pol, t.keyTable, t.unicode)

	// Stage 3: buffers, damage, alternate screen. The output buffer was
	// created above, before the probes that write through it.
	t.shadow = NewBuffer(w, h, t.unicode)
	t.Pending = newPendingBuffer(w, h, t.unicode)

	if hint, ok := t.store.String(ordEnterCAMode); ok {
		t.out.w.WriteString(hint)
		t.out.w.Write([]byte("\x1b[H"))
	} else {
		t.out.w.WriteString("\x1bc")
	}
	t.resetFlags(0)
	t.out.w.Flush()

	if seq, ok := keypadXmitSeq(t.store); ok {
		t.out.w.WriteString(seq)
		t.out.w.Flush()
	}

	return t, nil
}

// unwind tears down everything acquired through the given positive
// stage, in reverse order, for use when a later stage's init fails.
func (t *Terminal) unwind(through int) {
	if through >= 2 {
		if t.pol != nil {
			t.pol.Close()
		}
		if t.raw != nil {
			t.raw.restore()
		}
	}
	if through >= 1 {
		if t.sig != nil {
			t.sig.Stop()
		}
	}
}

// flushEngine builds a flush engine bound to this Terminal's current
// output sink and quirks mask.
func (t *Terminal) flushEngine() *flushEngine {
	return &flushEngine{Out: t.out.w, Quirks: t.quirks}
}

// Flush reconciles the pending buffer against the shadow and writes the
// resulting bytes, optionally leaving the terminal cursor at target.
func (t *Terminal) Flush(target *CursorTarget) error {
	if t.closed {
		return ErrClosed
	}
	return t.flushEngine().Flush(t.shadow, t.Pending, target)
}

// FullRedraw forces a full repaint of the pending buffer, ignoring
// damage, used after a resize or a resume from suspend.
func (t *Terminal) FullRedraw() error {
	if t.closed {
		return ErrClosed
	}
	return t.flushEngine().FullRedraw(t.shadow, t.Pending)
}

// SetTitle sets the terminal window title and/or icon name. Either
// argument may be empty to leave that one unset.
func (t *Terminal) SetTitle(title, icon string) {
	if title != "" {
		t.out.w.WriteString("\x1b]2;" + title + "\x1b\\")
	}
	if icon != "" {
		t.out.w.WriteString("\x1b]1;" + icon + "\x1b\\")
	}
	t.out.w.Flush()
}

// RequestResize asks a cooperating terminal emulator to resize itself
// via XTWINOPS, then re-queries the kernel's actual notion of the
// terminal's size. ok reports whether the request appears to have been
// honored (the reported size now matches the request).
func (t *Terminal) RequestResize(w, h int) (actualW, actualH int, ok bool) {
	t.out.w.WriteString(xtwinopsResize(h, w))
	t.out.w.Flush()

	actualW, actualH, err := termSize(int(t.in.Fd()))
	if err != nil {
		return 0, 0, false
	}
	return actualW, actualH, actualW == w && actualH == h
}

// resize reallocates the shadow and pending buffers to (w, h),
// preserving overlap, grows the output buffer to match, and marks every
// cell of the pending buffer damaged. Its callers (NextEvent and resume)
// follow it with FullRedraw.
func (t *Terminal) resize(w, h int) {
	t.shadow.Resize(w, h)
	t.Pending.Resize(w, h)
	t.out.grow(t.outDst, w, h)
	if t.Pending.damage != nil {
		t.Pending.damage.markAll()
	}
}

// Close runs the teardown sequence: flags to zero, keypad transmit mode
// reversed, signal handlers restored, alternate screen left (or a hard
// reset if the capability is absent or marked non-restorative), polling
// and raw mode released.
func (t *Terminal) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	t.resetFlags(0)

	if seq, ok := keypadLocalSeq(t.store); ok {
		t.out.w.WriteString(seq)
	}

	if t.sig != nil {
		t.sig.Stop()
	}

	hint, hasHint := t.store.String(ordExitCAMode)
	nonRestorative := t.store.Bool(ordCANotRestore)
	if hasHint {
		t.out.w.WriteString(hint)
	}
	if !hasHint || nonRestorative {
		t.out.w.WriteString("\x1bc")
	}
	t.out.w.Flush()

	if t.pol != nil {
		t.pol.Close()
	}
	if t.raw != nil {
		return t.raw.restore()
	}
	return nil
}

// resume runs the SIGCONT recovery path: re-enter raw mode and
// non-blocking IO, force a resize, re-enter the alternate screen,
// reassert flags and mouse mode through the "all off" transition, and
// reassert keypad transmit mode.
func (t *Terminal) resume() error {
	raw, err := enterRawMode(t.in)
	if err != nil {
		return ErrRawMode
	}
	t.raw = raw
	if err := unix.SetNonblock(int(t.in.Fd()), true); err != nil {
		return err
	}

	if w, h, err := termSize(int(t.in.Fd())); err == nil {
		t.resize(w, h)
	}

	if hint, ok := t.store.String(ordEnterCAMode); ok {
		t.out.w.WriteString(hint)
		t.out.w.Write([]byte("\x1b[H"))
	} else {
		t.out.w.WriteString("\x1bc")
	}

	prevFlags, prevMouse := t.flags, t.mouseLevel
	t.flags, t.mouseLevel = 0, MouseNone
	t.resetFlags(prevFlags)
	t.SetMouseLevel(prevMouse)

	if seq, ok := keypadXmitSeq(t.store); ok {
		t.out.w.WriteString(seq)
	}
	t.out.w.Flush()

	return t.FullRedraw()
}

// xtwinopsResize renders the "resize window to H rows, W columns"
// XTWINOPS request.
func xtwinopsResize(h, w int) string {
	return "\x1b[8;" + strconv.Itoa(h) + ";" + strconv.Itoa(w) + "t"
}
