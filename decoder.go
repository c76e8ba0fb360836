package hexes

import (
	"sync/atomic"
	"unicode/utf8"
)

// reader is the minimal interface the decoder needs from the terminal's
// input descriptor; os.File satisfies it directly, and tests substitute
// a bytes.Reader or similar.
type reader interface {
	Read([]byte) (int, error)
}

// decoder turns bytes read from a terminal's input descriptor into
// Events. It owns a small read-ahead buffer because a single read(2)
// can return several queued escape sequences at once, and a poller so
// it can tell "ESC, then nothing more arrives" (a bare Escape key)
// apart from "ESC, and a sequence follows" without blocking.
type decoder struct {
	in       reader
	poller   *poller
	keyTable *keyTable
	unicode  bool
	focus    int32

	buf  [256]byte
	n, i int
}

func newDecoder(in reader, p *poller, kt *keyTable, unicode bool) *decoder {
	return &decoder{in: in, poller: p, keyTable: kt, unicode: unicode}
}

// SetFocusEvents enables or disables reporting ESC[I/ESC[O as
// KeyFocusIn/KeyFocusOut, mirroring whether FlagFocusEvents is
// currently on. Safe to call from a different goroutine than the one
// driving Decode, since a caller may toggle flags while the event loop
// is blocked elsewhere.
func (d *decoder) SetFocusEvents(enabled bool) {
	var v int32
	if enabled {
		v = 1
	}
	atomic.StoreInt32(&d.focus, v)
}

// SetSource changes which descriptor the next Decode call reads from.
// The event loop calls this to pick the terminal or the self-pipe
// depending on which one the poller reported ready; it has no effect
// on bytes already sitting in the read-ahead buffer.
func (d *decoder) SetSource(r reader) { d.in = r }

// pending reports whether the read-ahead buffer already holds an
// undecoded byte, so the event loop can skip polling entirely.
func (d *decoder) pending() bool { return d.i < d.n }

// fill reads more bytes into buf if it is empty. ok is false on EOF or a
// read error.
func (d *decoder) fill() bool {
	if d.i < d.n {
		return true
	}
	n, err := d.in.Read(d.buf[:])
	d.i, d.n = 0, n
	return n > 0 && err == nil
}

func (d *decoder) readByte() (byte, bool) {
	if !d.fill() {
		return 0, false
	}
	b := d.buf[d.i]
	d.i++
	return b, true
}

// moreImmediatelyAvailable reports whether another byte can be read
// without blocking: either the read-ahead buffer already holds one, or
// the poller sees the input descriptor ready right now. Used to tell a
// standalone ESC keypress apart from the start of an escape sequence.
func (d *decoder) moreImmediatelyAvailable() bool {
	if d.i < d.n {
		return true
	}
	ready, _, _, err := d.poller.wait(0)
	return err == nil && ready
}

// Decode reads and classifies a single event. Callers are expected to
// only invoke it once the event loop's poll has indicated input is
// ready, so the initial read will not block; escape-sequence
// continuation bytes are read with the same expectation, falling back
// to "bare Escape" if none arrive immediately.
func (d *decoder) Decode() Event {
	b, ok := d.readByte()
	if !ok {
		return Event{Key: KeyEOF}
	}

	switch {
	case b == 0x1b:
		return d.decodeEscape()
	case b == '\r' || b == '\n':
		return Event{Key: KeyEnter}
	case b == '\t':
		return Event{Key: KeyTab}
	case b == 0x7f || b == 0x08:
		return Event{Key: KeyBackspace}
	case b == ' ':
		return Event{Key: KeySpace}
	case b < 0x20:
		return Event{Key: KeyChar, Rune: ctrlFold(b), Mod: ModCtrl}
	default:
		return d.decodeRune(b)
	}
}

// ctrlFold reverses a CTRL key's effect on a byte: CTRL zeroes the top
// three bits of the letter it was applied to, so byte 0 folds back to
// '~' and every other byte folds back to itself plus '@'.
func ctrlFold(b byte) rune {
	if b == 0 {
		return '~'
	}
	return rune(b) + '@'
}

// decodeEscape runs after consuming the leading ESC. If nothing follows
// immediately it's a bare Escape keypress; otherwise the full body
// (everything up to and including the sequence's final byte) is
// accumulated and classified in order: key table, focus report, mouse
// report, then an opaque KeyUnknown carrying the raw body.
func (d *decoder) decodeEscape() Event {
	if !d.moreImmediatelyAvailable() {
		return Event{Key: KeyEsc}
	}

	b0, ok := d.readByte()
	if !ok {
		return Event{Key: KeyEsc}
	}

	// A second ESC with nothing behind it is ALT+Escape.
	if b0 == 0x1b && !d.moreImmediatelyAvailable() {
		return Event{Key: KeyEsc, Mod: ModAlt}
	}

	var body []byte
	body = append(body, b0)

	switch b0 {
	case 'O':
		// SS3: exactly one more byte (e.g. ESC O P == F1 on some terminals).
		if b, ok := d.readByte(); ok {
			body = append(body, b)
		}
	case '[':
		for {
			if !d.moreImmediatelyAvailable() {
				break
			}
			b, ok := d.readByte()
			if !ok {
				break
			}
			body = append(body, b)
			if isCSIFinal(b) {
				break
			}
			if len(body) >= len(d.buf) {
				break
			}
		}
		// X10 mouse report: three raw bytes follow the final 'M'.
		if len(body) == 2 && body[1] == 'M' {
			for len(body) < 5 {
				b, ok := d.readByte()
				if !ok {
					break
				}
				body = append(body, b)
			}
		}
	default:
		// A bare ESC followed immediately by a printable byte with
		// nothing else queued is the ALT+<key> fold: the terminal sends
		// ESC then the key's own bytes.
		if !d.moreImmediatelyAvailable() {
			if b0 < 0x20 {
				return Event{Key: KeyChar, Rune: ctrlFold(b0), Mod: ModAlt | ModCtrl}
			}
			ev := d.decodeRune(b0)
			ev.Mod |= ModAlt
			return ev
		}
	}

	if entry, ok := d.keyTable.lookup(string(body)); ok {
		return Event{Key: entry.key}
	}

	if body[0] == '[' {
		focusOn := atomic.LoadInt32(&d.focus) != 0
		switch {
		case focusOn && len(body) == 2 && body[1] == 'I':
			return Event{Key: KeyFocusIn}
		case focusOn && len(body) == 2 && body[1] == 'O':
			return Event{Key: KeyFocusOut}
		case looksLikeMouse(body):
			if m, ok := decodeMouse(body); ok {
				return Event{Key: KeyMouse, Mouse: m}
			}
		}
	}

	return Event{Key: KeyUnknown, Raw: body}
}

// isCSIFinal reports whether b terminates a CSI sequence: the final
// byte of a CSI sequence is always in 0x40..0x7e, while everything
// before it (parameter and intermediate bytes) falls in 0x20..0x3f.
func isCSIFinal(b byte) bool {
	return b >= 0x40 && b <= 0x7e
}

// decodeRune assembles a full UTF-8 codepoint starting at lead, reading
// continuation bytes as needed. With Unicode detection disabled, lead
// is returned as a single Latin-1 byte instead.
func (d *decoder) decodeRune(lead byte) Event {
	size := utf8SizeFromLead(lead, d.unicode)
	if size == 1 {
		return Event{Key: KeyChar, Rune: rune(lead)}
	}

	raw := make([]byte, 1, size)
	raw[0] = lead
	for len(raw) < size {
		b, ok := d.readByte()
		if !ok {
			break
		}
		raw = append(raw, b)
	}

	r, n := utf8.DecodeRune(raw)
	if r == utf8.RuneError && n <= 1 {
		return Event{Key: KeyChar, Rune: rune(lead)}
	}
	return Event{Key: KeyChar, Rune: r}
}
