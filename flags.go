package hexes

// Flag is a bitset of the four orthogonal runtime toggles the mode
// controller manages: cursor visibility, bright cursor color, reverse
// video, and focus-event reporting.
type Flag uint8

const (
	FlagHideCursor Flag = 1 << iota
	FlagBrightCursor
	FlagReverseVideo
	FlagFocusEvents
)

// Capability ordinals for the cursor-visibility strings; terminfo names
// them civis/cnorm/cvvis. Reverse video and focus reporting have no
// capability-string equivalent (terminfo only exposes a combined
// "flash" code for the former) so those two always use the fixed DEC
// private-mode sequences.
const (
	ordCursorInvisible = 13
	ordCursorNormal    = 16
	ordCursorVisible   = 20
)

// SetFlags writes new as the active flag mask, emitting the minimum
// escapes for whatever changed, and returns the mask that was active
// beforehand. Passing nil leaves the mask untouched and only reads it
// back — the Go analogue of the controller's "NULL means just read"
// contract. A new mask of zero resets every toggle to the terminal's
// default state.
func (t *Terminal) SetFlags(new *Flag) Flag {
	prev := t.flags
	if new == nil {
		return prev
	}
	t.applyFlags(prev, *new)
	t.flags = *new
	return prev
}

// Flags reads the active flag mask without changing it.
func (t *Terminal) Flags() Flag { return t.flags }

func (t *Terminal) applyFlags(from, to Flag) {
	diff := from ^ to
	if diff == 0 {
		return
	}

	if diff&FlagHideCursor != 0 {
		t.out.w.WriteString(t.cursorVisibilityHint(to))
	} else if diff&FlagBrightCursor != 0 && to&FlagHideCursor == 0 {
		ord := ordCursorNormal
		if to&FlagBrightCursor != 0 {
			ord = ordCursorVisible
		}
		if hint, ok := t.store.String(ord); ok {
			t.out.w.WriteString(hint)
		}
	}

	if diff&FlagReverseVideo != 0 {
		if to&FlagReverseVideo != 0 {
			t.out.w.WriteString("\x1b[?5h")
		} else {
			t.out.w.WriteString("\x1b[?5l")
		}
	}

	if diff&FlagFocusEvents != 0 {
		if to&FlagFocusEvents != 0 {
			t.out.w.WriteString("\x1b[?1004h")
		} else {
			t.out.w.WriteString("\x1b[?1004l")
		}
		if t.dec != nil {
			t.dec.SetFocusEvents(to&FlagFocusEvents != 0)
		}
	}

	t.out.w.Flush()
}

func (t *Terminal) cursorVisibilityHint(to Flag) string {
	if to&FlagHideCursor != 0 {
		if hint, ok := t.store.String(ordCursorInvisible); ok {
			return hint
		}
		return "\x1b[?25l"
	}

	ord := ordCursorNormal
	if to&FlagBrightCursor != 0 {
		ord = ordCursorVisible
	}
	if hint, ok := t.store.String(ord); ok {
		return hint
	}
	return "\x1b[?25h"
}

// resetFlags transitions every flag through "all off" before applying
// to, guaranteeing idempotency regardless of what the terminal's actual
// state drifted to (used by teardown and by the SIGCONT resume path).
func (t *Terminal) resetFlags(to Flag) {
	t.applyFlags(^Flag(0), 0)
	t.applyFlags(0, to)
	t.flags = to
}
