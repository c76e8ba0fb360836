package hexes

// Key identifies a decoded key or pseudo-event. Values 1..N are
// physical keys (the ones the key table resolves escape sequences to,
// plus the literal single-byte controls); values at keyEventBase and
// above are non-physical pseudo-events the event loop can also return.
type Key int32

const (
	KeyNone Key = iota

	// Literal single-byte keys, decoded directly without the key table.
	KeyEsc
	KeyEnter
	KeyTab
	KeyBackspace
	KeySpace
	KeyChar // the event's Rune field holds the literal character

	// Cursor and navigation keys, resolved via the key table.
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyKeypadEnter

	// The five keypad "position" keys (numeric-keypad diagonals and
	// center, present on terminals without dedicated cursor keys).
	KeyKeypadUpperLeft
	KeyKeypadUpperRight
	KeyKeypadCenter
	KeyKeypadLowerLeft
	KeyKeypadLowerRight

	keyF0 // base for function keys; see KeyF
)

// KeyF returns the Key for function key n (1-based: KeyF(1) is F1).
func KeyF(n int) Key { return keyF0 + Key(n) }

// IsFunction reports whether k is one of the F1..F12 function keys, and
// if so, which number.
func (k Key) IsFunction() (n int, ok bool) {
	if k <= keyF0 || k > keyF0+12 {
		return 0, false
	}
	return int(k - keyF0), true
}

const keyEventBase Key = 1000

// Non-physical pseudo-events returned by the event loop.
const (
	KeyFocusIn Key = keyEventBase + iota
	KeyFocusOut
	KeyResize
	KeyRestore
	KeyMouse
	KeyUnknown
	KeyEOF
	KeyError
)

// Mod is a bitset of modifiers accompanying a key event.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
	ModMotion
	ModRelease
	ModUnreliable
)

// Event is a single decoded input event.
type Event struct {
	Key  Key
	Rune rune // valid when Key == KeyChar
	Mod  Mod

	// Mouse holds the decoded report when Key == KeyMouse.
	Mouse MouseEvent

	// Raw holds the undecoded escape body for KeyUnknown events.
	Raw []byte
}
