package hexes

import (
	"sort"

	"github.com/richwalm/hexes/capinfo"
)

// Capability ordinals for the string capabilities the key table and
// keypad transmit mode consume. These match the terminfo string-table
// ordinals a classic capability database assigns them.
const (
	ordKeypadLocal = 88 // rmkx: leave keypad transmit mode
	ordKeypadXmit  = 89 // smkx: enter keypad transmit mode

	ordCANotRestore = 24 // nrrmc (bool): alternate-screen restore is unreliable
	ordEnterCAMode  = 28 // smcup: enter alternate screen
	ordExitCAMode   = 40 // rmcup: leave alternate screen

	ordColumns   = 0  // cols
	ordLines     = 2  // lines
	ordMaxColors = 13 // colors

	ordKeyA1    = 139
	ordKeyUp    = 87
	ordKeyA3    = 140
	ordKeyLeft  = 79
	ordKeyB2    = 141
	ordKeyRight = 83
	ordKeyC1    = 142
	ordKeyDown  = 61
	ordKeyC3    = 143

	ordKeyNPage  = 81
	ordKeyPPage  = 82
	ordKeyHome   = 76
	ordKeyEnd    = 164
	ordKeyInsert = 77
	ordKeyDelete = 59

	ordKeyEnter = 165

	ordKeyF1  = 66
	ordKeyF2  = 68
	ordKeyF3  = 69
	ordKeyF4  = 70
	ordKeyF5  = 71
	ordKeyF6  = 72
	ordKeyF7  = 73
	ordKeyF8  = 74
	ordKeyF9  = 75
	ordKeyF10 = 67
	ordKeyF11 = 216
	ordKeyF12 = 217
)

type keyHint struct {
	ordinal int
	key     Key
}

// keyHints lists the ~28 known capability ordinals the key table
// resolves. Order here doesn't matter; buildKeyTable sorts by suffix.
var keyHints = [...]keyHint{
	{ordKeyA1, KeyKeypadUpperLeft},
	{ordKeyUp, KeyUp},
	{ordKeyA3, KeyKeypadUpperRight},
	{ordKeyLeft, KeyLeft},
	{ordKeyB2, KeyKeypadCenter},
	{ordKeyRight, KeyRight},
	{ordKeyC1, KeyKeypadLowerLeft},
	{ordKeyDown, KeyDown},
	{ordKeyC3, KeyKeypadLowerRight},

	{ordKeyPPage, KeyPageUp},
	{ordKeyNPage, KeyPageDown},
	{ordKeyHome, KeyHome},
	{ordKeyEnd, KeyEnd},
	{ordKeyInsert, KeyInsert},
	{ordKeyDelete, KeyDelete},

	{ordKeyEnter, KeyKeypadEnter},

	{ordKeyF1, KeyF(1)},
	{ordKeyF2, KeyF(2)},
	{ordKeyF3, KeyF(3)},
	{ordKeyF4, KeyF(4)},
	{ordKeyF5, KeyF(5)},
	{ordKeyF6, KeyF(6)},
	{ordKeyF7, KeyF(7)},
	{ordKeyF8, KeyF(8)},
	{ordKeyF9, KeyF(9)},
	{ordKeyF10, KeyF(10)},
	{ordKeyF11, KeyF(11)},
	{ordKeyF12, KeyF(12)},
}

type keyEntry struct {
	suffix string
	key    Key
}

// keyTable maps an escape sequence's suffix (the bytes after ESC) to an
// abstract key, built once from the capability store and searched by
// binary comparison.
type keyTable struct {
	entries []keyEntry
}

// buildKeyTable reads each known ordinal's string capability; any value
// that doesn't start with ESC is skipped (it isn't an escape-introduced
// key on this terminal). The result is sorted by suffix for lookup.
func buildKeyTable(store *capinfo.Store) *keyTable {
	var entries []keyEntry
	for _, h := range keyHints {
		s, ok := store.String(h.ordinal)
		if !ok || len(s) < 2 || s[0] != 0x1b {
			continue
		}
		entries = append(entries, keyEntry{suffix: s[1:], key: h.key})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].suffix < entries[j].suffix })
	return &keyTable{entries: entries}
}

func (t *keyTable) lookup(suffix string) (keyEntry, bool) {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].suffix >= suffix })
	if i < len(t.entries) && t.entries[i].suffix == suffix {
		return t.entries[i], true
	}
	return keyEntry{}, false
}

func keypadXmitSeq(store *capinfo.Store) (string, bool)  { return store.String(ordKeypadXmit) }
func keypadLocalSeq(store *capinfo.Store) (string, bool) { return store.String(ordKeypadLocal) }
