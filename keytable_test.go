package hexes

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/richwalm/hexes/capinfo"
)

// buildStore assembles a minimal legacy capability file with bools and
// strings set at specific ordinals, everything else absent, and parses
// it through the public capinfo API (exercising the same code path a
// real terminfo file would).
func buildStore(t *testing.T, numCount int, bools map[int]bool, strs map[int]string) *capinfo.Store {
	t.Helper()

	maxBool, maxStr := 1, 0
	for i := range bools {
		if i+1 > maxBool {
			maxBool = i + 1
		}
	}
	maxStr = 1
	for i := range strs {
		if i+1 > maxStr {
			maxStr = i + 1
		}
	}

	boolBuf := make([]byte, maxBool)
	for i, v := range bools {
		if v {
			boolBuf[i] = 1
		}
	}

	var strTable bytes.Buffer
	offsets := make([]int16, maxStr)
	for i := range offsets {
		offsets[i] = -1
	}
	for i, s := range strs {
		offsets[i] = int16(strTable.Len())
		strTable.WriteString(s)
		strTable.WriteByte(0)
	}
	if strTable.Len() == 0 {
		strTable.WriteByte(0)
	}

	name := append([]byte("test"), 0)

	type header struct {
		Magic             int16
		NameSize          int16
		BoolSize          int16
		NumberCount       int16
		StringOffsetCount int16
		StringTableSize   int16
	}
	h := header{
		Magic:             0432,
		NameSize:          int16(len(name)),
		BoolSize:          int16(len(boolBuf)),
		NumberCount:       int16(numCount),
		StringOffsetCount: int16(len(offsets)),
		StringTableSize:   int16(strTable.Len()),
	}

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, &h))
	buf.Write(name)
	buf.Write(boolBuf)
	if (len(name)+len(boolBuf))%2 != 0 {
		buf.WriteByte(0)
	}
	for i := 0; i < numCount; i++ {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, int16(-1)))
	}
	for _, o := range offsets {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, o))
	}
	buf.Write(strTable.Bytes())

	store, err := capinfo.Parse(&buf)
	require.NoError(t, err)
	return store
}

func TestBuildKeyTableSkipsNonEscapeStrings(t *testing.T) {
	store := buildStore(t, 1, nil, map[int]string{
		ordKeyUp:   "\x1b[A",
		ordKeyDown: "OB", // doesn't start with ESC, must be skipped
	})
	kt := buildKeyTable(store)

	e, ok := kt.lookup("[A")
	require.True(t, ok)
	require.Equal(t, KeyUp, e.key)

	_, ok = kt.lookup("B")
	require.False(t, ok)
}

func TestKeyTableLookupMiss(t *testing.T) {
	kt := &keyTable{entries: []keyEntry{{suffix: "[A", key: KeyUp}}}
	_, ok := kt.lookup("[Z")
	require.False(t, ok)
}

func TestKeypadSeqsFromCapability(t *testing.T) {
	store := buildStore(t, 1, nil, map[int]string{
		ordKeypadXmit:  "\x1b=",
		ordKeypadLocal: "\x1b>",
	})
	xmit, ok := keypadXmitSeq(store)
	require.True(t, ok)
	require.Equal(t, "\x1b=", xmit)

	local, ok := keypadLocalSeq(store)
	require.True(t, ok)
	require.Equal(t, "\x1b>", local)
}

func TestKeyFAndIsFunction(t *testing.T) {
	k := KeyF(5)
	n, ok := k.IsFunction()
	require.True(t, ok)
	require.Equal(t, 5, n)

	_, ok = KeyUp.IsFunction()
	require.False(t, ok)
}
