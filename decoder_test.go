package hexes

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDecoder wires a decoder to an in-memory reader and a real
// poller so moreImmediatelyAvailable's "anything else queued?" check
// behaves exactly as it would against a live terminal fd: with nothing
// else buffered and nothing pending on the dummy input descriptor, it
// correctly reports false.
func newTestDecoder(t *testing.T, input string, kt *keyTable) *decoder {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { r.Close(); w.Close() })

	p, err := newPoller(int(r.Fd()))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	if kt == nil {
		kt = &keyTable{}
	}
	return newDecoder(strings.NewReader(input), p, kt, true)
}

func TestDecoderPlainChar(t *testing.T) {
	d := newTestDecoder(t, "a", nil)
	ev := d.Decode()
	assert.Equal(t, KeyChar, ev.Key)
	assert.Equal(t, 'a', ev.Rune)
}

func TestDecoderCtrlFold(t *testing.T) {
	assert.Equal(t, '~', ctrlFold(0))
	assert.Equal(t, 'A', ctrlFold(1))
	assert.Equal(t, '[', ctrlFold(27))

	d := newTestDecoder(t, string([]byte{1}), nil)
	ev := d.Decode()
	assert.Equal(t, KeyChar, ev.Key)
	assert.Equal(t, 'A', ev.Rune)
	assert.True(t, ev.Mod&ModCtrl != 0)
}

func TestDecoderBareEscape(t *testing.T) {
	d := newTestDecoder(t, "\x1b", nil)
	ev := d.Decode()
	assert.Equal(t, KeyEsc, ev.Key)
}

func TestDecoderAltKeyFold(t *testing.T) {
	d := newTestDecoder(t, "\x1ba", nil)
	ev := d.Decode()
	assert.Equal(t, KeyChar, ev.Key)
	assert.Equal(t, 'a', ev.Rune)
	assert.True(t, ev.Mod&ModAlt != 0)
}

func TestDecoderCSIKeyTableLookup(t *testing.T) {
	kt := &keyTable{entries: []keyEntry{{suffix: "[A", key: KeyUp}}}
	d := newTestDecoder(t, "\x1b[A", kt)
	ev := d.Decode()
	assert.Equal(t, KeyUp, ev.Key)
}

func TestDecoderFocusEvents(t *testing.T) {
	d := newTestDecoder(t, "\x1b[I\x1b[O", nil)
	d.SetFocusEvents(true)
	assert.Equal(t, KeyFocusIn, d.Decode().Key)
	assert.Equal(t, KeyFocusOut, d.Decode().Key)
}

func TestDecoderFocusEventsSuppressedWhenDisabled(t *testing.T) {
	d := newTestDecoder(t, "\x1b[I", nil)
	ev := d.Decode()
	assert.Equal(t, KeyUnknown, ev.Key)
	assert.Equal(t, []byte("[I"), ev.Raw)
}

func TestDecoderCSIMouseReport(t *testing.T) {
	d := newTestDecoder(t, "\x1b[<0;12;7M", nil)
	ev := d.Decode()
	require.Equal(t, KeyMouse, ev.Key)
	assert.Equal(t, 1, ev.Mouse.Button)
	assert.Equal(t, 11, ev.Mouse.X)
	assert.Equal(t, 6, ev.Mouse.Y)
}

func TestDecoderUnknownEscapeCarriesRawBody(t *testing.T) {
	d := newTestDecoder(t, "\x1b[99~", nil)
	ev := d.Decode()
	assert.Equal(t, KeyUnknown, ev.Key)
	assert.Equal(t, []byte("[99~"), ev.Raw)
}

func TestDecoderUTF8Rune(t *testing.T) {
	d := newTestDecoder(t, "☃", nil)
	ev := d.Decode()
	assert.Equal(t, KeyChar, ev.Key)
	assert.Equal(t, '☃', ev.Rune)
}

func TestDecoderUTF8DisabledTreatsLeadByteLiterally(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	p, err := newPoller(int(r.Fd()))
	require.NoError(t, err)
	defer p.Close()

	d := newDecoder(strings.NewReader("☃"), p, &keyTable{}, false)
	ev := d.Decode()
	assert.Equal(t, KeyChar, ev.Key)
	assert.Equal(t, rune(d.buf[0]), ev.Rune)
}

func TestDecoderSpecialBytes(t *testing.T) {
	d := newTestDecoder(t, "\r\t\x7f ", nil)
	assert.Equal(t, KeyEnter, d.Decode().Key)
	assert.Equal(t, KeyTab, d.Decode().Key)
	assert.Equal(t, KeyBackspace, d.Decode().Key)
	assert.Equal(t, KeySpace, d.Decode().Key)
}
