package hexes

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPoller(t *testing.T) (*poller, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { r.Close(); w.Close() })

	p, err := newPoller(int(r.Fd()))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p, r
}

func TestPollerIdleTimesOut(t *testing.T) {
	p, _ := newTestPoller(t)
	inputReady, pipeReady, sigReady, err := p.wait(20)
	require.NoError(t, err)
	assert.False(t, inputReady)
	assert.False(t, pipeReady)
	assert.False(t, sigReady)
}

func TestPollerReportsInjectedPipe(t *testing.T) {
	p, _ := newTestPoller(t)
	_, err := p.PushBytes([]byte("x"))
	require.NoError(t, err)

	_, pipeReady, _, err := p.wait(1000)
	require.NoError(t, err)
	assert.True(t, pipeReady)

	p.drainPipe()
	_, pipeReady, _, err = p.wait(20)
	require.NoError(t, err)
	assert.False(t, pipeReady, "drainPipe should leave nothing else ready")
}

// The wake pipe exists specifically so a signal-forwarding goroutine can
// unblock a poller that's already parked in wait — Go's os/signal does
// not interrupt a blocked syscall on another goroutine the way a POSIX
// signal handler would.
func TestPollerWakeSignalUnblocksWait(t *testing.T) {
	p, _ := newTestPoller(t)
	p.wakeSignal()

	_, _, sigReady, err := p.wait(1000)
	require.NoError(t, err)
	assert.True(t, sigReady)

	p.drainWake()
	_, _, sigReady, err = p.wait(20)
	require.NoError(t, err)
	assert.False(t, sigReady)
}
