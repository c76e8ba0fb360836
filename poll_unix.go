//go:build unix

package hexes

import (
	"os"

	"golang.org/x/sys/unix"
)

// poller is a readiness primitive over three descriptors: the
// terminal's input, the read end of a self-pipe used to inject bytes
// from another goroutine (PushBytes), and the read end of a second
// self-pipe the signal-forwarding goroutine writes to so a blocked
// poll wakes immediately when SIGWINCH/SIGCONT arrive (Go delivers
// signals on its own runtime thread, which does not interrupt an
// unrelated goroutine's blocking syscall the way POSIX EINTR would).
// All three are non-blocking.
type poller struct {
	fds [3]unix.PollFd

	pipeR, pipeW *os.File
	wakeR, wakeW *os.File
}

func newPoller(inFd int) (*poller, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	wr, ww, err := os.Pipe()
	if err != nil {
		pr.Close()
		pw.Close()
		return nil, err
	}

	for _, fd := range []int{int(pr.Fd()), int(pw.Fd()), int(wr.Fd()), int(ww.Fd()), inFd} {
		if err := unix.SetNonblock(fd, true); err != nil {
			pr.Close()
			pw.Close()
			wr.Close()
			ww.Close()
			return nil, err
		}
	}

	p := &poller{pipeR: pr, pipeW: pw, wakeR: wr, wakeW: ww}
	p.fds[0] = unix.PollFd{Fd: int32(inFd), Events: unix.POLLIN}
	p.fds[1] = unix.PollFd{Fd: int32(pr.Fd()), Events: unix.POLLIN}
	p.fds[2] = unix.PollFd{Fd: int32(wr.Fd()), Events: unix.POLLIN}
	return p, nil
}

// wait blocks until input is ready, the self-pipe is ready, the
// signal-wake pipe is ready, the timeout (milliseconds; -1 forever, 0
// poll-only) elapses, or an error occurs. Signal interruption (EINTR)
// is reported as a plain timeout so callers re-check their own flags.
func (p *poller) wait(timeoutMS int) (inputReady, pipeReady, sigReady bool, err error) {
	for i := range p.fds {
		p.fds[i].Revents = 0
	}

	n, perr := unix.Poll(p.fds[:], timeoutMS)
	if perr != nil {
		if perr == unix.EINTR {
			return false, false, false, nil
		}
		return false, false, false, perr
	}
	if n == 0 {
		return false, false, false, nil
	}

	ready := func(fd unix.PollFd) bool {
		return fd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0
	}
	return ready(p.fds[0]), ready(p.fds[1]), ready(p.fds[2]), nil
}

// drainWake empties the signal-wake pipe; its bytes carry no meaning of
// their own, they only exist to interrupt a blocked poll.
func (p *poller) drainWake() {
	var buf [64]byte
	for {
		n, err := p.wakeR.Read(buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// drainPipe empties the injection self-pipe outright, discarding
// anything queued. Used only by Close, to avoid leaving a writer
// blocked on a full pipe when the descriptors are about to be torn down.
func (p *poller) drainPipe() {
	var buf [64]byte
	for {
		n, err := p.pipeR.Read(buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// PushBytes is the library's one thread-safe entry point: it writes b
// into the self-pipe so the event loop observes it as ordinary input.
// Writes up to the pipe's kernel buffer size are atomic.
func (p *poller) PushBytes(b []byte) (int, error) {
	return p.pipeW.Write(b)
}

// wakeSignal is called from the signal-forwarding goroutine; its only
// job is to unblock a poll that is already in progress.
func (p *poller) wakeSignal() {
	p.wakeW.Write([]byte{0})
}

func (p *poller) Close() error {
	p.drainPipe()
	rerr := p.pipeR.Close()
	werr := p.pipeW.Close()
	p.wakeR.Close()
	p.wakeW.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}
