//go:build unix

package hexes

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// sigState tracks SIGWINCH (resize) and SIGCONT (resume-from-suspend)
// as flags consulted only from the event loop. Go delivers signals to a
// channel on a runtime-managed goroutine rather than true signal-handler
// context, but we still hold to the same discipline the spec requires
// of a C sigaction handler: the goroutine that drains the channel does
// nothing but set an atomic flag. All resize/resume work happens later,
// synchronously, on the caller's thread inside the event loop.
type sigState struct {
	ch   chan os.Signal
	done chan struct{}
	wake atomic.Pointer[func()]

	resize int32
	cont   int32
}

// newSigState registers SIGWINCH/SIGCONT and starts the forwarding
// goroutine. wake, if non-nil, is called after every flag is set so a
// poll already blocked elsewhere wakes up immediately instead of
// waiting out its timeout.
func newSigState(wake func()) *sigState {
	s := &sigState{
		ch:   make(chan os.Signal, 4),
		done: make(chan struct{}),
	}
	if wake != nil {
		s.wake.Store(&wake)
	}
	signal.Notify(s.ch, syscall.SIGWINCH, syscall.SIGCONT)
	go s.run()
	return s
}

func (s *sigState) run() {
	for {
		select {
		case sig, ok := <-s.ch:
			if !ok {
				return
			}
			switch sig {
			case syscall.SIGWINCH:
				atomic.StoreInt32(&s.resize, 1)
			case syscall.SIGCONT:
				atomic.StoreInt32(&s.cont, 1)
			}
			if w := s.wake.Load(); w != nil {
				(*w)()
			}
		case <-s.done:
			return
		}
	}
}

// SetWake installs (or replaces) the wake callback after construction,
// needed because the poller it wakes isn't built until the stage after
// signal handlers are installed. Safe to call concurrently with the
// forwarding goroutine started by newSigState.
func (s *sigState) SetWake(wake func()) {
	if wake == nil {
		s.wake.Store(nil)
		return
	}
	s.wake.Store(&wake)
}

// TakeResize reports and clears a pending resize flag.
func (s *sigState) TakeResize() bool {
	return atomic.CompareAndSwapInt32(&s.resize, 1, 0)
}

// TakeContinue reports and clears a pending continue (SIGCONT) flag.
func (s *sigState) TakeContinue() bool {
	return atomic.CompareAndSwapInt32(&s.cont, 1, 0)
}

// Stop unregisters both signals and stops the forwarding goroutine.
func (s *sigState) Stop() {
	signal.Stop(s.ch)
	close(s.done)
}
