package hexes

// NextEvent is the library's get_char: it blocks up to timeoutMS
// (-1 forever, 0 poll-only) waiting for decodable input, a resize, a
// resume-from-suspend, or a byte pushed through PushBytes, and returns
// exactly one Event. Bytes already held in the decoder's read-ahead
// buffer are decoded first, without polling. Otherwise the signal flags
// are checked after each poll wakeup and before any newly readable
// bytes are decoded, so a resize or restore arriving in the same wakeup
// as keystrokes is reported first. A resize reallocates the buffers and
// fully redraws the pending buffer before KeyResize is returned.
func (t *Terminal) NextEvent(timeoutMS int) Event {
	if t.closed {
		return Event{Key: KeyError}
	}

	if t.dec.pending() {
		return t.dec.Decode()
	}

	inputReady, pipeReady, sigReady, err := t.pol.wait(timeoutMS)
	if err != nil {
		return Event{Key: KeyError}
	}
	if sigReady {
		t.pol.drainWake()
	}

	if t.sig.TakeContinue() {
		if err := t.resume(); err != nil {
			return Event{Key: KeyError}
		}
		return Event{Key: KeyRestore}
	}
	if t.sig.TakeResize() {
		if w, h, err := termSize(int(t.in.Fd())); err == nil {
			t.resize(w, h)
			t.FullRedraw()
		}
		return Event{Key: KeyResize}
	}

	switch {
	case inputReady:
		t.dec.SetSource(t.in)
		return t.dec.Decode()
	case pipeReady:
		t.dec.SetSource(t.pol.pipeR)
		return t.dec.Decode()
	default:
		return Event{Key: KeyEOF}
	}
}

// PushBytes injects bytes from another goroutine; they surface from
// NextEvent exactly as if the terminal itself had sent them. It is the
// only method on Terminal safe to call from a goroutine other than the
// one running the event loop.
func (t *Terminal) PushBytes(b []byte) (int, error) {
	return t.pol.PushBytes(b)
}
