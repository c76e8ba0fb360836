// Package hexes is a cell-buffer terminal UI library: a shadow/pending
// buffer pair with damage tracking, an ANSI diff-and-flush output
// engine, and an input decoder covering keys, mouse reports, and focus
// events, wired together behind a single Terminal returned by New.
//
// A typical program builds a Terminal, draws into its Pending buffer
// with Put/Print/Blit/Fill, calls Flush to reconcile the screen, and
// reads NextEvent in a loop until it decides to exit:
//
//	t, err := hexes.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer t.Close()
//
//	t.Pending.Print("hello")
//	t.Flush(nil)
//
//	for {
//		ev := t.NextEvent(-1)
//		if ev.Key == hexes.KeyChar && ev.Rune == 'q' {
//			break
//		}
//	}
//
// Resizes and suspend/resume (SIGWINCH, SIGCONT) surface as ordinary
// events from NextEvent rather than needing a separate signal handler
// in caller code.
package hexes
