// Command demo is a minimal interactive smoke test for the hexes
// package: it draws a counter and the last input event it saw, and
// exits on 'q' or Ctrl+C.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/richwalm/hexes"
)

func main() {
	t, err := hexes.New(hexes.WithMinSize(20, 5))
	if err != nil {
		fmt.Fprintln(os.Stderr, "hexes:", err)
		os.Exit(1)
	}
	defer t.Close()

	hideCursor := hexes.FlagHideCursor
	t.SetFlags(&hideCursor)
	t.SetMouseLevel(hexes.MouseNormal)
	t.SetTitle("hexes demo", "")

	count := 0
	last := "(nothing yet)"
	draw(t, count, last)

	events := make(chan hexes.Event)
	go func() {
		for {
			events <- t.NextEvent(-1)
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch {
			case ev.Key == hexes.KeyChar && ev.Rune == 'q':
				return
			case ev.Key == hexes.KeyChar && ev.Rune == 'C' && ev.Mod&hexes.ModCtrl != 0:
				return
			case ev.Key == hexes.KeyResize:
				last = "resized"
			case ev.Key == hexes.KeyRestore:
				last = "resumed"
			case ev.Key == hexes.KeyMouse:
				last = fmt.Sprintf("mouse button=%d x=%d y=%d", ev.Mouse.Button, ev.Mouse.X, ev.Mouse.Y)
			case ev.Key == hexes.KeyChar:
				last = fmt.Sprintf("char %q", ev.Rune)
			default:
				last = fmt.Sprintf("key %d", ev.Key)
			}
			draw(t, count, last)

		case <-ticker.C:
			count++
			draw(t, count, last)
		}
	}
}

func draw(t *hexes.Terminal, count int, last string) {
	p := t.Pending
	hexes.Fill(p, 0, 0, p.W, p.H, hexes.Cell{}, 0)

	p.Locate(2, 1)
	p.SetColor(hexes.Color(4), hexes.ColorDefault)
	p.SetAttr(hexes.AttrBold)
	p.Print("hexes demo")

	p.Locate(2, 3)
	p.SetColor(hexes.ColorDefault, hexes.ColorDefault)
	p.SetAttr(0)
	p.Print(fmt.Sprintf("tick: %d", count))

	p.Locate(2, 4)
	p.Print("last event: " + last)

	p.Locate(2, 6)
	p.SetAttr(hexes.AttrFaint)
	p.Print("press 'q' or Ctrl+C to exit")

	t.Flush(nil)
}
