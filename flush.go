package hexes

import "bufio"

// flushEngine drives the diff between a shadow and a pending buffer
// through the output encoder. It holds no state of its own beyond the
// quirks mask: the "current terminal cursor and style" it diffs against
// live on the shadow buffer, per the contract in cursor.go/style.go.
type flushEngine struct {
	Out    *bufio.Writer
	Quirks Quirks
}

// CursorTarget, when non-nil, asks Flush to leave the terminal cursor
// at the given (clipped) coordinates once the diff is written.
type CursorTarget struct {
	X, Y int
}

// Flush reconciles shadow against pending: every damaged cell is
// compared under the cell-equality predicate, and on mismatch the
// engine issues the minimum cursor-move, style-change, and glyph bytes
// to bring the terminal's believed state (shadow) in line. Damage is
// cleared as it is visited. Returns without writing anything if there
// is no damage and no cursor target requested.
func (f *flushEngine) Flush(shadow, pending *Buffer, target *CursorTarget) error {
	if !pending.HasDamage() && target == nil {
		return nil
	}

	first := true
	w, h := pending.W, pending.H

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := offset(x, y, w)
			if pending.damage == nil || pending.damage.bits[i] == 0 {
				continue
			}
			pending.damage.bits[i] = 0

			pc := pending.Cells[i]
			sc := shadow.Cells[i]
			if sc.Equal(pc) {
				continue
			}

			if first {
				f.clearStuck(shadow)
				first = false
			}

			switch {
			case !shadow.cursorKnown:
				// The shadow has never been positioned: its (0,0) zero
				// value is not a claim the real cursor is home, so the
				// first move of a shadow's life is always absolute.
				f.Out.Write(cup(y+1, x+1))
				shadow.X, shadow.Y, shadow.Stuck = x, y, false
				shadow.cursorKnown = true
			case shadow.X != x || shadow.Y != y:
				f.Out.Write(encodeCursorMove(shadow, x, y, f.Quirks))
			}

			if seq := encodeStyleChange(shadowStyle(shadow), cellStyle(pc), f.Quirks); seq != nil {
				f.Out.Write(seq)
				styleState{pc.FG, pc.BG, pc.Attr}.applyTo(shadow)
			}

			shadow.Cells[i] = pc
			f.emitGlyph(shadow, pc, w)
		}
	}

	if pending.damage != nil {
		pending.damage.Has = false
	}

	if target != nil {
		tx, ty := clampCoord(target.X, 0, w-1), clampCoord(target.Y, 0, h-1)
		if seq := encodeCursorMove(shadow, tx, ty, f.Quirks); seq != nil {
			f.Out.Write(seq)
		}
	}

	return f.Out.Flush()
}

// clearStuck runs once, on the first emission of a flush: if the
// terminal's cursor was left in the right-edge sticky state by a prior
// flush, clear it before any move computation happens this round.
func (f *flushEngine) clearStuck(shadow *Buffer) {
	if !shadow.Stuck {
		return
	}
	if f.Quirks&QuirkWrapFix != 0 {
		f.Out.Write(cub(1))
	}
	f.Out.Write(cuf(1))
	shadow.Stuck = false
}

// emitGlyph writes pc's codepoint (a single space if empty) and
// advances the encoder's notion of the cursor column, entering the
// right-edge sticky state rather than wrapping when the write lands on
// the last column.
func (f *flushEngine) emitGlyph(shadow *Buffer, pc Cell, w int) {
	if pc.IsEmpty() {
		f.Out.WriteByte(' ')
	} else {
		f.Out.Write(pc.bytes())
	}

	shadow.X++
	if shadow.X >= w {
		shadow.X = w - 1
		shadow.Stuck = true
	}
}

// FullRedraw ignores the damage map and shadow state entirely: it homes
// the cursor and rewrites every cell of src in row-major order, issuing
// a style change on every transition, then copies src into shadow. Used
// after resume-from-suspend and after resize.
func (f *flushEngine) FullRedraw(shadow, src *Buffer) error {
	f.Out.Write([]byte("\x1b[H"))
	shadow.X, shadow.Y = 0, 0
	shadow.Stuck = false
	shadow.cursorKnown = true
	shadow.FG, shadow.BG, shadow.Attr = ColorDefault, ColorDefault, 0

	w, h := src.W, src.H
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pc := src.Cells[offset(x, y, w)]
			if seq := encodeStyleChange(shadowStyle(shadow), cellStyle(pc), f.Quirks); seq != nil {
				f.Out.Write(seq)
				styleState{pc.FG, pc.BG, pc.Attr}.applyTo(shadow)
			}
			f.emitGlyph(shadow, pc, w)
		}
		if y != h-1 {
			f.Out.Write(cup(y+2, 1))
			shadow.X, shadow.Y = 0, y+1
			shadow.Stuck = false
		}
	}

	copy(shadow.Cells, src.Cells)
	if src.damage != nil {
		src.damage.clear()
	}
	return f.Out.Flush()
}

func clampCoord(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
