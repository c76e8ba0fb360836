package hexes

// DefaultTabStop is the tab width a freshly constructed Buffer uses.
const DefaultTabStop = 4

// DrawMask selects which fields a Blit or Fill copies. The zero value
// means "copy everything except transparent skipping" — i.e. codepoint,
// foreground, background, and attributes are all copied unconditionally.
type DrawMask uint8

const (
	DrawCP DrawMask = 1 << iota
	DrawFG
	DrawBG
	DrawAttr
	DrawTransparent

	drawAllFields = DrawCP | DrawFG | DrawBG | DrawAttr
)

func (m DrawMask) normalize() DrawMask {
	if m == 0 {
		return drawAllFields
	}
	return m
}

// Buffer is a W x H grid of Cells in row-major order, with a virtual
// cursor and current drawing style. X and Y are not clamped between
// operations: the cursor may sit off-grid, and writes through it are
// silently clipped rather than erroring.
type Buffer struct {
	W, H    int
	X, Y    int
	FG, BG  Attr0Color
	Attr    Attr
	TabStop int
	Cells   []Cell
	Unicode bool

	// Stuck is meaningful only on the shadow buffer: it records the
	// right-edge sticky state the output encoder left the real terminal
	// cursor in after the last glyph emission (see flush.go, cursor.go).
	Stuck bool

	// cursorKnown is meaningful only on the shadow buffer: it is false
	// until the flush engine has positioned the real cursor at least
	// once, so a freshly constructed shadow never lets X==0, Y==0 be
	// mistaken for "the terminal is already home" (see flush.go).
	cursorKnown bool

	damage *damageMap
}

// Attr0Color exists only so FG/BG can default to ColorDefault (0) without
// an explicit zero-value type alias; it is Color under another name.
type Attr0Color = Color

// NewBuffer allocates a zero-initialized W x H buffer: blank cells,
// default colors and attributes, cursor at the origin, and the default
// tab stop. unicode controls whether Put/Print treat multi-byte lead
// bytes as multi-byte sequences (see Cell.setBytes).
func NewBuffer(w, h int, unicode bool) *Buffer {
	return &Buffer{
		W:       w,
		H:       h,
		TabStop: DefaultTabStop,
		Cells:   make([]Cell, w*h),
		Unicode: unicode,
	}
}

func newPendingBuffer(w, h int, unicode bool) *Buffer {
	b := NewBuffer(w, h, unicode)
	b.damage = newDamageMap(w, h)
	return b
}

func offset(x, y, w int) int { return y*w + x }

// Get returns the cell at (x, y), or the zero Cell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return Cell{}
	}
	return b.Cells[offset(x, y, b.W)]
}

// Locate moves the virtual cursor without drawing.
func (b *Buffer) Locate(x, y int) {
	b.X, b.Y = x, y
}

// SetColor updates the current drawing foreground/background. Passing -1
// for either leaves that channel unchanged, mirroring the original's
// "FG >= 0" convention for "don't touch this one".
func (b *Buffer) SetColor(fg, bg Color) {
	if fg >= 0 {
		b.FG = fg
	}
	if bg >= 0 {
		b.BG = bg
	}
}

// SetAttr replaces the current drawing attribute set outright.
func (b *Buffer) SetAttr(a Attr) {
	b.Attr = a
}

// SetTabStop sets the tab width used by Print's '\t' handling. A width
// of zero is rejected in favor of DefaultTabStop to avoid a division by
// zero when computing the next stop.
func (b *Buffer) SetTabStop(n int) {
	if n <= 0 {
		n = DefaultTabStop
	}
	b.TabStop = n
}

func (b *Buffer) advanceCursor() {
	b.X++
	if b.X >= b.W {
		b.X = 0
		b.Y++
	}
}

// Put writes the single codepoint found at the start of cp using the
// current style and advances the cursor one column (wrapping to the
// next row at the right edge). It returns the number of bytes of cp the
// write consumed, per the lead-byte UTF-8 sizing rule (not a full UTF-8
// decode), so the caller can step through a longer byte string. Writes
// that land outside the buffer, and single-byte ASCII control
// characters, are skipped — but the cursor still advances.
func (b *Buffer) Put(cp string) int {
	if cp == "" {
		b.advanceCursor()
		return 0
	}
	size := utf8SizeFromLead(cp[0], b.Unicode)
	if size > len(cp) {
		size = len(cp)
	}

	skip := b.X < 0 || b.Y < 0 || b.X >= b.W || b.Y >= b.H
	if !skip && size == 1 && isControl(cp[0]) {
		skip = true
	}
	if !skip {
		i := offset(b.X, b.Y, b.W)
		c := &b.Cells[i]
		before := *c
		c.setBytes([]byte(cp[:size]), b.Unicode)
		c.FG, c.BG, c.Attr = b.FG, b.BG, b.Attr
		if !c.Equal(before) {
			b.markDamage(i)
		}
	}

	b.advanceCursor()
	return size
}

func isControl(c byte) bool { return c < 0x20 || c == 0x7f }

// Print writes s to the buffer, dispatching control bytes the way a
// terminal would: NUL terminates early, '\n' advances the row and resets
// the column, '\r' resets the column, '\f'/'\v' advance the row only,
// '\b' moves the cursor left one (clamped at zero), '\t' advances to the
// next tab stop, and any other byte is handed to Put. It returns the
// number of bytes consumed.
func (b *Buffer) Print(s string) int {
	i := 0
	for i < len(s) {
		ch := s[i]
		size := 1
		switch ch {
		case 0:
			return i + 1
		case '\n':
			b.Y++
			b.X = 0
		case '\r':
			b.X = 0
		case '\f', '\v':
			b.Y++
		case '\b':
			if b.X > 0 {
				b.X--
			}
		case '\t':
			b.X += b.TabStop - (b.X % b.TabStop)
		default:
			size = b.Put(s[i:])
			if size == 0 {
				size = 1
			}
		}
		i += size
	}
	return i
}

func (b *Buffer) markDamage(i int) {
	if b.damage != nil {
		b.damage.mark(i)
	}
}

// Resize produces dimensions (w, h) from the current buffer. If the width
// is unchanged the cell array is grown or shrunk in place and any newly
// appended tail is zeroed; otherwise a fresh array is allocated and the
// intersection min(oldW,newW) x min(oldH,newH) is copied from the
// top-left. Cursor, style, and tab stop transfer as-is.
func (b *Buffer) Resize(w, h int) {
	oldW, oldH := b.W, b.H

	if w == oldW {
		n := make([]Cell, w*h)
		copy(n, b.Cells)
		b.Cells = n
		b.H = h
		if b.damage != nil {
			b.damage.resize(oldW, oldH, w, h)
		}
		return
	}

	n := make([]Cell, w*h)
	minW, minH := minInt(oldW, w), minInt(oldH, h)
	for y := 0; y < minH; y++ {
		copy(n[y*w:y*w+minW], b.Cells[y*oldW:y*oldW+minW])
	}
	b.Cells = n
	b.W, b.H = w, h
	if b.damage != nil {
		b.damage.resize(oldW, oldH, w, h)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Blit copies a W x H rectangle from src at (sx, sy) to dst at (dx, dy),
// honoring flags and clipping to both buffers. A negative source origin
// makes the call a no-op; a negative destination origin advances the
// source origin by the negative amount and shrinks the rectangle. If the
// clipped rectangle is empty the call is a no-op.
func Blit(src, dst *Buffer, sx, sy, dx, dy, w, h int, flags DrawMask) {
	if sx < 0 || sy < 0 {
		return
	}

	if dx < 0 {
		sx -= dx
		w += dx
		dx = 0
	}
	if dy < 0 {
		sy -= dy
		h += dy
		dy = 0
	}

	if sx >= src.W || sy >= src.H {
		return
	}

	if sx+w > src.W {
		w -= (sx + w) - src.W
	}
	if sy+h > src.H {
		h -= (sy + h) - src.H
	}
	if dx+w > dst.W {
		w -= (dx + w) - dst.W
	}
	if dy+h > dst.H {
		h -= (dy + h) - dst.H
	}

	if w <= 0 || h <= 0 {
		return
	}

	blitRaw(src, dst, sx, sy, dx, dy, w, h, flags)
}

// blitRaw performs the copy with no clipping; the caller must ensure the
// rectangle is in-bounds for both buffers.
func blitRaw(src, dst *Buffer, sx, sy, dx, dy, w, h int, flags DrawMask) {
	flags = flags.normalize()

	sOff := offset(sx, sy, src.W)
	dOff := offset(dx, dy, dst.W)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sc := &src.Cells[sOff+x]
			dc := &dst.Cells[dOff+x]

			if flags&DrawTransparent != 0 && sc.IsEmpty() {
				continue
			}

			if flags&DrawCP != 0 {
				dc.CP = sc.CP
			}
			if flags&DrawFG != 0 {
				dc.FG = sc.FG
			}
			if flags&DrawBG != 0 {
				dc.BG = sc.BG
			}
			if flags&DrawAttr != 0 {
				dc.Attr = sc.Attr
			}

			dst.markDamage(dOff + x)
		}
		sOff += src.W
		dOff += dst.W
	}
}

// Fill broadcasts model over the W x H rectangle at (dx, dy) in dst,
// honoring flags and clipping to dst's extents the same way Blit does.
func Fill(dst *Buffer, dx, dy, w, h int, model Cell, flags DrawMask) {
	if dx < 0 {
		w += dx
		dx = 0
	}
	if dy < 0 {
		h += dy
		dy = 0
	}
	if dx+w > dst.W {
		w -= (dx + w) - dst.W
	}
	if dy+h > dst.H {
		h -= (dy + h) - dst.H
	}
	if w <= 0 || h <= 0 {
		return
	}

	fillRaw(dst, dx, dy, w, h, model, flags)
}

func fillRaw(dst *Buffer, dx, dy, w, h int, model Cell, flags DrawMask) {
	flags = flags.normalize()

	dOff := offset(dx, dy, dst.W)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if flags&DrawTransparent != 0 && model.IsEmpty() {
				continue
			}
			dc := &dst.Cells[dOff+x]
			if flags&DrawCP != 0 {
				dc.CP = model.CP
			}
			if flags&DrawFG != 0 {
				dc.FG = model.FG
			}
			if flags&DrawBG != 0 {
				dc.BG = model.BG
			}
			if flags&DrawAttr != 0 {
				dc.Attr = model.Attr
			}
			dst.markDamage(dOff + x)
		}
		dOff += dst.W
	}
}

// PutCell writes a fully-formed Cell at (x, y) directly, bypassing the
// current drawing style and cursor. Out-of-bounds coordinates are a
// silent no-op.
func (b *Buffer) PutCell(x, y int, c Cell) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	i := offset(x, y, b.W)
	b.Cells[i] = c
	b.markDamage(i)
}

// HasDamage reports whether any cell has been written since the last
// flush. It is always false for buffers that do not track damage (every
// Buffer except the pending buffer a Terminal exposes).
func (b *Buffer) HasDamage() bool {
	return b.damage != nil && b.damage.Has
}
