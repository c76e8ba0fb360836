package hexes

import (
	"strconv"
	"strings"
)

// styleState is the (FG, BG, attr) triple the encoder diffs against,
// taken either from the shadow buffer's own style fields (the
// terminal's believed current style) or from a pending cell (the
// target style).
type styleState struct {
	FG, BG Color
	Attr   Attr
}

func cellStyle(c Cell) styleState       { return styleState{c.FG, c.BG, c.Attr} }
func shadowStyle(b *Buffer) styleState  { return styleState{b.FG, b.BG, b.Attr} }
func (s styleState) applyTo(b *Buffer)  { b.FG, b.BG, b.Attr = s.FG, s.BG, s.Attr }

// IsBright reports whether c is one of the "bright" standard palette
// entries (9..16), which the encoder folds into bold plus the base
// 8-color code rather than a distinct SGR range.
func (c Color) IsBright() bool { return c >= 9 && c <= 16 }

// attrSGRCodes returns the SGR set/unset codes for a single attribute
// bit: i+1 if i<5, i+2 if i>=5 (skipping the rapid-blink code 6), unset
// is always set+20.
func attrSGRCodes(bit Attr) (set, unset int) {
	i := 0
	for b := bit; b > 1; b >>= 1 {
		i++
	}
	if i < 5 {
		set = i + 1
	} else {
		set = i + 2
	}
	return set, set + 20
}

// paletteSGRCode returns the SGR color parameter for standard palette
// index n (1..16) and whether it implies bold.
func paletteSGRCode(n int, bg bool) (code int, bright bool) {
	base := n
	bright = n >= 9
	if bright {
		base = n - 8
	}
	off := 30
	if bg {
		off = 40
	}
	return off + (base - 1), bright
}

func colorParams(c Color, bg bool, quirks Quirks) []int {
	if c == ColorDefault {
		if quirks&QuirkNoDefaultColors != 0 {
			sub := 8
			if bg {
				sub = 1
			}
			code, _ := paletteSGRCode(sub, bg)
			return []int{code}
		}
		if bg {
			return []int{49}
		}
		return []int{39}
	}
	if c.IsStandard() {
		code, _ := paletteSGRCode(int(c), bg)
		return []int{code}
	}
	if idx, ok := c.Index(); ok {
		base := 38
		if bg {
			base = 48
		}
		return []int{base, 5, idx}
	}
	if r, g, b, ok := c.RGB(); ok {
		base := 38
		if bg {
			base = 48
		}
		return []int{base, 2, int(r), int(g), int(b)}
	}
	return nil
}

// encodeStyleChange returns the SGR sequence transitioning the terminal
// from cur to target, or nil if they are already identical. Foreground
// indices 9..16 imply bold, folded in alongside the literal bold
// attribute bit; turning bold off is implemented by asserting faint
// instead, because the real bold-off SGR code is unreliable across
// terminals.
func encodeStyleChange(cur, target styleState, quirks Quirks) []byte {
	var params []int

	curBold := cur.Attr&AttrBold != 0 || cur.FG.IsBright()
	wantBold := target.Attr&AttrBold != 0 || target.FG.IsBright()
	faintAsserted := false
	if curBold != wantBold {
		if wantBold {
			params = append(params, 1)
		} else {
			params = append(params, 2)
			faintAsserted = true
		}
	}

	for i := 0; i < attrCount; i++ {
		bit := Attr(1 << uint(i))
		if bit == AttrBold {
			continue
		}
		curSet := cur.Attr&bit != 0
		wantSet := target.Attr&bit != 0
		if curSet == wantSet {
			continue
		}
		if bit == AttrFaint && faintAsserted {
			continue
		}
		set, unset := attrSGRCodes(bit)
		if wantSet {
			params = append(params, set)
		} else {
			params = append(params, unset)
		}
	}

	if cur.FG != target.FG {
		params = append(params, colorParams(target.FG, false, quirks)...)
	}
	if cur.BG != target.BG {
		params = append(params, colorParams(target.BG, true, quirks)...)
	}

	if len(params) == 0 {
		return nil
	}

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = strconv.Itoa(p)
	}
	return []byte("\x1b[" + strings.Join(parts, ";") + "m")
}
