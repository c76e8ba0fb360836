package hexes

import "unicode/utf8"

// Color encodes a cell's foreground or background color using three
// overlaid ranges: 0 is the terminal's default color, 1..16 are the
// standard palette (1-8 normal, 9-16 bright), [17, 272] are 256-color
// indices offset by 17, and [273, 273+2^24) are packed RGB triples.
type Color int

const (
	// ColorDefault means "use whatever the terminal considers its default".
	ColorDefault Color = 0

	colorPaletteMax = 16
	// colorOffset256 is added to a 256-color palette index to form a Color.
	colorOffset256 = 17
	// colorOffsetTrue is added to a packed RGB triple to form a Color.
	colorOffsetTrue = 273
	colorTrueRange  = 1 << 24
)

// Color256 returns the Color for 256-color palette index n (0..255).
func Color256(n int) Color {
	return Color(colorOffset256 + n)
}

// ColorRGB returns the Color for a direct 24-bit RGB triple.
func ColorRGB(r, g, b uint8) Color {
	return Color(colorOffsetTrue + (int(r) << 16) + (int(g) << 8) + int(b))
}

// IsStandard reports whether c is one of the 16 standard palette colors
// (not the default, not an indexed or true color).
func (c Color) IsStandard() bool {
	return c >= 1 && c <= colorPaletteMax
}

// IsIndexed reports whether c is a 256-color palette index.
func (c Color) IsIndexed() bool {
	return c >= colorOffset256 && c < colorOffsetTrue
}

// IsTrueColor reports whether c is a direct RGB triple.
func (c Color) IsTrueColor() bool {
	return c >= colorOffsetTrue && c < colorOffsetTrue+colorTrueRange
}

// Index returns the 256-color palette index for an indexed Color. The
// second return is false if c is not indexed.
func (c Color) Index() (int, bool) {
	if !c.IsIndexed() {
		return 0, false
	}
	return int(c - colorOffset256), true
}

// RGB returns the unpacked components of a true-color Color. The final
// return is false if c is not a true color.
func (c Color) RGB() (r, g, b uint8, ok bool) {
	if !c.IsTrueColor() {
		return 0, 0, 0, false
	}
	v := int(c - colorOffsetTrue)
	return uint8(v >> 16 & 0xff), uint8(v >> 8 & 0xff), uint8(v & 0xff), true
}

// Attr is a bitset of text attributes. Bit positions are fixed so that
// bit i's "set" SGR code is i+1 (i<5) or i+2 (i>=5, skipping rapid blink)
// and its "unset" code adds 20.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrFaint
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrInvisible
	AttrCrossed

	attrCount = 8
)

// MaxUTF8Bytes is the maximum encoded length of a single cell's codepoint.
const MaxUTF8Bytes = 4

// Cell is a single terminal grid position: a UTF-8 codepoint (or empty,
// meaning "blank"), a foreground/background color, and an attribute set.
//
// CP never truncates a multi-byte sequence mid-unit: bytes beyond the
// codepoint's declared length are always zero.
type Cell struct {
	CP   [MaxUTF8Bytes]byte
	FG   Color
	BG   Color
	Attr Attr
}

// Rune decodes the cell's codepoint, returning utf8.RuneError if CP holds
// an invalid sequence and 0 if the cell is blank.
func (c Cell) Rune() rune {
	if c.CP[0] == 0 {
		return 0
	}
	r, _ := utf8.DecodeRune(c.bytes())
	return r
}

// IsEmpty reports whether the cell holds no codepoint (a "blank").
func (c Cell) IsEmpty() bool {
	return c.CP[0] == 0
}

func (c Cell) bytes() []byte {
	n := utf8SizeFromLead(c.CP[0], true)
	return c.CP[:n]
}

// setRune writes r into the cell's CP field, zero-padding any trailing
// bytes. unicodeEnabled mirrors the buffer's Unicode flag: when false,
// every rune is truncated to its first raw byte, matching the behavior
// of a terminal with Unicode detection disabled.
func (c *Cell) setRune(r rune, unicodeEnabled bool) {
	c.CP = [MaxUTF8Bytes]byte{}
	if r == 0 {
		return
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	if !unicodeEnabled {
		n = 1
	}
	copy(c.CP[:], buf[:n])
}

// setBytes writes the leading UTF-8 (or single-byte) codepoint found at
// the start of p into the cell, per the same sizing rule as Put/Print.
func (c *Cell) setBytes(p []byte, unicodeEnabled bool) {
	c.CP = [MaxUTF8Bytes]byte{}
	if len(p) == 0 {
		return
	}
	n := utf8SizeFromLead(p[0], unicodeEnabled)
	if n > len(p) {
		n = len(p)
	}
	copy(c.CP[:], p[:n])
}

// Equal reports whether two cells are identical across codepoint bytes,
// colors, and attributes — the equality predicate the diff engine uses
// to decide whether a cell needs to be redrawn.
func (c Cell) Equal(o Cell) bool {
	return c.CP == o.CP && c.FG == o.FG && c.BG == o.BG && c.Attr == o.Attr
}

// utf8SizeFromLead returns the UTF-8 sequence length implied by a lead
// byte: 1 byte if < 0xC0, 2 if < 0xE0, 3 if < 0xF0, otherwise 4. When
// unicodeEnabled is false every byte is treated as a 1-byte sequence.
func utf8SizeFromLead(b byte, unicodeEnabled bool) int {
	if !unicodeEnabled || b < 0xC0 {
		return 1
	} else if b < 0xE0 {
		return 2
	} else if b < 0xF0 {
		return 3
	}
	return 4
}
