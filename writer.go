package hexes

import (
	"bufio"
	"io"
)

// outputBufferUnit is the per-cell allowance the output buffer sizes
// itself to: worst case a single cell redraw costs one cursor move,
// one full SGR style change, and up to 4 UTF-8 bytes, which comfortably
// fits inside 64 bytes with room to spare for the home/CUP forms.
const outputBufferUnit = 64

// writerHandle owns the Terminal's output-side bufio.Writer, resized to
// match the grid whenever the grid resizes so a full redraw never
// forces a short, buffer-splitting write.
type writerHandle struct {
	w *bufio.Writer
}

func newWriterHandle(dst io.Writer, gridW, gridH int) *writerHandle {
	return &writerHandle{w: bufio.NewWriterSize(dst, gridW*gridH*outputBufferUnit)}
}

// grow flushes whatever the current buffer holds and replaces it with
// one sized for the new grid dimensions.
func (h *writerHandle) grow(dst io.Writer, gridW, gridH int) {
	h.w.Flush()
	h.w = bufio.NewWriterSize(dst, gridW*gridH*outputBufferUnit)
}
