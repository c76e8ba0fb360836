//go:build unix

package hexes

import "golang.org/x/sys/unix"

// termSize queries the kernel's notion of the terminal's size in cells
// via TIOCGWINSZ.
func termSize(fd int) (w, h int, err error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}
