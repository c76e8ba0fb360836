// Package capinfo loads a terminal capability database in the classic
// terminfo binary layout (see term(5)) and exposes its boolean,
// numeric, and string capabilities by fixed ordinal.
package capinfo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// Magic numbers distinguishing the legacy 16-bit-integer format from the
// extended 32-bit-integer one. Both share the same six-field header
// shape; only the width of the Numbers array differs.
const (
	magicLegacy   = 0432  // octal, i.e. 0x11A
	magicExtended = 01036 // octal, i.e. 0x21E
)

var (
	ErrNoTerm    = errors.New("capinfo: TERM is not set")
	ErrNotFound  = errors.New("capinfo: no capability file found for terminal")
	ErrBadMagic  = errors.New("capinfo: unrecognized magic number")
	ErrBadHeader = errors.New("capinfo: malformed header")
	ErrBadBody   = errors.New("capinfo: malformed body")
)

// Store is the parsed form of a terminal's capability database: boolean
// flags and integers addressed directly by ordinal, and strings
// addressed through an offset table into a shared string blob.
type Store struct {
	Name string

	bools   []bool
	numbers []int32
	offsets []int32
	strings []byte
}

// Bool returns the boolean capability at ordinal n, false if n is out
// of range (absent capabilities are simply false, there is no tri-state).
func (s *Store) Bool(n int) bool {
	if n < 0 || n >= len(s.bools) {
		return false
	}
	return s.bools[n]
}

// Number returns the integer capability at ordinal n. ok is false if n
// is out of range or the stored value is negative ("absent" per the
// file format).
func (s *Store) Number(n int) (value int, ok bool) {
	if n < 0 || n >= len(s.numbers) {
		return 0, false
	}
	v := s.numbers[n]
	if v < 0 {
		return 0, false
	}
	return int(v), true
}

// String returns the string capability at ordinal n. ok is false if n
// is out of range or the offset table marks it absent.
func (s *Store) String(n int) (value string, ok bool) {
	if n < 0 || n >= len(s.offsets) {
		return "", false
	}
	off := s.offsets[n]
	if off < 0 || int(off) >= len(s.strings) {
		return "", false
	}
	end := int(off)
	for end < len(s.strings) && s.strings[end] != 0 {
		end++
	}
	return string(s.strings[off:end]), true
}

type header struct {
	Magic              int16
	NameSize           int16
	BoolSize           int16
	NumberCount        int16
	StringOffsetCount  int16
	StringTableSize    int16
}

// Parse decodes a capability database from r.
func Parse(r io.Reader) (*Store, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if h.NameSize <= 0 || h.BoolSize <= 0 || h.NumberCount <= 0 ||
		h.StringOffsetCount <= 0 || h.StringTableSize <= 0 {
		return nil, ErrBadHeader
	}

	var numWidth int
	switch h.Magic {
	case magicLegacy:
		numWidth = 2
	case magicExtended:
		numWidth = 4
	default:
		return nil, ErrBadMagic
	}

	nameBuf := make([]byte, h.NameSize)
	if _, err := io.ReadFull(r, nameBuf); err != nil || nameBuf[len(nameBuf)-1] != 0 {
		return nil, fmt.Errorf("%w: name table", ErrBadBody)
	}
	name := string(bytes.TrimRight(nameBuf, "\x00"))
	if i := strings.IndexByte(name, '|'); i >= 0 {
		name = name[:i]
	}

	boolBuf := make([]byte, h.BoolSize)
	if _, err := io.ReadFull(r, boolBuf); err != nil {
		return nil, fmt.Errorf("%w: bool table", ErrBadBody)
	}
	bools := make([]bool, len(boolBuf))
	for i, b := range boolBuf {
		bools[i] = b != 0
	}

	if (h.NameSize+h.BoolSize)%2 != 0 {
		if _, err := io.CopyN(io.Discard, r, 1); err != nil {
			return nil, fmt.Errorf("%w: padding byte", ErrBadBody)
		}
	}

	numbers := make([]int32, h.NumberCount)
	for i := range numbers {
		if numWidth == 2 {
			var v int16
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, fmt.Errorf("%w: numbers", ErrBadBody)
			}
			numbers[i] = int32(v)
		} else {
			var v int32
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, fmt.Errorf("%w: numbers", ErrBadBody)
			}
			numbers[i] = v
		}
	}

	offsets := make([]int32, h.StringOffsetCount)
	for i := range offsets {
		var v int16
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, fmt.Errorf("%w: string offsets", ErrBadBody)
		}
		if int(v) >= int(h.StringTableSize) {
			return nil, fmt.Errorf("%w: offset %d out of range", ErrBadBody, v)
		}
		offsets[i] = int32(v)
	}

	strBuf := make([]byte, h.StringTableSize)
	if _, err := io.ReadFull(r, strBuf); err != nil || strBuf[len(strBuf)-1] != 0 {
		return nil, fmt.Errorf("%w: string table", ErrBadBody)
	}

	return &Store{
		Name:    name,
		bools:   bools,
		numbers: numbers,
		offsets: offsets,
		strings: strBuf,
	}, nil
}

// Load locates and parses the capability file for the terminal named
// term, following the search order: $TERMINFO; $HOME/.terminfo (or the
// password database home if $HOME is unset); each non-empty segment of
// $TERMINFO_DIRS (an empty segment means /etc/terminfo); then
// /etc/terminfo, /lib/terminfo, /usr/share/terminfo. Within a directory
// the file is named <dir>/<first-char-of-name>/<name>.
func Load(term string) (*Store, error) {
	if term == "" {
		return nil, ErrNoTerm
	}

	path, err := locate(term)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

func locate(term string) (string, error) {
	candidate := func(dir string) string {
		return filepath.Join(dir, term[:1], term)
	}
	exists := func(p string) bool {
		fi, err := os.Stat(p)
		return err == nil && !fi.IsDir()
	}

	if dir := os.Getenv("TERMINFO"); dir != "" {
		if p := candidate(dir); exists(p) {
			return p, nil
		}
	}

	home := os.Getenv("HOME")
	if home == "" {
		if u, err := user.Current(); err == nil {
			home = u.HomeDir
		}
	}
	if home != "" {
		if p := candidate(filepath.Join(home, ".terminfo")); exists(p) {
			return p, nil
		}
	}

	if dirs := os.Getenv("TERMINFO_DIRS"); dirs != "" {
		for _, seg := range strings.Split(dirs, ":") {
			if seg == "" {
				seg = "/etc/terminfo"
			}
			if p := candidate(seg); exists(p) {
				return p, nil
			}
		}
	}

	for _, dir := range []string{"/etc/terminfo", "/lib/terminfo", "/usr/share/terminfo"} {
		if p := candidate(dir); exists(p) {
			return p, nil
		}
	}

	return "", ErrNotFound
}
