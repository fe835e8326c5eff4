package sstview

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

func checkBounds(p []byte, off, n int) error {
	if off < 0 || n < 0 || off > len(p)-n {
		return fmt.Errorf("%w: %d bytes at offset %d of %d", ErrOutOfBounds, n, off, len(p))
	}
	return nil
}

func readUint16(p []byte, off int) (uint16, error) {
	if err := checkBounds(p, off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(p[off:]), nil
}

func readUint32(p []byte, off int) (uint32, error) {
	if err := checkBounds(p, off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p[off:]), nil
}

func readUint64(p []byte, off int) (uint64, error) {
	if err := checkBounds(p, off, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(p[off:]), nil
}

func readFloat64(p []byte, off int) (float64, error) {
	u, err := readUint64(p, off)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// decodeText converts b to a string, replacing each maximal invalid UTF-8
// subsequence with a single utf8.RuneError.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// --------------------------------------------------------------------

// cursor reads consecutive fields, advancing only on success.
type cursor struct {
	p   []byte
	pos int
}

func (c *cursor) uint16() (uint16, error) {
	v, err := readUint16(c.p, c.pos)
	if err == nil {
		c.pos += 2
	}
	return v, err
}

func (c *cursor) uint32() (uint32, error) {
	v, err := readUint32(c.p, c.pos)
	if err == nil {
		c.pos += 4
	}
	return v, err
}

func (c *cursor) uint64() (uint64, error) {
	v, err := readUint64(c.p, c.pos)
	if err == nil {
		c.pos += 8
	}
	return v, err
}

func (c *cursor) float64() (float64, error) {
	v, err := readFloat64(c.p, c.pos)
	if err == nil {
		c.pos += 8
	}
	return v, err
}

// text reads a u16 length-prefixed string.
func (c *cursor) text() (string, error) {
	n, err := c.uint16()
	if err != nil {
		return "", err
	}
	if err := checkBounds(c.p, c.pos, int(n)); err != nil {
		return "", err
	}

	s := decodeText(c.p[c.pos : c.pos+int(n)])
	c.pos += int(n)
	return s, nil
}

// --------------------------------------------------------------------

func parseTrailer(buf []byte) (Trailer, error) {
	if len(buf) < TrailerSize {
		return Trailer{}, fmt.Errorf("%w: %d bytes, a trailer needs %d", ErrFileTooSmall, len(buf), TrailerSize)
	}

	var t Trailer
	var err error

	c := cursor{p: buf, pos: len(buf) - TrailerSize}
	if t.MetaOffset, err = c.uint32(); err != nil {
		return Trailer{}, err
	}
	if t.BloomOffset, err = c.uint32(); err != nil {
		return Trailer{}, err
	}
	if t.MinTrancID, err = c.uint64(); err != nil {
		return Trailer{}, err
	}
	if t.MaxTrancID, err = c.uint64(); err != nil {
		return Trailer{}, err
	}
	return t, nil
}
