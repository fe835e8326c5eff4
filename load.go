package sstview

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/s2"
)

// Stream identifiers of framed snappy and S2 streams.
var (
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
	s2Magic     = []byte("\xff\x06\x00\x00S2sTwO")
)

// ReadFile reads a whole table into memory. Tables stored as framed snappy
// or S2 streams are inflated transparently.
func ReadFile(name string) ([]byte, error) {
	raw, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return inflate(raw)
}

// Open reads and decodes the named table.
func Open(name string) (*Table, error) {
	buf, err := ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Decode(buf)
}

func inflate(raw []byte) ([]byte, error) {
	var r io.Reader
	switch {
	case bytes.HasPrefix(raw, snappyMagic):
		r = snappy.NewReader(bytes.NewReader(raw))
	case bytes.HasPrefix(raw, s2Magic):
		r = s2.NewReader(bytes.NewReader(raw))
	default:
		return raw, nil
	}

	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("sstview: inflate: %w", err)
	}
	return plain, nil
}
