package sstview

import (
	"errors"
	"fmt"
)

// TrailerSize is the fixed size of the trailer at the end of each table.
const TrailerSize = 4 + 4 + 8 + 8

// BloomHeaderSize is the size of the bloom filter header.
const BloomHeaderSize = 8 + 8 + 8 + 8

// blockFooterSize is the num elements (u16) plus hash (u32) suffix of each block.
const blockFooterSize = 2 + 4

// Section names.
const (
	SectionBlocks = "blocks"
	SectionMeta   = "meta"
	SectionBloom  = "bloom"
	SectionExtra  = "extra"

	sectionFileEnd = "file_end"
)

var (
	// ErrFileTooSmall is returned when a file cannot even hold a trailer.
	ErrFileTooSmall = errors.New("sstview: file too small")
	// ErrOutOfBounds is reported when a read exceeds the available bytes.
	ErrOutOfBounds = errors.New("sstview: out of bounds")
	// ErrMalformedSection is reported for structurally inconsistent sections.
	ErrMalformedSection = errors.New("sstview: malformed section")
)

// Trailer holds the fixed trailer fields.
type Trailer struct {
	MetaOffset  uint32 // start of the meta section, 0 if absent
	BloomOffset uint32 // start of the bloom section, 0 if absent
	MinTrancID  uint64
	MaxTrancID  uint64
}

// MetaEntry is a single block index entry.
type MetaEntry struct {
	Index       int
	BlockOffset uint32
	FirstKey    string
	LastKey     string
}

// BlockEntry is a single key/value pair stored in a block.
type BlockEntry struct {
	Index   int // position within the block
	Key     string
	Value   string
	TrancID uint64
	Offset  uint16 // relative to block start
}

// Block is a decoded data block.
type Block struct {
	Index       int    // index of the meta entry which references the block
	Offset      uint64 // absolute start
	End         uint64 // absolute end (exclusive)
	NumElements uint16
	Hash        uint32 // stored hash, not verified
	Entries     []BlockEntry
}

// Pos returns the position of the block within the table.
func (b Block) Pos() int { return b.Index }

// Size returns the block size in bytes.
func (b Block) Size() uint64 { return b.End - b.Offset }

// Warning describes a recoverable decode failure. The affected unit (a meta
// entry, a block, a section boundary) was dropped.
type Warning struct {
	Section string
	Index   int // meta entry or block index, -1 if not applicable
	Offset  uint64
	Err     error
}

func (w Warning) Error() string {
	if w.Index < 0 {
		return fmt.Sprintf("%s section at offset %d: %v", w.Section, w.Offset, w.Err)
	}
	return fmt.Sprintf("%s %d at offset %d: %v", w.Section, w.Index, w.Offset, w.Err)
}

// Unwrap returns the underlying error.
func (w Warning) Unwrap() error { return w.Err }
