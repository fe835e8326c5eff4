package ssttest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

var errClosed = errors.New("ssttest: is closed")

// WriterOptions define writer specific options.
type WriterOptions struct {
	// BlockSize is the maximum encoded size in bytes of each block. Blocks
	// are addressed with 16-bit offsets and must stay below 64KiB.
	// Default: 4KiB.
	BlockSize int

	// BloomExpectedElements sizes the bloom filter.
	// Default: the number of appended entries.
	BloomExpectedElements uint64

	// BloomFalsePositiveRate sizes the bloom filter.
	// Default: 0.01.
	BloomFalsePositiveRate float64

	// NoBloom omits the bloom filter section.
	NoBloom bool
}

func (o *WriterOptions) norm() *WriterOptions {
	var oo WriterOptions
	if o != nil {
		oo = *o
	}

	if oo.BlockSize < 1 {
		oo.BlockSize = 1 << 12
	}
	if oo.BlockSize > math.MaxUint16 {
		oo.BlockSize = math.MaxUint16
	}
	if oo.BloomFalsePositiveRate <= 0 || oo.BloomFalsePositiveRate >= 1 {
		oo.BloomFalsePositiveRate = 0.01
	}

	return &oo
}

// Writer writes synthetic tables.
type Writer struct {
	w io.Writer
	o *WriterOptions

	offset uint32 // bytes written so far
	block  []Entry
	bsize  int // encoded size of the pending block
	index  []MetaEntry
	keys   []string

	minTrancID uint64
	maxTrancID uint64

	closed bool
}

// NewWriter wraps a writer and returns a Writer.
func NewWriter(w io.Writer, o *WriterOptions) *Writer {
	return &Writer{
		w: w,
		o: o.norm(),
	}
}

// Append appends an entry. Keys must be appended in ascending order, equal
// keys are permitted.
func (w *Writer) Append(key, value string, trancID uint64) error {
	if w.closed {
		return errClosed
	}

	if len(key) > math.MaxUint16 || len(value) > math.MaxUint16 {
		return fmt.Errorf("ssttest: entry too large, key %d and value %d bytes", len(key), len(value))
	}
	if n := len(w.keys); n != 0 && key < w.keys[n-1] {
		return fmt.Errorf("ssttest: attempted an out-of-order append, %q must be >= %q", key, w.keys[n-1])
	}

	size := entrySize(key, value) + 2
	if len(w.block) != 0 && w.bsize+size+blockFooterSize > w.o.BlockSize {
		if err := w.flush(); err != nil {
			return err
		}
	}

	if len(w.keys) == 0 || trancID < w.minTrancID {
		w.minTrancID = trancID
	}
	if trancID > w.maxTrancID {
		w.maxTrancID = trancID
	}

	w.block = append(w.block, Entry{Key: key, Value: value, TrancID: trancID})
	w.bsize += size
	w.keys = append(w.keys, key)
	return nil
}

// Close flushes the pending block and writes the meta section, the bloom
// filter and the trailer.
func (w *Writer) Close() error {
	if w.closed {
		return errClosed
	}
	if err := w.flush(); err != nil {
		return err
	}

	metaOffset := w.offset
	if err := w.writeRaw(EncodeMeta(w.index)); err != nil {
		return err
	}

	var bloomOffset uint32
	if !w.o.NoBloom && len(w.keys) != 0 {
		expected := w.o.BloomExpectedElements
		if expected == 0 {
			expected = uint64(len(w.keys))
		}

		bloomOffset = w.offset
		if err := w.writeRaw(EncodeBloom(w.keys, expected, w.o.BloomFalsePositiveRate)); err != nil {
			return err
		}
	}

	if err := w.writeRaw(EncodeTrailer(metaOffset, bloomOffset, w.minTrancID, w.maxTrancID)); err != nil {
		return err
	}
	w.closed = true
	return nil
}

// Index returns the meta entries of all flushed blocks.
func (w *Writer) Index() []MetaEntry { return w.index }

func (w *Writer) writeRaw(p []byte) error {
	n, err := w.w.Write(p)
	w.offset += uint32(n)
	return err
}

func (w *Writer) flush() error {
	if len(w.block) == 0 {
		return nil
	}

	w.index = append(w.index, MetaEntry{
		BlockOffset: w.offset,
		FirstKey:    w.block[0].Key,
		LastKey:     w.block[len(w.block)-1].Key,
	})

	block := EncodeBlock(w.block)
	w.block = w.block[:0]
	w.bsize = 0

	return w.writeRaw(block)
}

// --------------------------------------------------------------------

func entrySize(key, value string) int {
	return 2 + len(key) + 2 + len(value) + 8
}

func appendText(dst []byte, s string) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(s)))
	return append(dst, s...)
}
