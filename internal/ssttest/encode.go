package ssttest

import (
	"encoding/binary"
	"math"

	"github.com/spaolacci/murmur3"
)

const blockFooterSize = 2 + 4

// Entry is a key/value pair stored in a block.
type Entry struct {
	Key     string
	Value   string
	TrancID uint64
}

// MetaEntry indexes a single block.
type MetaEntry struct {
	BlockOffset uint32
	FirstKey    string
	LastKey     string
}

// EncodeBlock encodes entries as a block, followed by the offset table, the
// entry count and a murmur3 hash of everything before it.
func EncodeBlock(entries []Entry) []byte {
	var buf []byte
	offsets := make([]uint16, 0, len(entries))
	for _, ent := range entries {
		offsets = append(offsets, uint16(len(buf)))
		buf = appendText(buf, ent.Key)
		buf = appendText(buf, ent.Value)
		buf = binary.LittleEndian.AppendUint64(buf, ent.TrancID)
	}
	for _, off := range offsets {
		buf = binary.LittleEndian.AppendUint16(buf, off)
	}
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(entries)))
	return binary.LittleEndian.AppendUint32(buf, murmur3.Sum32(buf))
}

// EncodeMeta encodes the meta section: entry count, entries and a murmur3
// hash of the entries.
func EncodeMeta(entries []MetaEntry) []byte {
	buf := binary.LittleEndian.AppendUint32(nil, uint32(len(entries)))
	for _, ent := range entries {
		buf = binary.LittleEndian.AppendUint32(buf, ent.BlockOffset)
		buf = appendText(buf, ent.FirstKey)
		buf = appendText(buf, ent.LastKey)
	}
	return binary.LittleEndian.AppendUint32(buf, murmur3.Sum32(buf[4:]))
}

// BloomHeader encodes a bloom filter header without a bit array.
func BloomHeader(expected uint64, rate float64, numBits, numHashes uint64) []byte {
	buf := make([]byte, 0, 32)
	buf = binary.LittleEndian.AppendUint64(buf, expected)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(rate))
	buf = binary.LittleEndian.AppendUint64(buf, numBits)
	return binary.LittleEndian.AppendUint64(buf, numHashes)
}

// BloomSize returns the number of bits and hash functions for a filter
// holding n elements at false positive rate p.
func BloomSize(n uint64, p float64) (numBits, numHashes uint64) {
	if n == 0 {
		return 0, 0
	}

	m := math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2))
	k := math.Round(m / float64(n) * math.Ln2)
	if k < 1 {
		k = 1
	}
	return uint64(m), uint64(k)
}

// EncodeBloom encodes a bloom filter over keys, sized for expected elements.
// Bit positions are derived from murmur3 with one seed per hash function.
func EncodeBloom(keys []string, expected uint64, rate float64) []byte {
	numBits, numHashes := BloomSize(expected, rate)
	buf := BloomHeader(expected, rate, numBits, numHashes)
	if numBits == 0 {
		return buf
	}

	bits := make([]byte, (numBits+7)/8)
	for _, key := range keys {
		for i := uint64(0); i < numHashes; i++ {
			pos := uint64(murmur3.Sum32WithSeed([]byte(key), uint32(i))) % numBits
			bits[pos/8] |= 1 << (pos % 8)
		}
	}
	return append(buf, bits...)
}

// EncodeTrailer encodes the fixed 24-byte trailer.
func EncodeTrailer(metaOffset, bloomOffset uint32, minTrancID, maxTrancID uint64) []byte {
	buf := make([]byte, 0, 24)
	buf = binary.LittleEndian.AppendUint32(buf, metaOffset)
	buf = binary.LittleEndian.AppendUint32(buf, bloomOffset)
	buf = binary.LittleEndian.AppendUint64(buf, minTrancID)
	return binary.LittleEndian.AppendUint64(buf, maxTrancID)
}
