package sstview

import (
	"encoding/binary"
	"encoding/hex"
	"math"
)

// BloomStatus reports the outcome of decoding the bloom filter header.
type BloomStatus int

// Bloom statuses.
const (
	BloomUnavailable BloomStatus = iota // section absent or shorter than the header
	BloomParsed
	BloomFailed // not produced by Decode, the length check covers every short header
)

func (s BloomStatus) String() string {
	switch s {
	case BloomParsed:
		return "parsed"
	case BloomFailed:
		return "parse failed"
	default:
		return "unavailable"
	}
}

// Bloom is the bloom filter header. The bit array which follows it is not
// interpreted.
type Bloom struct {
	Status BloomStatus

	ExpectedElements  uint64
	FalsePositiveRate float64
	NumBits           uint64
	NumHashes         uint64
	BitsLen           int // length of the bit array in bytes

	Raw []byte // section bytes, only set on failure
	Err error
}

// Hex returns the raw section bytes as hex.
func (b Bloom) Hex() string { return hex.EncodeToString(b.Raw) }

func decodeBloom(p []byte) Bloom {
	if len(p) < BloomHeaderSize {
		return Bloom{Status: BloomUnavailable}
	}

	return Bloom{
		Status:            BloomParsed,
		ExpectedElements:  binary.LittleEndian.Uint64(p[0:]),
		FalsePositiveRate: math.Float64frombits(binary.LittleEndian.Uint64(p[8:])),
		NumBits:           binary.LittleEndian.Uint64(p[16:]),
		NumHashes:         binary.LittleEndian.Uint64(p[24:]),
		BitsLen:           len(p) - BloomHeaderSize,
	}
}
