package sstview_test

import (
	"encoding/binary"

	"github.com/bsm/sstview"
	"github.com/bsm/sstview/internal/ssttest"
	fuzz "github.com/google/gofuzz"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Table", func() {
	var subject *sstview.Table
	var index []ssttest.MetaEntry

	// The following will seed 500 keys into ~20 blocks of at most 512 bytes.
	BeforeEach(func() {
		buf, idx, err := seedTable(500, &ssttest.WriterOptions{BlockSize: 512})
		Expect(err).NotTo(HaveOccurred())
		index = idx

		subject, err = sstview.Decode(buf)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should init", func() {
		Expect(subject.Warnings).To(BeEmpty())
		Expect(subject.NumBlocks()).To(Equal(len(index)))
		Expect(subject.NumBlocks()).To(BeNumerically(">", 10))
		Expect(subject.SkippedBlocks()).To(BeZero())
		Expect(subject.DroppedMetaEntries()).To(BeZero())
		Expect(subject.Trailer.MinTrancID).To(Equal(uint64(100)))
		Expect(subject.Trailer.MaxTrancID).To(Equal(uint64(599)))
	})

	It("should decode meta entries", func() {
		Expect(subject.NumMetaEntries).To(Equal(uint32(len(index))))
		Expect(subject.Meta).To(HaveLen(len(index)))
		for i, ent := range subject.Meta {
			Expect(ent).To(Equal(sstview.MetaEntry{
				Index:       i,
				BlockOffset: index[i].BlockOffset,
				FirstKey:    index[i].FirstKey,
				LastKey:     index[i].LastKey,
			}))
		}
	})

	It("should decode blocks", func() {
		n := 0
		for i, block := range subject.Blocks {
			Expect(block.Pos()).To(Equal(i))
			Expect(block.Offset).To(Equal(uint64(index[i].BlockOffset)))
			Expect(block.Size()).To(BeNumerically("<=", 512))
			Expect(block.Entries).To(HaveLen(int(block.NumElements)))
			Expect(block.Entries[0].Key).To(Equal(index[i].FirstKey))
			Expect(block.Entries[len(block.Entries)-1].Key).To(Equal(index[i].LastKey))

			for j, ent := range block.Entries {
				Expect(ent.Index).To(Equal(j))
				Expect(ent.Key).To(Equal(seedKey(n)))
				Expect(ent.Value).To(Equal(seedValue(n)))
				Expect(ent.TrancID).To(Equal(uint64(100 + n)))
				n++
			}
		}
		Expect(n).To(Equal(500))

		last := subject.Blocks[len(subject.Blocks)-1]
		Expect(last.End).To(Equal(subject.Layout.Section(sstview.SectionBlocks).End))
	})

	It("should decode the bloom filter header", func() {
		bits, hashes := ssttest.BloomSize(500, 0.01)
		Expect(subject.Bloom.Status).To(Equal(sstview.BloomParsed))
		Expect(subject.Bloom.ExpectedElements).To(Equal(uint64(500)))
		Expect(subject.Bloom.FalsePositiveRate).To(Equal(0.01))
		Expect(subject.Bloom.NumBits).To(Equal(bits))
		Expect(subject.Bloom.NumHashes).To(Equal(hashes))
		Expect(subject.Bloom.BitsLen).To(Equal(int((bits + 7) / 8)))
	})

	It("should be idempotent", func() {
		buf, _, err := seedTable(500, &ssttest.WriterOptions{BlockSize: 512})
		Expect(err).NotTo(HaveOccurred())

		t1, err := sstview.Decode(buf)
		Expect(err).NotTo(HaveOccurred())
		t2, err := sstview.Decode(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(t1).To(Equal(t2))
		Expect(t1).To(Equal(subject))
	})

	It("should reject files shorter than the trailer", func() {
		_, err := sstview.Decode(make([]byte, sstview.TrailerSize-1))
		Expect(err).To(MatchError(sstview.ErrFileTooSmall))

		_, err = sstview.Decode(nil)
		Expect(err).To(MatchError(sstview.ErrFileTooSmall))
	})

	It("should decode tables with a single entry", func() {
		t, err := seedDecode(1, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Warnings).To(BeEmpty())
		Expect(t.Blocks).To(HaveLen(1))
		Expect(t.Blocks[0].Entries).To(ConsistOf(sstview.BlockEntry{
			Key:     seedKey(0),
			Value:   seedValue(0),
			TrancID: 100,
		}))
	})

	It("should survive random input", func() {
		f := fuzz.NewWithSeed(1).NilChance(0).NumElements(0, 512)
		for i := 0; i < 500; i++ {
			var buf []byte
			f.Fuzz(&buf)

			t, err := sstview.Decode(buf)
			if len(buf) < sstview.TrailerSize {
				Expect(err).To(MatchError(sstview.ErrFileTooSmall))
				continue
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(sumSizes(t.Layout)).To(Equal(uint64(len(buf))))
		}
	})

	It("should survive corrupted tables", func() {
		seed, _, err := seedTable(200, &ssttest.WriterOptions{BlockSize: 256})
		Expect(err).NotTo(HaveOccurred())

		type patch struct {
			Pos  uint32
			Byte byte
		}

		f := fuzz.NewWithSeed(2).NilChance(0).NumElements(1, 16)
		for i := 0; i < 500; i++ {
			var patches []patch
			f.Fuzz(&patches)

			buf := append([]byte(nil), seed...)
			for _, p := range patches {
				buf[int(p.Pos)%len(buf)] = p.Byte
			}

			t, err := sstview.Decode(buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(sumSizes(t.Layout)).To(Equal(uint64(len(buf))))
			Expect(t.Layout.Section(sstview.SectionExtra).Size()).To(Equal(uint64(sstview.TrailerSize)))
			for j := 1; j < len(t.Blocks); j++ {
				Expect(t.Blocks[j].Index).To(BeNumerically(">", t.Blocks[j-1].Index))
			}
		}
	})
})

var _ = Describe("Warning", func() {
	It("should format", func() {
		w := sstview.Warning{Section: "blocks", Index: 3, Offset: 120, Err: sstview.ErrMalformedSection}
		Expect(w.Error()).To(Equal("blocks 3 at offset 120: sstview: malformed section"))
		Expect(w).To(MatchError(sstview.ErrMalformedSection))

		w = sstview.Warning{Section: "meta", Index: -1, Offset: 9, Err: sstview.ErrMalformedSection}
		Expect(w.Error()).To(Equal("meta section at offset 9: sstview: malformed section"))
	})
})

func sumSizes(l sstview.Layout) uint64 {
	var n uint64
	for _, s := range l.Sections {
		n += s.Size()
	}
	return n
}

// putTrailerUint32 overwrites a 32-bit trailer field at pos (0 or 4).
func putTrailerUint32(buf []byte, pos int, v uint32) {
	binary.LittleEndian.PutUint32(buf[len(buf)-sstview.TrailerSize+pos:], v)
}
