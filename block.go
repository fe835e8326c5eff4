package sstview

import "fmt"

// decodeBlocks decodes the blocks referenced by meta. A block extends to the
// next block's offset or, for the last one, to the end of the blocks
// section. Damaged blocks are skipped and do not affect their neighbours.
func (d *decoder) decodeBlocks(meta []MetaEntry, s Section) []Block {
	blocks := make([]Block, 0, len(meta))
	for i, m := range meta {
		start := uint64(m.BlockOffset)
		end := s.End
		if next := i + 1; next < len(meta) && uint64(meta[next].BlockOffset) < end {
			end = uint64(meta[next].BlockOffset)
		}

		if start >= end || end-start < blockFooterSize {
			var n uint64
			if end > start {
				n = end - start
			}
			d.warn(SectionBlocks, m.Index, start, fmt.Errorf("%w: %d bytes cannot hold a block footer", ErrMalformedSection, n))
			continue
		}

		b, err := parseBlock(d.buf[start:end])
		if err != nil {
			d.warn(SectionBlocks, m.Index, start, err)
			continue
		}

		b.Index = m.Index
		b.Offset = start
		b.End = end
		blocks = append(blocks, b)
	}
	return blocks
}

// parseBlock parses a single block from its trailing offset table.
func parseBlock(block []byte) (Block, error) {
	numPos := len(block) - blockFooterSize
	num, err := readUint16(block, numPos)
	if err != nil {
		return Block{}, err
	}
	hash, err := readUint32(block, numPos+2)
	if err != nil {
		return Block{}, err
	}

	// int arithmetic, a negative table start marks a damaged footer
	offsetsStart := numPos - 2*int(num)
	if offsetsStart < 0 {
		return Block{}, fmt.Errorf("%w: offset table of %d entries does not fit into %d bytes", ErrMalformedSection, num, len(block))
	}

	b := Block{
		NumElements: num,
		Hash:        hash,
		Entries:     make([]BlockEntry, 0, int(num)),
	}
	for i := 0; i < int(num); i++ {
		off, err := readUint16(block, offsetsStart+2*i)
		if err != nil {
			return Block{}, err
		}

		c := &cursor{p: block, pos: int(off)}
		ent, err := c.blockEntry()
		if err != nil {
			return Block{}, fmt.Errorf("entry %d at %d: %w", i, off, err)
		}

		ent.Index = i
		ent.Offset = off
		b.Entries = append(b.Entries, ent)
	}
	return b, nil
}

func (c *cursor) blockEntry() (BlockEntry, error) {
	var ent BlockEntry
	var err error

	if ent.Key, err = c.text(); err != nil {
		return ent, err
	}
	if ent.Value, err = c.text(); err != nil {
		return ent, err
	}
	if ent.TrancID, err = c.uint64(); err != nil {
		return ent, err
	}
	return ent, nil
}
