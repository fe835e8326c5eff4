package sstview

// minMetaEntrySize is an entry with two empty keys.
const minMetaEntrySize = 4 + 2 + 2

// decodeMeta decodes the block index. Decoding stops at the first damaged
// entry, entries before it are retained.
func (d *decoder) decodeMeta(s Section) (uint32, []MetaEntry) {
	if !s.Present || s.Size() <= 4 {
		return 0, nil
	}

	c := &cursor{p: d.slice(s)}
	count, err := c.uint32()
	if err != nil {
		d.warn(SectionMeta, -1, s.Start, err)
		return 0, nil
	}

	// count is untrusted, cap in uint64 before converting
	capacity := uint64(len(c.p) / minMetaEntrySize)
	if uint64(count) < capacity {
		capacity = uint64(count)
	}

	entries := make([]MetaEntry, 0, int(capacity))
	for i := uint32(0); i < count; i++ {
		pos := c.pos
		ent, err := c.metaEntry()
		if err != nil {
			d.warn(SectionMeta, len(entries), s.Start+uint64(pos), err)
			break
		}

		ent.Index = len(entries)
		entries = append(entries, ent)
	}
	return count, entries
}

func (c *cursor) metaEntry() (MetaEntry, error) {
	var ent MetaEntry
	var err error

	if ent.BlockOffset, err = c.uint32(); err != nil {
		return ent, err
	}
	if ent.FirstKey, err = c.text(); err != nil {
		return ent, err
	}
	if ent.LastKey, err = c.text(); err != nil {
		return ent, err
	}
	return ent, nil
}
