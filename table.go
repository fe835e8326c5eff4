package sstview

// Table is a decoded sorted string table. All fields are plain values
// derived from a single pass over the input buffer.
type Table struct {
	Size    uint64
	Trailer Trailer
	Layout  Layout

	NumMetaEntries uint32 // entry count declared by the meta section
	Meta           []MetaEntry
	Blocks         []Block
	Bloom          Bloom

	// Warnings lists the units which were dropped while decoding.
	Warnings []Warning
}

// Decode decodes buf, which must hold a complete table. It only fails if
// the trailer cannot be read, damaged meta entries and blocks are skipped
// and reported as Warnings.
func Decode(buf []byte) (*Table, error) {
	trailer, err := parseTrailer(buf)
	if err != nil {
		return nil, err
	}

	d := &decoder{buf: buf}
	t := &Table{
		Size:    uint64(len(buf)),
		Trailer: trailer,
		Layout:  d.resolveLayout(trailer),
	}
	t.NumMetaEntries, t.Meta = d.decodeMeta(t.Layout.Section(SectionMeta))
	t.Blocks = d.decodeBlocks(t.Meta, t.Layout.Section(SectionBlocks))
	t.Bloom = decodeBloom(d.slice(t.Layout.Section(SectionBloom)))
	t.Warnings = d.warnings
	return t, nil
}

// NumBlocks returns the number of successfully decoded blocks.
func (t *Table) NumBlocks() int { return len(t.Blocks) }

// SkippedBlocks returns the number of blocks referenced by the meta section
// which could not be decoded.
func (t *Table) SkippedBlocks() int { return len(t.Meta) - len(t.Blocks) }

// DroppedMetaEntries returns the number of declared meta entries which
// could not be decoded.
func (t *Table) DroppedMetaEntries() int64 { return int64(t.NumMetaEntries) - int64(len(t.Meta)) }

// --------------------------------------------------------------------

type decoder struct {
	buf      []byte
	warnings []Warning
}

func (d *decoder) warn(section string, index int, offset uint64, err error) {
	d.warnings = append(d.warnings, Warning{
		Section: section,
		Index:   index,
		Offset:  offset,
		Err:     err,
	})
}

// slice returns the bytes of a section, nil if absent.
func (d *decoder) slice(s Section) []byte {
	if !s.Present {
		return nil
	}
	return d.buf[s.Start:s.End]
}
