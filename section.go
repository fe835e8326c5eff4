package sstview

import (
	"fmt"
	"sort"
)

// Section is the half-open byte range [Start, End) occupied by a named
// section. Absent sections have Present set to false and a zero range.
type Section struct {
	Name    string
	Start   uint64
	End     uint64
	Present bool
}

// Size returns the section size in bytes.
func (s Section) Size() uint64 { return s.End - s.Start }

// Layout maps the file into its sections.
type Layout struct {
	FileSize uint64
	Sections []Section // present sections, ordered by Start
}

// Section returns the named section. It never fails, an absent section is
// returned with Present set to false.
func (l Layout) Section(name string) Section {
	for _, s := range l.Sections {
		if s.Name == name {
			return s
		}
	}
	return Section{Name: name}
}

type boundary struct {
	name   string
	offset uint64
}

// resolveLayout derives the section ranges from the trailer offsets. Each
// boundary extends to the next greater one. Boundaries pointing into or past
// the trailer are dropped, so the extra section always spans exactly the
// trailer.
func (d *decoder) resolveLayout(t Trailer) Layout {
	size := uint64(len(d.buf))
	trailerStart := size - TrailerSize

	points := []boundary{{name: SectionBlocks}}
	addPoint := func(name string, offset uint32) {
		if uint64(offset) > trailerStart {
			d.warn(name, -1, uint64(offset), fmt.Errorf("%w: offset lies beyond trailer start %d", ErrMalformedSection, trailerStart))
			return
		}
		points = append(points, boundary{name: name, offset: uint64(offset)})
	}

	if t.MetaOffset > 0 {
		addPoint(SectionMeta, t.MetaOffset)
	}
	if t.BloomOffset > 0 && t.BloomOffset != t.MetaOffset {
		addPoint(SectionBloom, t.BloomOffset)
	}
	points = append(points,
		boundary{name: SectionExtra, offset: trailerStart},
		boundary{name: sectionFileEnd, offset: size},
	)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].offset < points[j].offset
	})

	layout := Layout{FileSize: size}
	for i := 0; i+1 < len(points); i++ {
		cur, next := points[i], points[i+1]
		if next.offset == cur.offset {
			continue
		}

		layout.Sections = append(layout.Sections, Section{
			Name:    cur.name,
			Start:   cur.offset,
			End:     next.offset,
			Present: true,
		})
	}
	return layout
}
