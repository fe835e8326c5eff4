package report

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bsm/sstview"
)

// WriteText writes a plain text summary of the report.
func (r *Report) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	tw := tabwriter.NewWriter(bw, 0, 4, 2, ' ', 0)
	t := r.Table

	fmt.Fprintf(tw, "SST %s (%s bytes)\n\n", r.Name, comma(t.Size))

	fmt.Fprintln(tw, "SECTION\tSTART\tEND\tSIZE\tSHARE")
	for _, s := range r.Sections {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%.2f%%\n", s.ID, s.Start, s.End, comma(s.Size), s.Percent)
	}

	fmt.Fprintln(tw, "\nTRAILER")
	fmt.Fprintf(tw, "meta section offset\t%d\n", t.Trailer.MetaOffset)
	fmt.Fprintf(tw, "bloom filter offset\t%d\n", t.Trailer.BloomOffset)
	fmt.Fprintf(tw, "min transaction id\t%d\n", t.Trailer.MinTrancID)
	fmt.Fprintf(tw, "max transaction id\t%d\n", t.Trailer.MaxTrancID)

	fmt.Fprintf(tw, "\nMETA (%d entries)\n", t.NumMetaEntries)
	fmt.Fprintln(tw, "INDEX\tOFFSET\tFIRST KEY\tLAST KEY")
	for _, m := range t.Meta {
		fmt.Fprintf(tw, "%d\t%d\t%q\t%q\n", m.Index, m.BlockOffset, m.FirstKey, m.LastKey)
	}

	for _, b := range t.Blocks {
		fmt.Fprintf(tw, "\nBLOCK %d [%d, %d) %d entries, hash 0x%08x\n", b.Index, b.Offset, b.End, b.NumElements, b.Hash)
		fmt.Fprintln(tw, "INDEX\tKEY\tVALUE\tTRANSACTION ID")
		for _, e := range b.Entries {
			fmt.Fprintf(tw, "%d\t%q\t%q\t%d\n", e.Index, e.Key, e.Value, e.TrancID)
		}
	}

	fmt.Fprintf(tw, "\nBLOOM (%s)\n", t.Bloom.Status)
	switch t.Bloom.Status {
	case sstview.BloomParsed:
		fmt.Fprintf(tw, "expected elements\t%s\n", comma(t.Bloom.ExpectedElements))
		fmt.Fprintf(tw, "false positive rate\t%.10f\n", t.Bloom.FalsePositiveRate)
		fmt.Fprintf(tw, "num bits\t%s\n", comma(t.Bloom.NumBits))
		fmt.Fprintf(tw, "num hashes\t%s\n", comma(t.Bloom.NumHashes))
	case sstview.BloomFailed:
		fmt.Fprintf(tw, "error\t%v\n", t.Bloom.Err)
		fmt.Fprintf(tw, "raw\t%s\n", t.Bloom.Hex())
	}

	if len(r.Diagnostics) != 0 {
		fmt.Fprintf(tw, "\nDIAGNOSTICS (%d)\n", len(r.Diagnostics))
		for _, d := range r.Diagnostics {
			fmt.Fprintln(tw, d)
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	return bw.Flush()
}
