// Package report renders decoded tables as self-contained HTML pages or
// plain text summaries.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bsm/sstview"
)

// Supported formats.
const (
	FormatHTML = "html"
	FormatText = "text"
)

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("report: unknown format")

// Options configure the report output.
type Options struct {
	// Format is the output format, either "html" or "text".
	// Default: html.
	Format string

	// OutputDir is the directory HTML reports are written to.
	// Default: sst_html.
	OutputDir string
}

func (o *Options) norm() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}

	if oo.Format == "" {
		oo.Format = FormatHTML
	}
	if oo.OutputDir == "" {
		oo.OutputDir = "sst_html"
	}
	return &oo
}

// Validate checks the options.
func (o *Options) Validate() error {
	switch f := o.norm().Format; f {
	case FormatHTML, FormatText:
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

// Path returns the file path of the HTML report for the named table.
func (o *Options) Path(name string) string {
	return filepath.Join(o.norm().OutputDir, filepath.Base(name)+"_visualization.html")
}

// --------------------------------------------------------------------

var sectionTitles = map[string]string{
	sstview.SectionBlocks: "Block Section",
	sstview.SectionMeta:   "Meta Section",
	sstview.SectionBloom:  "Bloom Filter",
	sstview.SectionExtra:  "Extra Section",
}

// SectionRow describes a section of the file.
type SectionRow struct {
	ID      string
	Title   string
	Start   uint64
	End     uint64
	Size    uint64
	Percent float64 // share of the file size
	Present bool
}

// Report is a rendered view of a table.
type Report struct {
	Name     string // base name of the table file
	Table    *sstview.Table
	Sections []SectionRow // present sections in file order

	Blocks SectionRow
	Meta   SectionRow
	Bloom  SectionRow
	Extra  SectionRow

	Diagnostics []string
}

// New builds a report for a decoded table. It does not modify t.
func New(name string, t *sstview.Table) *Report {
	r := &Report{
		Name:  filepath.Base(name),
		Table: t,
	}
	for _, s := range t.Layout.Sections {
		r.Sections = append(r.Sections, newSectionRow(s, t.Size))
	}

	r.Blocks = newSectionRow(t.Layout.Section(sstview.SectionBlocks), t.Size)
	r.Meta = newSectionRow(t.Layout.Section(sstview.SectionMeta), t.Size)
	r.Bloom = newSectionRow(t.Layout.Section(sstview.SectionBloom), t.Size)
	r.Extra = newSectionRow(t.Layout.Section(sstview.SectionExtra), t.Size)

	if n := t.SkippedBlocks(); n != 0 {
		r.Diagnostics = append(r.Diagnostics, fmt.Sprintf("%d of %d blocks skipped", n, len(t.Meta)))
	}
	if n := t.DroppedMetaEntries(); n > 0 {
		r.Diagnostics = append(r.Diagnostics, fmt.Sprintf("%d of %d meta entries dropped", n, t.NumMetaEntries))
	}
	for _, w := range t.Warnings {
		r.Diagnostics = append(r.Diagnostics, w.Error())
	}
	return r
}

func newSectionRow(s sstview.Section, fileSize uint64) SectionRow {
	row := SectionRow{
		ID:      s.Name,
		Title:   sectionTitles[s.Name],
		Start:   s.Start,
		End:     s.End,
		Size:    s.Size(),
		Present: s.Present,
	}
	if fileSize != 0 {
		row.Percent = float64(row.Size) / float64(fileSize) * 100
	}
	return row
}

// Render writes the report in the given format.
func (r *Report) Render(w io.Writer, format string) error {
	switch format {
	case FormatHTML, "":
		return r.WriteHTML(w)
	case FormatText:
		return r.WriteText(w)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// WriteFile writes the HTML report into o.OutputDir and returns the path.
func (r *Report) WriteFile(o *Options) (string, error) {
	path := o.Path(r.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := r.WriteHTML(f); err != nil {
		return "", err
	}
	return path, f.Close()
}

// comma formats n with thousands separators.
func comma(n interface{}) string {
	var s string
	switch v := n.(type) {
	case int:
		s = strconv.Itoa(v)
	case uint16:
		s = strconv.FormatUint(uint64(v), 10)
	case uint32:
		s = strconv.FormatUint(uint64(v), 10)
	case uint64:
		s = strconv.FormatUint(v, 10)
	default:
		return fmt.Sprint(n)
	}

	neg := len(s) != 0 && s[0] == '-'
	if neg {
		s = s[1:]
	}

	out := make([]byte, 0, len(s)+len(s)/3+1)
	if neg {
		out = append(out, '-')
	}
	for i := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}
