package format

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/refcanon/refcanon/pkg/errors"
)

// utf8BOM is stripped from the head of delimited sources before
// parsing; several upstream feeds are exported from spreadsheet tools
// that emit it.
const utf8BOM = "\xef\xbb\xbf"

// DelimitedReader streams rows from a comma-separated source. The first
// row is a header; columns are addressed by header name. Encoding is
// UTF-8.
type DelimitedReader struct {
	csv     *csv.Reader
	header  map[string]int
	columns []string
	line    int
}

// NewDelimited creates a reader over r and consumes the header row.
func NewDelimited(r io.Reader) (*DelimitedReader, error) {
	buffered := bufio.NewReader(r)

	// Strip a UTF-8 byte order mark if present.
	head, err := buffered.Peek(len(utf8BOM))
	if err == nil && string(head) == utf8BOM {
		if _, err := buffered.Discard(len(utf8BOM)); err != nil {
			return nil, errors.WrapIO("read", "delimited source", err)
		}
	}

	cr := csv.NewReader(buffered)
	cr.FieldsPerRecord = -1 // rows validated individually, not aborted wholesale

	headerRow, err := cr.Read()
	if err != nil {
		return nil, errors.NewParseError("csv", "", "missing header row", err)
	}

	header := make(map[string]int, len(headerRow))
	columns := make([]string, 0, len(headerRow))
	for i, name := range headerRow {
		name = strings.TrimSpace(name)
		header[name] = i
		columns = append(columns, name)
	}

	return &DelimitedReader{
		csv:     cr,
		header:  header,
		columns: columns,
		line:    1,
	}, nil
}

// Require verifies that all named columns are present in the header.
// A missing required header is fatal for the whole file.
func (d *DelimitedReader) Require(names ...string) error {
	for _, name := range names {
		if _, ok := d.header[name]; !ok {
			return errors.NewParseError("csv", "", "required header "+name+" missing", nil)
		}
	}
	return nil
}

// Next returns the next row, or io.EOF when the source is exhausted.
func (d *DelimitedReader) Next() (Record, error) {
	fields, err := d.csv.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		d.line++
		return nil, errors.NewParseError("csv", "", "malformed row", err)
	}
	d.line++
	return &delimitedRow{header: d.header, columns: d.columns, fields: fields, line: d.line}, nil
}

// delimitedRow is one parsed CSV row.
type delimitedRow struct {
	header  map[string]int
	columns []string
	fields  []string
	line    int
}

func (r *delimitedRow) Get(name string) string {
	idx, ok := r.header[name]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func (r *delimitedRow) Has(name string) bool {
	_, ok := r.header[name]
	return ok
}

func (r *delimitedRow) Headers() []string {
	return r.columns
}

func (r *delimitedRow) Line() int {
	return r.line
}
