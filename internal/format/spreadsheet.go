package format

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/refcanon/refcanon/pkg/errors"
)

// Sheet is one worksheet loaded from a workbook, with the first row
// interpreted as a header mapping column name to index.
type Sheet struct {
	name    string
	header  map[string]int
	columns []string
	rows    [][]string
}

// OpenSheet loads the named worksheet from the workbook read from r.
// When the named sheet is absent the first sheet is used instead, which
// matches how the legacy workbooks rename their single sheet between
// releases.
func OpenSheet(r io.Reader, sheetName string) (*Sheet, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.WrapParse("xlsx", "", err)
	}
	defer func() {
		_ = workbook.Close()
	}()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParseError("xlsx", "", "workbook has no sheets", nil)
	}

	name := sheets[0]
	for _, candidate := range sheets {
		if candidate == sheetName {
			name = candidate
			break
		}
	}

	rows, err := workbook.GetRows(name)
	if err != nil {
		return nil, errors.WrapParse("xlsx", name, err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParseError("xlsx", name, "sheet is empty", nil)
	}

	header := make(map[string]int, len(rows[0]))
	columns := make([]string, 0, len(rows[0]))
	for i, cell := range rows[0] {
		cell = strings.TrimSpace(cell)
		header[cell] = i
		columns = append(columns, cell)
	}

	return &Sheet{
		name:    name,
		header:  header,
		columns: columns,
		rows:    rows,
	}, nil
}

// Name returns the selected worksheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Require verifies that all named columns are present in the header.
func (s *Sheet) Require(names ...string) error {
	for _, name := range names {
		if _, ok := s.header[name]; !ok {
			return errors.NewParseError("xlsx", s.name, "required header "+name+" missing", nil)
		}
	}
	return nil
}

// Rows returns all data rows after the header, skipping rows that are
// entirely blank.
func (s *Sheet) Rows() []Record {
	return s.RowRange(1, len(s.rows))
}

// RowRange returns the data rows within the half-open 0-based row index
// range [from, to), skipping blank rows. Legacy sheets without reliable
// end markers are read with an explicit fixed range.
func (s *Sheet) RowRange(from, to int) []Record {
	if from < 1 {
		from = 1 // row 0 is the header
	}
	if to > len(s.rows) {
		to = len(s.rows)
	}

	out := make([]Record, 0, to-from)
	for i := from; i < to; i++ {
		if blankRow(s.rows[i]) {
			continue
		}
		out = append(out, &sheetRow{
			header:  s.header,
			columns: s.columns,
			fields:  s.rows[i],
			line:    i + 1,
		})
	}
	return out
}

// blankRow reports whether every cell in the row is empty.
func blankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// sheetRow is one worksheet data row.
type sheetRow struct {
	header  map[string]int
	columns []string
	fields  []string
	line    int
}

func (r *sheetRow) Get(name string) string {
	idx, ok := r.header[name]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func (r *sheetRow) Has(name string) bool {
	_, ok := r.header[name]
	return ok
}

func (r *sheetRow) Headers() []string {
	return r.columns
}

func (r *sheetRow) Line() int {
	return r.line
}
