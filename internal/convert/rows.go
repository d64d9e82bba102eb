package convert

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one input record keyed by normalized column name, in header order.
// When two header cells normalize to the same name the later one wins.
type Row struct {
	Line   int
	keys   []string
	values map[string]string
}

// NormalizeKey is the single normalization applied to column names, both
// the header cells and the configured target columns.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func newRow(line int, header, record []string) Row {
	r := Row{Line: line, values: make(map[string]string, len(header))}
	for i, key := range header {
		if key == "" {
			continue
		}
		// Short records simply lack the trailing columns.
		if i >= len(record) {
			break
		}
		if _, dup := r.values[key]; !dup {
			r.keys = append(r.keys, key)
		}
		r.values[key] = strings.TrimSpace(record[i])
	}
	return r
}

// Get returns the trimmed value of a normalized column and whether the
// column exists in this row.
func (r Row) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r Row) String() string {
	parts := make([]string, 0, len(r.keys))
	for _, k := range r.keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, r.values[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// rowReader reads delimited text: a header line followed by records.
type rowReader struct {
	csv    *csv.Reader
	header []string
}

func newRowReader(text string, delim rune) (*rowReader, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	header := make([]string, len(head))
	for i, h := range head {
		header[i] = NormalizeKey(h)
	}
	return &rowReader{csv: cr, header: header}, nil
}

// Header returns the normalized header cells.
func (rr *rowReader) Header() []string {
	return rr.header
}

// Next returns the next row, or io.EOF after the last one.
func (rr *rowReader) Next() (Row, error) {
	rec, err := rr.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		return Row{}, fmt.Errorf("read row: %w", err)
	}
	line, _ := rr.csv.FieldPos(0)
	return newRow(line, rr.header, rec), nil
}
