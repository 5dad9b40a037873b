package engine

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Row is one parsed CSV line: a single series of one country.
type Row struct {
	CountryName string
	CountryCode string
	SeriesName  string
	SeriesCode  string
	Values      []float64
}

// Dataset is a parsed CSV file together with a fingerprint of its bytes.
type Dataset struct {
	Path     string
	Rows     []Row
	Checksum uint64
}

// --- 1. FIELD PARSERS ---

// parseValue maps "" and "-1" to MissingValue.
func parseValue(b []byte) (float64, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "-1" {
		return MissingValue, nil
	}
	return strconv.ParseFloat(string(b), 64)
}

// --- 2. ROW PARSER ---

// ParseRows splits content into rows. Fields are separated by bare commas; the
// first four are country name, country code, series name and series code, the
// rest are yearly values. Blank lines are skipped.
func ParseRows(content []byte) ([]Row, error) {
	sep := []byte{','}
	rows := make([]Row, 0, bytes.Count(content, []byte{'\n'})+1)

	pos := 0
	lineNo := 0
	for pos < len(content) {
		// 1. Find line end
		next := len(content)
		if i := bytes.IndexByte(content[pos:], '\n'); i != -1 {
			next = pos + i
		}
		line := bytes.TrimSuffix(content[pos:next], []byte{'\r'})
		pos = next + 1
		lineNo++

		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		// 2. Fixed leading fields
		var head [4][]byte
		rest := line
		for f := 0; f < len(head); f++ {
			field, tail, found := bytes.Cut(rest, sep)
			head[f] = field
			rest = tail
			if !found {
				rest = nil
				break
			}
		}

		row := Row{
			CountryName: string(head[0]),
			CountryCode: string(head[1]),
			SeriesName:  string(head[2]),
			SeriesCode:  string(head[3]),
		}

		// 3. Values, one per year
		field := 4
		for rest != nil {
			val, tail, found := bytes.Cut(rest, sep)
			if !found && len(val) == 0 {
				// trailing comma
				break
			}
			v, err := parseValue(val)
			if err != nil {
				return nil, &RowError{Line: lineNo, Field: field, Err: err}
			}
			row.Values = append(row.Values, v)
			field++
			if !found {
				break
			}
			rest = tail
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// ReadDataset reads and parses the CSV file at path.
func ReadDataset(path string) (*Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	rows, err := ParseRows(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &Dataset{Path: path, Rows: rows, Checksum: xxh3.Hash(content)}, nil
}

// RowsForCode keeps the rows belonging to code, in file order.
func RowsForCode(rows []Row, code string) []Row {
	var out []Row
	for _, r := range rows {
		if r.CountryCode == code {
			out = append(out, r)
		}
	}
	return out
}

// newSeries turns a row into a series, assigning years from BaseYear.
func newSeries(r Row) *TimeSeries {
	s := NewTimeSeries(r.SeriesName, r.SeriesCode)
	for _, v := range r.Values {
		s.AppendValue(v)
	}
	return s
}
