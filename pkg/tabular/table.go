package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseWarning represents a non-fatal issue encountered while parsing.
type ParseWarning struct {
	Row     int
	Message string
}

// Table is a header row plus data rows, every row padded to the header width.
type Table struct {
	Headers  []string
	Rows     [][]string
	Encoding string
	Warnings []ParseWarning
}

// Index returns the position of the named column or -1.
func (t *Table) Index(column string) int {
	for i, h := range t.Headers {
		if h == column {
			return i
		}
	}
	return -1
}

// Parse picks a parser from the file extension: .xlsx/.xlsm are read as
// workbooks, .tsv as tab-delimited text and everything else as CSV.
func Parse(filename string, data []byte) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ParseXLSX(bytes.NewReader(data))
	case ".tsv":
		return ParseDelimited(data, '\t')
	default:
		return ParseDelimited(data, ',')
	}
}

// ParseDelimited parses delimited text with a header row. Short rows are padded
// with empty cells and reported as warnings; rows with more cells than the
// header, or malformed quoting, fail the whole parse.
func ParseDelimited(data []byte, comma rune) (*Table, error) {
	decoded, encoding, err := Decode(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row found")
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}

	table := &Table{Headers: cleanHeaders(headers), Encoding: encoding}
	width := len(table.Headers)
	rowNum := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("parse row %d: %w", rowNum, err)
		}
		if len(row) > width {
			return nil, fmt.Errorf("parse row %d: expected %d fields, saw %d", rowNum, width, len(row))
		}
		if len(row) < width {
			table.Warnings = append(table.Warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), width),
			})
			row = pad(row, width)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ParseXLSX reads the first worksheet of a workbook. Trailing empty cells that
// excelize omits are restored as empty strings and fully blank rows are skipped.
func ParseXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook does not contain any sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file: no header row found")
	}

	table := &Table{Headers: cleanHeaders(rows[0]), Encoding: "xlsx"}
	width := len(table.Headers)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if len(row) > width {
			return nil, fmt.Errorf("parse row %d: expected %d fields, saw %d", i+2, width, len(row))
		}
		table.Rows = append(table.Rows, pad(row, width))
	}
	return table, nil
}

func cleanHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
