package models

import (
	"slices"
	"strconv"
)

// Registration roster column names.
const (
	ColumnCourseCode        = "CourseCode"
	ColumnSchoolDBN         = "SchoolDBN"
	ColumnFirstName         = "FirstName"
	ColumnLastName          = "LastName"
	ColumnStudentID         = "StudentID"
	ColumnAssignedSectionID = "AssignedSectionId"
	ColumnLEPFlag           = "LEPFlag"
	ColumnGradeLevel        = "GradeLevel"
	ColumnCreatedDate       = "CreatedDate"
	ColumnUpdatedDate       = "UpdatedDate"
	ColumnSchoolYear        = "SchoolYear"
	ColumnTermID            = "TermId"
	ColumnGUID              = "GUID"
	ColumnStudentDOEEmail   = "StudentDOEEmail"
)

// RequiredColumns lists the registration schema in its canonical order.
var RequiredColumns = []string{
	ColumnCourseCode, ColumnSchoolDBN, ColumnFirstName, ColumnLastName, ColumnStudentID,
	ColumnAssignedSectionID, ColumnLEPFlag, ColumnGradeLevel, ColumnCreatedDate,
	ColumnUpdatedDate, ColumnSchoolYear, ColumnTermID, ColumnGUID, ColumnStudentDOEEmail,
}

// ValueKind tags how a cell was stored.
type ValueKind int

const (
	KindMissing ValueKind = iota
	KindText
	KindInteger
)

// Value is one loosely typed roster cell. Raw keeps the text exactly as read;
// Text returns the normalized form validators and projections work on.
type Value struct {
	Raw  string
	Kind ValueKind
	Int  int64
}

// TextValue wraps a textual cell.
func TextValue(raw string) Value {
	if raw == "" {
		return Value{Kind: KindMissing}
	}
	return Value{Raw: raw, Kind: KindText}
}

// IntegerValue wraps a cell stored as an integer.
func IntegerValue(raw string, n int64) Value {
	return Value{Raw: raw, Kind: KindInteger, Int: n}
}

// Text returns the normalized text. Integer cells render in plain decimal, so
// leading zeros present in Raw are not preserved.
func (v Value) Text() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindText:
		return v.Raw
	default:
		return ""
	}
}

// RegistrationRow is one input record. Line is the 1-based data row number.
type RegistrationRow struct {
	Line    int
	columns map[string]int
	cells   []Value
}

// NewRegistrationRow binds cells to a column index shared across a table.
func NewRegistrationRow(line int, columns map[string]int, cells []Value) RegistrationRow {
	return RegistrationRow{Line: line, columns: columns, cells: cells}
}

// Value returns the cell of the named column; unknown columns are Missing.
func (r RegistrationRow) Value(column string) Value {
	idx, ok := r.columns[column]
	if !ok || idx >= len(r.cells) {
		return Value{Kind: KindMissing}
	}
	return r.cells[idx]
}

// Text returns the normalized text of the named column.
func (r RegistrationRow) Text(column string) string {
	return r.Value(column).Text()
}

// RawCells returns the original cell text in column order.
func (r RegistrationRow) RawCells() []string {
	out := make([]string, len(r.cells))
	for i, cell := range r.cells {
		out[i] = cell.Raw
	}
	return out
}

// RegistrationTable holds the loaded roster.
type RegistrationTable struct {
	Source   string
	Encoding string
	Columns  []string
	Rows     []RegistrationRow
}

// MissingColumns reports which of the required columns the table lacks.
func (t *RegistrationTable) MissingColumns(required []string) []string {
	missing := make([]string, 0)
	for _, col := range required {
		if !slices.Contains(t.Columns, col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// ValidationVerdict is the per-row outcome of the field validators.
type ValidationVerdict struct {
	Valid        bool
	FailedFields []string
}

// RejectedRow pairs a rejected input row with the fields that failed.
type RejectedRow struct {
	Row     RegistrationRow
	Verdict ValidationVerdict
}
