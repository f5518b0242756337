package tabular

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
)

func TestParseDelimitedCSV(t *testing.T) {
	data := []byte("CourseCode, SchoolDBN\nABC12,10M999\n\nXYZ99,02X123\n")
	table, err := Parse("roster.csv", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"CourseCode", "SchoolDBN"}, table.Headers)
	assert.Equal(t, [][]string{{"ABC12", "10M999"}, {"XYZ99", "02X123"}}, table.Rows)
	assert.Equal(t, "utf-8", table.Encoding)
	assert.Equal(t, 1, table.Index("SchoolDBN"))
	assert.Equal(t, -1, table.Index("TermId"))
}

func TestParseDelimitedPadsShortRows(t *testing.T) {
	table, err := ParseDelimited([]byte("a,b,c\n1,2\n"), ',')
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"1", "2", ""}, table.Rows[0])
	require.Len(t, table.Warnings, 1)
	assert.Equal(t, 2, table.Warnings[0].Row)
}

func TestParseDelimitedRejectsLongRows(t *testing.T) {
	_, err := ParseDelimited([]byte("a,b\n1,2,3\n"), ',')
	require.Error(t, err)
}

func TestParseDelimitedRejectsBadQuotes(t *testing.T) {
	_, err := ParseDelimited([]byte("a,b\n\"1,2\n3,\"4\"x\n"), ',')
	require.Error(t, err)
}

func TestParseDelimitedEmptyFile(t *testing.T) {
	_, err := ParseDelimited(nil, ',')
	require.Error(t, err)
}

func TestParseHeaderOnly(t *testing.T) {
	table, err := ParseDelimited([]byte("a,b\n"), ',')
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestParseTSV(t *testing.T) {
	table, err := Parse("roster.tsv", []byte("a\tb\n1\t2\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}}, table.Rows)
}

func TestDecodeUTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("FirstName\nAna\n")...)
	table, err := ParseDelimited(data, ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"FirstName"}, table.Headers)
	assert.Equal(t, "utf-8-bom", table.Encoding)
}

func TestDecodeUTF16LE(t *testing.T) {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := encoder.Bytes([]byte("FirstName,LastName\nZoë,Núñez\n"))
	require.NoError(t, err)

	table, err := ParseDelimited(data, ',')
	require.NoError(t, err)
	assert.Equal(t, "utf-16le", table.Encoding)
	assert.Equal(t, [][]string{{"Zoë", "Núñez"}}, table.Rows)
}

func TestDecodeWindows1252(t *testing.T) {
	decoded, name, err := Decode([]byte("Jos\xe9"))
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", name)
	assert.Equal(t, "José", string(decoded))
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"CourseCode", "SchoolDBN", "TermId"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"ABC12", "10M999", "2"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"XYZ99", "02X123"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Parse("roster.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"CourseCode", "SchoolDBN", "TermId"}, table.Headers)
	assert.Equal(t, [][]string{{"ABC12", "10M999", "2"}, {"XYZ99", "02X123", ""}}, table.Rows)
}

func TestParseXLSXGarbage(t *testing.T) {
	_, err := ParseXLSX(bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)
}
