package service

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/test-registration/internal/models"
	appErrors "github.com/noah-isme/test-registration/pkg/errors"
	"github.com/noah-isme/test-registration/pkg/storage"
)

const examScanHeader = "StudentDOEEmail,STUDENT_NAM,StudentID,SchoolDBN,CourseCode,GradeLevel,RECTYPE,SCHOOL_YEAR,TermId,AssignedSectionId"

func TestSplitStudentName(t *testing.T) {
	cases := []struct {
		in, first, last string
	}{
		{"Lopez, Ana", "Ana", "Lopez"},
		{"  Lopez ,Ana Maria ", "Ana Maria", "Lopez"},
		{"Smith, John, Jr", "John, Jr", "Smith"},
		{"Madonna", "Madonna", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			first, last := SplitStudentName(tc.in)
			assert.Equal(t, tc.first, first)
			assert.Equal(t, tc.last, last)
		})
	}
}

func TestTransformExamScan(t *testing.T) {
	row := models.ExamScanRow{
		StudentDOEEmail: "ana@schools.nyc.gov",
		StudentName:     "Lopez, Ana",
		StudentID:       "123456789",
		SchoolDBN:       "84K123",
		CourseCode:      "ABC12",
		GradeLevel:      "09",
		RecType:         "R",
		SchoolYear:      "20252026",
		TermID:          "2",
	}
	out := TransformExamScan(row)
	require.Len(t, out, len(models.RequiredColumns))
	assert.Equal(t, []string{
		"ABC12", "84K123", "Ana", "Lopez", "123456789", "99", "", "09", "", "", "2025", "2", "", "ana@schools.nyc.gov",
	}, out)

	row.AssignedSectionID = "4"
	assert.Equal(t, "4", TransformExamScan(row)[5])
}

func TestParseTestList(t *testing.T) {
	codes := ParseTestList(" ABC12, XYZ34 ,,\n")
	assert.Len(t, codes, 2)
	assert.Contains(t, codes, "ABC12")
	assert.Contains(t, codes, "XYZ34")
	assert.Empty(t, ParseTestList(""))
}

func TestResolveSources(t *testing.T) {
	charter, public := ResolveSources(false, false)
	assert.True(t, charter)
	assert.True(t, public)

	charter, public = ResolveSources(true, false)
	assert.True(t, charter)
	assert.False(t, public)

	charter, public = ResolveSources(false, true)
	assert.False(t, charter)
	assert.True(t, public)

	charter, public = ResolveSources(true, true)
	assert.True(t, charter)
	assert.True(t, public)
}

func writeFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestRosterServiceMerge(t *testing.T) {
	in := t.TempDir()
	public := writeFile(t, in, "public.csv",
		rosterHeader,
		"ABC12,10M999,Ana,Lopez,012345678,5,,9,,,2025,2,,ana@x",
		"QQQ99,10M999,Ben,Ng,223456789,5,,9,,,2025,2,,ben@x",
		"ABC12,10M999,Old,Year,323456789,5,,9,,,2024,2,,old@x",
	)
	charter := writeFile(t, in, "charter.csv",
		examScanHeader,
		"cy@x,\"Oh, Cy\",423456789,84K123,ABC12,10,R,20252026,1,",
		"dee@x,Dee,523456789,12X100,ABC12,10,R,20252026,1,3",
		"eve@x,\"Fa, Eve\",623456789,84K124,XYZ34,10,R,20252026,1,2",
	)

	out := t.TempDir()
	store, err := storage.NewLocalStorage(out)
	require.NoError(t, err)
	now := func() time.Time { return pinnedNow }
	svc := NewRosterService(store, nil, now)

	result, err := svc.Merge(context.Background(), RosterMergeOptions{
		PublicFile:     public,
		CharterFile:    charter,
		IncludePublic:  true,
		IncludeCharter: true,
		TestCodes:      ParseTestList("ABC12,XYZ34"),
		Year:           2025,
		CharterPrefix:  "84",
		Output:         "registrations.csv",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "registrations_20250102_030405.csv"), result.Path)
	assert.Equal(t, 1, result.PublicRecords)
	assert.Equal(t, 2, result.CharterRecords)

	records := readCSV(t, result.Path)
	require.Len(t, records, 4)
	assert.Equal(t, models.RequiredColumns, records[0])
	assert.Equal(t, "012345678", records[1][4])
	assert.Equal(t, []string{"ABC12", "84K123", "Cy", "Oh", "423456789", "99", "", "10", "", "", "2025", "1", "", "cy@x"}, records[2])
	assert.Equal(t, "Eve", records[3][2])
}

func TestRosterServiceMergeCharterOnly(t *testing.T) {
	in := t.TempDir()
	charter := writeFile(t, in, "charter.csv", examScanHeader, "cy@x,\"Oh, Cy\",423456789,84K123,ABC12,10,R,20252026,1,7")

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewRosterService(store, nil, func() time.Time { return pinnedNow })

	result, err := svc.Merge(context.Background(), RosterMergeOptions{
		PublicFile:     filepath.Join(in, "not-read.csv"),
		CharterFile:    charter,
		IncludeCharter: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.PublicRecords)
	assert.Equal(t, 1, result.CharterRecords)
	assert.True(t, strings.HasSuffix(result.Path, "registrations_20250102_030405.csv"))
}

func TestRosterServiceMergeMissingColumns(t *testing.T) {
	in := t.TempDir()
	charter := writeFile(t, in, "charter.csv", "StudentDOEEmail,STUDENT_NAM", "a@x,A")

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	_, err = NewRosterService(store, nil, nil).Merge(context.Background(), RosterMergeOptions{
		CharterFile:    charter,
		IncludeCharter: true,
	})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, appErrors.ErrMissingColumns))
}
