package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/test-registration/internal/models"
	appErrors "github.com/noah-isme/test-registration/pkg/errors"
	"github.com/noah-isme/test-registration/pkg/export"
	"github.com/noah-isme/test-registration/pkg/tabular"
)

// DefaultSectionID replaces a blank section in exam-scan extracts.
const DefaultSectionID = "99"

// RosterMergeOptions selects and filters the extracts to merge.
type RosterMergeOptions struct {
	PublicFile     string
	CharterFile    string
	IncludePublic  bool
	IncludeCharter bool
	// TestCodes keeps only rows whose CourseCode is listed; empty keeps all.
	TestCodes map[string]struct{}
	// Year keeps public rows of that SchoolYear and charter rows of the
	// "<year><year+1>" school year; zero keeps all.
	Year          int
	CharterPrefix string
	Output        string
}

// RosterMergeResult reports what was merged.
type RosterMergeResult struct {
	Path           string
	PublicRecords  int
	CharterRecords int
}

// RosterService normalizes roster extracts into the registration schema.
type RosterService struct {
	storage fileStorage
	csv     csvRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewRosterService constructs a RosterService.
func NewRosterService(storage fileStorage, logger *zap.Logger, now func() time.Time) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &RosterService{storage: storage, csv: export.NewCSVExporter(), logger: logger, now: now}
}

// ResolveSources mirrors the -C/-P switches: naming only one source selects
// it alone, naming both or neither selects both.
func ResolveSources(charter, public bool) (includeCharter, includePublic bool) {
	if charter != public {
		return charter, public
	}
	return true, true
}

// ParseTestList reads a comma-separated list of exam codes.
func ParseTestList(content string) map[string]struct{} {
	codes := make(map[string]struct{})
	for _, code := range strings.Split(strings.TrimSpace(content), ",") {
		code = strings.TrimSpace(code)
		if code != "" {
			codes[code] = struct{}{}
		}
	}
	return codes
}

// SplitStudentName splits "Last, First" on the first comma. Without a comma
// the whole name is the first name.
func SplitStudentName(full string) (first, last string) {
	lastPart, firstPart, found := strings.Cut(full, ",")
	if !found {
		return strings.TrimSpace(full), ""
	}
	return strings.TrimSpace(firstPart), strings.TrimSpace(lastPart)
}

// TransformExamScan maps an exam-scan extract row onto the registration columns.
func TransformExamScan(row models.ExamScanRow) []string {
	first, last := SplitStudentName(row.StudentName)
	section := row.AssignedSectionID
	if strings.TrimSpace(section) == "" {
		section = DefaultSectionID
	}
	year := row.SchoolYear
	if len(year) > 4 {
		year = year[:4]
	}
	return []string{
		row.CourseCode,
		row.SchoolDBN,
		first,
		last,
		row.StudentID,
		section,
		"",
		row.GradeLevel,
		"",
		"",
		year,
		row.TermID,
		"",
		row.StudentDOEEmail,
	}
}

// Merge reads the selected extracts, filters and normalizes them, and writes
// a timestamped roster. Public rows precede charter rows.
func (s *RosterService) Merge(ctx context.Context, opts RosterMergeOptions) (*RosterMergeResult, error) {
	merged := export.NewDataset(models.RequiredColumns...)
	result := &RosterMergeResult{}

	if opts.IncludePublic && opts.PublicFile != "" {
		rows, err := s.loadPublic(ctx, opts)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			merged.Append(r...)
		}
		result.PublicRecords = len(rows)
	}
	if opts.IncludeCharter && opts.CharterFile != "" {
		rows, err := s.loadCharter(ctx, opts)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			merged.Append(r...)
		}
		result.CharterRecords = len(rows)
	}
	s.logger.Info("roster extracts retrieved",
		zap.Int("public_students", result.PublicRecords),
		zap.Int("charter_students", result.CharterRecords),
	)

	payload, err := s.csv.Render(merged)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrInternal, err, "render merged roster")
	}
	name := timestampedName(opts.Output, s.now())
	path, err := s.storage.Save(name, payload)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrOutputWrite, err, fmt.Sprintf("write merged roster %s", name))
	}
	result.Path = path
	s.logger.Info("data successfully written", zap.String("file", path), zap.Int("records", merged.Len()))
	return result, nil
}

func (s *RosterService) loadPublic(ctx context.Context, opts RosterMergeOptions) ([][]string, error) {
	table, err := readTable(ctx, opts.PublicFile, models.RequiredColumns)
	if err != nil {
		return nil, err
	}
	year := ""
	if opts.Year > 0 {
		year = strconv.Itoa(opts.Year)
	}
	out := make([][]string, 0, len(table.Rows))
	for _, raw := range table.Rows {
		row := make([]string, len(models.RequiredColumns))
		for i, col := range models.RequiredColumns {
			row[i] = raw[table.Index(col)]
		}
		if !keepCourse(opts.TestCodes, row[0]) {
			continue
		}
		if year != "" && row[10] != year {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *RosterService) loadCharter(ctx context.Context, opts RosterMergeOptions) ([][]string, error) {
	table, err := readTable(ctx, opts.CharterFile, models.ExamScanColumns)
	if err != nil {
		return nil, err
	}
	year := ""
	if opts.Year > 0 {
		year = fmt.Sprintf("%d%d", opts.Year, opts.Year+1)
	}
	cell := func(raw []string, col string) string { return raw[table.Index(col)] }
	out := make([][]string, 0, len(table.Rows))
	for _, raw := range table.Rows {
		scan := models.ExamScanRow{
			StudentDOEEmail:   cell(raw, models.ColumnStudentDOEEmail),
			StudentName:       cell(raw, models.ExamScanStudentName),
			StudentID:         cell(raw, models.ColumnStudentID),
			SchoolDBN:         cell(raw, models.ColumnSchoolDBN),
			CourseCode:        cell(raw, models.ColumnCourseCode),
			GradeLevel:        cell(raw, models.ColumnGradeLevel),
			RecType:           cell(raw, models.ExamScanRecType),
			SchoolYear:        cell(raw, models.ExamScanSchoolYear),
			TermID:            cell(raw, models.ColumnTermID),
			AssignedSectionID: cell(raw, models.ColumnAssignedSectionID),
		}
		if !keepCourse(opts.TestCodes, scan.CourseCode) {
			continue
		}
		if year != "" && scan.SchoolYear != year {
			continue
		}
		if opts.CharterPrefix != "" && !strings.HasPrefix(scan.SchoolDBN, opts.CharterPrefix) {
			continue
		}
		out = append(out, TransformExamScan(scan))
	}
	return out, nil
}

func readTable(ctx context.Context, path string, required []string) (*tabular.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.WrapAs(appErrors.ErrInputNotFound, err, fmt.Sprintf("input file %q was not found", path))
		}
		return nil, appErrors.WrapAs(appErrors.ErrInputUnreadable, err, fmt.Sprintf("read input file %q", path))
	}
	table, err := tabular.Parse(path, data)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrInputUnreadable, err, fmt.Sprintf("could not parse %q", path))
	}
	missing := make([]string, 0)
	for _, col := range required {
		if table.Index(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrMissingColumns, fmt.Sprintf("missing required columns in %s: %v", path, missing))
	}
	return table, nil
}

func keepCourse(codes map[string]struct{}, course string) bool {
	if len(codes) == 0 {
		return true
	}
	_, ok := codes[course]
	return ok
}

func timestampedName(output string, now time.Time) string {
	if output == "" {
		output = "registrations.csv"
	}
	ext := filepath.Ext(output)
	base := strings.TrimSuffix(output, ext)
	return fmt.Sprintf("%s_%s%s", base, now.Format(TimestampLayout), ext)
}
