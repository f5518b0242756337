package models

// Exam-scan extract columns produced by the charter school query.
const (
	ExamScanStudentName = "STUDENT_NAM"
	ExamScanRecType     = "RECTYPE"
	ExamScanSchoolYear  = "SCHOOL_YEAR"
)

// ExamScanColumns is the column order of an exam-scan extract.
var ExamScanColumns = []string{
	ColumnStudentDOEEmail, ExamScanStudentName, ColumnStudentID, ColumnSchoolDBN,
	ColumnCourseCode, ColumnGradeLevel, ExamScanRecType, ExamScanSchoolYear,
	ColumnTermID, ColumnAssignedSectionID,
}

// ExamScanRow is one charter-school exam registration as extracted.
type ExamScanRow struct {
	StudentDOEEmail   string
	StudentName       string
	StudentID         string
	SchoolDBN         string
	CourseCode        string
	GradeLevel        string
	RecType           string
	SchoolYear        string
	TermID            string
	AssignedSectionID string
}
