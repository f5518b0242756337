package service

import (
	"strconv"

	"github.com/noah-isme/test-registration/internal/models"
)

// DefaultNumAdmins is the configured number of admin accounts per school year
// when none is given.
const DefaultNumAdmins = 2

// Enricher derives login identities from validated rows.
type Enricher struct {
	passwords *PasswordGenerator
	numAdmins int
}

// NewEnricher constructs an Enricher. Zero or fewer numAdmins creates no admins.
func NewEnricher(passwords *PasswordGenerator, numAdmins int) *Enricher {
	if passwords == nil {
		passwords = NewPasswordGenerator(0)
	}
	return &Enricher{passwords: passwords, numAdmins: numAdmins}
}

// Enrich derives every random and composed field exactly once. Student
// passwords are drawn first in input order, then proctor and admin passwords.
func (e *Enricher) Enrich(rows []models.RegistrationRow) *models.EnrichedTable {
	enriched := make([]models.EnrichedRow, 0, len(rows))
	for _, row := range rows {
		enriched = append(enriched, e.enrichRow(row))
	}
	return models.NewEnrichedTable(enriched, e.proctors(enriched), e.admins(enriched))
}

func (e *Enricher) enrichRow(row models.RegistrationRow) models.EnrichedRow {
	r := models.EnrichedRow{
		Line:              row.Line,
		CourseCode:        row.Text(models.ColumnCourseCode),
		SchoolDBN:         row.Text(models.ColumnSchoolDBN),
		FirstName:         row.Text(models.ColumnFirstName),
		LastName:          row.Text(models.ColumnLastName),
		StudentID:         row.Text(models.ColumnStudentID),
		AssignedSectionID: row.Text(models.ColumnAssignedSectionID),
		SchoolYear:        row.Text(models.ColumnSchoolYear),
		TermID:            row.Text(models.ColumnTermID),
		StudentDOEEmail:   row.Text(models.ColumnStudentDOEEmail),
		Email:             "",
		Language:          models.DefaultLanguage,
		Active:            models.ActiveFlag,
		Role:              models.RoleTestTaker,
	}
	r.GroupName = GroupName(r.CourseCode, r.SchoolYear, r.SchoolDBN, r.AssignedSectionID)
	r.Username = r.StudentDOEEmail
	r.Name = r.FirstName + r.LastName
	r.Password = e.passwords.Generate(Initial(r.FirstName)+Initial(r.LastName), "")
	return r
}

type proctorKey struct {
	group, dbn, section, course, year string
}

func (e *Enricher) proctors(rows []models.EnrichedRow) []models.StaffAccount {
	seen := make(map[proctorKey]struct{})
	out := make([]models.StaffAccount, 0)
	for _, r := range rows {
		key := proctorKey{r.GroupName, r.SchoolDBN, r.AssignedSectionID, r.CourseCode, r.SchoolYear}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		username := r.GroupName + models.ProctorSuffix
		out = append(out, models.StaffAccount{
			Username:     username,
			Name:         username,
			Password:     e.passwords.Generate("", models.ProctorSuffix),
			Role:         models.RoleProctor,
			GroupName:    r.GroupName,
			Organization: models.AccountOrganization,
			SchoolDBN:    r.SchoolDBN,
			SchoolYear:   r.SchoolYear,
		})
	}
	return out
}

type schoolYearKey struct {
	dbn, year string
}

func (e *Enricher) admins(rows []models.EnrichedRow) []models.StaffAccount {
	seen := make(map[schoolYearKey]struct{})
	out := make([]models.StaffAccount, 0)
	for _, r := range rows {
		key := schoolYearKey{r.SchoolDBN, r.SchoolYear}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		for i := 1; i <= e.numAdmins; i++ {
			username := AdminUsername(i, r.SchoolYear, r.SchoolDBN)
			out = append(out, models.StaffAccount{
				Username:     username,
				Name:         username,
				Password:     e.passwords.Generate("", models.AdminPrefix),
				Role:         models.RoleAdmin,
				GroupName:    "",
				Organization: models.AccountOrganization,
				SchoolDBN:    r.SchoolDBN,
				SchoolYear:   r.SchoolYear,
			})
		}
	}
	return out
}

// GroupName composes course + two-digit year + "@" + DBN + "-" + section.
func GroupName(courseCode, schoolYear, schoolDBN, sectionID string) string {
	return courseCode + lastTwo(schoolYear) + "@" + schoolDBN + "-" + sectionID
}

// AdminUsername composes "ADM" + ordinal + "-" + two-digit year + "@" + DBN.
func AdminUsername(ordinal int, schoolYear, schoolDBN string) string {
	return models.AdminPrefix + strconv.Itoa(ordinal) + "-" + lastTwo(schoolYear) + "@" + schoolDBN
}

func lastTwo(s string) string {
	if len(s) <= 2 {
		return s
	}
	return s[len(s)-2:]
}
