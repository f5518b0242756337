package models

import "slices"

// Constant account attributes expected by the assessment platform.
const (
	RoleTestTaker = "TestTaker"
	RoleProctor   = "PROCTOR"
	RoleAdmin     = "ADMIN"

	DefaultLanguage = "en-US"
	ActiveFlag      = "TRUE"

	GroupOrganization   = "Root"
	AccountOrganization = "ROOT"

	ProctorSuffix = "PCT"
	AdminPrefix   = "ADM"
)

// EnrichedRow is a validated registration with its derived login identity.
// Values are computed once per run and never regenerated by projections.
type EnrichedRow struct {
	Line              int
	CourseCode        string
	SchoolDBN         string
	FirstName         string
	LastName          string
	StudentID         string
	AssignedSectionID string
	SchoolYear        string
	TermID            string
	StudentDOEEmail   string

	GroupName string
	Username  string
	Name      string
	Password  string
	Email     string
	Language  string
	Active    string
	Role      string
}

// StaffAccount is a proctor or admin login drawn during enrichment.
type StaffAccount struct {
	Username     string
	Name         string
	Password     string
	Role         string
	GroupName    string
	Organization string
	SchoolDBN    string
	SchoolYear   string
}

// EnrichedTable is the immutable result of enrichment shared by every output.
type EnrichedTable struct {
	rows     []EnrichedRow
	proctors []StaffAccount
	admins   []StaffAccount
}

// NewEnrichedTable takes ownership of the student rows and staff accounts.
func NewEnrichedTable(rows []EnrichedRow, proctors, admins []StaffAccount) *EnrichedTable {
	return &EnrichedTable{rows: rows, proctors: proctors, admins: admins}
}

// Proctors returns a copy of the proctor accounts, one per class section.
func (t *EnrichedTable) Proctors() []StaffAccount {
	if t == nil {
		return nil
	}
	return slices.Clone(t.proctors)
}

// Admins returns a copy of the admin accounts.
func (t *EnrichedTable) Admins() []StaffAccount {
	if t == nil {
		return nil
	}
	return slices.Clone(t.admins)
}

// Len reports the number of enriched rows.
func (t *EnrichedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of the enriched rows in input order.
func (t *EnrichedTable) Rows() []EnrichedRow {
	if t == nil {
		return nil
	}
	return slices.Clone(t.rows)
}

// SchoolDBNs returns distinct DBNs in order of first appearance.
func (t *EnrichedTable) SchoolDBNs() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, row := range t.Rows() {
		if _, ok := seen[row.SchoolDBN]; ok {
			continue
		}
		seen[row.SchoolDBN] = struct{}{}
		out = append(out, row.SchoolDBN)
	}
	return out
}
