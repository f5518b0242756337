package models

// OutputKind enumerates the tables a run can emit.
type OutputKind string

const (
	OutputRejects  OutputKind = "rejects"
	OutputGroups   OutputKind = "groups"
	OutputStudents OutputKind = "testtakers"
	OutputProctors OutputKind = "proctors"
	OutputAdmins   OutputKind = "admins"
	OutputTickets  OutputKind = "tickets"
)

// Account table columns shared by test takers, proctors and admins.
var AccountColumns = []string{
	"user_username", "user_name", "user_password", "user_email", "user_language",
	"user_active", "group_role", "group_name", "user_organizationId",
}

// GroupColumns is the group table layout.
var GroupColumns = []string{"group_name", "group_description", "group_active", "group_organizationId"}

// TicketColumns is the per-school ticket layout.
var TicketColumns = []string{"Group Name", "StudentName", "Username", "Password"}

// Selection records which optional outputs the operator asked for.
type Selection struct {
	Students bool
	Proctors bool
	Admins   bool
	Tickets  bool
}

// Resolve applies the default of emitting everything when nothing was selected.
func (s Selection) Resolve() Selection {
	if !s.Students && !s.Proctors && !s.Admins && !s.Tickets {
		return Selection{Students: true, Proctors: true, Admins: true, Tickets: true}
	}
	return s
}

// PasswordMismatchRisk is true when student accounts and tickets are not
// produced together, so their passwords come from different runs.
func (s Selection) PasswordMismatchRisk() bool {
	return s.Students != s.Tickets
}
