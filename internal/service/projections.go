package service

import (
	"github.com/noah-isme/test-registration/internal/models"
	"github.com/noah-isme/test-registration/pkg/export"
)

// TicketSheet is the ticket table of one school.
type TicketSheet struct {
	SchoolDBN string
	Data      export.Dataset
}

// ProjectRejects copies rejected rows verbatim under the original header.
func ProjectRejects(columns []string, rejected []models.RejectedRow) export.Dataset {
	ds := export.NewDataset(columns...)
	for _, r := range rejected {
		ds.Append(r.Row.RawCells()...)
	}
	return ds
}

// ProjectGroups lists distinct group names in order of first appearance.
func ProjectGroups(table *models.EnrichedTable) export.Dataset {
	ds := export.NewDataset(models.GroupColumns...)
	seen := make(map[string]struct{})
	for _, r := range table.Rows() {
		if _, ok := seen[r.GroupName]; ok {
			continue
		}
		seen[r.GroupName] = struct{}{}
		ds.Append(r.GroupName, "", models.ActiveFlag, models.GroupOrganization)
	}
	return ds
}

// ProjectStudents emits one test-taker account per enriched row.
func ProjectStudents(table *models.EnrichedTable) export.Dataset {
	ds := export.NewDataset(models.AccountColumns...)
	for _, r := range table.Rows() {
		ds.Append(r.Username, r.Name, r.Password, r.Email, r.Language, r.Active, r.Role, r.GroupName, r.SchoolDBN)
	}
	return ds
}

// ProjectProctors emits one proctor account per class section.
func ProjectProctors(table *models.EnrichedTable) export.Dataset {
	return staffDataset(table.Proctors())
}

// ProjectAdmins emits the admin accounts of every school year.
func ProjectAdmins(table *models.EnrichedTable) export.Dataset {
	return staffDataset(table.Admins())
}

func staffDataset(accounts []models.StaffAccount) export.Dataset {
	ds := export.NewDataset(models.AccountColumns...)
	for _, a := range accounts {
		ds.Append(a.Username, a.Name, a.Password, "", models.DefaultLanguage, models.ActiveFlag, a.Role, a.GroupName, a.Organization)
	}
	return ds
}

// ProjectTickets groups student credentials by school, schools in order of
// first appearance and rows in input order.
func ProjectTickets(table *models.EnrichedTable) []TicketSheet {
	bySchool := make(map[string]*export.Dataset)
	for _, r := range table.Rows() {
		ds, ok := bySchool[r.SchoolDBN]
		if !ok {
			fresh := export.NewDataset(models.TicketColumns...)
			ds = &fresh
			bySchool[r.SchoolDBN] = ds
		}
		ds.Append(r.GroupName, r.Name, r.Username, r.Password)
	}
	sheets := make([]TicketSheet, 0, len(bySchool))
	for _, dbn := range table.SchoolDBNs() {
		sheets = append(sheets, TicketSheet{SchoolDBN: dbn, Data: *bySchool[dbn]})
	}
	return sheets
}
