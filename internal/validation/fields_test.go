package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldRules(t *testing.T) {
	cases := []struct {
		name  string
		rule  func(string) bool
		value string
		want  bool
	}{
		{"course code", IsValidCourseCode, "ABC12", true},
		{"course code lowercase", IsValidCourseCode, "fx1se", true},
		{"course code short", IsValidCourseCode, "ABC1", false},
		{"course code long", IsValidCourseCode, "ABC123", false},
		{"course code punctuation", IsValidCourseCode, "AB-12", false},
		{"course code non-ascii", IsValidCourseCode, "ÁBC12", false},
		{"dbn", IsValidSchoolDBN, "10M999", true},
		{"dbn charter", IsValidSchoolDBN, "84K123", true},
		{"dbn short", IsValidSchoolDBN, "10X99", false},
		{"dbn bad borough", IsValidSchoolDBN, "10Z999", false},
		{"dbn lowercase borough", IsValidSchoolDBN, "10m999", false},
		{"student id", IsValidStudentID, "123456789", true},
		{"student id leading zero text", IsValidStudentID, "012345678", true},
		{"student id eight digits", IsValidStudentID, "12345678", false},
		{"student id letters", IsValidStudentID, "12345678A", false},
		{"section zero", IsValidAssignedSectionID, "0", true},
		{"section max", IsValidAssignedSectionID, "99", true},
		{"section padded", IsValidAssignedSectionID, "05", true},
		{"section whitespace", IsValidAssignedSectionID, " 7 ", true},
		{"section too big", IsValidAssignedSectionID, "100", false},
		{"section negative", IsValidAssignedSectionID, "-1", false},
		{"section blank", IsValidAssignedSectionID, "", false},
		{"section decimal", IsValidAssignedSectionID, "5.0", false},
		{"year", IsValidSchoolYear, "2025", true},
		{"year long", IsValidSchoolYear, "20242025", true},
		{"year bare prefix", IsValidSchoolYear, "20", true},
		{"year wrong century", IsValidSchoolYear, "1999", false},
		{"year letters", IsValidSchoolYear, "20AB", false},
		{"year blank", IsValidSchoolYear, "", false},
		{"term 1", IsValidTermID, "1", true},
		{"term 3", IsValidTermID, "3", true},
		{"term 4", IsValidTermID, "4", false},
		{"term padded", IsValidTermID, "01", false},
		{"term blank", IsValidTermID, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rule(tc.value))
		})
	}
}
