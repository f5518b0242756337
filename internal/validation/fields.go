// Package validation holds the field rules a registration row must satisfy
// before accounts are generated for it.
package validation

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	courseCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{5}$`)
	schoolDBNPattern  = regexp.MustCompile(`^[0-9]{2}[MXQKR][0-9]{3}$`)
	studentIDPattern  = regexp.MustCompile(`^[0-9]{9}$`)
	schoolYearPattern = regexp.MustCompile(`^20[0-9]*$`)
)

// IsValidCourseCode accepts exactly five ASCII letters or digits.
func IsValidCourseCode(code string) bool {
	return courseCodePattern.MatchString(code)
}

// IsValidSchoolDBN accepts two digits, a borough letter and three digits.
func IsValidSchoolDBN(dbn string) bool {
	return schoolDBNPattern.MatchString(dbn)
}

// IsValidStudentID accepts exactly nine decimal digits.
func IsValidStudentID(id string) bool {
	return studentIDPattern.MatchString(id)
}

// IsValidAssignedSectionID accepts an integer between 0 and 99 inclusive.
func IsValidAssignedSectionID(section string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(section))
	if err != nil {
		return false
	}
	return n >= 0 && n <= 99
}

// IsValidSchoolYear accepts digits starting with "20".
func IsValidSchoolYear(year string) bool {
	return schoolYearPattern.MatchString(year)
}

// IsValidTermID accepts "1", "2" or "3".
func IsValidTermID(term string) bool {
	switch term {
	case "1", "2", "3":
		return true
	default:
		return false
	}
}
