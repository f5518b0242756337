package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/test-registration/internal/models"
)

// Validator tags bound to the field rules.
const (
	TagCourseCode        = "coursecode"
	TagSchoolDBN         = "schooldbn"
	TagStudentID         = "studentid"
	TagAssignedSectionID = "sectionid"
	TagSchoolYear        = "schoolyear"
	TagTermID            = "termid"
)

var rules = map[string]func(string) bool{
	TagCourseCode:        IsValidCourseCode,
	TagSchoolDBN:         IsValidSchoolDBN,
	TagStudentID:         IsValidStudentID,
	TagAssignedSectionID: IsValidAssignedSectionID,
	TagSchoolYear:        IsValidSchoolYear,
	TagTermID:            IsValidTermID,
}

// ValidatedColumns lists the checked columns in the order failures are reported.
var ValidatedColumns = []string{
	models.ColumnCourseCode,
	models.ColumnSchoolDBN,
	models.ColumnStudentID,
	models.ColumnAssignedSectionID,
	models.ColumnSchoolYear,
	models.ColumnTermID,
}

// RegistrationFields is the validated subset of a row in normalized text form.
type RegistrationFields struct {
	CourseCode        string `col:"CourseCode" validate:"coursecode"`
	SchoolDBN         string `col:"SchoolDBN" validate:"schooldbn"`
	StudentID         string `col:"StudentID" validate:"studentid"`
	AssignedSectionID string `col:"AssignedSectionId" validate:"sectionid"`
	SchoolYear        string `col:"SchoolYear" validate:"schoolyear"`
	TermID            string `col:"TermId" validate:"termid"`
}

// FieldsFromRow extracts the validated fields of a row.
func FieldsFromRow(row models.RegistrationRow) RegistrationFields {
	return RegistrationFields{
		CourseCode:        row.Text(models.ColumnCourseCode),
		SchoolDBN:         row.Text(models.ColumnSchoolDBN),
		StudentID:         row.Text(models.ColumnStudentID),
		AssignedSectionID: row.Text(models.ColumnAssignedSectionID),
		SchoolYear:        row.Text(models.ColumnSchoolYear),
		TermID:            row.Text(models.ColumnTermID),
	}
}

// RowValidator runs every field rule over a registration row.
type RowValidator struct {
	validate *validator.Validate
}

// NewRowValidator registers the field rules on validate (a fresh instance when nil).
func NewRowValidator(validate *validator.Validate) (*RowValidator, error) {
	if validate == nil {
		validate = validator.New()
	}
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("col"); name != "" {
			return name
		}
		return field.Name
	})
	for tag, rule := range rules {
		err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return rule(fl.Field().String())
		})
		if err != nil {
			return nil, fmt.Errorf("register %s rule: %w", tag, err)
		}
	}
	return &RowValidator{validate: validate}, nil
}

// Validate checks all rules; the row passes only when every rule holds.
func (v *RowValidator) Validate(row models.RegistrationRow) models.ValidationVerdict {
	return v.ValidateFields(FieldsFromRow(row))
}

// ValidateFields checks already extracted fields.
func (v *RowValidator) ValidateFields(fields RegistrationFields) models.ValidationVerdict {
	err := v.validate.Struct(fields)
	if err == nil {
		return models.ValidationVerdict{Valid: true}
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return models.ValidationVerdict{Valid: false, FailedFields: append([]string(nil), ValidatedColumns...)}
	}
	failed := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		failed = append(failed, fe.Field())
	}
	return models.ValidationVerdict{Valid: false, FailedFields: failed}
}
