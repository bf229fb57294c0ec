package validator

import (
	"time"

	"github.com/siwes-platform/logbook-service/internal/errors"
	"github.com/siwes-platform/logbook-service/internal/models"
)

// BusinessValidator holds the validation rules that span more than one field
// and cannot be expressed as struct tags.
type BusinessValidator struct{}

func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{}
}

// ValidateRegistration enforces the registration rules: students must carry a
// matriculation number.
func (bv *BusinessValidator) ValidateRegistration(role models.UserRole, matricNumber string) ValidationErrors {
	var errs ValidationErrors

	if role == models.RoleStudent && matricNumber == "" {
		errs = append(errs, *errors.NewValidationErrorWithRule(
			"matric_number", "is required for students", "required", matricNumber))
	}

	return errs
}

// ValidateLogTimes rejects entries whose time_out is not after time_in.
// Both values have already passed the time_of_day tag check.
func (bv *BusinessValidator) ValidateLogTimes(timeIn, timeOut string) ValidationErrors {
	var errs ValidationErrors

	in, errIn := time.Parse("15:04", timeIn)
	out, errOut := time.Parse("15:04", timeOut)
	if errIn != nil || errOut != nil {
		return errs
	}

	if !out.After(in) {
		errs = append(errs, *errors.NewValidationErrorWithRule(
			"time_out", "must be after time_in", "time_order", timeOut))
	}

	return errs
}
