package settings

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError indicates a settings record failed validation. The field
// name lets the editor surface the message next to the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: field %s is invalid (%s)", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Validate validates the LPSettings using the validator. Called before any
// save is attempted; a failure blocks the network call entirely.
func (s *LPSettings) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return wrapValidation(err)
	}
	if len(s.Points()) > 6 {
		return &ValidationError{Field: "points", Message: "at most 6 point pairs are allowed"}
	}
	return nil
}

// Validate validates the RecruitSettings using the validator.
func (s *RecruitSettings) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return wrapValidation(err)
	}
	return nil
}

// wrapValidation converts validator errors into a single message naming the
// first offending field.
func wrapValidation(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return &ValidationError{Field: first.Field(), Message: first.Tag()}
	}
	return &ValidationError{Message: err.Error()}
}
