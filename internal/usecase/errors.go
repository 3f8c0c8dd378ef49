package usecase

import (
	"errors"

	"github.com/pudey33/DreamRate/pkg/utils"
)

var (
	// ErrValidation marks input rejected before it reached the store.
	ErrValidation = errors.New("validation failed")

	ErrNotSignedIn = errors.New("not signed in")
)

// ValidationError carries the rejected fields. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
