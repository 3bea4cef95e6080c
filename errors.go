package amortization

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrArithmeticOverflow  = fmt.Errorf("%w: arithmetic overflow", ErrInvalidArgument)
	ErrUnsupportedMethod   = fmt.Errorf("%w: unsupported interest method", ErrInvalidArgument)
	ErrUnknownRatePeriod   = fmt.Errorf("%w: unknown rate period", ErrInvalidArgument)
	ErrUnknownDurationUnit = fmt.Errorf("%w: unknown duration unit", ErrInvalidArgument)
	ErrUnknownCycle        = fmt.Errorf("%w: unknown repayment cycle", ErrInvalidArgument)
	ErrPresetNotFound      = errors.New("preset not found")
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every field-level problem of a request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, f := range v {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidArgument
}

func (v *ValidationErrors) add(field, format string, args ...any) {
	*v = append(*v, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}
