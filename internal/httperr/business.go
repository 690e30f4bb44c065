package httperr

import (
	"errors"
)

// Error kinds. Callers branch on these with errors.Is; the Code on a
// BusinessError carries the detail presented to clients.
var (
	ErrValidation       = errors.New("validation")
	ErrInvalidOverride  = errors.New("invalid_override")
	ErrNoQualifiedStaff = errors.New("no_qualified_staff")
	ErrSlotTaken        = errors.New("slot_taken")
	ErrTransient        = errors.New("transient")
	ErrNotFound         = errors.New("not_found")
)

type BusinessError struct {
	Kind error
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Kind
}

func Validation(code string) error {
	return BusinessError{Kind: ErrValidation, Code: code}
}

func InvalidOverride(code string) error {
	return BusinessError{Kind: ErrInvalidOverride, Code: code}
}

func NoQualifiedStaff() error {
	return BusinessError{Kind: ErrNoQualifiedStaff, Code: "no_qualified_staff"}
}

func SlotTaken(code string) error {
	return BusinessError{Kind: ErrSlotTaken, Code: code}
}

func NotFound(code string) error {
	return BusinessError{Kind: ErrNotFound, Code: code}
}

// Transient marks cause as retryable. The cause stays reachable through
// errors.Is / errors.As.
func Transient(cause error) error {
	return &transientError{cause: cause}
}

type transientError struct {
	cause error
}

func (e *transientError) Error() string {
	if e.cause == nil {
		return "transient"
	}
	return "transient: " + e.cause.Error()
}

func (e *transientError) Unwrap() []error {
	return []error{ErrTransient, e.cause}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the client-facing code of err, or "" if err carries none.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	if errors.Is(err, ErrTransient) {
		return "temporarily_unavailable"
	}
	return ""
}
