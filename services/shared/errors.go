// Package shared holds the error taxonomy used by every learning service.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds, matched with errors.Is.
var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrNotUnlocked            = errors.New("not unlocked")
	ErrPreconditionNotMet     = errors.New("precondition not met")
	ErrAlreadyEnrolled        = errors.New("already enrolled")
	ErrCourseAlreadyCompleted = errors.New("course already completed")
	ErrAlreadyApplied         = errors.New("already applied")
	ErrDuplicateCertificate   = errors.New("duplicate certificate")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrCourseUnavailable      = errors.New("course unavailable")
	ErrAccessDenied           = errors.New("access denied")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidInput           = errors.New("invalid input")
)

// DomainError carries the failing operation next to its kind.
type DomainError struct {
	Domain  string // enrollment, progress, assessment, certificate, internship
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

// NewError builds a DomainError with a formatted message.
func NewError(domain, op string, kind error, format string, args ...interface{}) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// RetryOnConflict runs fn and, if it lost a race, runs it once more against
// freshly read state.
func RetryOnConflict(fn func() error) error {
	err := fn()
	if errors.Is(err, ErrConcurrentModification) {
		return fn()
	}
	return err
}
