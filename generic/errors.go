/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context; callers
  classify them with errors.Is.

ERROR CATEGORIES:
  1. Invalid input - malformed dates/times, negative day counts
  2. Policy misconfiguration - missing or malformed agreements and tables
  3. Workflow errors - illegal report status transitions
  4. Lookup errors - records the storage collaborator could not find

  Missing data (no end punch, no hire date, no contracted hours) is NOT an
  error anywhere in the engine: it yields well-defined zero results.

USAGE:
  if errors.Is(err, generic.ErrNoAgreement) {
      // surface "no 36-agreement registered" to the operator
  }
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned for a date string that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidTime is returned for a time string that is not HH:MM (00:00-23:59).
	ErrInvalidTime = errors.New("invalid time")

	// ErrInvalidPunchKind is returned for an unknown punch kind.
	ErrInvalidPunchKind = errors.New("invalid punch kind")

	// ErrInvalidRequest is returned for a leave request with an unknown type
	// or status.
	ErrInvalidRequest = errors.New("invalid leave request")

	// ErrDuplicateDay is returned when a leave day is already taken.
	ErrDuplicateDay = errors.New("leave day already taken")

	// ErrNegativeDays is returned when a grant or usage carries negative days.
	ErrNegativeDays = errors.New("negative day count")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrNoAgreement is returned when no overtime agreement covers the
	// requested fiscal year. The evaluator never falls back to a default limit.
	ErrNoAgreement = errors.New("no overtime agreement")

	// ErrInvalidAgreement is returned for an agreement with non-positive limits.
	ErrInvalidAgreement = errors.New("invalid overtime agreement")

	// ErrInvalidPolicy is returned when a policy table violates its shape rules.
	ErrInvalidPolicy = errors.New("invalid policy")

	// ErrInvalidTransition is returned for a report status change that is not
	// allowed by the draft -> submitted -> approved workflow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a rejected input value.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Err, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NoAgreementError names the fiscal year that has no agreement.
type NoAgreementError struct {
	FiscalYear int
}

func (e *NoAgreementError) Error() string {
	return fmt.Sprintf("no overtime agreement registered for fiscal year %d", e.FiscalYear)
}

func (e *NoAgreementError) Unwrap() error { return ErrNoAgreement }

// TransitionError names the refused report status change.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move report from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrInvalidPunchKind) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrNegativeDays) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsPolicyError returns true if the error is a configuration problem the
// operator has to fix (missing agreement, malformed tables).
func IsPolicyError(err error) bool {
	return errors.Is(err, ErrNoAgreement) ||
		errors.Is(err, ErrInvalidAgreement) ||
		errors.Is(err, ErrInvalidPolicy)
}

// IsConflict returns true if the error reports a clash with existing state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateDay) || errors.Is(err, ErrInvalidTransition)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
