package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidStayParameters = errors.New("invalid stay parameters")
	ErrUnauthenticated       = errors.New("requester is not authenticated")
	ErrForbidden             = errors.New("requester may not access this booking")
	ErrNotFound              = errors.New("not found")
	ErrAlreadyCancelled      = errors.New("booking is already cancelled")
	ErrReasonRequired        = errors.New("cancellation reason is required")
	ErrTripCompleted         = errors.New("trip has already completed")
	ErrInsuranceWindowClosed = errors.New("insurance can no longer be added to this booking")
	ErrPlanNotEligible       = errors.New("insurance plan is not eligible for this reservation cost")
	ErrInconsistentCosts     = errors.New("inconsistent cost breakdown")
)

// InputError collects per-field problems with stay parameters.
// It matches ErrInvalidStayParameters under errors.Is.
type InputError struct {
	fields map[string][]string
	cause  error
}

func newInputError() *InputError {
	return &InputError{fields: make(map[string][]string)}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr
	}
	return nil
}

func (ie *InputError) addError(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

func (ie *InputError) fieldsCount() int {
	return len(ie.fields)
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}

func (ie *InputError) Error() string {
	keys := make([]string, 0, len(ie.fields))
	for k := range ie.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(ie.fields[k], ", ")))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidStayParameters, strings.Join(parts, "; "))
}

func (ie *InputError) Unwrap() []error {
	if ie.cause != nil {
		return []error{ErrInvalidStayParameters, ie.cause}
	}
	return []error{ErrInvalidStayParameters}
}
