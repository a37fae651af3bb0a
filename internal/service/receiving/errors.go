package receiving

import (
	"errors"
	"fmt"
)

// Validation failures that block a step transition.
var (
	ErrBranchRequired   = errors.New("branch must be selected")
	ErrNoItems          = errors.New("at least one product must be selected")
	ErrInvalidUnitCost  = errors.New("unit cost must be greater than zero")
	ErrSerialMismatch   = errors.New("serial numbers do not match quantity")
	ErrSupplierRequired = errors.New("supplier must be selected")
)

// Workflow and service errors.
var (
	ErrItemNotFound        = errors.New("item not found")
	ErrNegativeCost        = errors.New("unit cost cannot be negative")
	ErrNotFinalStep        = errors.New("receipt can only be submitted from the final step")
	ErrNotPrintable        = errors.New("document is available from the final step")
	ErrAlreadySubmitted    = errors.New("receipt has already been submitted")
	ErrSubmissionInFlight  = errors.New("receipt submission already in progress")
	ErrCorruptSnapshot     = errors.New("invalid workflow snapshot")
	ErrProductBranch       = errors.New("product does not belong to the receipt branch")
	ErrSupplierBranch      = errors.New("supplier does not belong to the receipt branch")
	ErrInactiveCatalogItem = errors.New("product or supplier is inactive")
)

// ValidationError wraps a validation sentinel with the step and details that
// produced it.
type ValidationError struct {
	Step    Step
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("step %d: %s: %s", e.Step, e.Err.Error(), e.Details)
	}
	return fmt.Sprintf("step %d: %s", e.Step, e.Err.Error())
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(step Step, err error, details string) error {
	return &ValidationError{Step: step, Err: err, Details: details}
}
