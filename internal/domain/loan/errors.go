package loan

import "errors"

// Stable machine-readable codes returned to API clients.
const (
	CodeInvalidID           = "INVALID_ID"
	CodeNotFound            = "LOAN_NOT_FOUND"
	CodeMissingBorrowerName = "MISSING_BORROWER_NAME"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeInvalidInterestRate = "INVALID_INTEREST_RATE"
	CodeMissingStartDate    = "MISSING_START_DATE"
	CodeInvalidStartDate    = "INVALID_START_DATE"
	CodeInvalidStatus       = "INVALID_STATUS"
)

var (
	// ErrInvalidID means the id was missing, non-numeric or not positive.
	ErrInvalidID = errors.New("valid id is required")
	// ErrNotFound means the id parsed fine but no row exists.
	ErrNotFound = errors.New("loan not found")
)

// ValidationError is a single per-field rejection. Validation stops at the
// first failing field, so callers only ever see one of these per request.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
