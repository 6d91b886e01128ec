package loan

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dasarathijena330-bit/hamara/internal/domain/loan"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// non-empty after trim
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// parses to a valid calendar date
	_ = v.RegisterValidation("dateparse", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	// one of the three lifecycle states
	_ = v.RegisterValidation("loanstatus", func(fl validator.FieldLevel) bool {
		return loan.Status(fl.Field().String()).Valid()
	})
	return v
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// ParseDate accepts the date shapes clients actually send: plain dates,
// RFC3339 timestamps with or without zone, and US-style slashed dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

type fieldRule struct{ code, message string }

// keyed by StructField.tag; messages differ slightly between create and
// update, matching the wire contract
var createRules = map[string]fieldRule{
	"BorrowerName.notblank": {loan.CodeMissingBorrowerName, "Borrower name is required"},
	"Amount.required":       {loan.CodeInvalidAmount, "Amount is required and must be a positive number"},
	"Amount.gt":             {loan.CodeInvalidAmount, "Amount is required and must be a positive number"},
	"InterestRate.required": {loan.CodeInvalidInterestRate, "Interest rate is required and must be between 0 and 100"},
	"InterestRate.gte":      {loan.CodeInvalidInterestRate, "Interest rate is required and must be between 0 and 100"},
	"InterestRate.lte":      {loan.CodeInvalidInterestRate, "Interest rate is required and must be between 0 and 100"},
	"StartDate.required":    {loan.CodeMissingStartDate, "Start date is required"},
	"StartDate.dateparse":   {loan.CodeInvalidStartDate, "Start date must be a valid date string"},
	"Status.loanstatus":     {loan.CodeInvalidStatus, "Status must be one of active, completed or overdue"},
}

var updateRules = map[string]fieldRule{
	"BorrowerName.notblank": {loan.CodeMissingBorrowerName, "Borrower name must be a non-empty string"},
	"Amount.gt":             {loan.CodeInvalidAmount, "Amount must be a positive number"},
	"InterestRate.gte":      {loan.CodeInvalidInterestRate, "Interest rate must be between 0 and 100"},
	"InterestRate.lte":      {loan.CodeInvalidInterestRate, "Interest rate must be between 0 and 100"},
	"StartDate.dateparse":   {loan.CodeInvalidStartDate, "Start date must be a valid date string"},
	"Status.loanstatus":     {loan.CodeInvalidStatus, "Status must be one of active, completed or overdue"},
}

func (in CreateLoanInput) validate() error { return firstRuleError(validate.Struct(in), createRules) }
func (in UpdateLoanInput) validate() error { return firstRuleError(validate.Struct(in), updateRules) }

// firstRuleError converts the first validator failure into the stable
// single-error contract. Checks run in struct declaration order, so ve[0]
// is always the earliest offending field.
func firstRuleError(err error, rules map[string]fieldRule) error {
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok || len(ve) == 0 {
		return err
	}
	first := ve[0]
	if r, ok := rules[first.StructField()+"."+first.Tag()]; ok {
		return &loan.ValidationError{Code: r.code, Message: r.message}
	}
	return &loan.ValidationError{
		Code:    "VALIDATION_FAILED",
		Message: first.Field() + " failed " + first.Tag() + " validation",
	}
}
