package loan

// CreateLoanInput is the POST /loans payload. Field order matters: the
// validator reports the first failing field in declaration order
// (borrowerName → amount → interestRate → startDate → status).
type CreateLoanInput struct {
	BorrowerName string   `json:"borrowerName" validate:"notblank"`
	Amount       *float64 `json:"amount" validate:"required,gt=0"`
	InterestRate *float64 `json:"interestRate" validate:"required,gte=0,lte=100"`
	StartDate    string   `json:"startDate" validate:"required,dateparse"`
	Notes        *string  `json:"notes"`
	Status       string   `json:"status" validate:"omitempty,loanstatus"`
}

// UpdateLoanInput is the PUT/PATCH /loans payload. Every field is optional;
// a present field is re-checked with the same rule as on create.
type UpdateLoanInput struct {
	BorrowerName *string  `json:"borrowerName" validate:"omitempty,notblank"`
	Amount       *float64 `json:"amount" validate:"omitempty,gt=0"`
	InterestRate *float64 `json:"interestRate" validate:"omitempty,gte=0,lte=100"`
	StartDate    *string  `json:"startDate" validate:"omitempty,dateparse"`
	Notes        *string  `json:"notes"`
	Status       *string  `json:"status" validate:"omitempty,loanstatus"`
}

// ListLoansInput carries the raw query parameters; normalization (fallbacks,
// clamping) happens in the usecase so the handler stays thin.
type ListLoansInput struct {
	Search string
	Status string
	Sort   string
	Order  string
	Limit  string
	Offset string
}

// LoanMetrics is the derived view of a single loan.
type LoanMetrics struct {
	LoanID          int64   `json:"loanId"`
	MonthlyEMI      float64 `json:"monthlyEMI"`
	TotalPayable    float64 `json:"totalPayable"`
	ProgressPercent float64 `json:"progressPercent"`
}
