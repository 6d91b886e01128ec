package loan

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// Loan is a single borrower record. Dates and timestamps are stored as
// ISO 8601 text (UTC), which is also how they go out on the wire.
type Loan struct {
	ID           int64   `gorm:"primaryKey;column:id" json:"id"`
	BorrowerName string  `gorm:"column:borrower_name;size:255;not null" json:"borrowerName"`
	Amount       float64 `gorm:"column:amount;not null" json:"amount"`
	InterestRate float64 `gorm:"column:interest_rate;not null" json:"interestRate"`
	StartDate    string  `gorm:"column:start_date;size:64;not null" json:"startDate"`
	Notes        *string `gorm:"column:notes;type:text" json:"notes"`
	Status       Status  `gorm:"column:status;size:16;not null;default:'active'" json:"status"`
	CreatedAt    string  `gorm:"column:created_at;size:64;not null" json:"createdAt"`
	UpdatedAt    string  `gorm:"column:updated_at;size:64;not null" json:"updatedAt"`
}

func (Loan) TableName() string { return "loans" }

// Sort fields accepted by List; anything else falls back to createdAt.
const (
	SortAmount    = "amount"
	SortStartDate = "startDate"
	SortCreatedAt = "createdAt"
)

// ListParams is the normalized query contract for List. Search matches
// borrower_name as a substring, Status requires exact equality; both are
// ANDed when both are set. Limit 0 means no limit (used by aggregates).
type ListParams struct {
	Search string
	Status string
	Sort   string
	Order  string
	Limit  int
	Offset int
}
