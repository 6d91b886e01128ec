package loan

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dasarathijena330-bit/hamara/internal/domain/loan"
	"github.com/dasarathijena330-bit/hamara/pkg/finance"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type Usecase struct{ repo loan.Repository }

func NewUsecase(r loan.Repository) *Usecase { return &Usecase{repo: r} }

func nowStamp() string { return time.Now().UTC().Format(time.RFC3339) }

func parseID(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, loan.ErrInvalidID
	}
	return n, nil
}

// trimNotes coerces whitespace-only notes to absent.
func trimNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	t := strings.TrimSpace(*notes)
	if t == "" {
		return nil
	}
	return &t
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*loan.Loan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := nowStamp()
	l := &loan.Loan{
		BorrowerName: strings.TrimSpace(in.BorrowerName),
		Amount:       *in.Amount,
		InterestRate: *in.InterestRate,
		StartDate:    in.StartDate,
		Notes:        trimNotes(in.Notes),
		Status:       loan.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Status != "" {
		l.Status = loan.Status(in.Status)
	}

	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (u *Usecase) Get(ctx context.Context, rawID string) (*loan.Loan, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	l, err := u.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loan.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (u *Usecase) List(ctx context.Context, in ListLoansInput) ([]loan.Loan, error) {
	return u.repo.List(ctx, in.normalize())
}

// normalize applies the list contract: sort falls back to createdAt, order
// to desc, limit is clamped to [1,100] with default 10, offset to >= 0.
func (in ListLoansInput) normalize() loan.ListParams {
	p := loan.ListParams{
		Search: in.Search,
		Status: in.Status,
		Sort:   loan.SortCreatedAt,
		Order:  "desc",
		Limit:  defaultLimit,
	}
	switch in.Sort {
	case loan.SortAmount, loan.SortStartDate, loan.SortCreatedAt:
		p.Sort = in.Sort
	}
	if in.Order == "asc" {
		p.Order = "asc"
	}
	if n, err := strconv.Atoi(in.Limit); err == nil {
		p.Limit = n
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if n, err := strconv.Atoi(in.Offset); err == nil && n > 0 {
		p.Offset = n
	}
	return p
}

// Update re-checks existence first (the original contract: an unknown id is
// 404 even before field validation), then applies only the provided fields.
// updatedAt is re-stamped on every call, even an empty body.
func (u *Usecase) Update(ctx context.Context, rawID string, in UpdateLoanInput) (*loan.Loan, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	if _, err := u.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.BorrowerName != nil {
		fields["borrower_name"] = strings.TrimSpace(*in.BorrowerName)
	}
	if in.Amount != nil {
		fields["amount"] = *in.Amount
	}
	if in.InterestRate != nil {
		fields["interest_rate"] = *in.InterestRate
	}
	if in.StartDate != nil {
		fields["start_date"] = *in.StartDate
	}
	if in.Notes != nil {
		fields["notes"] = trimNotes(in.Notes)
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	fields["updated_at"] = nowStamp()

	if err := u.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	l, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Delete returns the pre-delete snapshot. The lookup and the delete are
// separate storage calls; a concurrent delete in between surfaces as an
// internal error, which we accept.
func (u *Usecase) Delete(ctx context.Context, rawID string) (*loan.Loan, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	snap, err := u.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loan.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return snap, nil
}

// Summary aggregates over the whole filtered set, ignoring pagination.
func (u *Usecase) Summary(ctx context.Context, in ListLoansInput) (*finance.Summary, error) {
	p := in.normalize()
	p.Limit = 0
	p.Offset = 0
	rows, err := u.repo.List(ctx, p)
	if err != nil {
		return nil, err
	}
	figures := make([]finance.Figures, 0, len(rows))
	for _, l := range rows {
		figures = append(figures, finance.Figures{
			Amount:       l.Amount,
			InterestRate: l.InterestRate,
			Status:       string(l.Status),
		})
	}
	s := finance.Summarize(figures)
	return &s, nil
}

// Metrics derives EMI, total payable and progress for one loan.
func (u *Usecase) Metrics(ctx context.Context, rawID string) (*LoanMetrics, error) {
	l, err := u.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	// start dates are validated on the way in, so this parse only fails on
	// rows written by something else
	start, err := ParseDate(l.StartDate)
	if err != nil {
		return nil, err
	}
	return &LoanMetrics{
		LoanID:          l.ID,
		MonthlyEMI:      finance.MonthlyEMI(l.Amount, l.InterestRate, finance.DefaultTermMonths),
		TotalPayable:    finance.TotalPayable(l.Amount, l.InterestRate),
		ProgressPercent: finance.ProgressPercent(start, time.Now().UTC(), finance.DefaultTermDays),
	}, nil
}
