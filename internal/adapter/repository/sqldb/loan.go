package sqldb

import (
	"context"

	"gorm.io/gorm"

	loanDomain "github.com/dasarathijena330-bit/hamara/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

// sort field → column; unknown fields were already normalized away, but the
// fallback stays as a whitelist against raw SQL in ORDER BY.
var sortColumns = map[string]string{
	loanDomain.SortAmount:    "amount",
	loanDomain.SortStartDate: "start_date",
	loanDomain.SortCreatedAt: "created_at",
}

func (r *LoanRepository) List(ctx context.Context, p loanDomain.ListParams) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{})
	if p.Search != "" {
		q = q.Where("borrower_name LIKE ?", "%"+p.Search+"%")
	}
	if p.Status != "" {
		q = q.Where("status = ?", p.Status)
	}

	col, ok := sortColumns[p.Sort]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if p.Order == "asc" {
		dir = "ASC"
	}
	q = q.Order(col + " " + dir)

	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}

	out := make([]loanDomain.Loan, 0)
	return out, q.Find(&out).Error
}

func (r *LoanRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *LoanRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&loanDomain.Loan{}).Error
}
