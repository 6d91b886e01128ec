package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id int64) (*Loan, error)
	List(ctx context.Context, p ListParams) ([]Loan, error)
	// Update applies only the given columns; the caller is responsible for
	// stamping updated_at. The existence check happens in the usecase, in a
	// separate storage call (known, accepted race with concurrent deletes).
	Update(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}
