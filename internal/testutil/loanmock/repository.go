package loanmock

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/dasarathijena330-bit/hamara/internal/domain/loan"
)

// Repo is a function-backed mock satisfying domain.Repository. Unset lookup
// functions behave like an empty table.
type Repo struct {
	CreateFn  func(ctx context.Context, l *domain.Loan) error
	GetByIDFn func(ctx context.Context, id int64) (*domain.Loan, error)
	ListFn    func(ctx context.Context, p domain.ListParams) ([]domain.Loan, error)
	UpdateFn  func(ctx context.Context, id int64, fields map[string]any) error
	DeleteFn  func(ctx context.Context, id int64) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	l.ID = 1
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) List(ctx context.Context, p domain.ListParams) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, p)
	}
	return []domain.Loan{}, nil
}

func (m *Repo) Update(ctx context.Context, id int64, fields map[string]any) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, fields)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
