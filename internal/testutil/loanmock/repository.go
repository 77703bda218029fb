package loanmock

import (
	"context"

	domain "fleet-schedule-backend/internal/domain/loan"
)

var (
	_ domain.Repository        = (*Repo)(nil)
	_ domain.PaymentRepository = (*PaymentRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error; reads default to context.Canceled.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetActiveByVehicleIDFn func(ctx context.Context, vehicleID string) (*domain.Loan, error)
	ListByCompanyIDsFn     func(ctx context.Context, companyIDs []string) ([]domain.Loan, error)
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetActiveByVehicleID(ctx context.Context, vehicleID string) (*domain.Loan, error) {
	if m.GetActiveByVehicleIDFn != nil {
		return m.GetActiveByVehicleIDFn(ctx, vehicleID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByCompanyIDs(ctx context.Context, companyIDs []string) ([]domain.Loan, error) {
	if m.ListByCompanyIDsFn != nil {
		return m.ListByCompanyIDsFn(ctx, companyIDs)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

// PaymentRepo is the function-backed domain.PaymentRepository.
type PaymentRepo struct {
	CreateFn         func(ctx context.Context, p *domain.Payment) error
	ListByLoanIDFn   func(ctx context.Context, loanID string) ([]domain.Payment, error)
	ListByLoanIDsFn  func(ctx context.Context, loanIDs []string) ([]domain.Payment, error)
	LastByLoanIDFn   func(ctx context.Context, loanID string) (*domain.Payment, error)
	CountByLoanIDsFn func(ctx context.Context, loanIDs []string) (map[string]int, error)
}

func (m *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *PaymentRepo) ListByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *PaymentRepo) ListByLoanIDs(ctx context.Context, loanIDs []string) ([]domain.Payment, error) {
	if m.ListByLoanIDsFn != nil {
		return m.ListByLoanIDsFn(ctx, loanIDs)
	}
	return nil, context.Canceled
}

func (m *PaymentRepo) LastByLoanID(ctx context.Context, loanID string) (*domain.Payment, error) {
	if m.LastByLoanIDFn != nil {
		return m.LastByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *PaymentRepo) CountByLoanIDs(ctx context.Context, loanIDs []string) (map[string]int, error) {
	if m.CountByLoanIDsFn != nil {
		return m.CountByLoanIDsFn(ctx, loanIDs)
	}
	return nil, context.Canceled
}
