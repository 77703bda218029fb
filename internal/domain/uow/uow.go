package uow

import (
	"context"

	"fleet-schedule-backend/internal/domain/fleet"
	"fleet-schedule-backend/internal/domain/loan"
)

type Repos struct {
	Loans     loan.Repository
	Payments  loan.PaymentRepository
	Companies fleet.CompanyRepository
	Vehicles  fleet.VehicleRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
