package loan

import "context"

// Repository returns domain.ErrNotFound for missing rows.
type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// Locks the row until the surrounding transaction ends.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetActiveByVehicleID(ctx context.Context, vehicleID string) (*Loan, error)
	ListByCompanyIDs(ctx context.Context, companyIDs []string) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	// Ordered by payment_date, then insertion order.
	ListByLoanID(ctx context.Context, loanID string) ([]Payment, error)
	ListByLoanIDs(ctx context.Context, loanIDs []string) ([]Payment, error)
	LastByLoanID(ctx context.Context, loanID string) (*Payment, error)
	CountByLoanIDs(ctx context.Context, loanIDs []string) (map[string]int, error)
}
