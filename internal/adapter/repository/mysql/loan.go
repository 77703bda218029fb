package mysql

import (
	"context"

	loanDomain "fleet-schedule-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *LoanRepository) Tx(ctx context.Context, fn func(repo loanDomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LoanRepository{db: tx})
	})
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// GetByLoanIDForUpdate issues SELECT ... FOR UPDATE; only meaningful inside a tx.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (r *LoanRepository) GetActiveByVehicleID(ctx context.Context, vehicleID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND status = ?", vehicleID, loanDomain.StatusActive).
		Order("id DESC").
		First(&out).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (r *LoanRepository) ListByCompanyIDs(ctx context.Context, companyIDs []string) ([]loanDomain.Loan, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Where("company_id IN ?", companyIDs).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
