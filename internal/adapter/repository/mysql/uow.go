package mysql

import (
	"context"

	"fleet-schedule-backend/internal/domain/loan"
	"fleet-schedule-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// Repos binds every repository to db (a tx or the root handle).
func Repos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:     &LoanRepository{db: db},
		Payments:  &PaymentRepository{db: db},
		Companies: &CompanyRepository{db: db},
		Vehicles:  &VehicleRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := Repos(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
