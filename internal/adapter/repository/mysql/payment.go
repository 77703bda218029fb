package mysql

import (
	"context"

	loanDomain "fleet-schedule-backend/internal/domain/loan"

	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *loanDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) ListByLoanID(ctx context.Context, loanID string) ([]loanDomain.Payment, error) {
	var out []loanDomain.Payment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("payment_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *PaymentRepository) ListByLoanIDs(ctx context.Context, loanIDs []string) ([]loanDomain.Payment, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}
	var out []loanDomain.Payment
	err := r.db.WithContext(ctx).
		Where("loan_id IN ?", loanIDs).
		Order("loan_id ASC, payment_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *PaymentRepository) LastByLoanID(ctx context.Context, loanID string) (*loanDomain.Payment, error) {
	var out loanDomain.Payment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("payment_date DESC, id DESC").
		First(&out).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// CountByLoanIDs leaves loans without payments out of the map.
func (r *PaymentRepository) CountByLoanIDs(ctx context.Context, loanIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(loanIDs))
	if len(loanIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		LoanID string
		N      int
	}
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Payment{}).
		Select("loan_id, COUNT(*) AS n").
		Where("loan_id IN ?", loanIDs).
		Group("loan_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.LoanID] = row.N
	}
	return out, nil
}
