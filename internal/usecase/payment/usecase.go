package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-schedule-backend/internal/domain"
	"fleet-schedule-backend/internal/domain/fleet"
	"fleet-schedule-backend/internal/domain/loan"
	"fleet-schedule-backend/internal/domain/uow"
	"fleet-schedule-backend/internal/finance"
	loanUC "fleet-schedule-backend/internal/usecase/loan"
	"fleet-schedule-backend/pkg/id"

	"github.com/sirupsen/logrus"
)

// Locker serializes work on one key across every API replica. Acquire
// returns domain.ErrLoanBusy when the key is held elsewhere.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// StatsInvalidator drops a user's cached dashboard.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

type Usecase struct {
	loans     loan.Repository
	payments  loan.PaymentRepository
	companies fleet.CompanyRepository
	uow       uow.UnitOfWork
	locker    Locker
	stats     StatsInvalidator
	log       logrus.FieldLogger
}

func NewUsecase(
	loans loan.Repository,
	payments loan.PaymentRepository,
	companies fleet.CompanyRepository,
	tx uow.UnitOfWork,
	locker Locker,
	stats StatsInvalidator,
	log logrus.FieldLogger,
) *Usecase {
	return &Usecase{
		loans:     loans,
		payments:  payments,
		companies: companies,
		uow:       tx,
		locker:    locker,
		stats:     stats,
		log:       log,
	}
}

func LockKey(loanID string) string { return "lock:loan:" + loanID }

// Record applies one payment. The loan row is locked for the whole
// transaction and the payment row and the new balance commit together.
func (u *Usecase) Record(ctx context.Context, userID string, in RecordInput) (*Receipt, error) {
	release, err := u.locker.Acquire(ctx, LockKey(in.LoanID))
	if err != nil {
		return nil, err
	}
	defer func() {
		// a fresh context: the request may already be cancelled
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := release(rctx); err != nil {
			u.log.WithError(err).WithField("loan_id", in.LoanID).Warn("release payment lock")
		}
	}()

	var receipt *Receipt
	err = u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		c, err := r.Companies.GetByCompanyID(ctx, l.CompanyID)
		if err != nil {
			return err
		}
		if c.UserID != userID {
			return fmt.Errorf("loan %s: %w", l.LoanID, domain.ErrNotFound)
		}

		state := finance.LedgerState{Loan: *l}
		last, err := r.Payments.LastByLoanID(ctx, l.LoanID)
		switch {
		case err == nil:
			state.LastPaymentDate = last.PaymentDate
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		app, err := finance.ApplyPayment(state, finance.PaymentRequest{
			Amount: in.Amount,
			Date:   in.PaymentDate,
			Payoff: in.Payoff,
		})
		if err != nil {
			return err
		}

		p := app.Payment
		p.PaymentID = id.NewID32()
		if err := r.Payments.Create(ctx, &p); err != nil {
			return err
		}
		*l = app.Loan
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		receipt = &Receipt{Payment: toDTO(&p), Loan: loanUC.ToDTO(l), Unapplied: app.Unapplied}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := u.log.WithFields(logrus.Fields{
		"loan_id":    in.LoanID,
		"payment_id": receipt.Payment.PaymentID,
		"principal":  receipt.Payment.PrincipalPaid.String(),
		"interest":   receipt.Payment.InterestPaid.String(),
		"balance":    receipt.Loan.RemainingBalance.String(),
	})
	entry.Info("payment recorded")
	if receipt.Loan.Status == string(loan.StatusPaidOff) {
		entry.Info("loan paid off")
	}

	if err := u.stats.Invalidate(ctx, userID); err != nil {
		// stale stats expire on their own TTL
		u.log.WithError(err).WithField("user_id", userID).Warn("invalidate dashboard cache")
	}
	return receipt, nil
}

// List returns the loan's payments ordered by date.
func (u *Usecase) List(ctx context.Context, userID, loanID string) ([]PaymentDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	c, err := u.companies.GetByCompanyID(ctx, l.CompanyID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("loan %s: %w", loanID, domain.ErrNotFound)
	}

	ps, err := u.payments.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentDTO, 0, len(ps))
	for i := range ps {
		out = append(out, toDTO(&ps[i]))
	}
	return out, nil
}

// ListAll returns every payment on the user's loans, grouped by loan and
// ordered by date within each loan.
func (u *Usecase) ListAll(ctx context.Context, userID string) ([]PaymentDTO, error) {
	companies, err := u.companies.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []PaymentDTO{}
	if len(companies) == 0 {
		return out, nil
	}
	companyIDs := make([]string, 0, len(companies))
	for _, c := range companies {
		companyIDs = append(companyIDs, c.CompanyID)
	}

	loans, err := u.loans.ListByCompanyIDs(ctx, companyIDs)
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return out, nil
	}
	loanIDs := make([]string, 0, len(loans))
	for _, l := range loans {
		loanIDs = append(loanIDs, l.LoanID)
	}

	ps, err := u.payments.ListByLoanIDs(ctx, loanIDs)
	if err != nil {
		return nil, err
	}
	for i := range ps {
		out = append(out, toDTO(&ps[i]))
	}
	return out, nil
}
