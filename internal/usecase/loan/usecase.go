package loan

import (
	"context"
	"errors"
	"fmt"

	"fleet-schedule-backend/internal/domain"
	"fleet-schedule-backend/internal/domain/fleet"
	"fleet-schedule-backend/internal/domain/loan"
	"fleet-schedule-backend/internal/domain/uow"
	"fleet-schedule-backend/internal/finance"
	"fleet-schedule-backend/pkg/date"
	"fleet-schedule-backend/pkg/id"

	"github.com/sirupsen/logrus"
)

// StatsInvalidator drops a user's cached dashboard.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

type Usecase struct {
	loans     loan.Repository
	companies fleet.CompanyRepository
	uow       uow.UnitOfWork
	stats     StatsInvalidator
	log       logrus.FieldLogger
}

func NewUsecase(loans loan.Repository, companies fleet.CompanyRepository, tx uow.UnitOfWork, stats StatsInvalidator, log logrus.FieldLogger) *Usecase {
	return &Usecase{loans: loans, companies: companies, uow: tx, stats: stats, log: log}
}

// Create books a new loan against one of the user's vehicles. The monthly
// payment comes from the amortization formula; the balance starts at the
// principal.
func (u *Usecase) Create(ctx context.Context, userID string, in CreateLoanInput) (*LoanDTO, error) {
	if err := finance.ValidateTerms(in.PrincipalAmount, in.InterestRate, in.TermMonths); err != nil {
		return nil, err
	}
	payment, err := finance.MonthlyPayment(in.PrincipalAmount, in.InterestRate, in.TermMonths)
	if err != nil {
		return nil, err
	}

	var created *loan.Loan
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		v, err := r.Vehicles.GetByVehicleID(ctx, in.VehicleID)
		if err != nil {
			return err
		}
		if err := ownsCompany(ctx, r.Companies, userID, v.CompanyID); err != nil {
			return err
		}

		// Block if the vehicle is already financed.
		active, err := r.Loans.GetActiveByVehicleID(ctx, v.VehicleID)
		switch {
		case err == nil:
			return fmt.Errorf("vehicle %s has loan %s: %w", v.VehicleID, active.LoanID, domain.ErrVehicleHasActiveLoan)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		l := &loan.Loan{
			LoanID:           id.NewID32(),
			VehicleID:        v.VehicleID,
			CompanyID:        v.CompanyID,
			Lender:           in.Lender,
			PrincipalAmount:  in.PrincipalAmount,
			InterestRate:     in.InterestRate,
			TermMonths:       in.TermMonths,
			StartDate:        date.Truncate(in.StartDate),
			MonthlyPayment:   payment,
			RemainingBalance: in.PrincipalAmount,
			Status:           loan.StatusActive,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		created = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"loan_id":         created.LoanID,
		"vehicle_id":      created.VehicleID,
		"monthly_payment": created.MonthlyPayment.String(),
	}).Info("loan created")

	if err := u.stats.Invalidate(ctx, userID); err != nil {
		u.log.WithError(err).WithField("user_id", userID).Warn("invalidate dashboard cache")
	}

	dto := ToDTO(created)
	return &dto, nil
}

// Get returns ErrNotFound for loans outside the user's companies.
func (u *Usecase) Get(ctx context.Context, userID, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := ownsCompany(ctx, u.companies, userID, l.CompanyID); err != nil {
		return nil, err
	}
	dto := ToDTO(l)
	return &dto, nil
}

func (u *Usecase) List(ctx context.Context, userID string) ([]LoanDTO, error) {
	companies, err := u.companies.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(companies))
	for _, c := range companies {
		ids = append(ids, c.CompanyID)
	}
	loans, err := u.loans.ListByCompanyIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, ToDTO(&loans[i]))
	}
	return out, nil
}

func ownsCompany(ctx context.Context, companies fleet.CompanyRepository, userID, companyID string) error {
	c, err := companies.GetByCompanyID(ctx, companyID)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return fmt.Errorf("company %s: %w", companyID, domain.ErrNotFound)
	}
	return nil
}
