// Package schedule serves the read side: debt, amortization and
// depreciation schedules plus the dashboard roll-up, all scoped to the
// companies a user owns.
package schedule

import (
	"context"
	"fmt"
	"slices"
	"time"

	"fleet-schedule-backend/internal/domain"
	"fleet-schedule-backend/internal/domain/fleet"
	"fleet-schedule-backend/internal/domain/loan"
	"fleet-schedule-backend/internal/finance"
	"fleet-schedule-backend/pkg/date"

	"github.com/sirupsen/logrus"
)

// StatsCache stores one dashboard per user and date. Get returns nil, nil
// on a miss.
type StatsCache interface {
	Get(ctx context.Context, userID string, asOf time.Time) (*finance.DashboardStats, error)
	Set(ctx context.Context, userID string, asOf time.Time, stats finance.DashboardStats) error
}

type Service struct {
	companies fleet.CompanyRepository
	vehicles  fleet.VehicleRepository
	loans     loan.Repository
	payments  loan.PaymentRepository
	policy    finance.Policy
	cache     StatsCache
	log       logrus.FieldLogger
}

func NewService(
	companies fleet.CompanyRepository,
	vehicles fleet.VehicleRepository,
	loans loan.Repository,
	payments loan.PaymentRepository,
	policy finance.Policy,
	cache StatsCache,
	log logrus.FieldLogger,
) *Service {
	return &Service{
		companies: companies,
		vehicles:  vehicles,
		loans:     loans,
		payments:  payments,
		policy:    policy,
		cache:     cache,
		log:       log,
	}
}

func (s *Service) DebtSchedule(ctx context.Context, userID string) ([]finance.DebtScheduleItem, error) {
	companies, ids, err := s.userCompanies(ctx, userID)
	if err != nil {
		return nil, err
	}
	loans, err := s.loans.ListByCompanyIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehicles.ListByCompanyIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return finance.AggregateDebt(companies, loans, vehicles), nil
}

// AmortizationSchedule projects the remaining payments of one loan, or of
// every active loan the user has when loanID is empty. Projections start
// from the current balance, after the payments already recorded.
func (s *Service) AmortizationSchedule(ctx context.Context, userID, loanID string) ([]finance.AmortizationScheduleItem, error) {
	_, ids, err := s.userCompanies(ctx, userID)
	if err != nil {
		return nil, err
	}

	var loans []loan.Loan
	if loanID != "" {
		l, err := s.loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(ids, l.CompanyID) {
			return nil, fmt.Errorf("loan %s: %w", loanID, domain.ErrNotFound)
		}
		loans = []loan.Loan{*l}
	} else {
		all, err := s.loans.ListByCompanyIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, l := range all {
			if l.IsActive() {
				loans = append(loans, l)
			}
		}
	}

	loanIDs := make([]string, 0, len(loans))
	for _, l := range loans {
		loanIDs = append(loanIDs, l.LoanID)
	}
	made, err := s.payments.CountByLoanIDs(ctx, loanIDs)
	if err != nil {
		return nil, err
	}

	out := []finance.AmortizationScheduleItem{}
	for _, l := range loans {
		sched, err := finance.Reproject(l, made[l.LoanID])
		if err != nil {
			return nil, fmt.Errorf("project loan %s: %w", l.LoanID, err)
		}
		out = append(out, sched.Items...)
	}
	return out, nil
}

// DepreciationSchedule values the vehicles of one company, or all of the
// user's vehicles when companyID is empty, as of asOf.
func (s *Service) DepreciationSchedule(ctx context.Context, userID, companyID string, asOf time.Time) ([]finance.DepreciationScheduleItem, error) {
	_, ids, err := s.userCompanies(ctx, userID)
	if err != nil {
		return nil, err
	}
	if companyID != "" {
		if !slices.Contains(ids, companyID) {
			return nil, fmt.Errorf("company %s: %w", companyID, domain.ErrNotFound)
		}
		ids = []string{companyID}
	}

	vehicles, err := s.vehicles.ListByCompanyIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.policy.Schedule(vehicles, date.Truncate(asOf))
}

// DashboardStats is served from the cache when possible. Cache failures
// only cost a recompute.
func (s *Service) DashboardStats(ctx context.Context, userID string, asOf time.Time) (finance.DashboardStats, error) {
	asOf = date.Truncate(asOf)
	if cached, err := s.cache.Get(ctx, userID, asOf); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("read dashboard cache")
	} else if cached != nil {
		return *cached, nil
	}

	companies, ids, err := s.userCompanies(ctx, userID)
	if err != nil {
		return finance.DashboardStats{}, err
	}
	loans, err := s.loans.ListByCompanyIDs(ctx, ids)
	if err != nil {
		return finance.DashboardStats{}, err
	}
	vehicles, err := s.vehicles.ListByCompanyIDs(ctx, ids)
	if err != nil {
		return finance.DashboardStats{}, err
	}
	stats, err := finance.Dashboard(companies, loans, vehicles, s.policy, asOf)
	if err != nil {
		return finance.DashboardStats{}, err
	}

	if err := s.cache.Set(ctx, userID, asOf, stats); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("write dashboard cache")
	}
	return stats, nil
}

func (s *Service) userCompanies(ctx context.Context, userID string) ([]fleet.Company, []string, error) {
	companies, err := s.companies.ListByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, 0, len(companies))
	for _, c := range companies {
		ids = append(ids, c.CompanyID)
	}
	return companies, ids, nil
}
