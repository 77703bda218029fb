package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"fleet-schedule-backend/internal/adapter/middleware"
	"fleet-schedule-backend/internal/domain"
	"fleet-schedule-backend/internal/domain/fleet"
	"fleet-schedule-backend/internal/domain/loan"
	"fleet-schedule-backend/internal/domain/uow"
	"fleet-schedule-backend/internal/finance"
	"fleet-schedule-backend/internal/testutil/fleetmock"
	"fleet-schedule-backend/internal/testutil/loanmock"
	"fleet-schedule-backend/internal/testutil/uowmock"
	fleetUC "fleet-schedule-backend/internal/usecase/fleet"
	loanUC "fleet-schedule-backend/internal/usecase/loan"
	paymentUC "fleet-schedule-backend/internal/usecase/payment"
	"fleet-schedule-backend/internal/usecase/schedule"
	"fleet-schedule-backend/pkg/money"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "handler-test-secret-0123456789"
	owner      = "user-1"
	stranger   = "user-2"
	companyID  = "c0000000000000000000000000000001"
	vehicleID  = "e0000000000000000000000000000001"
	trailerID  = "e0000000000000000000000000000002"
	loanID     = "a0000000000000000000000000000001"
	missingID  = "ffffffffffffffffffffffffffffffff"
)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// world is an in-memory backend behind the repository mocks.
type world struct {
	mu        sync.Mutex
	companies []fleet.Company
	vehicles  []fleet.Vehicle
	loans     []loan.Loan
	payments  []loan.Payment
}

func newWorld() *world {
	return &world{
		companies: []fleet.Company{{CompanyID: companyID, UserID: owner, Name: "Acme Haulage"}},
		vehicles: []fleet.Vehicle{
			{VehicleID: vehicleID, CompanyID: companyID, Type: fleet.VehicleTruck, Make: "Volvo", Model: "VNL", Year: 2022,
				PurchasePrice: money.MustParse("70000.00"), PurchaseDate: day(2022, 1, 1), Status: fleet.VehicleActive},
			{VehicleID: trailerID, CompanyID: companyID, Type: fleet.VehicleTrailer, Make: "Utility", Model: "3000R", Year: 2023,
				PurchasePrice: money.MustParse("30000.00"), PurchaseDate: day(2023, 1, 1), Status: fleet.VehicleActive},
		},
	}
}

func (w *world) withLoan(balance string) *world {
	w.loans = append(w.loans, loan.Loan{
		LoanID:           loanID,
		VehicleID:        vehicleID,
		CompanyID:        companyID,
		Lender:           "First Bank",
		PrincipalAmount:  money.MustParse("50000.00"),
		InterestRate:     decimal.RequireFromString("6"),
		TermMonths:       60,
		StartDate:        day(2024, 1, 1),
		MonthlyPayment:   money.MustParse("966.64"),
		RemainingBalance: money.MustParse(balance),
		Status:           loan.StatusActive,
	})
	return w
}

func (w *world) findLoan(id string) (*loan.Loan, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.loans {
		if w.loans[i].LoanID == id {
			l := w.loans[i]
			return &l, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (w *world) repos() uow.Repos {
	return uow.Repos{
		Companies: &fleetmock.Companies{
			CreateFn: func(_ context.Context, c *fleet.Company) error {
				w.mu.Lock()
				defer w.mu.Unlock()
				w.companies = append(w.companies, *c)
				return nil
			},
			GetByCompanyIDFn: func(_ context.Context, id string) (*fleet.Company, error) {
				w.mu.Lock()
				defer w.mu.Unlock()
				for i := range w.companies {
					if w.companies[i].CompanyID == id {
						c := w.companies[i]
						return &c, nil
					}
				}
				return nil, domain.ErrNotFound
			},
			ListByUserIDFn: func(_ context.Context, uid string) ([]fleet.Company, error) {
				w.mu.Lock()
				defer w.mu.Unlock()
				var out []fleet.Company
				for _, c := range w.companies {
					if c.UserID == uid {
						out = append(out, c)
					}
				}
				return out, nil
			},
		},
		Vehicles: &fleetmock.Vehicles{
			CreateFn: func(_ context.Context, v *fleet.Vehicle) error {
				w.mu.Lock()
				defer w.mu.Unlock()
				v.CreatedAt = time.Now().UTC()
				w.vehicles = append(w.vehicles, *v)
				return nil
			},
			GetByVehicleIDFn: func(_ context.Context, id string) (*fleet.Vehicle, error) {
				w.mu.Lock()
				defer w.mu.Unlock()
				for i := range w.vehicles {
					if w.vehicles[i].VehicleID == id {
						v := w.vehicles[i]
						return &v, nil
					}
				}
				return nil, domain.ErrNotFound
			},
			ListByCompanyIDsFn: func(_ context.Context, ids []string) ([]fleet.Vehicle, error) {
				w.mu.Lock()
				defer w.mu.Unlock()
				var out []fleet.Vehicle
				for _, v := range w.vehicles {
					if slices.Contains(ids, v.CompanyID) {
						out = append(out, v)
					}
				}
				return out, nil
			},
		},
		Loans: &loanmock.Repo{
			CreateFn: func(_ context.Context, l *loan.Loan) error {
				w.mu.Lock()
				defer w.mu.Unlock()
				l.CreatedAt = time.Now().UTC()
				w.loans = append(w.loans, *l)
				return nil
			},
			GetByLoanIDFn:          func(_ context.Context, id string) (*loan.Loan, error) { return w.findLoan(id) },
			GetByLoanIDForUpdateFn: func(_ context.Context, id string) (*loan.Loan, error) { return w.findLoan(id) },
			GetActiveByVehicleIDFn: func(_ context.Context, vid string) (*loan.Loan, error) {
				w.mu.Lock()
				defer w.mu.Unlock()
				for i := range w.loans {
					if w.loans[i].VehicleID == vid && w.loans[i].IsActive() {
						l := w.loans[i]
						return &l, nil
					}
				}
				return nil, domain.ErrNotFound
			},
			ListByCompanyIDsFn: func(_ context.Context, ids []string) ([]loan.Loan, error) {
				w.mu.Lock()
				defer w.mu.Unlock()
				var out []loan.Loan
				for _, l := range w.loans {
					if slices.Contains(ids, l.CompanyID) {
						out = append(out, l)
					}
				}
				return out, nil
			},
			SaveFn: func(_ context.Context, l *loan.Loan) error {
				w.mu.Lock()
				defer w.mu.Unlock()
				for i := range w.loans {
					if w.loans[i].LoanID == l.LoanID {
						w.loans[i] = *l
					}
				}
				return nil
			},
		},
		Payments: &loanmock.PaymentRepo{
			CreateFn: func(_ context.Context, p *loan.Payment) error {
				w.mu.Lock()
				defer w.mu.Unlock()
				p.CreatedAt = time.Now().UTC()
				w.payments = append(w.payments, *p)
				return nil
			},
			ListByLoanIDFn: func(_ context.Context, id string) ([]loan.Payment, error) {
				w.mu.Lock()
				defer w.mu.Unlock()
				var out []loan.Payment
				for _, p := range w.payments {
					if p.LoanID == id {
						out = append(out, p)
					}
				}
				return out, nil
			},
			ListByLoanIDsFn: func(_ context.Context, ids []string) ([]loan.Payment, error) {
				w.mu.Lock()
				defer w.mu.Unlock()
				var out []loan.Payment
				for _, p := range w.payments {
					if slices.Contains(ids, p.LoanID) {
						out = append(out, p)
					}
				}
				return out, nil
			},
			LastByLoanIDFn: func(_ context.Context, id string) (*loan.Payment, error) {
				w.mu.Lock()
				defer w.mu.Unlock()
				for i := len(w.payments) - 1; i >= 0; i-- {
					if w.payments[i].LoanID == id {
						p := w.payments[i]
						return &p, nil
					}
				}
				return nil, domain.ErrNotFound
			},
			CountByLoanIDsFn: func(_ context.Context, ids []string) (map[string]int, error) {
				w.mu.Lock()
				defer w.mu.Unlock()
				out := map[string]int{}
				for _, p := range w.payments {
					if slices.Contains(ids, p.LoanID) {
						out[p.LoanID]++
					}
				}
				return out, nil
			},
		},
	}
}

type noLock struct{}

func (noLock) Acquire(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

type statsEntry struct {
	asOf  time.Time
	stats finance.DashboardStats
}

// memStats is a dashboard cache without expiry.
type memStats struct {
	mu      sync.Mutex
	entries map[string]statsEntry
}

func newMemStats() *memStats { return &memStats{entries: map[string]statsEntry{}} }

func (m *memStats) Get(_ context.Context, userID string, asOf time.Time) (*finance.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[userID]
	if !ok || !e.asOf.Equal(asOf) {
		return nil, nil
	}
	return &e.stats, nil
}

func (m *memStats) Set(_ context.Context, userID string, asOf time.Time, s finance.DashboardStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = statsEntry{asOf: asOf, stats: s}
	return nil
}

func (m *memStats) Invalidate(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
	return nil
}

// handlers wires real usecases over the world.
func (w *world) handlers() Handlers {
	log, _ := logtest.NewNullLogger()
	r := w.repos()
	tx := uowmock.Over(r)
	now := func() time.Time { return day(2025, 1, 1) }
	stats := newMemStats()

	return Handlers{
		Health:   NewHandler(nil),
		Fleet:    NewFleetHandler(fleetUC.NewUsecase(r.Companies, r.Vehicles, stats, log), log),
		Loans:    NewLoanHandler(loanUC.NewUsecase(r.Loans, r.Companies, tx, stats, log), log),
		Payments: NewPaymentHandler(paymentUC.NewUsecase(r.Loans, r.Payments, r.Companies, tx, noLock{}, stats, log), log),
		Schedules: NewScheduleHandler(
			schedule.NewService(r.Companies, r.Vehicles, r.Loans, r.Payments, finance.DefaultPolicy(), stats, log),
			log, now),
	}
}

// server mounts the full route table with real auth and no idempotency store.
func (w *world) server() *echo.Echo {
	e := newEchoWithValidator()
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	RegisterRoutes(e, w.handlers(), middleware.Auth(testSecret), passthrough)
	return e
}

func call(t *testing.T, e *echo.Echo, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			r = bytes.NewBufferString(s)
		} else {
			r = mustJSON(body)
		}
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if user != "" {
		token, err := middleware.GenerateToken(user, testSecret, time.Hour)
		require.NoError(t, err)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}


func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
