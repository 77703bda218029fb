package uowmock

import (
	"context"
	"errors"
	"testing"

	"fleet-schedule-backend/internal/domain/loan"
	"fleet-schedule-backend/internal/domain/uow"
	"fleet-schedule-backend/internal/testutil/fleetmock"
	"fleet-schedule-backend/internal/testutil/loanmock"
)

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := New() // no funcs set
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinLoanTx(ctx, "LN-X", func(uow.Repos, *loan.Loan) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinLoanTx default: want errUnimplemented, got %v", err)
	}
}

func TestOver_ForwardsRepos(t *testing.T) {
	ctx := context.Background()

	loans := &loanmock.Repo{}
	payments := &loanmock.PaymentRepo{}
	companies := &fleetmock.Companies{}
	repos := uow.Repos{Loans: loans, Payments: payments, Companies: companies}

	called := false
	err := Over(repos).WithinTx(ctx, func(r uow.Repos) error {
		called = true
		if r.Loans != loans || r.Payments != payments || r.Companies != companies {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("WithinTx: err=%v called=%v", err, called)
	}
}

func TestOver_WithinLoanTx_LoadsLockedLoan(t *testing.T) {
	ctx := context.Background()
	locked := &loan.Loan{ID: 7, LoanID: "LN-7"}

	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*loan.Loan, error) {
			if loanID != "LN-7" {
				t.Fatalf("loanID mismatch, got %s", loanID)
			}
			return locked, nil
		},
	}

	err := Over(uow.Repos{Loans: loans}).WithinLoanTx(ctx, "LN-7", func(r uow.Repos, l *loan.Loan) error {
		if l != locked {
			t.Fatalf("WithinLoanTx: loan not forwarded correctly: %+v", l)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: unexpected err: %v", err)
	}
}

func TestOver_WithinLoanTx_PropagatesLookupError(t *testing.T) {
	sentinel := errors.New("gone")
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(context.Context, string) (*loan.Loan, error) { return nil, sentinel },
	}

	err := Over(uow.Repos{Loans: loans}).WithinLoanTx(context.Background(), "LN-X", func(uow.Repos, *loan.Loan) error {
		t.Fatalf("callback must not run when the loan lookup fails")
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithinLoanTx: want %v, got %v", sentinel, err)
	}
}
