package finance

import (
	"fmt"
	"time"

	"fleet-schedule-backend/internal/domain"
	"fleet-schedule-backend/internal/domain/loan"
	"fleet-schedule-backend/pkg/date"
	"fleet-schedule-backend/pkg/money"
)

// LedgerState is the snapshot a payment is applied against.
type LedgerState struct {
	Loan loan.Loan
	// zero when no payment has been recorded yet
	LastPaymentDate time.Time
}

type PaymentRequest struct {
	Amount money.Money
	Date   time.Time
	// Payoff caps principal at the remaining balance instead of rejecting
	// an overpayment; the excess comes back as Unapplied.
	Payoff bool
}

type Application struct {
	Loan      loan.Loan
	Payment   loan.Payment
	Unapplied money.Money
}

// ApplyPayment splits amount into interest on the current balance and
// principal, and returns the updated loan plus the new payment row. The
// caller persists both in one transaction; the input is not modified.
func ApplyPayment(state LedgerState, req PaymentRequest) (Application, error) {
	l := state.Loan
	if !req.Amount.IsPositive() {
		return Application{}, fmt.Errorf("apply payment to %s: %w", l.LoanID, domain.ErrInvalidAmount)
	}
	if l.Status == loan.StatusPaidOff || l.RemainingBalance.IsZero() {
		return Application{}, fmt.Errorf("apply payment to %s: %w", l.LoanID, domain.ErrLoanAlreadyPaidOff)
	}

	paidOn := date.Truncate(req.Date)
	if paidOn.Before(date.Truncate(l.StartDate)) ||
		(!state.LastPaymentDate.IsZero() && paidOn.Before(date.Truncate(state.LastPaymentDate))) {
		return Application{}, fmt.Errorf("apply payment to %s on %s: %w",
			l.LoanID, paidOn.Format(date.Layout), domain.ErrPaymentOutOfOrder)
	}

	interest := l.RemainingBalance.MulRate(MonthlyRate(l.InterestRate))
	if req.Amount < interest {
		// unpaid interest is not added to the balance
		interest = req.Amount
	}
	principal := req.Amount.Sub(interest)

	var unapplied money.Money
	if principal > l.RemainingBalance {
		if !req.Payoff {
			return Application{}, fmt.Errorf("apply payment to %s: principal %s over balance %s: %w",
				l.LoanID, principal, l.RemainingBalance, domain.ErrOverpaymentExceedsBalance)
		}
		unapplied = principal.Sub(l.RemainingBalance)
		principal = l.RemainingBalance
	}

	l.RemainingBalance = l.RemainingBalance.Sub(principal)
	if l.RemainingBalance.IsZero() {
		l.Status = loan.StatusPaidOff
	}

	return Application{
		Loan: l,
		Payment: loan.Payment{
			LoanID:           l.LoanID,
			PaymentDate:      paidOn,
			PrincipalPaid:    principal,
			InterestPaid:     interest,
			TotalPaid:        principal.Add(interest),
			RemainingBalance: l.RemainingBalance,
		},
		Unapplied: unapplied,
	}, nil
}
