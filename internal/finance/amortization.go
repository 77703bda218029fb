// Package finance is the schedule engine: amortization, payment
// application, debt roll-ups and depreciation. Everything here is a pure
// function over snapshots; persistence lives in the usecases.
package finance

import (
	"fmt"
	"time"

	"fleet-schedule-backend/internal/domain"
	"fleet-schedule-backend/internal/domain/loan"
	"fleet-schedule-backend/pkg/date"
	"fleet-schedule-backend/pkg/money"

	"github.com/shopspring/decimal"
)

// digits kept while raising (1+r) to the term
const powPrecision = 24

var (
	oneHundred = decimal.NewFromInt(100)
	twelve     = decimal.NewFromInt(12)
)

// AmortizationScheduleItem is a projected payment row.
type AmortizationScheduleItem struct {
	PaymentNumber    int         `json:"payment_number"`
	PaymentDate      date.Date   `json:"payment_date"`
	PrincipalPayment money.Money `json:"principal_payment"`
	InterestPayment  money.Money `json:"interest_payment"`
	TotalPayment     money.Money `json:"total_payment"`
	RemainingBalance money.Money `json:"remaining_balance"`
}

type Schedule struct {
	MonthlyPayment money.Money
	Items          []AmortizationScheduleItem
}

// MonthlyRate converts an annual percentage (6.5) to a monthly fraction.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(oneHundred).Div(twelve)
}

// ValidateTerms checks loan inputs before anything is computed.
func ValidateTerms(principal money.Money, annualRatePercent decimal.Decimal, termMonths int) error {
	switch {
	case !principal.IsPositive():
		return fmt.Errorf("%w: principal must be positive, got %s", domain.ErrInvalidTerms, principal)
	case termMonths < 1:
		return fmt.Errorf("%w: term must be at least 1 month, got %d", domain.ErrInvalidTerms, termMonths)
	case annualRatePercent.IsNegative():
		return fmt.Errorf("%w: interest rate must not be negative, got %s", domain.ErrInvalidTerms, annualRatePercent)
	}
	return nil
}

// MonthlyPayment is the fixed installment for the given terms. For a zero
// rate it is principal/term rounded down; the remainder goes to the last row.
func MonthlyPayment(principal money.Money, annualRatePercent decimal.Decimal, termMonths int) (money.Money, error) {
	if err := ValidateTerms(principal, annualRatePercent, termMonths); err != nil {
		return 0, err
	}
	r := MonthlyRate(annualRatePercent)
	if r.IsZero() {
		base, _ := principal.Split(termMonths)
		return base, nil
	}

	// P * r / (1 - (1+r)^-n) == P * r * f / (f - 1) with f = (1+r)^n
	f := pow(decimal.NewFromInt(1).Add(r), termMonths)
	p := decimal.NewFromInt(principal.Cents())
	cents := p.Mul(r).Mul(f).DivRound(f.Sub(decimal.NewFromInt(1)), powPrecision)
	return money.FromCents(cents.Round(0).IntPart()), nil
}

// Amortize builds the full schedule. Row i is due startDate + (i-1) months.
// The final row takes whatever principal is left so the schedule always
// ends at exactly zero and principals sum to the loan amount.
func Amortize(principal money.Money, annualRatePercent decimal.Decimal, termMonths int, startDate time.Time) (Schedule, error) {
	return amortizeFrom(principal, annualRatePercent, termMonths, startDate, 1)
}

// Reproject rebuilds the remaining schedule of a loan from its current
// balance, the original rate and the months not yet paid. paymentsMade is the
// number of recorded payments; numbering and dates continue after them.
func Reproject(l loan.Loan, paymentsMade int) (Schedule, error) {
	if l.Status == loan.StatusPaidOff || l.RemainingBalance.IsZero() {
		return Schedule{MonthlyPayment: l.MonthlyPayment}, nil
	}
	if paymentsMade < 0 {
		paymentsMade = 0
	}
	remaining := l.TermMonths - paymentsMade
	if remaining < 1 {
		// past the term with money still owed: everything is due next month
		remaining = 1
	}
	start := date.AddMonths(l.StartDate, paymentsMade)
	return amortizeFrom(l.RemainingBalance, l.InterestRate, remaining, start, paymentsMade+1)
}

func amortizeFrom(principal money.Money, annualRatePercent decimal.Decimal, termMonths int, startDate time.Time, firstNumber int) (Schedule, error) {
	payment, err := MonthlyPayment(principal, annualRatePercent, termMonths)
	if err != nil {
		return Schedule{}, err
	}
	r := MonthlyRate(annualRatePercent)

	items := make([]AmortizationScheduleItem, 0, termMonths)
	balance := principal
	for i := 0; i < termMonths; i++ {
		interest := balance.MulRate(r)
		var principalPart money.Money
		if i == termMonths-1 {
			principalPart = balance
		} else {
			principalPart = payment.Sub(interest).Max(money.Zero).Min(balance)
		}
		balance = balance.Sub(principalPart)

		items = append(items, AmortizationScheduleItem{
			PaymentNumber:    firstNumber + i,
			PaymentDate:      date.Of(date.AddMonths(startDate, i)),
			PrincipalPayment: principalPart,
			InterestPayment:  interest,
			TotalPayment:     principalPart.Add(interest),
			RemainingBalance: balance,
		})
	}
	return Schedule{MonthlyPayment: payment, Items: items}, nil
}

// pow raises base to a positive integer exponent by squaring, rounding
// intermediates to powPrecision digits.
func pow(base decimal.Decimal, exp int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base).Round(powPrecision)
		}
		base = base.Mul(base).Round(powPrecision)
		exp >>= 1
	}
	return result
}
