package loan

import (
	"time"

	"fleet-schedule-backend/internal/domain/loan"
	"fleet-schedule-backend/pkg/date"
	"fleet-schedule-backend/pkg/money"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	VehicleID       string
	Lender          string
	PrincipalAmount money.Money
	InterestRate    decimal.Decimal // annual percent
	TermMonths      int
	StartDate       time.Time
}

type LoanDTO struct {
	LoanID           string      `json:"id"`
	VehicleID        string      `json:"vehicle_id"`
	CompanyID        string      `json:"company_id"`
	Lender           string      `json:"lender"`
	PrincipalAmount  money.Money `json:"principal_amount"`
	InterestRate     float64     `json:"interest_rate"`
	TermMonths       int         `json:"term_months"`
	StartDate        date.Date   `json:"start_date"`
	MonthlyPayment   money.Money `json:"monthly_payment"`
	RemainingBalance money.Money `json:"remaining_balance"`
	Status           string      `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
}

func ToDTO(l *loan.Loan) LoanDTO {
	return LoanDTO{
		LoanID:           l.LoanID,
		VehicleID:        l.VehicleID,
		CompanyID:        l.CompanyID,
		Lender:           l.Lender,
		PrincipalAmount:  l.PrincipalAmount,
		InterestRate:     l.InterestRate.InexactFloat64(),
		TermMonths:       l.TermMonths,
		StartDate:        date.Of(l.StartDate),
		MonthlyPayment:   l.MonthlyPayment,
		RemainingBalance: l.RemainingBalance,
		Status:           string(l.Status),
		CreatedAt:        l.CreatedAt,
	}
}
