package payment

import (
	"time"

	"fleet-schedule-backend/internal/domain/loan"
	loanUC "fleet-schedule-backend/internal/usecase/loan"
	"fleet-schedule-backend/pkg/date"
	"fleet-schedule-backend/pkg/money"
)

type RecordInput struct {
	LoanID      string
	Amount      money.Money
	PaymentDate time.Time
	// accept more than the balance and hand the rest back
	Payoff bool
}

type PaymentDTO struct {
	PaymentID        string      `json:"id"`
	LoanID           string      `json:"loan_id"`
	PaymentDate      date.Date   `json:"payment_date"`
	PrincipalPaid    money.Money `json:"principal_paid"`
	InterestPaid     money.Money `json:"interest_paid"`
	TotalPaid        money.Money `json:"total_paid"`
	RemainingBalance money.Money `json:"remaining_balance"`
	CreatedAt        time.Time   `json:"created_at"`
}

type Receipt struct {
	Payment   PaymentDTO     `json:"payment"`
	Loan      loanUC.LoanDTO `json:"loan"`
	Unapplied money.Money    `json:"unapplied"`
}

func toDTO(p *loan.Payment) PaymentDTO {
	return PaymentDTO{
		PaymentID:        p.PaymentID,
		LoanID:           p.LoanID,
		PaymentDate:      date.Of(p.PaymentDate),
		PrincipalPaid:    p.PrincipalPaid,
		InterestPaid:     p.InterestPaid,
		TotalPaid:        p.TotalPaid,
		RemainingBalance: p.RemainingBalance,
		CreatedAt:        p.CreatedAt,
	}
}
