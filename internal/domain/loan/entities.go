package loan

import (
	"time"

	"fleet-schedule-backend/pkg/money"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusPaidOff Status = "paid_off"
)

type Loan struct {
	ID               uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID           string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"id"`
	VehicleID        string          `gorm:"size:32;index:idx_loans_vehicle" json:"vehicle_id"`
	CompanyID        string          `gorm:"size:32;index:idx_loans_company_status" json:"company_id"`
	Lender           string          `gorm:"size:255" json:"lender"`
	PrincipalAmount  money.Money     `gorm:"column:principal_amount;type:bigint" json:"principal_amount"`
	InterestRate     decimal.Decimal `gorm:"type:decimal(7,4)" json:"interest_rate"`
	TermMonths       int             `gorm:"column:term_months" json:"term_months"`
	StartDate        time.Time       `gorm:"type:date" json:"start_date"`
	MonthlyPayment   money.Money     `gorm:"column:monthly_payment;type:bigint" json:"monthly_payment"`
	RemainingBalance money.Money     `gorm:"column:remaining_balance;type:bigint" json:"remaining_balance"`
	Status           Status          `gorm:"type:enum('active','paid_off');default:'active';index:idx_loans_company_status" json:"status"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

func (l *Loan) IsActive() bool { return l.Status == StatusActive }

// Payment is one applied payment. Rows are insert-only.
type Payment struct {
	ID               uint64      `gorm:"primaryKey;column:id" json:"-"`
	PaymentID        string      `gorm:"size:32;uniqueIndex:ux_payments_payment_id" json:"id"`
	LoanID           string      `gorm:"size:32;index:idx_payments_loan_date" json:"loan_id"`
	PaymentDate      time.Time   `gorm:"type:date;index:idx_payments_loan_date" json:"payment_date"`
	PrincipalPaid    money.Money `gorm:"column:principal_paid;type:bigint" json:"principal_paid"`
	InterestPaid     money.Money `gorm:"column:interest_paid;type:bigint" json:"interest_paid"`
	TotalPaid        money.Money `gorm:"column:total_paid;type:bigint" json:"total_paid"`
	RemainingBalance money.Money `gorm:"column:remaining_balance;type:bigint" json:"remaining_balance"`
	CreatedAt        time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }
