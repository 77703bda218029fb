package domain

import "errors"

var (
	ErrNotFound                  = errors.New("not found")
	ErrInvalidTerms              = errors.New("invalid loan terms")
	ErrInvalidAmount             = errors.New("amount must be greater than zero")
	ErrOverpaymentExceedsBalance = errors.New("principal portion exceeds remaining balance")
	ErrLoanAlreadyPaidOff        = errors.New("loan already paid off")
	ErrPaymentOutOfOrder         = errors.New("payment date precedes loan start or last payment")
	ErrVehicleHasActiveLoan      = errors.New("vehicle already has an active loan")
	ErrUnknownVehicleType        = errors.New("unknown vehicle type")
	ErrLoanBusy                  = errors.New("another payment for this loan is in progress")
)
