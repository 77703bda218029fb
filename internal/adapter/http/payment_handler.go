package http

import (
	"net/http"

	"fleet-schedule-backend/internal/adapter/middleware"
	"fleet-schedule-backend/internal/usecase/payment"
	"fleet-schedule-backend/pkg/date"
	"fleet-schedule-backend/pkg/money"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	uc  *payment.Usecase
	log logrus.FieldLogger
}

func NewPaymentHandler(uc *payment.Usecase, log logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

type recordPaymentReq struct {
	LoanID      string      `json:"loan_id"      validate:"required,hex32"`
	Amount      money.Money `json:"amount"       validate:"gt=0"`
	PaymentDate date.Date   `json:"payment_date" validate:"required,epochdate"`
	Payoff      bool        `json:"payoff"`
}

func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	var req recordPaymentReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	receipt, err := h.uc.Record(c.Request().Context(), middleware.UserID(c), payment.RecordInput{
		LoanID:      req.LoanID,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate.Time(),
		Payoff:      req.Payoff,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, receipt)
}

func (h *PaymentHandler) ListPayments(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	out, err := h.uc.List(c.Request().Context(), middleware.UserID(c), loanID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListAllPayments returns the payments on every loan the user holds.
func (h *PaymentHandler) ListAllPayments(c echo.Context) error {
	out, err := h.uc.ListAll(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
