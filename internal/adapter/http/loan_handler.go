package http

import (
	"net/http"

	"fleet-schedule-backend/internal/adapter/middleware"
	"fleet-schedule-backend/internal/usecase/loan"
	"fleet-schedule-backend/pkg/date"
	"fleet-schedule-backend/pkg/money"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type LoanHandler struct {
	uc  *loan.Usecase
	log logrus.FieldLogger
}

func NewLoanHandler(uc *loan.Usecase, log logrus.FieldLogger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log}
}

type createLoanReq struct {
	VehicleID       string          `json:"vehicle_id"       validate:"required,hex32"`
	Lender          string          `json:"lender"           validate:"max=255"`
	PrincipalAmount money.Money     `json:"principal_amount" validate:"gt=0"`
	InterestRate    decimal.Decimal `json:"interest_rate"    validate:"gte=0,lte=100,dec4"`
	TermMonths      int             `json:"term_months"      validate:"gte=1,lte=600"`
	StartDate       date.Date       `json:"start_date"       validate:"required,epochdate"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.Create(c.Request().Context(), middleware.UserID(c), loan.CreateLoanInput{
		VehicleID:       req.VehicleID,
		Lender:          req.Lender,
		PrincipalAmount: req.PrincipalAmount,
		InterestRate:    req.InterestRate,
		TermMonths:      req.TermMonths,
		StartDate:       req.StartDate.Time(),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), middleware.UserID(c), loanID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
