package http

import (
	"net/http"
	"time"

	"fleet-schedule-backend/internal/adapter/middleware"
	"fleet-schedule-backend/internal/usecase/schedule"
	"fleet-schedule-backend/pkg/date"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ScheduleHandler struct {
	svc *schedule.Service
	log logrus.FieldLogger
	now func() time.Time
}

func NewScheduleHandler(svc *schedule.Service, log logrus.FieldLogger, now func() time.Time) *ScheduleHandler {
	if now == nil {
		now = time.Now
	}
	return &ScheduleHandler{svc: svc, log: log, now: now}
}

// asOf reads ?as_of=YYYY-MM-DD, defaulting to today in UTC.
func (h *ScheduleHandler) asOf(c echo.Context) (time.Time, bool) {
	raw := c.QueryParam("as_of")
	if raw == "" {
		return date.Truncate(h.now()), true
	}
	t, err := date.Parse(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (h *ScheduleHandler) DebtSchedule(c echo.Context) error {
	out, err := h.svc.DebtSchedule(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// AmortizationSchedule projects one loan (?loan_id=) or every active loan.
func (h *ScheduleHandler) AmortizationSchedule(c echo.Context) error {
	loanID := c.QueryParam("loan_id")
	if loanID != "" && !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	out, err := h.svc.AmortizationSchedule(c.Request().Context(), middleware.UserID(c), loanID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ScheduleHandler) DepreciationSchedule(c echo.Context) error {
	companyID := c.QueryParam("company_id")
	if companyID != "" && !reHex32.MatchString(companyID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid company_id"})
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "as_of must be YYYY-MM-DD"})
	}
	out, err := h.svc.DepreciationSchedule(c.Request().Context(), middleware.UserID(c), companyID, asOf)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ScheduleHandler) DashboardStats(c echo.Context) error {
	asOf, ok := h.asOf(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "as_of must be YYYY-MM-DD"})
	}
	out, err := h.svc.DashboardStats(c.Request().Context(), middleware.UserID(c), asOf)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
