package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health    *Handler
	Fleet     *FleetHandler
	Loans     *LoanHandler
	Payments  *PaymentHandler
	Schedules *ScheduleHandler
}

// RegisterRoutes mounts /health and the authenticated /api group. idem
// guards payment creation and runs after auth so keys are per user.
func RegisterRoutes(e *echo.Echo, h Handlers, auth, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	api := e.Group("/api", auth)

	api.GET("/companies", h.Fleet.ListCompanies)
	api.POST("/companies", h.Fleet.CreateCompany)
	api.GET("/vehicles", h.Fleet.ListVehicles)
	api.POST("/vehicles", h.Fleet.CreateVehicle)

	api.GET("/loans", h.Loans.ListLoans)
	api.POST("/loans", h.Loans.CreateLoan)
	api.GET("/loans/:loan_id", h.Loans.GetLoan)

	api.GET("/payments", h.Payments.ListAllPayments)
	api.POST("/payments", h.Payments.RecordPayment, idem)
	api.GET("/payments/loan/:loan_id", h.Payments.ListPayments)

	api.GET("/schedules/debt", h.Schedules.DebtSchedule)
	api.GET("/schedules/amortization", h.Schedules.AmortizationSchedule)
	api.GET("/schedules/depreciation", h.Schedules.DepreciationSchedule)
	api.GET("/stats/dashboard", h.Schedules.DashboardStats)
}
