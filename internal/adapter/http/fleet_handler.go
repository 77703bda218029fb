package http

import (
	"net/http"
	"time"

	"fleet-schedule-backend/internal/adapter/middleware"
	"fleet-schedule-backend/internal/domain/fleet"
	fleetUC "fleet-schedule-backend/internal/usecase/fleet"
	"fleet-schedule-backend/pkg/date"
	"fleet-schedule-backend/pkg/money"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type FleetHandler struct {
	uc  *fleetUC.Usecase
	log logrus.FieldLogger
}

func NewFleetHandler(uc *fleetUC.Usecase, log logrus.FieldLogger) *FleetHandler {
	return &FleetHandler{uc: uc, log: log}
}

type createCompanyReq struct {
	Name    string `json:"name"    validate:"required,max=255"`
	EIN     string `json:"ein"     validate:"max=32"`
	Address string `json:"address"`
	Phone   string `json:"phone"   validate:"max=64"`
	Email   string `json:"email"   validate:"omitempty,email,max=255"`
}

type createVehicleReq struct {
	CompanyID     string      `json:"company_id"     validate:"required,hex32"`
	Type          string      `json:"type"           validate:"required,oneof=truck trailer"`
	VIN           string      `json:"vin"            validate:"max=32"`
	Make          string      `json:"make"           validate:"max=128"`
	Model         string      `json:"model"          validate:"max=128"`
	Year          int         `json:"year"           validate:"omitempty,gte=1900,lte=2100"`
	PurchasePrice money.Money `json:"purchase_price" validate:"gt=0"`
	PurchaseDate  date.Date   `json:"purchase_date"  validate:"required,epochdate"`
	Status        string      `json:"status"         validate:"omitempty,oneof=active inactive sold"`
}

type vehicleResp struct {
	VehicleID     string      `json:"id"`
	CompanyID     string      `json:"company_id"`
	Type          string      `json:"type"`
	VIN           string      `json:"vin"`
	Make          string      `json:"make"`
	Model         string      `json:"model"`
	Year          int         `json:"year"`
	Name          string      `json:"name"`
	PurchasePrice money.Money `json:"purchase_price"`
	PurchaseDate  date.Date   `json:"purchase_date"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}

func toVehicleResp(v *fleet.Vehicle) vehicleResp {
	return vehicleResp{
		VehicleID:     v.VehicleID,
		CompanyID:     v.CompanyID,
		Type:          string(v.Type),
		VIN:           v.VIN,
		Make:          v.Make,
		Model:         v.Model,
		Year:          v.Year,
		Name:          v.DisplayName(),
		PurchasePrice: v.PurchasePrice,
		PurchaseDate:  date.Of(v.PurchaseDate),
		Status:        string(v.Status),
		CreatedAt:     v.CreatedAt,
	}
}

func (h *FleetHandler) CreateCompany(c echo.Context) error {
	var req createCompanyReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	co, err := h.uc.CreateCompany(c.Request().Context(), middleware.UserID(c), fleetUC.CreateCompanyInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, co)
}

func (h *FleetHandler) ListCompanies(c echo.Context) error {
	out, err := h.uc.ListCompanies(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FleetHandler) CreateVehicle(c echo.Context) error {
	var req createVehicleReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	v, err := h.uc.CreateVehicle(c.Request().Context(), middleware.UserID(c), fleetUC.CreateVehicleInput{
		CompanyID:     req.CompanyID,
		Type:          fleet.VehicleType(req.Type),
		VIN:           req.VIN,
		Make:          req.Make,
		Model:         req.Model,
		Year:          req.Year,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  req.PurchaseDate.Time(),
		Status:        fleet.VehicleStatus(req.Status),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, toVehicleResp(v))
}

// ListVehicles takes an optional ?company_id= filter.
func (h *FleetHandler) ListVehicles(c echo.Context) error {
	companyID := c.QueryParam("company_id")
	if companyID != "" && !reHex32.MatchString(companyID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid company_id"})
	}
	vs, err := h.uc.ListVehicles(c.Request().Context(), middleware.UserID(c), companyID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]vehicleResp, 0, len(vs))
	for i := range vs {
		out = append(out, toVehicleResp(&vs[i]))
	}
	return c.JSON(http.StatusOK, out)
}
