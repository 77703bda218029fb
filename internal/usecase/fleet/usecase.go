package fleet

import (
	"context"
	"fmt"
	"time"

	"fleet-schedule-backend/internal/domain"
	"fleet-schedule-backend/internal/domain/fleet"
	"fleet-schedule-backend/pkg/date"
	"fleet-schedule-backend/pkg/id"
	"fleet-schedule-backend/pkg/money"

	"github.com/sirupsen/logrus"
)

type CreateCompanyInput struct {
	Name    string
	EIN     string
	Address string
	Phone   string
	Email   string
}

type CreateVehicleInput struct {
	CompanyID     string
	Type          fleet.VehicleType
	VIN           string
	Make          string
	Model         string
	Year          int
	PurchasePrice money.Money
	PurchaseDate  time.Time
	Status        fleet.VehicleStatus
}

// StatsInvalidator drops a user's cached dashboard.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

type Usecase struct {
	companies fleet.CompanyRepository
	vehicles  fleet.VehicleRepository
	stats     StatsInvalidator
	log       logrus.FieldLogger
}

func NewUsecase(companies fleet.CompanyRepository, vehicles fleet.VehicleRepository, stats StatsInvalidator, log logrus.FieldLogger) *Usecase {
	return &Usecase{companies: companies, vehicles: vehicles, stats: stats, log: log}
}

func (u *Usecase) CreateCompany(ctx context.Context, userID string, in CreateCompanyInput) (*fleet.Company, error) {
	c := &fleet.Company{
		CompanyID: id.NewID32(),
		UserID:    userID,
		Name:      in.Name,
		EIN:       in.EIN,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
	}
	if err := u.companies.Create(ctx, c); err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"company_id": c.CompanyID, "user_id": userID}).Info("company created")
	u.invalidate(ctx, userID)
	return c, nil
}

func (u *Usecase) ListCompanies(ctx context.Context, userID string) ([]fleet.Company, error) {
	out, err := u.companies.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []fleet.Company{}
	}
	return out, nil
}

func (u *Usecase) CreateVehicle(ctx context.Context, userID string, in CreateVehicleInput) (*fleet.Vehicle, error) {
	switch in.Type {
	case fleet.VehicleTruck, fleet.VehicleTrailer:
	default:
		return nil, fmt.Errorf("vehicle type %q: %w", in.Type, domain.ErrUnknownVehicleType)
	}
	if !in.PurchasePrice.IsPositive() {
		return nil, fmt.Errorf("purchase price: %w", domain.ErrInvalidAmount)
	}
	if _, err := u.ownedCompany(ctx, userID, in.CompanyID); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = fleet.VehicleActive
	}

	v := &fleet.Vehicle{
		VehicleID:     id.NewID32(),
		CompanyID:     in.CompanyID,
		Type:          in.Type,
		VIN:           in.VIN,
		Make:          in.Make,
		Model:         in.Model,
		Year:          in.Year,
		PurchasePrice: in.PurchasePrice,
		PurchaseDate:  date.Truncate(in.PurchaseDate),
		Status:        status,
	}
	if err := u.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"vehicle_id": v.VehicleID, "company_id": v.CompanyID}).Info("vehicle created")
	u.invalidate(ctx, userID)
	return v, nil
}

// ListVehicles returns the vehicles of one company, or of every company the
// user owns when companyID is empty.
func (u *Usecase) ListVehicles(ctx context.Context, userID, companyID string) ([]fleet.Vehicle, error) {
	var ids []string
	if companyID != "" {
		if _, err := u.ownedCompany(ctx, userID, companyID); err != nil {
			return nil, err
		}
		ids = []string{companyID}
	} else {
		companies, err := u.companies.ListByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, c := range companies {
			ids = append(ids, c.CompanyID)
		}
	}

	out, err := u.vehicles.ListByCompanyIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []fleet.Vehicle{}
	}
	return out, nil
}

func (u *Usecase) ownedCompany(ctx context.Context, userID, companyID string) (*fleet.Company, error) {
	c, err := u.companies.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("company %s: %w", companyID, domain.ErrNotFound)
	}
	return c, nil
}

// invalidate drops the dashboard after a change to the user's fleet. A
// failure leaves the entry to expire on its TTL.
func (u *Usecase) invalidate(ctx context.Context, userID string) {
	if err := u.stats.Invalidate(ctx, userID); err != nil {
		u.log.WithError(err).WithField("user_id", userID).Warn("invalidate dashboard cache")
	}
}
