package fleetmock

import (
	"context"

	"fleet-schedule-backend/internal/domain/fleet"
)

var (
	_ fleet.CompanyRepository = (*Companies)(nil)
	_ fleet.VehicleRepository = (*Vehicles)(nil)
)

type Companies struct {
	CreateFn         func(ctx context.Context, c *fleet.Company) error
	GetByCompanyIDFn func(ctx context.Context, companyID string) (*fleet.Company, error)
	ListByUserIDFn   func(ctx context.Context, userID string) ([]fleet.Company, error)
}

func (m *Companies) Create(ctx context.Context, c *fleet.Company) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Companies) GetByCompanyID(ctx context.Context, companyID string) (*fleet.Company, error) {
	if m.GetByCompanyIDFn != nil {
		return m.GetByCompanyIDFn(ctx, companyID)
	}
	return nil, context.Canceled
}

func (m *Companies) ListByUserID(ctx context.Context, userID string) ([]fleet.Company, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

// Owned serves a fixed company set, all belonging to one user.
func Owned(userID string, companies ...fleet.Company) *Companies {
	return &Companies{
		GetByCompanyIDFn: func(_ context.Context, companyID string) (*fleet.Company, error) {
			for i := range companies {
				if companies[i].CompanyID == companyID {
					c := companies[i]
					c.UserID = userID
					return &c, nil
				}
			}
			return nil, notFound
		},
		ListByUserIDFn: func(_ context.Context, uid string) ([]fleet.Company, error) {
			if uid != userID {
				return nil, nil
			}
			return companies, nil
		},
	}
}

type Vehicles struct {
	CreateFn           func(ctx context.Context, v *fleet.Vehicle) error
	GetByVehicleIDFn   func(ctx context.Context, vehicleID string) (*fleet.Vehicle, error)
	ListByCompanyIDsFn func(ctx context.Context, companyIDs []string) ([]fleet.Vehicle, error)
}

func (m *Vehicles) Create(ctx context.Context, v *fleet.Vehicle) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, v)
	}
	return nil
}

func (m *Vehicles) GetByVehicleID(ctx context.Context, vehicleID string) (*fleet.Vehicle, error) {
	if m.GetByVehicleIDFn != nil {
		return m.GetByVehicleIDFn(ctx, vehicleID)
	}
	return nil, context.Canceled
}

func (m *Vehicles) ListByCompanyIDs(ctx context.Context, companyIDs []string) ([]fleet.Vehicle, error) {
	if m.ListByCompanyIDsFn != nil {
		return m.ListByCompanyIDsFn(ctx, companyIDs)
	}
	return nil, context.Canceled
}
