package fleet

import "context"

type CompanyRepository interface {
	Create(ctx context.Context, c *Company) error
	GetByCompanyID(ctx context.Context, companyID string) (*Company, error)
	ListByUserID(ctx context.Context, userID string) ([]Company, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByVehicleID(ctx context.Context, vehicleID string) (*Vehicle, error)
	ListByCompanyIDs(ctx context.Context, companyIDs []string) ([]Vehicle, error)
}
