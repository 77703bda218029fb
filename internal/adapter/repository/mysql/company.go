package mysql

import (
	"context"

	"fleet-schedule-backend/internal/domain/fleet"

	"gorm.io/gorm"
)

type CompanyRepository struct{ db *gorm.DB }

func NewCompanyRepository(db *gorm.DB) *CompanyRepository { return &CompanyRepository{db: db} }

func (r *CompanyRepository) Create(ctx context.Context, c *fleet.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CompanyRepository) GetByCompanyID(ctx context.Context, companyID string) (*fleet.Company, error) {
	var out fleet.Company
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&out).Error; err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (r *CompanyRepository) ListByUserID(ctx context.Context, userID string) ([]fleet.Company, error) {
	var out []fleet.Company
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

type VehicleRepository struct{ db *gorm.DB }

func NewVehicleRepository(db *gorm.DB) *VehicleRepository { return &VehicleRepository{db: db} }

func (r *VehicleRepository) Create(ctx context.Context, v *fleet.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VehicleRepository) GetByVehicleID(ctx context.Context, vehicleID string) (*fleet.Vehicle, error) {
	var out fleet.Vehicle
	if err := r.db.WithContext(ctx).Where("vehicle_id = ?", vehicleID).First(&out).Error; err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (r *VehicleRepository) ListByCompanyIDs(ctx context.Context, companyIDs []string) ([]fleet.Vehicle, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}
	var out []fleet.Vehicle
	err := r.db.WithContext(ctx).
		Where("company_id IN ?", companyIDs).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
