package fleet

import (
	"fmt"
	"time"

	"fleet-schedule-backend/pkg/money"
)

type VehicleType string

const (
	VehicleTruck   VehicleType = "truck"
	VehicleTrailer VehicleType = "trailer"
)

type VehicleStatus string

const (
	VehicleActive   VehicleStatus = "active"
	VehicleInactive VehicleStatus = "inactive"
	VehicleSold     VehicleStatus = "sold"
)

type Company struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	CompanyID string    `gorm:"size:32;uniqueIndex:ux_companies_company_id" json:"id"`
	UserID    string    `gorm:"size:64;index:idx_companies_user" json:"user_id"`
	Name      string    `gorm:"size:255" json:"name"`
	EIN       string    `gorm:"column:ein;size:32" json:"ein"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"size:64" json:"phone,omitempty"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Company) TableName() string { return "companies" }

type Vehicle struct {
	ID            uint64        `gorm:"primaryKey;column:id" json:"-"`
	VehicleID     string        `gorm:"size:32;uniqueIndex:ux_vehicles_vehicle_id" json:"id"`
	CompanyID     string        `gorm:"size:32;index:idx_vehicles_company" json:"company_id"`
	Type          VehicleType   `gorm:"type:enum('truck','trailer')" json:"type"`
	VIN           string        `gorm:"column:vin;size:32" json:"vin"`
	Make          string        `gorm:"size:128" json:"make"`
	Model         string        `gorm:"size:128" json:"model"`
	Year          int           `json:"year"`
	PurchasePrice money.Money   `gorm:"column:purchase_price;type:bigint" json:"purchase_price"`
	PurchaseDate  time.Time     `gorm:"type:date" json:"purchase_date"`
	Status        VehicleStatus `gorm:"type:enum('active','inactive','sold');default:'active'" json:"status"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Vehicle) TableName() string { return "vehicles" }

// DisplayName is "Make Model (Year)".
func (v *Vehicle) DisplayName() string {
	return fmt.Sprintf("%s %s (%d)", v.Make, v.Model, v.Year)
}
