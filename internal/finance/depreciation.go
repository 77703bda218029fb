package finance

import (
	"fmt"
	"time"

	"fleet-schedule-backend/internal/domain"
	"fleet-schedule-backend/internal/domain/fleet"
	"fleet-schedule-backend/pkg/date"
	"fleet-schedule-backend/pkg/money"

	"github.com/shopspring/decimal"
)

var daysPerYear = decimal.RequireFromString("365.25")

type DepreciationScheduleItem struct {
	VehicleID          string      `json:"vehicle_id"`
	VehicleName        string      `json:"vehicle_name"`
	PurchasePrice      money.Money `json:"purchase_price"`
	CurrentValue       money.Money `json:"current_value"`
	DepreciationAmount money.Money `json:"depreciation_amount"`
	AgeYears           float64     `json:"age_years"`
}

// Policy is the straight-line depreciation assumption. Both values come
// from configuration.
type Policy struct {
	UsefulLifeYears map[fleet.VehicleType]int
	// floor as a percentage of purchase price, 0..100
	SalvagePercent decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		UsefulLifeYears: map[fleet.VehicleType]int{
			fleet.VehicleTruck:   7,
			fleet.VehicleTrailer: 10,
		},
		SalvagePercent: decimal.Zero,
	}
}

// ValueAt depreciates v straight-line from its purchase date to asOf. Values
// are non-increasing in asOf and stay within [salvage, purchase price].
func (p Policy) ValueAt(v fleet.Vehicle, asOf time.Time) (DepreciationScheduleItem, error) {
	life, ok := p.UsefulLifeYears[v.Type]
	if !ok || life <= 0 {
		return DepreciationScheduleItem{}, fmt.Errorf("vehicle %s type %q: %w", v.VehicleID, v.Type, domain.ErrUnknownVehicleType)
	}

	days := date.DaysBetween(v.PurchaseDate, asOf)
	if days < 0 {
		days = 0
	}
	age := decimal.NewFromInt(int64(days)).DivRound(daysPerYear, 8)

	fraction := age.DivRound(decimal.NewFromInt(int64(life)), 12)
	if fraction.GreaterThan(decimal.NewFromInt(1)) {
		fraction = decimal.NewFromInt(1)
	}

	price := v.PurchasePrice
	salvage := price.MulRate(p.salvageFraction())
	value := price.Sub(price.MulRate(fraction)).Max(salvage)

	return DepreciationScheduleItem{
		VehicleID:          v.VehicleID,
		VehicleName:        v.DisplayName(),
		PurchasePrice:      price,
		CurrentValue:       value,
		DepreciationAmount: price.Sub(value),
		AgeYears:           age.Round(2).InexactFloat64(),
	}, nil
}

// Schedule values every vehicle as of asOf.
func (p Policy) Schedule(vehicles []fleet.Vehicle, asOf time.Time) ([]DepreciationScheduleItem, error) {
	out := make([]DepreciationScheduleItem, 0, len(vehicles))
	for i := range vehicles {
		item, err := p.ValueAt(vehicles[i], asOf)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (p Policy) salvageFraction() decimal.Decimal {
	s := p.SalvagePercent
	switch {
	case s.IsNegative():
		s = decimal.Zero
	case s.GreaterThan(oneHundred):
		s = oneHundred
	}
	return s.Div(oneHundred)
}
