package finance

import (
	"testing"

	"fleet-schedule-backend/internal/domain"
	"fleet-schedule-backend/internal/domain/fleet"
	"fleet-schedule-backend/pkg/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func truck(price string) fleet.Vehicle {
	return fleet.Vehicle{
		VehicleID:     "v1",
		Type:          fleet.VehicleTruck,
		Make:          "Volvo",
		Model:         "VNL 860",
		Year:          2022,
		PurchasePrice: money.MustParse(price),
		PurchaseDate:  day(2022, 3, 1),
	}
}

func TestValueAt_StraightLine(t *testing.T) {
	p := DefaultPolicy()
	v := truck("70000.00")

	tests := []struct {
		name     string
		asOfDays int
		wantVal  string
		wantAge  float64
	}{
		{"on purchase day", 0, "70000.00", 0},
		// 1461 days is exactly 4 years of 365.25
		{"four years", 1461, "30000.00", 4},
		{"end of life", 2557, "0.00", 7.0},
		{"past end of life", 4000, "0.00", 10.95},
		{"before purchase", -30, "70000.00", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item, err := p.ValueAt(v, v.PurchaseDate.AddDate(0, 0, tc.asOfDays))
			require.NoError(t, err)
			assert.Equal(t, tc.wantVal, item.CurrentValue.String())
			assert.Equal(t, v.PurchasePrice, item.CurrentValue.Add(item.DepreciationAmount))
			assert.InDelta(t, tc.wantAge, item.AgeYears, 0.001)
		})
	}
}

func TestValueAt_MonotoneAndBounded(t *testing.T) {
	p := DefaultPolicy()
	p.SalvagePercent = decimal.RequireFromString("12.5")
	v := truck("123456.78")
	salvage := v.PurchasePrice.MulRate(decimal.RequireFromString("0.125"))

	prev := v.PurchasePrice
	for days := 0; days <= 9*366; days += 3 {
		item, err := p.ValueAt(v, v.PurchaseDate.AddDate(0, 0, days))
		require.NoError(t, err)
		assert.LessOrEqual(t, item.CurrentValue, prev, "day %d", days)
		assert.GreaterOrEqual(t, item.CurrentValue, salvage, "day %d", days)
		assert.LessOrEqual(t, item.CurrentValue, v.PurchasePrice, "day %d", days)
		prev = item.CurrentValue
	}
	assert.Equal(t, salvage, prev)
}

func TestValueAt_VehicleName(t *testing.T) {
	item, err := DefaultPolicy().ValueAt(truck("1000"), day(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, "Volvo VNL 860 (2022)", item.VehicleName)
	assert.Equal(t, "v1", item.VehicleID)
}

func TestValueAt_UnknownType(t *testing.T) {
	v := truck("1000")
	v.Type = "bus"
	_, err := DefaultPolicy().ValueAt(v, day(2024, 1, 1))
	assert.ErrorIs(t, err, domain.ErrUnknownVehicleType)

	_, err = DefaultPolicy().Schedule([]fleet.Vehicle{truck("1"), v}, day(2024, 1, 1))
	assert.ErrorIs(t, err, domain.ErrUnknownVehicleType)
}
