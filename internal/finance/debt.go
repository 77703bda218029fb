package finance

import (
	"time"

	"fleet-schedule-backend/internal/domain/fleet"
	"fleet-schedule-backend/internal/domain/loan"
	"fleet-schedule-backend/pkg/money"
)

type DebtScheduleItem struct {
	CompanyID      string      `json:"-"`
	CompanyName    string      `json:"company_name"`
	TotalDebt      money.Money `json:"total_debt"`
	MonthlyPayment money.Money `json:"monthly_payment"`
	VehiclesCount  int         `json:"vehicles_count"`
}

type DashboardStats struct {
	TotalCompanies    int         `json:"total_companies"`
	TotalVehicles     int         `json:"total_vehicles"`
	TotalActiveLoans  int         `json:"total_active_loans"`
	TotalDebt         money.Money `json:"total_debt"`
	MonthlyPayments   money.Money `json:"monthly_payments"`
	TotalAssetValue   money.Money `json:"total_asset_value"`
	TotalPaymentsYear money.Money `json:"total_payments_year"`
}

// AggregateDebt returns one row per company, in the order given. Only
// active loans count toward debt and monthly payment.
func AggregateDebt(companies []fleet.Company, loans []loan.Loan, vehicles []fleet.Vehicle) []DebtScheduleItem {
	idx := make(map[string]int, len(companies))
	out := make([]DebtScheduleItem, len(companies))
	for i, c := range companies {
		idx[c.CompanyID] = i
		out[i] = DebtScheduleItem{CompanyID: c.CompanyID, CompanyName: c.Name}
	}
	for _, l := range loans {
		i, ok := idx[l.CompanyID]
		if !ok || !l.IsActive() {
			continue
		}
		out[i].TotalDebt = out[i].TotalDebt.Add(l.RemainingBalance)
		out[i].MonthlyPayment = out[i].MonthlyPayment.Add(l.MonthlyPayment)
	}
	for _, v := range vehicles {
		if i, ok := idx[v.CompanyID]; ok {
			out[i].VehiclesCount++
		}
	}
	return out
}

// Dashboard rolls everything into a single set of totals. Asset value is
// the depreciated value of every vehicle as of asOf.
func Dashboard(companies []fleet.Company, loans []loan.Loan, vehicles []fleet.Vehicle, policy Policy, asOf time.Time) (DashboardStats, error) {
	stats := DashboardStats{
		TotalCompanies: len(companies),
		TotalVehicles:  len(vehicles),
	}
	for _, l := range loans {
		if !l.IsActive() {
			continue
		}
		stats.TotalActiveLoans++
		stats.TotalDebt = stats.TotalDebt.Add(l.RemainingBalance)
		stats.MonthlyPayments = stats.MonthlyPayments.Add(l.MonthlyPayment)
	}
	for i := range vehicles {
		item, err := policy.ValueAt(vehicles[i], asOf)
		if err != nil {
			return DashboardStats{}, err
		}
		stats.TotalAssetValue = stats.TotalAssetValue.Add(item.CurrentValue)
	}
	stats.TotalPaymentsYear = stats.MonthlyPayments * 12
	return stats, nil
}
