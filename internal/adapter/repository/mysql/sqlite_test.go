package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no ENUM, no decimal) ---

type loanSQLite struct {
	ID               uint64    `gorm:"primaryKey;column:id"`
	LoanID           string    `gorm:"size:32;uniqueIndex;column:loan_id"`
	VehicleID        string    `gorm:"size:32;column:vehicle_id"`
	CompanyID        string    `gorm:"size:32;column:company_id"`
	Lender           string    `gorm:"column:lender"`
	PrincipalAmount  int64     `gorm:"column:principal_amount"`
	InterestRate     string    `gorm:"type:text;column:interest_rate"`
	TermMonths       int       `gorm:"column:term_months"`
	StartDate        time.Time `gorm:"column:start_date"`
	MonthlyPayment   int64     `gorm:"column:monthly_payment"`
	RemainingBalance int64     `gorm:"column:remaining_balance"`
	Status           string    `gorm:"type:text;column:status;default:active"` // ← no enum
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (loanSQLite) TableName() string { return "loans" }

type paymentSQLite struct {
	ID               uint64    `gorm:"primaryKey;column:id"`
	PaymentID        string    `gorm:"size:32;uniqueIndex;column:payment_id"`
	LoanID           string    `gorm:"size:32;column:loan_id"`
	PaymentDate      time.Time `gorm:"column:payment_date"`
	PrincipalPaid    int64     `gorm:"column:principal_paid"`
	InterestPaid     int64     `gorm:"column:interest_paid"`
	TotalPaid        int64     `gorm:"column:total_paid"`
	RemainingBalance int64     `gorm:"column:remaining_balance"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (paymentSQLite) TableName() string { return "payments" }

type companySQLite struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	CompanyID string    `gorm:"size:32;uniqueIndex;column:company_id"`
	UserID    string    `gorm:"size:32;column:user_id"`
	Name      string    `gorm:"column:name"`
	EIN       string    `gorm:"column:ein"`
	Address   string    `gorm:"column:address"`
	Phone     string    `gorm:"column:phone"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (companySQLite) TableName() string { return "companies" }

type vehicleSQLite struct {
	ID            uint64    `gorm:"primaryKey;column:id"`
	VehicleID     string    `gorm:"size:32;uniqueIndex;column:vehicle_id"`
	CompanyID     string    `gorm:"size:32;column:company_id"`
	Type          string    `gorm:"type:text;column:type"`
	VIN           string    `gorm:"column:vin"`
	Make          string    `gorm:"column:make"`
	Model         string    `gorm:"column:model"`
	Year          int       `gorm:"column:year"`
	PurchasePrice int64     `gorm:"column:purchase_price"`
	PurchaseDate  time.Time `gorm:"column:purchase_date"`
	Status        string    `gorm:"type:text;column:status;default:active"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (vehicleSQLite) TableName() string { return "vehicles" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a second pooled connection would see its own empty :memory: database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	// IMPORTANT: migrate the sqlite-safe models, NOT the domain models.
	if err := db.AutoMigrate(&loanSQLite{}, &paymentSQLite{}, &companySQLite{}, &vehicleSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
