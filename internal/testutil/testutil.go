// Package testutil builds in-memory databases and fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/clause"

	dbpkg "github.com/rishangit/s-ams-sub002/internal/db"
	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

const Password = "secret123"

// NewDB opens a migrated sqlite database private to t. A single connection
// keeps the shared-cache database alive and serializes writers.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, dbpkg.Migrate(db))
	return db
}

// Fixture is a small two-company data set.
type Fixture struct {
	Company      models.Company
	OtherCompany models.Company

	Admin         models.User
	Owner         models.User
	StaffUser     models.User
	Customer      models.User
	OtherCustomer models.User

	ActiveStaff   models.Staff
	InactiveStaff models.Staff
	ForeignStaff  models.Staff

	Service models.Service

	Shampoo     models.Product
	Conditioner models.Product
	OldWax      models.Product
	ForeignDye  models.Product

	Pending   models.Appointment
	Confirmed models.Appointment
	Completed models.Appointment
	Cancelled models.Appointment
	Foreign   models.Appointment
}

func Seed(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()
	fx := &Fixture{}

	create := func(v interface{}) {
		require.NoError(t, db.Omit(clause.Associations).Create(v).Error)
	}

	fx.Company = models.Company{Name: "Northside Salon", Slug: "northside", Timezone: "America/Sao_Paulo"}
	fx.OtherCompany = models.Company{Name: "Harbor Spa", Slug: "harbor", Timezone: "UTC"}
	create(&fx.Company)
	create(&fx.OtherCompany)

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := func(name, email string, role domain.Role, companyID *uint) models.User {
		u := models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         string(role),
			CompanyID:    companyID,
		}
		create(&u)
		return u
	}

	fx.Admin = user("Ada Admin", "admin@example.com", domain.RoleAdmin, nil)
	fx.Owner = user("Olga Owner", "owner@example.com", domain.RoleOwner, &fx.Company.ID)
	fx.StaffUser = user("Sam Staff", "staff@example.com", domain.RoleStaff, &fx.Company.ID)
	fx.Customer = user("Cleo Customer", "cleo@example.com", domain.RoleUser, nil)
	fx.OtherCustomer = user("Otto Customer", "otto@example.com", domain.RoleUser, nil)

	fx.ActiveStaff = models.Staff{CompanyID: fx.Company.ID, Name: "Bea Stylist", Active: true}
	fx.InactiveStaff = models.Staff{CompanyID: fx.Company.ID, Name: "Ivo Former", Active: true}
	fx.ForeignStaff = models.Staff{CompanyID: fx.OtherCompany.ID, Name: "Fay Therapist", Active: true}
	create(&fx.ActiveStaff)
	create(&fx.InactiveStaff)
	create(&fx.ForeignStaff)
	// gorm skips zero values on create, so default:true would win
	require.NoError(t, db.Model(&fx.InactiveStaff).Update("active", false).Error)
	fx.InactiveStaff.Active = false

	fx.Service = models.Service{CompanyID: fx.Company.ID, Name: "Haircut", DurationMin: 45, Price: 35, Active: true}
	create(&fx.Service)

	fx.Shampoo = models.Product{CompanyID: fx.Company.ID, Name: "Shampoo", UnitCost: 10, Active: true}
	fx.Conditioner = models.Product{CompanyID: fx.Company.ID, Name: "Conditioner", UnitCost: 5.5, Active: true}
	fx.OldWax = models.Product{CompanyID: fx.Company.ID, Name: "Old Wax", UnitCost: 3, Active: true}
	fx.ForeignDye = models.Product{CompanyID: fx.OtherCompany.ID, Name: "Dye", UnitCost: 20, Active: true}
	create(&fx.Shampoo)
	create(&fx.Conditioner)
	create(&fx.OldWax)
	create(&fx.ForeignDye)
	require.NoError(t, db.Model(&fx.OldWax).Update("active", false).Error)
	fx.OldWax.Active = false

	appointment := func(userID, companyID uint, date string, status domain.Status) models.Appointment {
		ap := models.Appointment{
			UserID:    userID,
			CompanyID: companyID,
			ServiceID: fx.Service.ID,
			Date:      date,
			Time:      "10:00",
			Status:    int(status),
		}
		create(&ap)
		return ap
	}

	fx.Pending = appointment(fx.Customer.ID, fx.Company.ID, "2026-05-01", domain.StatusPending)
	fx.Confirmed = appointment(fx.Customer.ID, fx.Company.ID, "2026-05-02", domain.StatusConfirmed)
	fx.Completed = appointment(fx.Customer.ID, fx.Company.ID, "2026-05-03", domain.StatusCompleted)
	fx.Cancelled = appointment(fx.Customer.ID, fx.Company.ID, "2026-05-04", domain.StatusCancelled)
	fx.Foreign = appointment(fx.OtherCustomer.ID, fx.OtherCompany.ID, "2026-05-05", domain.StatusPending)

	completedAt := time.Date(2026, 5, 3, 11, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&fx.Completed).Update("completed_at", completedAt).Error)
	fx.Completed.CompletedAt = &completedAt

	return fx
}

// RC returns the role context the auth layer would build for u.
func RC(u models.User) domain.RoleContext {
	rc := domain.RoleContext{Role: domain.Role(u.Role), UserID: u.ID}
	if u.CompanyID != nil {
		rc.CompanyID = *u.CompanyID
	}
	return rc
}
