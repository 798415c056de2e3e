package report_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/employee"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payroll"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/period"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/report"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type reportFixture struct {
	db        *gorm.DB
	companyID uuid.UUID
	jan, feb  period.PayrollPeriod
	dept      employee.Department
	pos       employee.Position
	ana, luis employee.Employee
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&employee.Department{},
		&employee.Position{},
		&employee.Employee{},
		&period.PayrollPeriod{},
		&payroll.Payroll{},
	))

	f := &reportFixture{db: db, companyID: uuid.New()}
	mkPeriod := func(name, start, end string, month int) period.PayrollPeriod {
		p := period.PayrollPeriod{
			ID:           uuid.New(),
			CompanyID:    f.companyID,
			Name:         name,
			PeriodType:   period.TypeMonthly,
			StartDate:    day(start),
			EndDate:      day(end),
			PayDate:      day(end),
			Year:         2024,
			Month:        month,
			PeriodNumber: 1,
			Status:       period.StatusOpen,
		}
		require.NoError(t, db.Create(&p).Error)
		return p
	}
	f.jan = mkPeriod("January 2024", "2024-01-01", "2024-01-31", 1)
	f.feb = mkPeriod("February 2024", "2024-02-01", "2024-02-29", 2)

	f.dept = employee.Department{ID: uuid.New(), CompanyID: f.companyID, Name: "Coaching"}
	require.NoError(t, db.Create(&f.dept).Error)
	f.pos = employee.Position{ID: uuid.New(), CompanyID: f.companyID, DepartmentID: f.dept.ID, Name: "Head Coach"}
	require.NoError(t, db.Create(&f.pos).Error)

	mkEmployee := func(name string) employee.Employee {
		e := employee.Employee{
			ID:               uuid.New(),
			CompanyID:        f.companyID,
			FullName:         name,
			EmploymentStatus: employee.StatusActive,
			BaseSalary:       decimal.NewFromInt(3000000),
		}
		require.NoError(t, db.Create(&e).Error)
		return e
	}
	f.ana = mkEmployee("Ana Perez")
	f.luis = mkEmployee("Luis Gomez")
	return f
}

func (f *reportFixture) payroll(t *testing.T, number string, emp employee.Employee, p period.PayrollPeriod, status payroll.PayrollStatus, withDept bool, gross int64) {
	t.Helper()
	pr := payroll.Payroll{
		ID:                    uuid.New(),
		CompanyID:             f.companyID,
		PayrollNumber:         number,
		EmployeeID:            emp.ID,
		PayrollPeriodID:       p.ID,
		BaseSalary:            decimal.NewFromInt(3000000),
		WorkedDays:            decimal.NewFromInt(30),
		GrossSalary:           decimal.NewFromInt(gross),
		TotalEarnings:         decimal.NewFromInt(gross),
		TotalDeductions:       decimal.NewFromInt(gross * 8 / 100),
		NetSalary:             decimal.NewFromInt(gross * 92 / 100),
		EmployerContributions: decimal.NewFromInt(gross * 3 / 10),
		Status:                status,
	}
	if withDept {
		pr.DepartmentID = &f.dept.ID
		pr.PositionID = &f.pos.ID
	}
	require.NoError(t, f.db.Create(&pr).Error)
}

func TestRepository_Rows(t *testing.T) {
	f := newReportFixture(t)
	repo := report.NewRepository(f.db)
	ctx := context.Background()

	f.payroll(t, "NOM-000002", f.ana, f.feb, payroll.StatusPaid, true, 3000000)
	f.payroll(t, "NOM-000001", f.ana, f.jan, payroll.StatusApproved, true, 3000000)
	f.payroll(t, "NOM-000003", f.luis, f.jan, payroll.StatusDraft, false, 1000000)

	rows, err := repo.Rows(ctx, f.companyID.String(), report.Query{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "NOM-000001", rows[0].PayrollNumber)
	assert.Equal(t, "Ana Perez", rows[0].EmployeeName)
	assert.Equal(t, "Coaching", rows[0].DepartmentName)
	assert.Equal(t, "Head Coach", rows[0].PositionName)
	require.NotNil(t, rows[0].DepartmentID)
	assert.Equal(t, f.dept.ID, *rows[0].DepartmentID)
	assert.Equal(t, "January 2024", rows[0].PeriodName)
	assert.Equal(t, f.jan.ID, rows[0].PeriodID)
	assert.Equal(t, 2024, rows[0].PeriodStart.Year())
	assert.True(t, rows[0].GrossSalary.Equal(decimal.NewFromInt(3000000)))
	assert.True(t, rows[0].NetSalary.Equal(decimal.NewFromInt(2760000)))

	assert.Equal(t, "NOM-000003", rows[1].PayrollNumber)
	assert.Nil(t, rows[1].DepartmentID)
	assert.Equal(t, "", rows[1].DepartmentName)

	assert.Equal(t, "NOM-000002", rows[2].PayrollNumber)
	assert.Equal(t, "paid", rows[2].Status)
}

func TestRepository_RowsFilters(t *testing.T) {
	f := newReportFixture(t)
	repo := report.NewRepository(f.db)
	ctx := context.Background()

	f.payroll(t, "NOM-000001", f.ana, f.jan, payroll.StatusApproved, true, 3000000)
	f.payroll(t, "NOM-000002", f.ana, f.feb, payroll.StatusPaid, true, 3000000)
	f.payroll(t, "NOM-000003", f.luis, f.jan, payroll.StatusDraft, false, 1000000)

	byPeriod, err := repo.Rows(ctx, f.companyID.String(), report.Query{PeriodID: f.jan.ID.String()})
	require.NoError(t, err)
	assert.Len(t, byPeriod, 2)

	byDept, err := repo.Rows(ctx, f.companyID.String(), report.Query{DepartmentID: f.dept.ID.String()})
	require.NoError(t, err)
	assert.Len(t, byDept, 2)

	byStatus, err := repo.Rows(ctx, f.companyID.String(), report.Query{Statuses: []string{"approved", "paid"}})
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)

	from := day("2024-02-01")
	fromFeb, err := repo.Rows(ctx, f.companyID.String(), report.Query{From: &from})
	require.NoError(t, err)
	require.Len(t, fromFeb, 1)
	assert.Equal(t, "NOM-000002", fromFeb[0].PayrollNumber)

	to := day("2024-01-31")
	toJan, err := repo.Rows(ctx, f.companyID.String(), report.Query{To: &to})
	require.NoError(t, err)
	assert.Len(t, toJan, 2)

	other, err := repo.Rows(ctx, uuid.NewString(), report.Query{})
	require.NoError(t, err)
	assert.NotNil(t, other)
	assert.Empty(t, other)
}
