package employee_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/employee"
	employeeerrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&employee.Department{},
		&employee.Position{},
		&employee.Employee{},
		&employee.EmployeePosition{},
	))
	return db
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestRepository_FindByIDAndCompany(t *testing.T) {
	db := newTestDB(t)
	repo := employee.NewRepository(db)
	ctx := context.Background()

	companyID := uuid.New()
	dept := employee.Department{ID: uuid.New(), CompanyID: companyID, Name: "Coaching"}
	require.NoError(t, db.Create(&dept).Error)

	emp := employee.Employee{
		ID:               uuid.New(),
		CompanyID:        companyID,
		DepartmentID:     &dept.ID,
		FullName:         "ana lucia perez",
		EmploymentStatus: employee.StatusActive,
		BaseSalary:       decimal.NewFromInt(3000000),
	}
	require.NoError(t, db.Create(&emp).Error)

	got, err := repo.FindByIDAndCompany(ctx, companyID.String(), emp.ID.String())
	require.NoError(t, err)
	assert.Equal(t, emp.FullName, got.FullName)
	assert.True(t, got.BaseSalary.Equal(decimal.NewFromInt(3000000)))
	require.NotNil(t, got.Department)
	assert.Equal(t, "Coaching", got.Department.Name)
	assert.True(t, got.IsActive())

	_, err = repo.FindByIDAndCompany(ctx, uuid.NewString(), emp.ID.String())
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestRepository_CurrentPosition(t *testing.T) {
	db := newTestDB(t)
	repo := employee.NewRepository(db)
	ctx := context.Background()

	companyID := uuid.New()
	deptID := uuid.New()
	assistant := employee.Position{ID: uuid.New(), CompanyID: companyID, DepartmentID: deptID, Name: "Assistant Coach"}
	head := employee.Position{ID: uuid.New(), CompanyID: companyID, DepartmentID: deptID, Name: "Head Coach"}
	require.NoError(t, db.Create(&assistant).Error)
	require.NoError(t, db.Create(&head).Error)

	empID := uuid.New()
	ended := date("2023-12-31")
	require.NoError(t, db.Create(&employee.EmployeePosition{
		ID: uuid.New(), EmployeeID: empID, PositionID: assistant.ID,
		StartDate: date("2022-01-01"), EndDate: &ended,
	}).Error)

	_, found, err := repo.CurrentPosition(ctx, companyID.String(), empID.String())
	require.NoError(t, err)
	assert.False(t, found, "only closed assignments exist")

	require.NoError(t, db.Create(&employee.EmployeePosition{
		ID: uuid.New(), EmployeeID: empID, PositionID: head.ID,
		StartDate: date("2024-01-01"),
	}).Error)

	pos, found, err := repo.CurrentPosition(ctx, companyID.String(), empID.String())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, head.ID, pos.ID)
	assert.Equal(t, "Head Coach", pos.Name)

	_, found, err = repo.CurrentPosition(ctx, uuid.NewString(), empID.String())
	require.NoError(t, err)
	assert.False(t, found, "other tenants never see the position")
}
