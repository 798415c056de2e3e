package payroll_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payroll"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&payroll.Payroll{}, &payroll.PayrollDetail{}))
	return db
}

func seedPayroll(t *testing.T, repo payroll.Repository, company, periodID uuid.UUID, number string, status payroll.PayrollStatus) *payroll.Payroll {
	t.Helper()
	p := &payroll.Payroll{
		ID:              uuid.New(),
		CompanyID:       company,
		PayrollNumber:   number,
		EmployeeID:      uuid.New(),
		PayrollPeriodID: periodID,
		BaseSalary:      decimal.NewFromInt(3000000),
		WorkedDays:      decimal.NewFromInt(30),
		GrossSalary:     decimal.NewFromInt(3000000),
		NetSalary:       decimal.NewFromInt(2760000),
		Status:          status,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func detail(payrollID uuid.UUID, code string, order int) payroll.PayrollDetail {
	return payroll.PayrollDetail{
		ID:          uuid.New(),
		PayrollID:   payrollID,
		ConceptCode: code,
		ConceptName: code,
		Type:        "deduction",
		Amount:      decimal.NewFromInt(120000),
		LineOrder:   order,
	}
}

func TestRepository_DetailsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := payroll.NewRepository(db)
	ctx := context.Background()
	company := uuid.New()
	p := seedPayroll(t, repo, company, uuid.New(), "NOM-000001", payroll.StatusDraft)

	require.NoError(t, repo.ReplaceDetails(ctx, p.ID.String(), []payroll.PayrollDetail{
		detail(p.ID, "PENSION", 2),
		detail(p.ID, "HEALTH", 1),
	}))

	got, err := repo.FindByIDAndCompany(ctx, company.String(), p.ID.String())
	require.NoError(t, err)
	require.Len(t, got.Details, 2)
	assert.Equal(t, "HEALTH", got.Details[0].ConceptCode)
	assert.True(t, got.NetSalary.Equal(decimal.NewFromInt(2760000)))

	require.NoError(t, repo.ReplaceDetails(ctx, p.ID.String(), []payroll.PayrollDetail{detail(p.ID, "SOLIDARITY_FUND", 1)}))
	got, err = repo.FindByIDAndCompany(ctx, company.String(), p.ID.String())
	require.NoError(t, err)
	require.Len(t, got.Details, 1)
	assert.Equal(t, "SOLIDARITY_FUND", got.Details[0].ConceptCode)

	_, err = repo.FindByIDAndCompany(ctx, uuid.NewString(), p.ID.String())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DetailsHoldLargeContributionBase(t *testing.T) {
	db := newTestDB(t)
	repo := payroll.NewRepository(db)
	ctx := context.Background()
	company := uuid.New()
	p := seedPayroll(t, repo, company, uuid.New(), "NOM-000001", payroll.StatusDraft)

	ibc := decimal.RequireFromString("120000000.0000")
	line := detail(p.ID, "EMPLOYER_PENSION", 1)
	line.Type = "employer_contribution"
	line.Amount = decimal.NewFromInt(14400000)
	line.Quantity = ibc
	line.Rate = decimal.RequireFromString("0.12")
	require.NoError(t, repo.ReplaceDetails(ctx, p.ID.String(), []payroll.PayrollDetail{line}))

	got, err := repo.FindByIDAndCompany(ctx, company.String(), p.ID.String())
	require.NoError(t, err)
	require.Len(t, got.Details, 1)
	assert.True(t, ibc.Equal(got.Details[0].Quantity), got.Details[0].Quantity.String())

	// sqlite does not enforce precision, so check the declared column types
	parsed, err := schema.Parse(&payroll.PayrollDetail{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	assert.Equal(t, "numeric(18,4)", parsed.LookUpField("Quantity").TagSettings["TYPE"])
	assert.Equal(t, "numeric(18,6)", parsed.LookUpField("Rate").TagSettings["TYPE"])

	ddl, err := os.ReadFile("../../migrations/000001_init_schema.up.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(ddl), "quantity NUMERIC(18,4) NOT NULL"))
	assert.True(t, strings.Contains(string(ddl), "rate NUMERIC(18,6) NOT NULL"))
}

func TestRepository_FindByEmployeeAndPeriod(t *testing.T) {
	db := newTestDB(t)
	repo := payroll.NewRepository(db)
	ctx := context.Background()
	company := uuid.New()
	periodID := uuid.New()
	p := seedPayroll(t, repo, company, periodID, "NOM-000001", payroll.StatusCalculated)

	got, err := repo.FindByEmployeeAndPeriod(ctx, company.String(), p.EmployeeID.String(), periodID.String())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)

	got, err = repo.FindByEmployeeAndPeriod(ctx, company.String(), p.EmployeeID.String(), uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_UniquePair(t *testing.T) {
	db := newTestDB(t)
	repo := payroll.NewRepository(db)
	company := uuid.New()
	periodID := uuid.New()
	p := seedPayroll(t, repo, company, periodID, "NOM-000001", payroll.StatusCalculated)

	dup := *p
	dup.ID = uuid.New()
	dup.PayrollNumber = "NOM-000002"
	assert.Error(t, repo.Create(context.Background(), &dup))
}

func TestRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := payroll.NewRepository(db)
	ctx := context.Background()
	company := uuid.New()
	jan := uuid.New()
	feb := uuid.New()
	seedPayroll(t, repo, company, jan, "NOM-000001", payroll.StatusApproved)
	seedPayroll(t, repo, company, jan, "NOM-000002", payroll.StatusDraft)
	seedPayroll(t, repo, company, feb, "NOM-000003", payroll.StatusApproved)
	seedPayroll(t, repo, uuid.New(), jan, "NOM-000001", payroll.StatusApproved)

	out, total, err := repo.List(ctx, company.String(), payroll.ListFilter{PeriodID: jan.String(), Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, out, 2)

	out, total, err = repo.List(ctx, company.String(), payroll.ListFilter{Status: "approved", Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, out, 1)
}

func TestRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := payroll.NewRepository(db)
	ctx := context.Background()
	company := uuid.New()
	p := seedPayroll(t, repo, company, uuid.New(), "NOM-000001", payroll.StatusDraft)
	require.NoError(t, repo.ReplaceDetails(ctx, p.ID.String(), []payroll.PayrollDetail{detail(p.ID, "HEALTH", 1)}))

	require.NoError(t, repo.Delete(ctx, company.String(), p.ID.String()))

	var count int64
	require.NoError(t, db.Model(&payroll.PayrollDetail{}).Where("payroll_id = ?", p.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.ErrorIs(t, repo.Delete(ctx, company.String(), p.ID.String()), gorm.ErrRecordNotFound)
}
