package period_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/period"

	"github.com/google/uuid"
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
	require.NoError(t, db.AutoMigrate(&period.PayrollPeriod{}))
	require.NoError(t, db.Exec(`CREATE TABLE payrolls (
		id TEXT PRIMARY KEY,
		company_id TEXT,
		payroll_period_id TEXT,
		status TEXT,
		gross_salary NUMERIC,
		total_deductions NUMERIC,
		total_taxes NUMERIC,
		net_salary NUMERIC,
		employer_contributions NUMERIC
	)`).Error)
	return db
}

func seedPeriod(t *testing.T, repo period.Repository, companyID uuid.UUID, start, end string) *period.PayrollPeriod {
	t.Helper()
	p := &period.PayrollPeriod{
		ID:         uuid.New(),
		CompanyID:  companyID,
		Name:       start,
		PeriodType: period.TypeMonthly,
		StartDate:  day(start),
		EndDate:    day(end),
		PayDate:    day(end),
		Status:     period.StatusDraft,
	}
	p.Year, p.Month, p.PeriodNumber = period.Numbering(p.PeriodType, p.StartDate)
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestRepository_HasOverlap(t *testing.T) {
	db := newTestDB(t)
	repo := period.NewRepository(db)
	ctx := context.Background()
	company := uuid.New()
	feb := seedPeriod(t, repo, company, "2024-02-01", "2024-02-29")

	cases := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"straddles the end", "2024-02-15", "2024-03-15", true},
		{"touches the last day", "2024-02-29", "2024-03-10", true},
		{"touches the first day", "2024-01-15", "2024-02-01", true},
		{"contained", "2024-02-10", "2024-02-12", true},
		{"next month", "2024-03-01", "2024-03-31", false},
		{"previous month", "2024-01-01", "2024-01-31", false},
	}
	for _, tc := range cases {
		got, err := repo.HasOverlap(ctx, company.String(), day(tc.start), day(tc.end), nil)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.name)
	}

	t.Run("another tenant never overlaps", func(t *testing.T) {
		got, err := repo.HasOverlap(ctx, uuid.NewString(), day("2024-02-01"), day("2024-02-29"), nil)
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("the period itself is excluded on update", func(t *testing.T) {
		self := feb.ID.String()
		got, err := repo.HasOverlap(ctx, company.String(), day("2024-02-01"), day("2024-02-28"), &self)
		require.NoError(t, err)
		assert.False(t, got)
	})
}

func TestRepository_ListAndTotals(t *testing.T) {
	db := newTestDB(t)
	repo := period.NewRepository(db)
	ctx := context.Background()
	company := uuid.New()

	jan := seedPeriod(t, repo, company, "2024-01-01", "2024-01-31")
	seedPeriod(t, repo, company, "2024-02-01", "2024-02-29")
	seedPeriod(t, repo, company, "2023-12-01", "2023-12-31")

	list, total, err := repo.List(ctx, company.String(), period.ListFilter{Year: 2024, Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Month)

	insert := func(status, gross, net string) {
		require.NoError(t, db.Exec(`INSERT INTO payrolls
			(id, company_id, payroll_period_id, status, gross_salary, total_deductions, total_taxes, net_salary, employer_contributions)
			VALUES (?, ?, ?, ?, ?, 0, 0, ?, 0)`,
			uuid.NewString(), company.String(), jan.ID.String(), status, gross, net).Error)
	}
	insert("draft", "1000", "900")
	insert("draft", "2000", "1800")
	insert("approved", "3000", "2700")

	drafts, err := repo.CountPayrolls(ctx, jan.ID.String(), "draft")
	require.NoError(t, err)
	assert.Equal(t, int64(2), drafts)

	all, err := repo.CountPayrolls(ctx, jan.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), all)

	rows, err := repo.PayrollTotalsByStatus(ctx, company.String(), jan.ID.String())
	require.NoError(t, err)
	summary := period.Summarize(rows)
	assert.Equal(t, int64(3), summary.PayrollCount)
	assert.Equal(t, int64(2), summary.CountByStatus["draft"])
	assert.Equal(t, int64(1), summary.CountByStatus["approved"])
	assert.Equal(t, "6000", summary.GrossSalary.Total.String())
	assert.Equal(t, "2000", summary.GrossSalary.Average.String())
	assert.Equal(t, "5400", summary.NetSalary.Total.String())
}
