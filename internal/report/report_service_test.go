package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/report"
	reporterrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/report/errors"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	rows    []report.Row
	err     error
	queries []report.Query
}

func (f *fakeReportRepo) Rows(_ context.Context, _ string, q report.Query) ([]report.Row, error) {
	f.queries = append(f.queries, q)
	return f.rows, f.err
}

func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()

	t.Run("defaults to a summary", func(t *testing.T) {
		repo := &fakeReportRepo{rows: []report.Row{row("paid", nil, "", 1000000, 920000)}}
		svc := report.NewService(repo)

		got, err := svc.Generate(ctx, companyID, report.ReportFilter{})
		require.NoError(t, err)
		assert.Equal(t, report.TypeSummary, got.ReportType)
		assert.Equal(t, int64(1), got.Totals.Count)
		summary, ok := got.Data.(report.Summary)
		require.True(t, ok)
		assert.True(t, summary.Overall.NetSalary.Equal(d(920000)))
		assert.False(t, got.GeneratedAt.IsZero())
	})

	t.Run("passes filters to the repository", func(t *testing.T) {
		repo := &fakeReportRepo{}
		svc := report.NewService(repo)
		periodID := uuid.NewString()

		_, err := svc.Generate(ctx, companyID, report.ReportFilter{
			ReportType: report.TypeDetailed,
			PeriodID:   periodID,
			DateFrom:   "2024-01-01",
			DateTo:     "2024-03-31",
			Status:     "paid",
		})
		require.NoError(t, err)
		require.Len(t, repo.queries, 1)
		q := repo.queries[0]
		assert.Equal(t, periodID, q.PeriodID)
		assert.Equal(t, []string{"paid"}, q.Statuses)
		require.NotNil(t, q.From)
		require.NotNil(t, q.To)
		assert.Equal(t, day("2024-01-01"), *q.From)
		assert.Equal(t, day("2024-03-31"), *q.To)
	})

	t.Run("detailed and comparative on an empty set", func(t *testing.T) {
		svc := report.NewService(&fakeReportRepo{rows: []report.Row{}})

		detailed, err := svc.Generate(ctx, companyID, report.ReportFilter{ReportType: report.TypeDetailed})
		require.NoError(t, err)
		rows, ok := detailed.Data.([]report.Row)
		require.True(t, ok)
		assert.Empty(t, rows)
		assert.True(t, detailed.Totals.GrossSalary.IsZero())

		comparative, err := svc.Generate(ctx, companyID, report.ReportFilter{ReportType: report.TypeComparative})
		require.NoError(t, err)
		periods, ok := comparative.Data.([]report.PeriodComparison)
		require.True(t, ok)
		assert.Empty(t, periods)
	})

	t.Run("rejects an inverted date range", func(t *testing.T) {
		repo := &fakeReportRepo{}
		svc := report.NewService(repo)

		_, err := svc.Generate(ctx, companyID, report.ReportFilter{DateFrom: "2024-03-01", DateTo: "2024-01-01"})
		assert.ErrorIs(t, err, reporterrors.ErrInvalidDateRange)
		assert.Empty(t, repo.queries)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		svc := report.NewService(&fakeReportRepo{})

		_, err := svc.Generate(ctx, companyID, report.ReportFilter{DateFrom: "01/02/2024"})
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("rejects an unknown report type", func(t *testing.T) {
		svc := report.NewService(&fakeReportRepo{})

		_, err := svc.Generate(ctx, companyID, report.ReportFilter{ReportType: "forecast"})
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		boom := errors.New("connection reset")
		svc := report.NewService(&fakeReportRepo{err: boom})

		_, err := svc.Generate(ctx, companyID, report.ReportFilter{})
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_Analytics(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	now := time.Now().UTC()

	dept := uuid.New()
	current := row("paid", &dept, "Coaching", 2000000, 1840000)
	current.PeriodStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeReportRepo{rows: []report.Row{current}}
	svc := report.NewService(repo)

	got, err := svc.Analytics(ctx, companyID, 0)
	require.NoError(t, err)
	assert.Equal(t, report.DefaultAnalyticsMonths, got.Months)
	require.Len(t, got.Trend, 12)
	assert.Equal(t, now.Format("2006-01"), got.Trend[11].Month)
	assert.True(t, got.Trend[11].GrossSalary.Equal(d(2000000)))
	require.Len(t, got.DepartmentShare, 1)
	assert.True(t, got.DepartmentShare[0].Percent.Equal(d(100)))

	require.Len(t, repo.queries, 1)
	q := repo.queries[0]
	assert.ElementsMatch(t, []string{"calculated", "approved", "paid"}, q.Statuses)
	require.NotNil(t, q.From)
	assert.Equal(t, got.From, q.From.Format("2006-01-02"))
	assert.Equal(t, 1, q.From.Day())
}

func TestService_Analytics_EmptySet(t *testing.T) {
	svc := report.NewService(&fakeReportRepo{})

	got, err := svc.Analytics(context.Background(), uuid.NewString(), 3)
	require.NoError(t, err)
	require.Len(t, got.Trend, 3)
	for _, p := range got.Trend {
		assert.True(t, p.GrossSalary.IsZero())
	}
	assert.Empty(t, got.DepartmentShare)
}
