package report

import (
	"context"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payroll"
	reporterrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/report/errors"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"

	"go.uber.org/zap"
)

// Payrolls that count as cost in analytics.
var analyticsStatuses = []string{
	string(payroll.StatusCalculated),
	string(payroll.StatusApproved),
	string(payroll.StatusPaid),
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, companyID string, filter ReportFilter) (Report, error)
	Analytics(ctx context.Context, companyID string, months int) (Analytics, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, apperror.InvalidField(field)
	}
	return &t, nil
}

func (s *service) query(filter ReportFilter) (Query, error) {
	from, err := parseDate("date_from", filter.DateFrom)
	if err != nil {
		return Query{}, err
	}
	to, err := parseDate("date_to", filter.DateTo)
	if err != nil {
		return Query{}, err
	}
	if from != nil && to != nil && from.After(*to) {
		return Query{}, reporterrors.ErrInvalidDateRange
	}

	q := Query{
		PeriodID:     filter.PeriodID,
		DepartmentID: filter.DepartmentID,
		PositionID:   filter.PositionID,
		From:         from,
		To:           to,
	}
	if filter.Status != "" {
		q.Statuses = []string{filter.Status}
	}
	return q, nil
}

func (s *service) Generate(ctx context.Context, companyID string, filter ReportFilter) (Report, error) {
	if filter.ReportType == "" {
		filter.ReportType = TypeSummary
	}
	q, err := s.query(filter)
	if err != nil {
		return Report{}, err
	}

	rows, err := s.repo.Rows(ctx, companyID, q)
	if err != nil {
		s.logger.Error("load report rows failed",
			zap.String("company_id", companyID),
			zap.String("report_type", filter.ReportType),
			zap.Error(err),
		)
		return Report{}, err
	}

	out := Report{
		ReportType:  filter.ReportType,
		Filter:      filter,
		GeneratedAt: s.now().UTC(),
		Totals:      aggregate(rows),
	}
	switch filter.ReportType {
	case TypeDetailed:
		out.Data = rows
	case TypeComparative:
		out.Data = Compare(rows)
	case TypeSummary:
		out.Data = Summarize(rows)
	default:
		return Report{}, apperror.InvalidField("report_type")
	}
	return out, nil
}

func (s *service) Analytics(ctx context.Context, companyID string, months int) (Analytics, error) {
	if months < 1 {
		months = DefaultAnalyticsMonths
	}
	now := s.now().UTC()
	from := TrendStart(now, months)

	rows, err := s.repo.Rows(ctx, companyID, Query{
		Statuses: analyticsStatuses,
		From:     &from,
	})
	if err != nil {
		s.logger.Error("load analytics rows failed",
			zap.String("company_id", companyID),
			zap.Int("months", months),
			zap.Error(err),
		)
		return Analytics{}, err
	}

	return Analytics{
		Months:          months,
		From:            from.Format(dateLayout),
		Trend:           Trend(rows, months, now),
		DepartmentShare: Shares(rows),
	}, nil
}
