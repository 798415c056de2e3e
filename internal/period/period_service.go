package period

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/events"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/messaging/kafka"
	perioderrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/period/errors"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Payroll status names as stored in the payrolls table.
const payrollStatusDraft = "draft"

var payrollStatuses = []string{"draft", "calculated", "approved", "paid", "rejected", "cancelled"}

//go:generate mockgen -source=period_service.go -destination=mock/period_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreatePeriodRequest) (PeriodResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdatePeriodRequest) (PeriodResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PeriodResponse, error)
	List(ctx context.Context, companyID string, filter ListFilter) ([]PeriodResponse, int64, error)
	Open(ctx context.Context, companyID, id string) (PeriodResponse, error)
	StartProcessing(ctx context.Context, companyID, id string) (PeriodResponse, error)
	Close(ctx context.Context, companyID, actorID, id string) (PeriodResponse, error)
	Reopen(ctx context.Context, companyID, id string) (PeriodResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	Summary(ctx context.Context, companyID, id string) (SummaryResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("period.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("period.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l, now: time.Now}
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, apperror.InvalidField(field)
	}
	return t, nil
}

func validateDates(start, end, pay time.Time) error {
	if !end.After(start) {
		return perioderrors.ErrEndBeforeStart
	}
	if pay.Before(end) {
		return perioderrors.ErrPayBeforeEnd
	}
	return nil
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreatePeriodRequest) (PeriodResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PeriodResponse{}, apperror.InvalidField("company_id")
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return PeriodResponse{}, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return PeriodResponse{}, err
	}
	pay, err := parseDate("pay_date", req.PayDate)
	if err != nil {
		return PeriodResponse{}, err
	}
	if err := validateDates(start, end, pay); err != nil {
		return PeriodResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlap(ctx, companyID, start, end, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	if overlap {
		s.logger.Warn("create period overlaps existing period",
			zap.String("company_id", companyID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return PeriodResponse{}, perioderrors.ErrPeriodDatesOverlap
	}

	year, month, number := Numbering(req.PeriodType, start)
	p := &PayrollPeriod{
		ID:           uuid.New(),
		CompanyID:    companyUUID,
		Name:         strings.TrimSpace(req.Name),
		PeriodType:   req.PeriodType,
		StartDate:    start,
		EndDate:      end,
		PayDate:      pay,
		Year:         year,
		Month:        month,
		PeriodNumber: number,
		Status:       StatusDraft,
		Notes:        req.Notes,
	}
	if actor, err := uuid.Parse(actorID); err == nil {
		p.CreatedBy = &actor
	}

	if err := qtx.Create(ctx, p); err != nil {
		return PeriodResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	s.logger.Info("payroll period created",
		zap.String("company_id", companyID),
		zap.String("period_id", p.ID.String()),
		zap.Int("period_number", number),
	)
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdatePeriodRequest) (PeriodResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}
	if p.Status != StatusDraft {
		return PeriodResponse{}, perioderrors.ErrPeriodNotEditable
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.PeriodType != nil {
		p.PeriodType = *req.PeriodType
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	if req.StartDate != nil {
		if p.StartDate, err = parseDate("start_date", *req.StartDate); err != nil {
			return PeriodResponse{}, err
		}
	}
	if req.EndDate != nil {
		if p.EndDate, err = parseDate("end_date", *req.EndDate); err != nil {
			return PeriodResponse{}, err
		}
	}
	if req.PayDate != nil {
		if p.PayDate, err = parseDate("pay_date", *req.PayDate); err != nil {
			return PeriodResponse{}, err
		}
	}
	if err := validateDates(p.StartDate, p.EndDate, p.PayDate); err != nil {
		return PeriodResponse{}, err
	}

	overlap, err := qtx.HasOverlap(ctx, companyID, p.StartDate, p.EndDate, &id)
	if err != nil {
		return PeriodResponse{}, err
	}
	if overlap {
		return PeriodResponse{}, perioderrors.ErrPeriodDatesOverlap
	}
	p.Year, p.Month, p.PeriodNumber = Numbering(p.PeriodType, p.StartDate)

	if err := qtx.Update(ctx, p); err != nil {
		return PeriodResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PeriodResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) List(ctx context.Context, companyID string, filter ListFilter) ([]PeriodResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	periods, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(periods), total, nil
}

// transition moves a period to `to` when the current status is one of
// from and the transition table allows it. mutate runs before the save.
func (s *service) transition(
	ctx context.Context,
	companyID, id string,
	to PeriodStatus,
	from []PeriodStatus,
	mutate func(tx *sql.Tx, qtx Repository, p *PayrollPeriod) error,
) (PeriodResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}

	allowed := false
	for _, f := range from {
		if p.Status == f {
			allowed = true
			break
		}
	}
	if !allowed || !CanTransition(p.Status, to) {
		s.logger.Warn("transition period status invalid",
			zap.String("period_id", id),
			zap.String("from", string(p.Status)),
			zap.String("to", string(to)),
		)
		return PeriodResponse{}, perioderrors.ErrInvalidPeriodTransition.WithMessage(
			fmt.Sprintf("Period cannot move from %s to %s", p.Status, to),
		)
	}

	if mutate != nil {
		if err := mutate(tx, qtx, p); err != nil {
			return PeriodResponse{}, err
		}
	}
	p.Status = to

	if err := qtx.Update(ctx, p); err != nil {
		return PeriodResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	s.logger.Info("payroll period status changed",
		zap.String("company_id", companyID),
		zap.String("period_id", id),
		zap.String("status", string(to)),
	)
	return mapToResponse(*p), nil
}

func (s *service) Open(ctx context.Context, companyID, id string) (PeriodResponse, error) {
	return s.transition(ctx, companyID, id, StatusOpen, []PeriodStatus{StatusDraft},
		func(_ *sql.Tx, _ Repository, p *PayrollPeriod) error {
			now := s.now()
			p.OpenedAt = &now
			return nil
		})
}

func (s *service) StartProcessing(ctx context.Context, companyID, id string) (PeriodResponse, error) {
	return s.transition(ctx, companyID, id, StatusProcessing, []PeriodStatus{StatusOpen}, nil)
}

func (s *service) Close(ctx context.Context, companyID, actorID, id string) (PeriodResponse, error) {
	return s.transition(ctx, companyID, id, StatusClosed, []PeriodStatus{StatusOpen, StatusProcessing},
		func(tx *sql.Tx, qtx Repository, p *PayrollPeriod) error {
			pending, err := qtx.CountPayrolls(ctx, id, payrollStatusDraft)
			if err != nil {
				return err
			}
			if pending > 0 {
				return perioderrors.ErrPendingPayrolls.WithMessage(
					fmt.Sprintf("%d payrolls are still in draft", pending),
				)
			}
			total, err := qtx.CountPayrolls(ctx, id, "")
			if err != nil {
				return err
			}

			now := s.now()
			p.ClosedAt = &now
			if actor, err := uuid.Parse(actorID); err == nil {
				p.ClosedBy = &actor
			}

			if s.outbox == nil {
				return nil
			}
			event, err := kafka.NewOutboxEvent(
				contextutil.GetRequestID(ctx),
				events.AggregatePayrollPeriod,
				id,
				events.EventPeriodClosed,
				events.PayrollPeriodClosedTopic,
				events.PeriodClosedEvent{
					EventType:    events.EventPeriodClosed,
					PeriodID:     id,
					CompanyID:    companyID,
					PayrollCount: total,
					ClosedBy:     actorID,
					OccurredAt:   now.UTC(),
				},
			)
			if err != nil {
				return err
			}
			return s.outbox.WithTx(tx).Create(ctx, event)
		})
}

func (s *service) Reopen(ctx context.Context, companyID, id string) (PeriodResponse, error) {
	return s.transition(ctx, companyID, id, StatusOpen, []PeriodStatus{StatusClosed},
		func(_ *sql.Tx, _ Repository, p *PayrollPeriod) error {
			p.ClosedAt = nil
			p.ClosedBy = nil
			return nil
		})
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if p.Status != StatusDraft {
		return perioderrors.ErrPeriodHasPayrolls
	}
	count, err := qtx.CountPayrolls(ctx, id, "")
	if err != nil {
		return err
	}
	if count > 0 {
		return perioderrors.ErrPeriodHasPayrolls
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	return tx.Commit()
}

func (s *service) Summary(ctx context.Context, companyID, id string) (SummaryResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return SummaryResponse{}, mapRepositoryError(err)
	}
	rows, err := s.repo.PayrollTotalsByStatus(ctx, companyID, id)
	if err != nil {
		return SummaryResponse{}, err
	}

	resp := Summarize(rows)
	resp.PeriodID = p.ID.String()
	resp.Status = string(p.Status)
	return resp, nil
}

// Summarize folds per-status totals into counts, totals and averages. An
// empty input yields zeros.
func Summarize(rows []StatusTotals) SummaryResponse {
	resp := SummaryResponse{CountByStatus: make(map[string]int64, len(payrollStatuses))}
	for _, st := range payrollStatuses {
		resp.CountByStatus[st] = 0
	}

	var gross, deductions, taxes, net, employer decimal.Decimal
	for _, r := range rows {
		resp.CountByStatus[r.Status] += r.Count
		resp.PayrollCount += r.Count
		gross = gross.Add(r.GrossSalary)
		deductions = deductions.Add(r.TotalDeductions)
		taxes = taxes.Add(r.TotalTaxes)
		net = net.Add(r.NetSalary)
		employer = employer.Add(r.EmployerContributions)
	}

	stats := func(total decimal.Decimal) MoneyStats {
		avg := decimal.Zero
		if resp.PayrollCount > 0 {
			avg = total.DivRound(decimal.NewFromInt(resp.PayrollCount), 2)
		}
		return MoneyStats{Total: total.Round(2), Average: avg}
	}
	resp.GrossSalary = stats(gross)
	resp.TotalDeductions = stats(deductions)
	resp.TotalTaxes = stats(taxes)
	resp.NetSalary = stats(net)
	resp.EmployerContributions = stats(employer)
	return resp
}
