package payroll

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/calculation"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/concept"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/employee"
	employeeerrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/employee/errors"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/events"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/messaging/kafka"
	payrollerrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/payroll/errors"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payrollconfig"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payslip"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/period"
	perioderrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/period/errors"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/contextutil"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/counter"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	// Calculate runs the engine for an employee and period and stores the
	// result as a calculated payroll. A draft for the pair is recalculated
	// in place.
	Calculate(ctx context.Context, companyID, actorID string, req CalculatePayrollRequest) (PayrollResponse, error)
	Create(ctx context.Context, companyID, actorID string, req CalculatePayrollRequest) (PayrollResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error)
	List(ctx context.Context, companyID string, filter ListFilter) ([]PayrollResponse, int64, error)
	Update(ctx context.Context, companyID, actorID, id string, req UpdatePayrollRequest) (PayrollResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	Approve(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	Reject(ctx context.Context, companyID, actorID, id string, req RejectPayrollRequest) (PayrollResponse, error)
	MarkAsPaid(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	GetBreakdown(ctx context.Context, companyID, id string) (BreakdownResponse, error)
	GeneratePayslip(ctx context.Context, companyID, id string) (PayrollResponse, error)
	DownloadPayslip(ctx context.Context, companyID, id string) ([]byte, string, error)
}

// Collaborators are the stores and services a payroll calculation reads
// from or writes to besides its own repository.
type Collaborators struct {
	Periods    period.Repository
	Employees  employee.Repository
	Concepts   concept.Service
	Settings   payrollconfig.Service
	Counters   counter.Repository
	Outbox     kafka.OutboxRepository
	Store      storage.Store
	IssuerName string
}

type service struct {
	db     *sql.DB
	repo   Repository
	deps   Collaborators
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, deps Collaborators, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{db: db, repo: repo, deps: deps, logger: l, now: time.Now}
}

// engineInput carries the attendance figures a calculation runs with. Nil
// worked days mean a full period.
type engineInput struct {
	workedDays    *decimal.Decimal
	workedHours   *decimal.Decimal
	overtimeHours *decimal.Decimal
	conceptCodes  []string
}

func valueOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}

func parseOptionalUUID(value string) *uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		return nil
	}
	return &id
}

// selectConcepts keeps the mandatory concepts plus the requested codes.
func selectConcepts(active []calculation.Concept, codes []string) ([]calculation.Concept, error) {
	byCode := make(map[string]struct{}, len(active))
	for _, c := range active {
		byCode[c.Code] = struct{}{}
	}

	wanted := make(map[string]bool, len(codes))
	for _, raw := range codes {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if _, ok := byCode[code]; !ok {
			return nil, payrollerrors.ErrUnknownConcept.WithDetails(map[string]string{"concept_codes": code})
		}
		wanted[code] = true
	}

	out := make([]calculation.Concept, 0, len(active))
	for _, c := range active {
		if c.Mandatory || wanted[c.Code] {
			out = append(out, c)
		}
	}
	return out, nil
}

// appliedCodes lists the catalog concepts a stored payroll was computed with.
func appliedCodes(details []PayrollDetail) []string {
	codes := make([]string, 0, len(details))
	for _, d := range details {
		if d.ConceptID != nil {
			codes = append(codes, d.ConceptCode)
		}
	}
	return codes
}

func mapEngineError(err error) error {
	var calcErr *calculation.CalculationError
	switch {
	case errors.Is(err, calculation.ErrMissingBaseSalary):
		return employeeerrors.ErrMissingBaseSalary
	case errors.Is(err, calculation.ErrInvalidWorkedDays):
		return apperror.InvalidField("worked_days")
	case errors.Is(err, calculation.ErrNegativeHours):
		return apperror.InvalidField("worked_hours")
	case errors.As(err, &calcErr):
		return payrollerrors.ErrCalculationFailed.WithMessage(
			fmt.Sprintf("Payroll could not be calculated: %v", calcErr),
		).WithDetails(map[string]string{"concept": calcErr.Code})
	case errors.Is(err, calculation.ErrInvalidRates):
		return payrollerrors.ErrCalculationFailed.WithMessage(err.Error())
	}
	return err
}

// runEngine loads the rates and concept catalog for the company and
// computes the payroll for emp in p.
func (s *service) runEngine(
	ctx context.Context,
	companyID string,
	p *period.PayrollPeriod,
	emp *employee.Employee,
	in engineInput,
) (calculation.Result, error) {
	rates, err := s.deps.Settings.GetRates(ctx, companyID)
	if err != nil {
		return calculation.Result{}, err
	}
	active, err := s.deps.Concepts.ActiveForCalculation(ctx, companyID)
	if err != nil {
		return calculation.Result{}, mapEngineError(err)
	}
	concepts, err := selectConcepts(active, in.conceptCodes)
	if err != nil {
		return calculation.Result{}, err
	}

	days := p.Days()
	std := decimal.NewFromInt(int64(calculation.StandardPeriodDays(p.PeriodType, days)))
	result, err := calculation.Calculate(calculation.Input{
		BaseSalary:    emp.BaseSalary,
		PeriodType:    p.PeriodType,
		PeriodDays:    days,
		WorkedDays:    valueOr(in.workedDays, std),
		WorkedHours:   valueOr(in.workedHours, decimal.Zero),
		OvertimeHours: valueOr(in.overtimeHours, decimal.Zero),
	}, rates, concepts)
	if err != nil {
		s.logger.Warn("payroll calculation failed",
			zap.String("company_id", companyID),
			zap.String("employee_id", emp.ID.String()),
			zap.String("period_id", p.ID.String()),
			zap.Error(err),
		)
		return calculation.Result{}, mapEngineError(err)
	}
	return result, nil
}

// applyResult copies the engine totals onto the payroll and returns the
// detail rows that replace the previous ones.
func applyResult(pr *Payroll, res calculation.Result) []PayrollDetail {
	pr.BaseSalary = res.BaseSalary
	pr.WorkedDays = res.WorkedDays
	pr.WorkedHours = res.WorkedHours
	pr.RegularHours = res.RegularHours
	pr.OvertimeHours = res.OvertimeHours
	pr.GrossSalary = res.GrossSalary
	pr.TotalEarnings = res.TotalEarnings
	pr.TotalDeductions = res.TotalDeductions
	pr.TotalTaxes = res.TotalTaxes
	pr.NetSalary = res.NetSalary
	pr.EmployerContributions = res.EmployerContributions
	pr.SocialSecurityBase = res.SocialSecurityBase
	pr.TaxableBase = res.TaxableBase
	pr.RatesVersion = res.RatesVersion

	details := make([]PayrollDetail, 0, len(res.Lines))
	for i, l := range res.Lines {
		details = append(details, PayrollDetail{
			ID:          uuid.New(),
			PayrollID:   pr.ID,
			ConceptID:   parseOptionalUUID(l.ConceptID),
			ConceptCode: l.Code,
			ConceptName: l.Name,
			Type:        string(l.Type),
			Amount:      l.Amount,
			Quantity:    l.Quantity,
			Rate:        l.Rate,
			LineOrder:   i + 1,
		})
	}
	pr.Details = details
	return details
}

func (s *service) loadPeriod(ctx context.Context, repo period.Repository, companyID, id string) (*period.PayrollPeriod, error) {
	p, err := repo.FindByIDAndCompany(ctx, companyID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, perioderrors.ErrPeriodNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// openPeriod loads a period that accepts new calculations.
func (s *service) openPeriod(ctx context.Context, repo period.Repository, companyID, id string) (*period.PayrollPeriod, error) {
	p, err := s.loadPeriod(ctx, repo, companyID, id)
	if err != nil {
		return nil, err
	}
	if p.Status == period.StatusClosed {
		return nil, payrollerrors.ErrPeriodClosed
	}
	if !p.AcceptsPayrolls() {
		return nil, payrollerrors.ErrPeriodNotAcceptingPayrolls
	}
	return p, nil
}

func (s *service) activeEmployee(ctx context.Context, repo employee.Repository, companyID, id string) (*employee.Employee, error) {
	emp, err := repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !emp.IsActive() {
		return nil, employeeerrors.ErrEmployeeInactive
	}
	return emp, nil
}

func (s *service) Calculate(ctx context.Context, companyID, actorID string, req CalculatePayrollRequest) (PayrollResponse, error) {
	return s.upsert(ctx, companyID, actorID, req, StatusCalculated)
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CalculatePayrollRequest) (PayrollResponse, error) {
	return s.upsert(ctx, companyID, actorID, req, StatusDraft)
}

// upsert computes a payroll for the request's pair and stores it with
// status. A calculation may overwrite an existing draft; a draft creation
// never overwrites anything.
func (s *service) upsert(
	ctx context.Context,
	companyID, actorID string,
	req CalculatePayrollRequest,
	status PayrollStatus,
) (PayrollResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PayrollResponse{}, apperror.InvalidField("company_id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.openPeriod(ctx, s.deps.Periods.WithTx(tx), companyID, req.PayrollPeriodID)
	if err != nil {
		return PayrollResponse{}, err
	}
	employees := s.deps.Employees.WithTx(tx)
	emp, err := s.activeEmployee(ctx, employees, companyID, req.EmployeeID)
	if err != nil {
		return PayrollResponse{}, err
	}

	existing, err := qtx.FindByEmployeeAndPeriod(ctx, companyID, req.EmployeeID, req.PayrollPeriodID)
	if err != nil {
		return PayrollResponse{}, err
	}
	if existing != nil {
		if status == StatusDraft {
			return PayrollResponse{}, payrollerrors.ErrPayrollAlreadyExists
		}
		if existing.Status != StatusDraft {
			s.logger.Warn("calculate payroll already calculated",
				zap.String("company_id", companyID),
				zap.String("payroll_id", existing.ID.String()),
				zap.String("status", string(existing.Status)),
			)
			return PayrollResponse{}, payrollerrors.ErrPayrollAlreadyCalculated
		}
	}

	result, err := s.runEngine(ctx, companyID, p, emp, engineInput{
		workedDays:    req.WorkedDays,
		workedHours:   req.WorkedHours,
		overtimeHours: req.OvertimeHours,
		conceptCodes:  req.ConceptCodes,
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	pr := existing
	if pr == nil {
		seq, err := s.deps.Counters.WithTx(tx).GetNextValue(ctx, companyID, counter.TypePayroll)
		if err != nil {
			return PayrollResponse{}, err
		}
		pr = &Payroll{
			ID:              uuid.New(),
			CompanyID:       companyUUID,
			PayrollNumber:   counter.FormatNumber(NumberPrefix, seq),
			EmployeeID:      emp.ID,
			PayrollPeriodID: p.ID,
			CreatedBy:       parseOptionalUUID(actorID),
		}
	}
	pr.DepartmentID = emp.DepartmentID
	pr.PositionID = nil
	if pos, ok, err := employees.CurrentPosition(ctx, companyID, emp.ID.String()); err != nil {
		return PayrollResponse{}, err
	} else if ok {
		pr.PositionID = &pos.ID
	}
	if req.Notes != "" {
		pr.Notes = req.Notes
	}
	pr.Status = status
	if status == StatusCalculated {
		now := s.now()
		pr.CalculatedAt = &now
	}
	details := applyResult(pr, result)

	if existing == nil {
		err = qtx.Create(ctx, pr)
	} else {
		err = qtx.Update(ctx, pr)
	}
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if err := qtx.ReplaceDetails(ctx, pr.ID.String(), details); err != nil {
		return PayrollResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("payroll computed",
		zap.String("company_id", companyID),
		zap.String("payroll_id", pr.ID.String()),
		zap.String("payroll_number", pr.PayrollNumber),
		zap.String("status", string(pr.Status)),
		zap.String("net_salary", pr.NetSalary.StringFixed(2)),
	)
	resp := mapToResponse(*pr)
	b := Breakdown(*pr)
	resp.Breakdown = &b
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	pr, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	resp := mapToResponse(*pr)
	b := Breakdown(*pr)
	resp.Breakdown = &b
	return resp, nil
}

func (s *service) List(ctx context.Context, companyID string, filter ListFilter) ([]PayrollResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	payrolls, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(payrolls), total, nil
}

// mutate loads a payroll under a transaction, refuses changes while its
// period is closed, runs fn and saves the result.
func (s *service) mutate(
	ctx context.Context,
	companyID, id string,
	fn func(tx *sql.Tx, qtx Repository, pr *Payroll, p *period.PayrollPeriod) error,
) (*Payroll, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	pr, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	p, err := s.loadPeriod(ctx, s.deps.Periods.WithTx(tx), companyID, pr.PayrollPeriodID.String())
	if err != nil {
		return nil, err
	}
	if p.Status == period.StatusClosed {
		return nil, payrollerrors.ErrPeriodClosed
	}

	if err := fn(tx, qtx, pr, p); err != nil {
		return nil, err
	}
	if err := qtx.Update(ctx, pr); err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return pr, nil
}

// changeStatus moves pr to `to`, stamping the audit fields the target
// status carries. Approval also queues the payroll.approved event.
func (s *service) changeStatus(
	ctx context.Context,
	tx *sql.Tx,
	pr *Payroll,
	to PayrollStatus,
	actorID, reason string,
) error {
	if !CanTransition(pr.Status, to) {
		s.logger.Warn("payroll status transition invalid",
			zap.String("payroll_id", pr.ID.String()),
			zap.String("from", string(pr.Status)),
			zap.String("to", string(to)),
		)
		return payrollerrors.ErrInvalidStatusTransition.WithMessage(
			fmt.Sprintf("Payroll cannot move from %s to %s", pr.Status, to),
		)
	}

	now := s.now()
	switch to {
	case StatusApproved:
		pr.ApprovedAt = &now
		pr.ApprovedBy = parseOptionalUUID(actorID)
		if err := s.queueApproved(ctx, tx, pr, actorID, now); err != nil {
			return err
		}
	case StatusRejected:
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return payrollerrors.ErrRejectionReasonRequired
		}
		pr.RejectionReason = reason
		pr.RejectedAt = &now
		pr.RejectedBy = parseOptionalUUID(actorID)
		pr.ApprovedAt = nil
		pr.ApprovedBy = nil
	case StatusPaid:
		pr.PaidAt = &now
	case StatusCalculated:
		pr.CalculatedAt = &now
	case StatusDraft:
		pr.ApprovedAt = nil
		pr.ApprovedBy = nil
	}
	pr.Status = to
	return nil
}

func (s *service) queueApproved(ctx context.Context, tx *sql.Tx, pr *Payroll, actorID string, at time.Time) error {
	if s.deps.Outbox == nil {
		return nil
	}
	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		events.AggregatePayroll,
		pr.ID.String(),
		events.EventPayrollApproved,
		events.PayrollApprovedTopic,
		events.PayrollApprovedEvent{
			EventType:  events.EventPayrollApproved,
			PayrollID:  pr.ID.String(),
			CompanyID:  pr.CompanyID.String(),
			EmployeeID: pr.EmployeeID.String(),
			PeriodID:   pr.PayrollPeriodID.String(),
			NetSalary:  pr.NetSalary.StringFixed(2),
			ApprovedBy: actorID,
			OccurredAt: at.UTC(),
		},
	)
	if err != nil {
		return err
	}
	return s.deps.Outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) Update(ctx context.Context, companyID, actorID, id string, req UpdatePayrollRequest) (PayrollResponse, error) {
	pr, err := s.mutate(ctx, companyID, id, func(tx *sql.Tx, qtx Repository, pr *Payroll, p *period.PayrollPeriod) error {
		var target PayrollStatus
		if req.Status != nil && PayrollStatus(*req.Status) != pr.Status {
			target = PayrollStatus(*req.Status)
			if !ValidStatus(target) {
				return apperror.InvalidField("status")
			}
		}

		if req.editsFields() || target == StatusCalculated {
			if pr.Status != StatusDraft {
				return payrollerrors.ErrPayrollNotEditable
			}
			if req.Notes != nil {
				pr.Notes = *req.Notes
			}
		}

		recalc := req.Recalculate || req.WorkedDays != nil || req.WorkedHours != nil ||
			req.OvertimeHours != nil || req.ConceptCodes != nil || target == StatusCalculated
		if recalc {
			emp, err := s.activeEmployee(ctx, s.deps.Employees.WithTx(tx), companyID, pr.EmployeeID.String())
			if err != nil {
				return err
			}
			codes := req.ConceptCodes
			if codes == nil {
				codes = appliedCodes(pr.Details)
			}
			in := engineInput{
				workedDays:    &pr.WorkedDays,
				workedHours:   &pr.WorkedHours,
				overtimeHours: &pr.OvertimeHours,
				conceptCodes:  codes,
			}
			if req.WorkedDays != nil {
				in.workedDays = req.WorkedDays
			}
			if req.WorkedHours != nil {
				in.workedHours = req.WorkedHours
			}
			if req.OvertimeHours != nil {
				in.overtimeHours = req.OvertimeHours
			}
			// Explicit attendance changes drop the stored total hours so
			// the engine derives them again from days and overtime.
			if req.WorkedHours == nil && (req.WorkedDays != nil || req.OvertimeHours != nil) {
				in.workedHours = nil
			}
			result, err := s.runEngine(ctx, companyID, p, emp, in)
			if err != nil {
				return err
			}
			details := applyResult(pr, result)
			if err := qtx.ReplaceDetails(ctx, pr.ID.String(), details); err != nil {
				return err
			}
		}

		if target != "" {
			reason := ""
			if req.RejectionReason != nil {
				reason = *req.RejectionReason
			}
			if err := s.changeStatus(ctx, tx, pr, target, actorID, reason); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll updated",
		zap.String("company_id", companyID),
		zap.String("payroll_id", id),
		zap.String("status", string(pr.Status)),
	)
	return mapToResponse(*pr), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	pr, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if pr.Status != StatusDraft {
		return payrollerrors.ErrPayrollNotEditable
	}
	p, err := s.loadPeriod(ctx, s.deps.Periods.WithTx(tx), companyID, pr.PayrollPeriodID.String())
	if err != nil {
		return err
	}
	if p.Status == period.StatusClosed {
		return payrollerrors.ErrPeriodClosed
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	return tx.Commit()
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	pr, err := s.mutate(ctx, companyID, id, func(tx *sql.Tx, _ Repository, pr *Payroll, _ *period.PayrollPeriod) error {
		if pr.Status != StatusCalculated {
			return payrollerrors.ErrPayrollNotCalculated
		}
		return s.changeStatus(ctx, tx, pr, StatusApproved, actorID, "")
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll approved",
		zap.String("company_id", companyID),
		zap.String("payroll_id", id),
		zap.String("approved_by", actorID),
	)
	return mapToResponse(*pr), nil
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id string, req RejectPayrollRequest) (PayrollResponse, error) {
	if strings.TrimSpace(req.RejectionReason) == "" {
		return PayrollResponse{}, payrollerrors.ErrRejectionReasonRequired
	}
	pr, err := s.mutate(ctx, companyID, id, func(tx *sql.Tx, _ Repository, pr *Payroll, _ *period.PayrollPeriod) error {
		if pr.Status != StatusCalculated && pr.Status != StatusApproved {
			return payrollerrors.ErrPayrollNotRejectable
		}
		return s.changeStatus(ctx, tx, pr, StatusRejected, actorID, req.RejectionReason)
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll rejected",
		zap.String("company_id", companyID),
		zap.String("payroll_id", id),
		zap.String("rejected_by", actorID),
	)
	return mapToResponse(*pr), nil
}

func (s *service) MarkAsPaid(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	pr, err := s.mutate(ctx, companyID, id, func(tx *sql.Tx, _ Repository, pr *Payroll, _ *period.PayrollPeriod) error {
		if pr.Status != StatusApproved {
			return payrollerrors.ErrPayrollNotApproved
		}
		return s.changeStatus(ctx, tx, pr, StatusPaid, actorID, "")
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll paid",
		zap.String("company_id", companyID),
		zap.String("payroll_id", id),
		zap.String("paid_by", actorID),
	)
	return mapToResponse(*pr), nil
}

func (s *service) GetBreakdown(ctx context.Context, companyID, id string) (BreakdownResponse, error) {
	pr, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return BreakdownResponse{}, mapRepositoryError(err)
	}
	return Breakdown(*pr), nil
}

func payslipAvailable(status PayrollStatus) bool {
	return status == StatusCalculated || status == StatusApproved || status == StatusPaid
}

func (s *service) renderPayslip(ctx context.Context, companyID string, pr *Payroll) ([]byte, error) {
	p, err := s.loadPeriod(ctx, s.deps.Periods, companyID, pr.PayrollPeriodID.String())
	if err != nil {
		return nil, err
	}
	emp, err := s.deps.Employees.FindByIDAndCompany(ctx, companyID, pr.EmployeeID.String())
	if err != nil {
		return nil, err
	}

	doc := payslip.Payslip{
		CompanyName:           s.deps.IssuerName,
		PayrollNumber:         pr.PayrollNumber,
		Status:                string(pr.Status),
		EmployeeName:          emp.FullName,
		EmployeeNumber:        emp.EmployeeNumber,
		DocumentNumber:        emp.DocumentNumber,
		PeriodName:            p.Name,
		StartDate:             p.StartDate,
		EndDate:               p.EndDate,
		PayDate:               p.PayDate,
		BaseSalary:            pr.BaseSalary,
		WorkedDays:            pr.WorkedDays,
		WorkedHours:           pr.WorkedHours,
		OvertimeHours:         pr.OvertimeHours,
		GrossSalary:           pr.GrossSalary,
		TotalDeductions:       pr.TotalDeductions,
		TotalTaxes:            pr.TotalTaxes,
		NetSalary:             pr.NetSalary,
		EmployerContributions: pr.EmployerContributions,
		GeneratedAt:           s.now(),
	}
	if emp.Department != nil {
		doc.DepartmentName = emp.Department.Name
	}
	if pos, ok, err := s.deps.Employees.CurrentPosition(ctx, companyID, emp.ID.String()); err != nil {
		return nil, err
	} else if ok {
		doc.PositionName = pos.Name
	}
	for _, d := range pr.Details {
		doc.Lines = append(doc.Lines, payslip.Line{
			Code:     d.ConceptCode,
			Name:     d.ConceptName,
			Type:     d.Type,
			Quantity: d.Quantity,
			Rate:     d.Rate,
			Amount:   d.Amount,
		})
	}
	return payslip.Render(doc)
}

// GeneratePayslip renders the payslip of an approved or paid payroll and
// stores it, recording the resulting URL on the payroll.
func (s *service) GeneratePayslip(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	pr, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if pr.Status != StatusApproved && pr.Status != StatusPaid {
		return PayrollResponse{}, payrollerrors.ErrPayslipUnavailable
	}
	if s.deps.Store == nil {
		return PayrollResponse{}, fmt.Errorf("payslip storage is not configured")
	}

	pdf, err := s.renderPayslip(ctx, companyID, pr)
	if err != nil {
		return PayrollResponse{}, err
	}

	key := storage.PayslipKey(companyID, pr.PayrollPeriodID.String(), pr.PayrollNumber)
	info, err := s.deps.Store.Save(ctx, key, bytes.NewReader(pdf), payslip.ContentType)
	if err != nil {
		s.logger.Error("store payslip failed",
			zap.String("payroll_id", id),
			zap.String("key", key),
			zap.Error(err),
		)
		return PayrollResponse{}, err
	}

	pr.PayslipURL = info.URL
	if err := s.repo.Update(ctx, pr); err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("payslip generated",
		zap.String("company_id", companyID),
		zap.String("payroll_id", id),
		zap.String("url", info.URL),
		zap.Int64("size", info.FileSize),
	)
	return mapToResponse(*pr), nil
}

// DownloadPayslip renders the payslip on the fly and returns it with its
// file name.
func (s *service) DownloadPayslip(ctx context.Context, companyID, id string) ([]byte, string, error) {
	pr, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return nil, "", mapRepositoryError(err)
	}
	if !payslipAvailable(pr.Status) {
		return nil, "", payrollerrors.ErrPayslipUnavailable
	}
	pdf, err := s.renderPayslip(ctx, companyID, pr)
	if err != nil {
		return nil, "", err
	}
	return pdf, pr.PayrollNumber + ".pdf", nil
}
