package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/events"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payroll"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PayslipGenerator is satisfied by payroll.Service.
type PayslipGenerator interface {
	GeneratePayslip(ctx context.Context, companyID, id string) (payroll.PayrollResponse, error)
}

// PayslipHandler renders the payslip of every approved payroll.
func PayslipHandler(payslips PayslipGenerator, logger *zap.Logger) HandlerFunc {
	log := logger.Named("kafka.consumer.payroll_payslip")
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.PayrollApprovedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return Permanent(fmt.Errorf("decode %s event: %w", events.EventPayrollApproved, err))
		}
		if event.PayrollID == "" || event.CompanyID == "" {
			return Permanent(fmt.Errorf("%s event without payroll or company id", events.EventPayrollApproved))
		}

		resp, err := payslips.GeneratePayslip(ctx, event.CompanyID, event.PayrollID)
		if err != nil {
			return err
		}

		log.Info("payroll payslip generated",
			zap.String("payroll_id", event.PayrollID),
			zap.String("company_id", event.CompanyID),
			zap.String("payslip_url", resp.PayslipURL),
		)
		return nil
	}
}

// ConsumePayrollApproved runs PayslipHandler over the approved topic.
func ConsumePayrollApproved(ctx context.Context, reader MessageReader, payslips PayslipGenerator, logger *zap.Logger, opts ...Option) {
	Run(ctx, reader, "payroll_approved", PayslipHandler(payslips, logger), logger, opts...)
}
