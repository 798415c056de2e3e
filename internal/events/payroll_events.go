// Package events holds the payloads written to the outbox and consumed
// from Kafka.
package events

import "time"

const (
	PayrollApprovedTopic     = "payroll.payroll.approved.v1"
	PayrollPeriodClosedTopic = "payroll.period.closed.v1"

	EventPayrollApproved = "payroll.approved"
	EventPeriodClosed    = "payroll.period.closed"

	AggregatePayroll       = "payroll"
	AggregatePayrollPeriod = "payroll_period"
)

type PayrollApprovedEvent struct {
	EventType  string    `json:"event_type"`
	PayrollID  string    `json:"payroll_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	PeriodID   string    `json:"payroll_period_id"`
	NetSalary  string    `json:"net_salary"`
	ApprovedBy string    `json:"approved_by"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PeriodClosedEvent struct {
	EventType    string    `json:"event_type"`
	PeriodID     string    `json:"payroll_period_id"`
	CompanyID    string    `json:"company_id"`
	PayrollCount int64     `json:"payroll_count"`
	ClosedBy     string    `json:"closed_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}
