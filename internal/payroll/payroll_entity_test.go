package payroll_test

import (
	"testing"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payroll"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []payroll.PayrollStatus{
		payroll.StatusDraft,
		payroll.StatusCalculated,
		payroll.StatusApproved,
		payroll.StatusPaid,
		payroll.StatusRejected,
		payroll.StatusCancelled,
	}
	allowed := map[payroll.PayrollStatus][]payroll.PayrollStatus{
		payroll.StatusDraft:      {payroll.StatusCalculated, payroll.StatusCancelled},
		payroll.StatusCalculated: {payroll.StatusApproved, payroll.StatusRejected, payroll.StatusDraft, payroll.StatusCancelled},
		payroll.StatusApproved:   {payroll.StatusPaid, payroll.StatusRejected},
		payroll.StatusRejected:   {payroll.StatusDraft},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, payroll.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_TerminalStates(t *testing.T) {
	for _, to := range []payroll.PayrollStatus{payroll.StatusDraft, payroll.StatusCalculated, payroll.StatusRejected} {
		assert.False(t, payroll.CanTransition(payroll.StatusPaid, to))
		assert.False(t, payroll.CanTransition(payroll.StatusCancelled, to))
	}
}

func TestBreakdown_Empty(t *testing.T) {
	b := payroll.Breakdown(payroll.Payroll{})
	assert.NotNil(t, b.Earnings)
	assert.Empty(t, b.Earnings)
	assert.Empty(t, b.Deductions)
	assert.Empty(t, b.Taxes)
	assert.Empty(t, b.EmployerContributions)
	assert.True(t, b.Totals.NetSalary.IsZero())
}
