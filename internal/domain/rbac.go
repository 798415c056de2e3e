package domain

type EnforceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	CompanyID  string `json:"company_id" binding:"required"`
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

// Resources guarded by RBAC.
const (
	ResourcePayroll        = "payroll"
	ResourcePayrollPeriod  = "payroll_period"
	ResourcePayrollConcept = "payroll_concept"
	ResourcePayrollReport  = "payroll_report"
	ResourcePayrollSetting = "payroll_setting"
)
