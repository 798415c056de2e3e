package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payroll"
	payrollerrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/payroll/errors"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Errors  json.RawMessage `json:"errors"`
	Meta    json.RawMessage `json:"meta"`
}

type fakePayrollService struct {
	payroll.Service
	calculateFn func(ctx context.Context, companyID, actorID string, req payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error)
	listFn      func(ctx context.Context, companyID string, filter payroll.ListFilter) ([]payroll.PayrollResponse, int64, error)
	approveFn   func(ctx context.Context, companyID, actorID, id string) (payroll.PayrollResponse, error)
	rejectFn    func(ctx context.Context, companyID, actorID, id string, req payroll.RejectPayrollRequest) (payroll.PayrollResponse, error)
	deleteFn    func(ctx context.Context, companyID, id string) error
	downloadFn  func(ctx context.Context, companyID, id string) ([]byte, string, error)
}

func (f *fakePayrollService) Calculate(ctx context.Context, companyID, actorID string, req payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error) {
	return f.calculateFn(ctx, companyID, actorID, req)
}
func (f *fakePayrollService) List(ctx context.Context, companyID string, filter payroll.ListFilter) ([]payroll.PayrollResponse, int64, error) {
	return f.listFn(ctx, companyID, filter)
}
func (f *fakePayrollService) Approve(ctx context.Context, companyID, actorID, id string) (payroll.PayrollResponse, error) {
	return f.approveFn(ctx, companyID, actorID, id)
}
func (f *fakePayrollService) Reject(ctx context.Context, companyID, actorID, id string, req payroll.RejectPayrollRequest) (payroll.PayrollResponse, error) {
	return f.rejectFn(ctx, companyID, actorID, id, req)
}
func (f *fakePayrollService) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}
func (f *fakePayrollService) DownloadPayslip(ctx context.Context, companyID, id string) ([]byte, string, error) {
	return f.downloadFn(ctx, companyID, id)
}

func setupRouter(svc payroll.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("company_id", companyID)
		c.Set("employee_id", actorID)
		c.Next()
	})
	h := payroll.NewHandler(svc)
	r.GET("/payrolls", h.List)
	r.GET("/payrolls/:id/payslip", h.DownloadPayslip)
	r.POST("/payrolls/calculate", h.Calculate)
	r.POST("/payrolls/:id/approve", h.Approve)
	r.POST("/payrolls/:id/reject", h.Reject)
	r.DELETE("/payrolls/:id", h.Delete)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

const (
	employeeID = "7d4c1a3e-2b8f-4c55-9d0a-6f1e2c3b4a59"
	periodID   = "3a9b8c7d-6e5f-4a1b-8c2d-3e4f5a6b7c8d"
)

func TestPayrollHandler_Calculate(t *testing.T) {
	t.Run("returns 201 with the calculated payroll", func(t *testing.T) {
		var got payroll.CalculatePayrollRequest
		svc := &fakePayrollService{
			calculateFn: func(_ context.Context, cid, aid string, req payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, actorID, aid)
				got = req
				return payroll.PayrollResponse{ID: "p-1", NetSalary: dec("2760000"), Status: "calculated"}, nil
			},
		}
		body := `{"employee_id":"` + employeeID + `","payroll_period_id":"` + periodID + `","worked_days":30,"overtime_hours":"2.5"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payrolls/calculate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decode(t, w)
		assert.True(t, env.Success)
		var data map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "2760000", data["net_salary"])

		require.NotNil(t, got.WorkedDays)
		assert.True(t, got.WorkedDays.Equal(dec("30")))
		require.NotNil(t, got.OvertimeHours)
		assert.True(t, got.OvertimeHours.Equal(dec("2.5")))
		assert.Nil(t, got.WorkedHours)
	})

	t.Run("missing employee is a validation error", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payrolls/calculate", strings.NewReader(`{"payroll_period_id":"`+periodID+`"}`))
		req.Header.Set("Content-Type", "application/json")

		setupRouter(&fakePayrollService{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decode(t, w)
		assert.False(t, env.Success)
		assert.Contains(t, string(env.Errors), "employee_id")
	})

	t.Run("already calculated maps to 409", func(t *testing.T) {
		svc := &fakePayrollService{
			calculateFn: func(context.Context, string, string, payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error) {
				return payroll.PayrollResponse{}, payrollerrors.ErrPayrollAlreadyCalculated
			},
		}
		body := `{"employee_id":"` + employeeID + `","payroll_period_id":"` + periodID + `"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payrolls/calculate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, payrollerrors.CodeAlreadyCalculated, decode(t, w).Code)
	})
}

func TestPayrollHandler_List(t *testing.T) {
	svc := &fakePayrollService{
		listFn: func(_ context.Context, _ string, filter payroll.ListFilter) ([]payroll.PayrollResponse, int64, error) {
			assert.Equal(t, "approved", filter.Status)
			assert.Equal(t, periodID, filter.PeriodID)
			return []payroll.PayrollResponse{{ID: "p-1"}}, 1, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payrolls?status=approved&period_id="+periodID, nil)

	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Meta), `"total":1`)
}

func TestPayrollHandler_List_InvalidStatus(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payrolls?status=unknown", nil)

	setupRouter(&fakePayrollService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPayrollHandler_Approve(t *testing.T) {
	svc := &fakePayrollService{
		approveFn: func(_ context.Context, _, _, id string) (payroll.PayrollResponse, error) {
			if id == "draft" {
				return payroll.PayrollResponse{}, payrollerrors.ErrPayrollNotCalculated
			}
			return payroll.PayrollResponse{ID: id, Status: "approved"}, nil
		},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/payrolls/p-1/approve", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/payrolls/draft/approve", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, payrollerrors.ErrPayrollNotCalculated.Message, decode(t, w).Message)
}

func TestPayrollHandler_Reject(t *testing.T) {
	svc := &fakePayrollService{
		rejectFn: func(_ context.Context, _, _, _ string, req payroll.RejectPayrollRequest) (payroll.PayrollResponse, error) {
			if req.RejectionReason == "" {
				return payroll.PayrollResponse{}, payrollerrors.ErrRejectionReasonRequired
			}
			return payroll.PayrollResponse{Status: "rejected", RejectionReason: req.RejectionReason}, nil
		},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payrolls/p-1/reject", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, string(decode(t, w).Errors), "rejection_reason")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/payrolls/p-1/reject", strings.NewReader(`{"rejection_reason":"wrong hours"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPayrollHandler_Delete(t *testing.T) {
	svc := &fakePayrollService{
		deleteFn: func(context.Context, string, string) error {
			return payrollerrors.ErrPayrollNotEditable
		},
	}
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/payrolls/p-1", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPayrollHandler_DownloadPayslip(t *testing.T) {
	svc := &fakePayrollService{
		downloadFn: func(context.Context, string, string) ([]byte, string, error) {
			return []byte("%PDF-1.3"), "NOM-000001.pdf", nil
		},
	}
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payrolls/p-1/payslip", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "NOM-000001.pdf")
	assert.Equal(t, "%PDF-1.3", w.Body.String())
}
