package payrollconfig_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/calculation"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payrollconfig"
	payrollconfigerrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/payrollconfig/errors"

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
}

type fakeService struct {
	UpdateFn func(ctx context.Context, companyID, actorID string, req payrollconfig.UpdateSettingsRequest) (payrollconfig.SettingsResponse, error)
}

func (f *fakeService) GetRates(context.Context, string) (calculation.Rates, error) {
	return calculation.DefaultRates(), nil
}

func (f *fakeService) Get(context.Context, string) (payrollconfig.SettingsResponse, error) {
	return payrollconfig.SettingsResponse{Source: payrollconfig.SourceDefault, Rates: calculation.DefaultRates()}, nil
}

func (f *fakeService) Update(ctx context.Context, companyID, actorID string, req payrollconfig.UpdateSettingsRequest) (payrollconfig.SettingsResponse, error) {
	return f.UpdateFn(ctx, companyID, actorID, req)
}

func (f *fakeService) History(context.Context, string) ([]payrollconfig.SettingsResponse, error) {
	return nil, nil
}

func newRouter(h *payrollconfig.Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("company_id", "c-1")
		c.Set("employee_id", "e-1")
		c.Next()
	})
	r.GET("/payroll-settings", h.Get)
	r.PUT("/payroll-settings", h.Update)
	return r
}

func TestHandler_Get(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(payrollconfig.NewHandler(&fakeService{})).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payroll-settings", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"source":"default"`)
}

func TestHandler_Update(t *testing.T) {
	t.Run("invalid rates return 422", func(t *testing.T) {
		svc := &fakeService{
			UpdateFn: func(_ context.Context, companyID, actorID string, req payrollconfig.UpdateSettingsRequest) (payrollconfig.SettingsResponse, error) {
				assert.Equal(t, "c-1", companyID)
				assert.Equal(t, "e-1", actorID)
				require.NotNil(t, req.HealthEmployee)
				return payrollconfig.SettingsResponse{}, payrollconfigerrors.ErrInvalidRates
			},
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/payroll-settings", strings.NewReader(`{"health_employee":"1.5"}`))
		req.Header.Set("Content-Type", "application/json")
		newRouter(payrollconfig.NewHandler(svc)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var env apiEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.False(t, env.Success)
		assert.Equal(t, "VALIDATION_ERROR", env.Code)
	})

	t.Run("malformed body is a validation error", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/payroll-settings", strings.NewReader(`{"health_employee":`))
		req.Header.Set("Content-Type", "application/json")
		newRouter(payrollconfig.NewHandler(&fakeService{})).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
