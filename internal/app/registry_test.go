package app_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/app"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/calculation"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRegisterModules(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gormDB, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)

	store, err := storage.NewLocalStore(t.TempDir(), "/files")
	require.NoError(t, err)

	in := &app.Infra{
		Config: app.Config{Rates: calculation.DefaultRates(), PayslipIssuer: "Club"},
		GormDB: gormDB,
		DB:     sqlDB,
		Store:  store,
	}
	router := gin.New()
	require.NoError(t, app.RegisterModules(router, in, zap.NewNop()))

	routes := map[string]bool{}
	for _, r := range router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"POST /api/v1/payrolls/calculate",
		"GET /api/v1/payrolls/:id/breakdown",
		"GET /api/v1/payrolls/:id/payslip",
		"POST /api/v1/payrolls/:id/approve",
		"POST /api/v1/payroll-periods/:id/close",
		"GET /api/v1/payroll-reports",
		"GET /api/v1/payroll-reports/analytics",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payroll-reports", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
