package app_test

import (
	"testing"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/app"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/calculation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PAYSLIP_STORAGE", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("PORT", "")
	t.Setenv("OUTBOX_POLL_INTERVAL_MS", "")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, app.StorageLocal, cfg.PayslipStorage)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 3*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, calculation.DefaultRates().UVT, cfg.Rates.UVT)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("CORS_ORIGINS", "https://app.example.com")
	t.Setenv("PAYSLIP_STORAGE", "s3")
	t.Setenv("S3_BUCKET", "payslips")
	t.Setenv("S3_PATH_STYLE", "true")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "payroll")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Production())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "payslips", cfg.S3.Bucket)
	assert.True(t, cfg.S3.PathStyle)
	assert.Contains(t, cfg.DB.DSN(), "host=db")
	assert.Contains(t, cfg.DB.MigrationURL(), "@db:")
}

func TestLoadConfig_RejectsBadStorage(t *testing.T) {
	t.Setenv("PAYSLIP_STORAGE", "ftp")
	_, err := app.LoadConfig()
	assert.Error(t, err)

	t.Setenv("PAYSLIP_STORAGE", "s3")
	t.Setenv("S3_BUCKET", "")
	_, err = app.LoadConfig()
	assert.Error(t, err)
}

func TestLoadRates(t *testing.T) {
	t.Run("applies overrides", func(t *testing.T) {
		t.Setenv("PAYROLL_UVT", "47065")
		t.Setenv("PAYROLL_MINIMUM_WAGE", "1300000")

		rates, err := app.LoadRates()
		require.NoError(t, err)
		assert.True(t, rates.UVT.Equal(decimal.NewFromInt(47065)))
		assert.True(t, rates.MinimumWage.Equal(decimal.NewFromInt(1300000)))
		assert.True(t, rates.HealthEmployee.Equal(decimal.RequireFromString("0.04")))
	})

	t.Run("rejects a malformed value", func(t *testing.T) {
		t.Setenv("PAYROLL_ARL", "abc")
		_, err := app.LoadRates()
		assert.ErrorContains(t, err, "PAYROLL_ARL")
	})

	t.Run("rejects an out of range fraction", func(t *testing.T) {
		t.Setenv("PAYROLL_HEALTH_EMPLOYEE", "4")
		_, err := app.LoadRates()
		assert.ErrorIs(t, err, calculation.ErrInvalidRates)
	})
}
