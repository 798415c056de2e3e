package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/calculation"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/connection"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	return connection.DSN(c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

func (c DBConfig) MigrationURL() string {
	return connection.MigrationURL(c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

type Config struct {
	Env            string
	Port           string
	DB             DBConfig
	RedisAddr      string
	RedisPassword  string
	KafkaBrokers   []string
	ConsumerGroup  string
	JWTSecret      string
	CORSOrigins    []string
	MigrationsDir  string
	ConnectRetries int

	OutboxPollInterval time.Duration

	PayslipStorage string
	PayslipDir     string
	PayslipBaseURL string
	PayslipIssuer  string
	S3             storage.S3Config

	Rates calculation.Rates
}

func (c Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDecimal(key string, target *decimal.Decimal) error {
	v := getEnv(key, "")
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = d
	return nil
}

// LoadRates starts from calculation.DefaultRates and applies PAYROLL_*
// overrides. The result must pass Rates.Validate.
func LoadRates() (calculation.Rates, error) {
	rates := calculation.DefaultRates()
	overrides := []struct {
		key    string
		target *decimal.Decimal
	}{
		{"PAYROLL_HEALTH_EMPLOYEE", &rates.HealthEmployee},
		{"PAYROLL_PENSION_EMPLOYEE", &rates.PensionEmployee},
		{"PAYROLL_SOLIDARITY_FUND", &rates.SolidarityFund},
		{"PAYROLL_HEALTH_EMPLOYER", &rates.HealthEmployer},
		{"PAYROLL_PENSION_EMPLOYER", &rates.PensionEmployer},
		{"PAYROLL_ARL", &rates.ARL},
		{"PAYROLL_COMPENSATION_FUND", &rates.CompensationFund},
		{"PAYROLL_ICBF", &rates.ICBF},
		{"PAYROLL_SENA", &rates.SENA},
		{"PAYROLL_OVERTIME_RATE", &rates.OvertimeRate},
		{"PAYROLL_UVT", &rates.UVT},
		{"PAYROLL_MINIMUM_WAGE", &rates.MinimumWage},
		{"PAYROLL_SOLIDARITY_THRESHOLD_WAGES", &rates.SolidarityThresholdWages},
		{"PAYROLL_MONTHLY_HOURS", &rates.MonthlyHours},
		{"PAYROLL_DAILY_HOURS", &rates.DailyHours},
	}
	for _, o := range overrides {
		if err := getEnvDecimal(o.key, o.target); err != nil {
			return calculation.Rates{}, err
		}
	}
	if err := rates.Validate(); err != nil {
		return calculation.Rates{}, err
	}
	return rates, nil
}

// LoadConfig reads the process configuration from the environment. Call
// godotenv.Load first to pick up a .env file.
func LoadConfig() (Config, error) {
	retries, err := getEnvInt("CONNECT_RETRIES", 5)
	if err != nil {
		return Config{}, err
	}
	pollMillis, err := getEnvInt("OUTBOX_POLL_INTERVAL_MS", 3000)
	if err != nil {
		return Config{}, err
	}
	rates, err := LoadRates()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "3000"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "payroll"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:       getEnvList("KAFKA_BROKERS", ""),
		ConsumerGroup:      getEnv("KAFKA_CONSUMER_GROUP", "payroll-payslip"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		CORSOrigins:        getEnvList("CORS_ORIGINS", "*"),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "migrations"),
		ConnectRetries:     retries,
		OutboxPollInterval: time.Duration(pollMillis) * time.Millisecond,
		PayslipStorage:     getEnv("PAYSLIP_STORAGE", StorageLocal),
		PayslipDir:         getEnv("PAYSLIP_DIR", "storage"),
		PayslipBaseURL:     getEnv("PAYSLIP_BASE_URL", "/files"),
		PayslipIssuer:      getEnv("PAYSLIP_ISSUER", "Payroll"),
		S3: storage.S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Region:    getEnv("S3_REGION", "auto"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			PublicURL: getEnv("S3_PUBLIC_URL", ""),
			PathStyle: getEnv("S3_PATH_STYLE", "false") == "true",
		},
		Rates: rates,
	}

	switch cfg.PayslipStorage {
	case StorageLocal:
	case StorageS3:
		if cfg.S3.Bucket == "" {
			return Config{}, fmt.Errorf("S3_BUCKET is required when PAYSLIP_STORAGE=s3")
		}
	default:
		return Config{}, fmt.Errorf("PAYSLIP_STORAGE must be %q or %q, got %q", StorageLocal, StorageS3, cfg.PayslipStorage)
	}
	return cfg, nil
}

// NewLogger builds the process logger for cfg.Env.
func NewLogger(cfg Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
