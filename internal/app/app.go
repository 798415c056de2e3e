package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/connection"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the connections shared by every module of one process.
type Infra struct {
	Config Config
	GormDB *gorm.DB
	DB     *sql.DB
	Redis  *redis.Client
	Store  storage.Store
}

// Close releases the connections in reverse order of opening.
func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.DB != nil {
		_ = i.DB.Close()
	}
}

// Connect opens postgres, redis when REDIS_ADDR is set, and the payslip
// store.
func Connect(ctx context.Context, cfg Config) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB.DSN(), cfg.ConnectRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	infra := &Infra{Config: cfg, GormDB: gormDB, DB: sqlDB}

	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.RedisPassword, cfg.ConnectRetries)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.Redis = rdb
	} else {
		zap.L().Named("app").Warn("REDIS_ADDR not set, caching and idempotency disabled")
	}

	store, err := NewPayslipStore(ctx, cfg)
	if err != nil {
		infra.Close()
		return nil, err
	}
	infra.Store = store
	return infra, nil
}

// NewPayslipStore builds the storage backend PAYSLIP_STORAGE names.
func NewPayslipStore(ctx context.Context, cfg Config) (storage.Store, error) {
	switch cfg.PayslipStorage {
	case StorageS3:
		return storage.NewS3Store(ctx, cfg.S3)
	case StorageLocal, "":
		return storage.NewLocalStore(cfg.PayslipDir, cfg.PayslipBaseURL)
	default:
		return nil, fmt.Errorf("unknown payslip storage %q", cfg.PayslipStorage)
	}
}

// BuildApp connects the infrastructure and registers every module on
// router. The returned Infra must be closed by the caller.
func BuildApp(ctx context.Context, router *gin.Engine, cfg Config) (*Infra, error) {
	infra, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := RegisterModules(router, infra, zap.L()); err != nil {
		infra.Close()
		return nil, err
	}
	return infra, nil
}
