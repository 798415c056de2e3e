package payrollconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/calculation"
	payrollconfigerrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/payrollconfig/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	RatesKeyPrefix = "payroll:rates:"
	RatesCacheTTL  = 30 * 24 * time.Hour
)

func GetRatesKey(companyID string) string {
	return RatesKeyPrefix + companyID
}

//go:generate mockgen -source=payrollconfig_service.go -destination=mock/payrollconfig_service_mock.go -package=mock
type Service interface {
	// GetRates returns the rates a calculation for companyID must use.
	GetRates(ctx context.Context, companyID string) (calculation.Rates, error)
	Get(ctx context.Context, companyID string) (SettingsResponse, error)
	Update(ctx context.Context, companyID, actorID string, req UpdateSettingsRequest) (SettingsResponse, error)
	History(ctx context.Context, companyID string) ([]SettingsResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	defaults calculation.Rates
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, defaults calculation.Rates, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrollconfig.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollconfig.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		defaults: defaults,
		logger:   l,
	}
}

func (s *service) GetRates(ctx context.Context, companyID string) (calculation.Rates, error) {
	cacheKey := GetRatesKey(companyID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var rates calculation.Rates
			if err := json.Unmarshal([]byte(cached), &rates); err == nil {
				return rates, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		latest, err := s.repo.Latest(ctx, companyID)
		if err != nil {
			return nil, err
		}
		rates := s.defaults
		if latest != nil {
			rates = latest.ToRates()
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(rates); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, string(jsonData), RatesCacheTTL).Err(); err != nil {
					s.logger.Warn("cache payroll rates failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return rates, nil
	})
	if err != nil {
		s.logger.Error("load payroll rates failed", zap.String("company_id", companyID), zap.Error(err))
		return calculation.Rates{}, err
	}
	return v.(calculation.Rates), nil
}

func (s *service) Get(ctx context.Context, companyID string) (SettingsResponse, error) {
	latest, err := s.repo.Latest(ctx, companyID)
	if err != nil {
		return SettingsResponse{}, err
	}
	if latest == nil {
		return SettingsResponse{Source: SourceDefault, Rates: s.defaults}, nil
	}
	return mapToResponse(*latest), nil
}

func (s *service) Update(ctx context.Context, companyID, actorID string, req UpdateSettingsRequest) (SettingsResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return SettingsResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SettingsResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	current := s.defaults
	latest, err := qtx.Latest(ctx, companyID)
	if err != nil {
		return SettingsResponse{}, err
	}
	if latest != nil {
		current = latest.ToRates()
	}

	next := req.apply(current)
	next.Version = current.Version + 1
	if err := next.Validate(); err != nil {
		s.logger.Warn("update payroll settings rejected",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		if errors.Is(err, calculation.ErrInvalidRates) {
			return SettingsResponse{}, payrollconfigerrors.ErrInvalidRates.WithMessage(err.Error())
		}
		return SettingsResponse{}, err
	}

	setting := settingFromRates(companyUUID, next)
	setting.ID = uuid.New()
	setting.Notes = req.Notes
	if actor, err := uuid.Parse(actorID); err == nil {
		setting.CreatedBy = &actor
	}

	if err := qtx.Create(ctx, &setting); err != nil {
		return SettingsResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return SettingsResponse{}, err
	}

	if s.rdb != nil {
		cacheKey := GetRatesKey(companyID)
		if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
			s.logger.Error("invalidate payroll rates cache failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	s.logger.Info("payroll settings updated",
		zap.String("company_id", companyID),
		zap.Int("version", next.Version),
	)
	return mapToResponse(setting), nil
}

func (s *service) History(ctx context.Context, companyID string) ([]SettingsResponse, error) {
	rows, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]SettingsResponse, 0, len(rows)+1)
	for _, r := range rows {
		out = append(out, mapToResponse(r))
	}
	out = append(out, SettingsResponse{Source: SourceDefault, Rates: s.defaults})
	return out, nil
}
