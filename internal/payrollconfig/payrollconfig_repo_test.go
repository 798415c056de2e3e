package payrollconfig_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/calculation"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payrollconfig"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRepository_LatestAndList(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&payrollconfig.PayrollSetting{}))

	repo := payrollconfig.NewRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	latest, err := repo.Latest(ctx, companyID.String())
	require.NoError(t, err)
	assert.Nil(t, latest)

	for _, v := range []int{2, 4, 3} {
		r := calculation.DefaultRates()
		r.Version = v
		s := settingOf(r)
		s.CompanyID = companyID
		require.NoError(t, repo.Create(ctx, s))
	}
	other := settingOf(calculation.DefaultRates())
	other.CompanyID = uuid.New()
	other.Version = 9
	require.NoError(t, repo.Create(ctx, other))

	latest, err = repo.Latest(ctx, companyID.String())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 4, latest.Version)
	assert.Len(t, latest.ToRates().Brackets, len(calculation.DefaultBrackets()))

	rows, err := repo.List(ctx, companyID.String())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{4, 3, 2}, []int{rows[0].Version, rows[1].Version, rows[2].Version})
}
