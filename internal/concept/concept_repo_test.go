package concept_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/concept"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&concept.PayrollConcept{}))
	require.NoError(t, db.Exec(`CREATE TABLE payroll_details (id TEXT PRIMARY KEY, payroll_concept_id TEXT)`).Error)
	return db
}

func TestConceptRepository(t *testing.T) {
	db := newTestDB(t)
	repo := concept.NewRepository(db)
	ctx := context.Background()
	company := uuid.New()
	other := uuid.New()

	seed := []concept.PayrollConcept{
		{ID: uuid.New(), CompanyID: company, Code: "TRANSPORT", Name: "Transport", Type: "earning", CalculationType: "fixed", PriorityOrder: 2, Status: concept.StatusActive},
		{ID: uuid.New(), CompanyID: company, Code: "BONUS", Name: "Bonus", Type: "earning", CalculationType: "fixed", PriorityOrder: 1, Status: concept.StatusActive},
		{ID: uuid.New(), CompanyID: company, Code: "AID", Name: "Aid", Type: "benefit", CalculationType: "fixed", PriorityOrder: 2, Status: concept.StatusActive},
		{ID: uuid.New(), CompanyID: company, Code: "LOAN", Name: "Loan", Type: "deduction", CalculationType: "fixed", PriorityOrder: 1, Status: concept.StatusInactive},
		{ID: uuid.New(), CompanyID: other, Code: "BONUS", Name: "Bonus", Type: "earning", CalculationType: "fixed", Status: concept.StatusActive},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	t.Run("code uniqueness is per company", func(t *testing.T) {
		exists, err := repo.CodeExists(ctx, company.String(), "BONUS", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		self := seed[1].ID.String()
		exists, err = repo.CodeExists(ctx, company.String(), "BONUS", &self)
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.CodeExists(ctx, company.String(), "MEALS", nil)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("list orders by priority then name", func(t *testing.T) {
		list, err := repo.List(ctx, company.String(), concept.ListFilter{})
		require.NoError(t, err)
		var codes []string
		for _, c := range list {
			codes = append(codes, c.Code)
		}
		assert.Equal(t, []string{"BONUS", "LOAN", "AID", "TRANSPORT"}, codes)
	})

	t.Run("list filters", func(t *testing.T) {
		list, err := repo.List(ctx, company.String(), concept.ListFilter{Type: "earning"})
		require.NoError(t, err)
		assert.Len(t, list, 2)

		list, err = repo.List(ctx, company.String(), concept.ListFilter{Status: "inactive"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "LOAN", list[0].Code)

		list, err = repo.List(ctx, company.String(), concept.ListFilter{Search: "trans", Status: "active"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "TRANSPORT", list[0].Code)
	})

	t.Run("active and codes", func(t *testing.T) {
		active, err := repo.ListActive(ctx, company.String())
		require.NoError(t, err)
		assert.Len(t, active, 3)

		codes, err := repo.Codes(ctx, company.String())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"TRANSPORT", "BONUS", "AID", "LOAN"}, codes)
	})

	t.Run("references and delete", func(t *testing.T) {
		require.NoError(t, db.Exec(`INSERT INTO payroll_details (id, payroll_concept_id) VALUES (?, ?)`,
			uuid.NewString(), seed[0].ID.String()).Error)

		referenced, err := repo.IsReferenced(ctx, seed[0].ID.String())
		require.NoError(t, err)
		assert.True(t, referenced)

		referenced, err = repo.IsReferenced(ctx, seed[2].ID.String())
		require.NoError(t, err)
		assert.False(t, referenced)

		require.NoError(t, repo.Delete(ctx, company.String(), seed[2].ID.String()))
		_, err = repo.FindByIDAndCompany(ctx, company.String(), seed[2].ID.String())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		err = repo.Delete(ctx, other.String(), seed[0].ID.String())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
