package database_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000002_b.sql", "000001_a.sql", "000001_a_rollback.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}

	files, err := database.MigrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_a.sql", "000002_b.sql"}, files)
	assert.Equal(t, "000001_a_rollback.sql", database.RollbackFile("000001_a.sql"))

	_, err = database.MigrationFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	boom := errors.New("boom")

	err := database.WithTransaction(context.Background(), db, func(tx *gorm.DB) error {
		require.NoError(t, tx.Create(&models.Ingredient{Name: "salt", MeasurementUnit: "g"}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestHealthCheck(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestPostgresMigrations(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	for _, table := range []string{"users", "ingredients", "recipes", "recipe_ingredients", "favorites", "shopping_carts", "subscriptions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	var applied int64
	require.NoError(t, db.Table("migrations").Count(&applied).Error)
	assert.Equal(t, int64(3), applied)

	// A second run is a no-op.
	require.NoError(t, database.RunMigrations(db, testhelpers.MigrationsDir()))
	require.NoError(t, db.Table("migrations").Count(&applied).Error)
	assert.Equal(t, int64(3), applied)

	user := testhelpers.CreateTestUser(t, db, "ann")
	err := db.Omit("User", "Author").Create(&models.Subscription{UserID: user.ID, AuthorID: user.ID}).Error
	assert.Error(t, err, "self subscription must violate the check constraint")
}
