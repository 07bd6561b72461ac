package database_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"coursesite/internal/database"
	testutil "coursesite/internal/database/testutil"
	"coursesite/internal/models"
	"coursesite/pkg/crypto"
)

func TestSeedDataCreatesBootstrapAdmin(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	require.NoError(t, database.SeedData(db, database.AdminBootstrap{
		Email:    "Admin@Example.com",
		Password: "bootstrap-pass",
	}))

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").Take(&admin).Error)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.True(t, admin.Verified)
	require.Equal(t, "Administrator", admin.Name)
	require.True(t, crypto.VerifyPassword(admin.Password, "bootstrap-pass"))
}

func TestSeedDataSkipsWhenUsersExist(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	require.NoError(t, db.Create(&models.User{
		Email:    "existing@example.com",
		Password: "hash",
		Name:     "Existing",
		Role:     models.RoleStudent,
	}).Error)

	require.NoError(t, database.SeedData(db, database.AdminBootstrap{
		Email:    "admin@example.com",
		Password: "bootstrap-pass",
	}))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestSeedDataDisabledWithoutCredentials(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	require.NoError(t, database.SeedData(db, database.AdminBootstrap{}))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}
