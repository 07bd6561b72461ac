package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	testutil "coursesite/internal/database/testutil"
	"coursesite/internal/models"
)

func TestCleanupVerificationTokens(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	staleToken := "stale-token"
	freshToken := "fresh-token"
	verifiedToken := "verified-token"

	stale := models.User{
		Email:             "stale@example.com",
		Password:          "hash",
		Name:              "Stale",
		Role:              models.RoleStudent,
		VerificationToken: &staleToken,
		CreatedAt:         now.AddDate(0, 0, -45),
	}
	fresh := models.User{
		Email:             "fresh@example.com",
		Password:          "hash",
		Name:              "Fresh",
		Role:              models.RoleStudent,
		VerificationToken: &freshToken,
		CreatedAt:         now.AddDate(0, 0, -5),
	}
	verified := models.User{
		Email:             "verified@example.com",
		Password:          "hash",
		Name:              "Verified",
		Role:              models.RoleStudent,
		Verified:          true,
		VerificationToken: &verifiedToken,
		CreatedAt:         now.AddDate(0, 0, -45),
	}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&fresh).Error)
	require.NoError(t, db.Create(&verified).Error)

	cleared, err := CleanupVerificationTokens(context.Background(), db, now, 30)
	require.NoError(t, err)
	require.Equal(t, int64(1), cleared)

	var got models.User
	require.NoError(t, db.Where("email = ?", "stale@example.com").Take(&got).Error)
	require.Nil(t, got.VerificationToken)

	got = models.User{}
	require.NoError(t, db.Where("email = ?", "fresh@example.com").Take(&got).Error)
	require.NotNil(t, got.VerificationToken)

	got = models.User{}
	require.NoError(t, db.Where("email = ?", "verified@example.com").Take(&got).Error)
	require.NotNil(t, got.VerificationToken)
}

func TestCleanupVerificationTokensRequiresDB(t *testing.T) {
	_, err := CleanupVerificationTokens(context.Background(), nil, time.Now(), 30)
	require.Error(t, err)
}

func TestCleanerRunOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	token := "old-token"
	user := models.User{
		Email:             "old@example.com",
		Password:          "hash",
		Name:              "Old",
		Role:              models.RoleStudent,
		VerificationToken: &token,
		CreatedAt:         now.AddDate(0, 0, -60),
	}
	require.NoError(t, db.Create(&user).Error)

	cleaner := NewCleaner(db, WithNow(func() time.Time { return now }))
	require.NoError(t, cleaner.RunOnce(context.Background()))

	var got models.User
	require.NoError(t, db.Where("email = ?", "old@example.com").Take(&got).Error)
	require.Nil(t, got.VerificationToken)
}

func TestCleanerStartAndStop(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	cleaner := NewCleaner(db,
		WithCron(cron.New(cron.WithLogger(cron.DiscardLogger))),
		WithTokenSchedule("@every 1h"),
		WithTokenRetentionDays(7),
	)
	require.NoError(t, cleaner.Start())

	stopCtx := cleaner.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}
