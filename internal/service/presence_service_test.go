package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dom/counter-app/internal/repository/postgres"
	"github.com/dom/counter-app/internal/service"
	"github.com/dom/counter-app/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceService_ListActive(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	presence := service.NewPresenceService(repos.User, 5*time.Minute, 5)
	ctx := context.Background()
	now := time.Now()

	caller, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	t.Run("window limit and order", func(t *testing.T) {
		for i := 0; i < 7; i++ {
			testutil.NewUserBuilder().
				WithUsername(fmt.Sprintf("active_%d", i)).
				WithLastActiveAt(now.Add(-time.Duration(i) * 10 * time.Second)).
				Build(t, testDB.DB)
		}
		testutil.NewUserBuilder().WithUsername("stale").WithLastActiveAt(now.Add(-6 * time.Minute)).Build(t, testDB.DB)
		testutil.NewUserBuilder().WithUsername("gone").Inactive().Build(t, testDB.DB)

		users, err := presence.ListActive(ctx, caller.ID)
		require.NoError(t, err)
		require.Len(t, users, 5)
		for i, u := range users {
			assert.Equal(t, fmt.Sprintf("active_%d", i), u.Username)
			assert.NotEqual(t, caller.ID, u.ID)
		}
	})

	t.Run("inactive users drop out", func(t *testing.T) {
		users, err := presence.ListActive(ctx, caller.ID)
		require.NoError(t, err)
		require.NotEmpty(t, users)

		_, err = presence.MarkInactive(ctx, users[0].ID)
		require.NoError(t, err)

		after, err := presence.ListActive(ctx, caller.ID)
		require.NoError(t, err)
		for _, u := range after {
			assert.NotEqual(t, users[0].ID, u.ID)
		}
	})
}

func TestPresenceService_HeartbeatAndMarkInactive(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	presence := service.NewPresenceService(repos.User, 0, 0)
	ctx := context.Background()

	seenAt := time.Now().Add(-time.Hour)
	user, _ := testutil.NewUserBuilder().WithLastActiveAt(seenAt).Inactive().Build(t, testDB.DB)

	touched, err := presence.Heartbeat(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, touched.IsActive)
	assert.True(t, touched.LastActiveAt.After(seenAt))

	// heartbeats are idempotent
	_, err = presence.Heartbeat(ctx, user.ID)
	require.NoError(t, err)

	inactive, err := presence.MarkInactive(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)

	stored, err := repos.User.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.WithinDuration(t, inactive.LastActiveAt, stored.LastActiveAt, time.Millisecond, "last seen is kept")

	_, err = presence.Heartbeat(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
