package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dom/counter-app/internal/domain"
	"github.com/dom/counter-app/internal/repository/postgres"
	"github.com/dom/counter-app/internal/service"
	"github.com/dom/counter-app/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterService_Lifecycle(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	counters := service.NewCounterService(repos.Counter)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	counter, err := counters.Create(ctx, user.ID, service.CreateCounterInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCounterName, counter.Name)

	steps := []struct {
		name string
		run  func() (*domain.Counter, error)
		want int64
	}{
		{
			name: "increment 5",
			run: func() (*domain.Counter, error) {
				return counters.ApplyDelta(ctx, user.ID, counter.ID, 5, domain.OperationIncrement)
			},
			want: 5,
		},
		{
			name: "increment 10",
			run: func() (*domain.Counter, error) {
				return counters.ApplyDelta(ctx, user.ID, counter.ID, 10, domain.OperationIncrement)
			},
			want: 15,
		},
		{
			name: "reset",
			run: func() (*domain.Counter, error) {
				return counters.Reset(ctx, user.ID, counter.ID)
			},
			want: 0,
		},
		{
			name: "custom -3",
			run: func() (*domain.Counter, error) {
				return counters.ApplyDelta(ctx, user.ID, counter.ID, -3, domain.OperationCustom)
			},
			want: -3,
		},
	}

	for i, step := range steps {
		got, err := step.run()
		require.NoError(t, err, step.name)
		assert.Equal(t, step.want, got.CurrentCount, step.name)
		assert.Len(t, got.History, i+1, step.name)
		assert.Equal(t, int64(i+2), got.Version, step.name)
	}

	stored, err := counters.Get(ctx, user.ID, counter.ID)
	require.NoError(t, err)
	value, ok := stored.Replay()
	assert.True(t, ok)
	assert.Equal(t, int64(-3), value)
	assert.Equal(t, int64(-3), stored.CurrentCount)
	require.NotNil(t, stored.LastOperation)
	assert.Equal(t, "custom: -3", *stored.LastOperation)
}

func TestCounterService_Errors(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	counters := service.NewCounterService(repos.Counter)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	counter := testutil.NewCounterBuilder().WithOwner(owner).WithDeltas(4).Build(t, testDB.DB)

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{
			name: "foreign counter",
			run: func() error {
				_, err := counters.ApplyDelta(ctx, stranger.ID, counter.ID, 1, domain.OperationIncrement)
				return err
			},
			wantErr: service.ErrCounterNotFound,
		},
		{
			name: "missing counter",
			run: func() error {
				_, err := counters.Get(ctx, owner.ID, uuid.New())
				return err
			},
			wantErr: service.ErrCounterNotFound,
		},
		{
			name: "reset through delta",
			run: func() error {
				_, err := counters.ApplyDelta(ctx, owner.ID, counter.ID, 1, domain.OperationReset)
				return err
			},
			wantErr: domain.ErrInvalidOperationType,
		},
		{
			name: "zero button",
			run: func() error {
				_, err := counters.AddButton(ctx, owner.ID, counter.ID, 0, nil)
				return err
			},
			wantErr: domain.ErrZeroButtonAmount,
		},
		{
			name: "unknown button",
			run: func() error {
				_, err := counters.RemoveButton(ctx, owner.ID, counter.ID, uuid.New())
				return err
			},
			wantErr: domain.ErrButtonNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.wantErr)
		})
	}

	stored, err := counters.Get(ctx, owner.ID, counter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stored.CurrentCount, "failed transitions leave the counter alone")
	assert.Len(t, stored.History, 1)
	assert.Equal(t, int64(1), stored.Version)
}

func TestCounterService_GetOrCreateDefault(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	counters := service.NewCounterService(repos.Counter)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	first, err := counters.GetOrCreateDefault(ctx, user.ID)
	require.NoError(t, err)
	again, err := counters.GetOrCreateDefault(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = counters.Create(ctx, user.ID, service.CreateCounterInput{Name: "Second"})
	require.NoError(t, err)
	still, err := counters.GetOrCreateDefault(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, still.ID, "the oldest counter stays the default")

	list, err := counters.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCounterService_Buttons(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	counters := service.NewCounterService(repos.Counter)
	ctx := context.Background()

	counter := testutil.NewCounterBuilder().WithButtons(5, -2).Build(t, testDB.DB)
	owner := counter.UserID

	updated, err := counters.AddButton(ctx, owner, counter.ID, 7, ptr("  Seven "))
	require.NoError(t, err)
	require.Len(t, updated.CustomButtons, 3)
	assert.Equal(t, 2, updated.CustomButtons[2].Order)
	assert.Equal(t, "Seven", *updated.CustomButtons[2].Label)

	updated, err = counters.RemoveButton(ctx, owner, counter.ID, updated.CustomButtons[0].ID)
	require.NoError(t, err)
	updated, err = counters.AddButton(ctx, owner, counter.ID, 5, ptr(""))
	require.NoError(t, err)

	orders := []int{}
	for _, b := range updated.SortedButtons() {
		orders = append(orders, b.Order)
	}
	assert.Equal(t, []int{1, 2, 2}, orders, "orders are never renumbered")
	assert.Nil(t, updated.CustomButtons[2].Label)
}

func TestCounterService_ConcurrentIncrements(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	counters := service.NewCounterService(repos.Counter)
	ctx := context.Background()

	counter := testutil.NewCounterBuilder().Build(t, testDB.DB)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := counters.ApplyDelta(ctx, counter.UserID, counter.ID, 1, domain.OperationIncrement)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := counters.Get(ctx, counter.UserID, counter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), stored.CurrentCount)
	assert.Len(t, stored.History, workers)
	_, ok := stored.Replay()
	assert.True(t, ok)
}

func TestCounterService_Personality(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	counters := service.NewCounterService(repos.Counter)
	ctx := context.Background()

	counter := testutil.NewCounterBuilder().WithDeltas(-60).Build(t, testDB.DB)

	p, err := counters.Personality(ctx, counter.UserID, counter.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.MoodDepressed, p.Mood)
	assert.Nil(t, p.Reaction)

	p, err = counters.Personality(ctx, counter.UserID, counter.ID, ptr(int64(-1)))
	require.NoError(t, err)
	require.NotNil(t, p.Reaction)
	assert.Equal(t, domain.ClickReaction(-1), *p.Reaction)
}
