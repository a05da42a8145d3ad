package redisstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/usergraph/internal/domain/user"
	"github.com/geocoder89/usergraph/internal/repo/redisstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These run against a real server: TEST_REDIS_ADDR=127.0.0.1:6379 go test ./...
func setupRepo(t *testing.T) *redisstore.UsersRepo {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redisstore.NewClient(redisstore.Config{Addr: addr, DB: 15})
	ctx := context.Background()

	require.NoError(t, rdb.Ping(ctx).Err())
	require.NoError(t, rdb.FlushDB(ctx).Err())

	r := redisstore.NewUsersRepo(rdb)
	t.Cleanup(func() { _ = r.Close(ctx) })

	return r
}

func sampleFields(first string) user.Fields {
	return user.Fields{
		FirstName: first,
		LastName:  "Lee",
		Email:     "a@x.com",
		Age:       30,
		Phone:     "555",
		Website:   "x.com",
		Company:   "Acme",
		Username:  "ana",
		Password:  "pw",
		Role:      "admin",
		Status:    user.BoolPtr(true),
		Created:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestUsersRepoLifecycle(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	a, err := r.Create(ctx, sampleFields("Ana"))
	require.NoError(t, err)
	b, err := r.Create(ctx, sampleFields("Bo"))
	require.NoError(t, err)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)

	got, err := r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	edited, err := r.Replace(ctx, b.ID, sampleFields("Bea"))
	require.NoError(t, err)
	assert.Equal(t, "Bea", edited.FirstName)

	deleted, err := r.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bea", deleted.FirstName)

	list, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUsersRepoMisses(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	_, err := r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = r.Replace(ctx, "missing", sampleFields("Ana"))
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = r.Delete(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUsersRepoListKeepsInsertionOrder(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	// back-to-back creates land within the same clock tick
	want := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		u, err := r.Create(ctx, sampleFields("Ana"))
		require.NoError(t, err)
		want = append(want, u.ID)
	}

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(want))

	for i, u := range list {
		assert.Equal(t, want[i], u.ID, "position %d", i)
	}
}
