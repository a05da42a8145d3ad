package repo_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/usergraph/internal/domain/user"
	"github.com/geocoder89/usergraph/internal/observability"
	"github.com/geocoder89/usergraph/internal/repo"
	"github.com/geocoder89/usergraph/internal/repo/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFields() user.Fields {
	return user.Fields{
		FirstName: "Ana",
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

func TestDocumentRoundTrip(t *testing.T) {
	raw, err := json.Marshal(repo.NewDocument(sampleFields()))
	require.NoError(t, err)

	var doc repo.Document
	require.NoError(t, json.Unmarshal(raw, &doc))

	u := doc.User("id-1")
	assert.Equal(t, "id-1", u.ID)
	assert.Equal(t, sampleFields(), u.Fields)
}

func TestDocumentToleratesUntypedStatus(t *testing.T) {
	var doc repo.Document
	require.NoError(t, json.Unmarshal([]byte(`{"status":"1"}`), &doc))

	u := doc.User("id-1")
	require.NotNil(t, u.Status)
	assert.True(t, *u.Status)

	require.NoError(t, json.Unmarshal([]byte(`{"status":{"nested":true}}`), &doc))
	assert.Nil(t, doc.User("id-1").Status)
}

func TestUnavailableWrapsTheConnectError(t *testing.T) {
	cause := errors.New("no reachable servers")
	s := repo.NewUnavailable(cause)
	ctx := context.Background()

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, cause)

	_, err = s.Create(ctx, sampleFields())
	assert.ErrorIs(t, err, cause)

	assert.ErrorIs(t, s.Ping(ctx), cause)
	assert.NoError(t, s.Close(ctx))
}

func TestObservedDelegatesAndMeasures(t *testing.T) {
	prom := observability.NewProm(prometheus.NewRegistry())
	s := repo.NewObserved(memory.NewUsersRepo(), "memory", prom)
	ctx := context.Background()

	created, err := s.Create(ctx, sampleFields())
	require.NoError(t, err)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrNotFound)

	// a miss is not a store error
	assert.Equal(t, 0, testutil.CollectAndCount(prom.StoreErrorsTotal))

	_, err = repo.NewObserved(repo.NewUnavailable(errors.New("down")), "memory", prom).List(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(prom.StoreErrorsTotal))
}

func TestObservedWithoutMetrics(t *testing.T) {
	s := repo.NewObserved(memory.NewUsersRepo(), "memory", nil)

	_, err := s.Create(context.Background(), sampleFields())
	require.NoError(t, err)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
