package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banneradmin/internal/model"
	"banneradmin/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *BannerClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBannerClient(srv.URL+"/banners/", 2*time.Second, logger.NewNop())
}

func TestListFiltersPausedAndSortsByOrderDesc(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/banners", r.URL.Path)
		json.NewEncoder(w).Encode([]model.Banner{
			{ID: "1", Order: 1, Status: model.StatusShown},
			{ID: "2", Order: 9, Status: model.StatusPaused},
			{ID: "3", Order: 5, Status: model.StatusShown},
			{ID: "4", Order: 7, Status: model.StatusShown},
			{ID: "5", Order: 100, Status: model.StatusPaused},
		})
	})

	banners, err := c.List(context.Background())
	require.NoError(t, err)

	var ids []string
	for _, b := range banners {
		assert.NotEqual(t, model.StatusPaused, b.Status)
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"4", "3", "1"}, ids)
	for i := 1; i < len(banners); i++ {
		assert.GreaterOrEqual(t, banners[i-1].Order, banners[i].Order)
	}
}

func TestVisibleSortedBreaksTiesByID(t *testing.T) {
	out := VisibleSorted([]model.Banner{
		{ID: "c", Order: 3},
		{ID: "a", Order: 3},
		{ID: "b", Order: 4},
	})
	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "a", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
}

func TestCreateSendsRecordWithoutID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var raw map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, hasID := raw["id"]
		assert.False(t, hasID)
		assert.Equal(t, "Promo", raw["name"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"new-id","name":"Promo","texts":["Hello"]}`))
	})

	created, err := c.Create(context.Background(), model.Banner{ID: "ignored", Name: "Promo", Texts: []string{"Hello"}})
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)
}

func TestUpdateAndDeleteUseItemPath(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()
		if r.Method == http.MethodPut {
			w.Write([]byte(`{"id":"42","name":"Renamed"}`))
			return
		}
		w.Write([]byte(`{}`))
	})

	updated, err := c.Update(context.Background(), "42", model.Banner{ID: "42", Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	require.NoError(t, c.Delete(context.Background(), "42"))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"PUT /banners/42", "DELETE /banners/42"}, calls)
}

func TestGetNotFoundReturnsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":404}`))
	})

	_, err := c.Get(context.Background(), "missing")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.Contains(t, apiErr.Body, "404")
}

func TestTransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewBannerClient(srv.URL+"/banners", time.Second, logger.NewNop())
	srv.Close()

	_, err := c.List(context.Background())
	assert.Error(t, err)
}

func TestMalformedResponseIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := c.List(context.Background())
	assert.ErrorContains(t, err, "decode")
}
