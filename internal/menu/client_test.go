package menu_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/campus-canteen/order-service/internal/config"
	"github.com/campus-canteen/order-service/internal/entities"
	"github.com/campus-canteen/order-service/internal/menu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/menu", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "thali", "name": "Veg Thali", "category": "Meals", "price": 70, "available": true, "is_veg": true},
			{"id": "biryani", "name": "Chicken Biryani", "category": "Meals", "price": 100, "available": false, "is_veg": false},
		})
	}))
}

func newClient(t *testing.T, baseURL string) *menu.Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := menu.NewClient(config.Menu{
		BaseURL:       baseURL,
		CacheTTL:      time.Minute,
		CacheCapacity: 8,
	}, logger)
	require.NoError(t, err)
	return c
}

func TestClient_List(t *testing.T) {
	var hits atomic.Int32
	srv := newCatalog(t, &hits)
	defer srv.Close()

	c := newClient(t, srv.URL)

	items, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, entities.MenuItem{
		ID: "thali", Name: "Veg Thali", Category: "Meals", Price: 70, Available: true, Veg: true,
	}, items[0])

	// Second read comes from the cache.
	_, err = c.List(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestClient_Item(t *testing.T) {
	var hits atomic.Int32
	srv := newCatalog(t, &hits)
	defer srv.Close()

	c := newClient(t, srv.URL)

	it, err := c.Item(context.Background(), "biryani")
	require.NoError(t, err)
	assert.Equal(t, "Chicken Biryani", it.Name)
	assert.False(t, it.Available)

	_, err = c.Item(context.Background(), "dosa")
	assert.ErrorIs(t, err, entities.ErrItemNotFound)
}

func TestClient_CatalogError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)

	_, err := c.List(context.Background())
	assert.Error(t, err)
}
