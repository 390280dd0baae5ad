// Package menu consumes the menu catalog service. The catalog is read-mostly
// input: the core only snapshots name and price from it at add-to-cart time.
package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/campus-canteen/order-service/internal/config"
	"github.com/campus-canteen/order-service/internal/entities"

	"github.com/campus-canteen/order-service/pkg/cache"
)

const listCacheKey = "menu"

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	cache      *cache.LRU[[]entities.MenuItem]
	logger     *slog.Logger
}

// item mirrors the catalog's JSON payload.
type item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     int    `json:"price"`
	Available bool   `json:"available"`
	Veg       bool   `json:"is_veg"`
}

func NewClient(cfg config.Menu, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse menu url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("menu url must be absolute")
	}
	return &Client{
		baseURL: parsed,
		logger:  logger.With(slog.String("adapter", "menu")),
		cache:   cache.NewLRU[[]entities.MenuItem](cfg.CacheCapacity, cfg.CacheTTL),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// List returns the current catalog, served from the TTL cache when fresh.
// Staleness here is acceptable: menu data is read-mostly and the order keeps
// its own snapshots anyway.
func (c *Client) List(ctx context.Context) ([]entities.MenuItem, error) {
	if items, ok := c.cache.Get(listCacheKey); ok {
		return items, nil
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/menu")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("menu request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return nil, fmt.Errorf("menu catalog error: %s", resp.Status)
	}

	var data []item
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	items := make([]entities.MenuItem, 0, len(data))
	for _, it := range data {
		items = append(items, entities.MenuItem{
			ID:        it.ID,
			Name:      it.Name,
			Category:  it.Category,
			Price:     it.Price,
			Available: it.Available,
			Veg:       it.Veg,
		})
	}

	c.cache.Set(listCacheKey, items)
	return items, nil
}

// Start runs the cache janitor for the lifetime of ctx.
func (c *Client) Start(ctx context.Context) error {
	return c.cache.Start(ctx)
}

// Item looks up a single catalog entry.
func (c *Client) Item(ctx context.Context, id string) (entities.MenuItem, error) {
	items, err := c.List(ctx)
	if err != nil {
		return entities.MenuItem{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return entities.MenuItem{}, entities.ErrItemNotFound
}
