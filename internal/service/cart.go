package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/campus-canteen/order-service/internal/config"
	"github.com/campus-canteen/order-service/internal/entities"
)

// MenuCatalog is the read-only collaborator the cart snapshots prices from.
type MenuCatalog interface {
	Item(ctx context.Context, id string) (entities.MenuItem, error)
}

// CartView is the priced cart returned to the storefront.
type CartView struct {
	Lines  []entities.CartLine
	Totals entities.Totals
}

// cartService keeps one session cart per owner. Carts are deliberately not
// persisted: checkout captures a snapshot into the order, and an abandoned
// cart dying with the process is acceptable.
type cartService struct {
	logger  *slog.Logger
	catalog MenuCatalog
	taxRate float64

	mu    sync.Mutex
	carts map[string]*entities.Cart
}

func NewCartService(logger *slog.Logger, catalog MenuCatalog, cfg config.Order) *cartService {
	return &cartService{
		logger:  logger.With(slog.String("service", "cart")),
		catalog: catalog,
		taxRate: cfg.TaxRate,
		carts:   make(map[string]*entities.Cart),
	}
}

// Add snapshots the item's name and price from the catalog and adds it to the
// owner's cart. The snapshot is what ends up on the order; later catalog
// changes do not touch it. Unavailable items are rejected.
func (s *cartService) Add(ctx context.Context, ownerID, itemID string) (CartView, error) {
	if ownerID == "" {
		return CartView{}, entities.ErrUnauthenticated
	}

	item, err := s.catalog.Item(ctx, itemID)
	if err != nil {
		return CartView{}, err
	}
	if !item.Available {
		return CartView{}, fmt.Errorf("%w: item %s is unavailable", entities.ErrValidation, itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(ownerID)
	cart.Add(item.ID, item.Name, item.Price)
	return s.view(cart), nil
}

// SetQuantity adjusts a line by delta; dropping below one removes the line.
func (s *cartService) SetQuantity(ctx context.Context, ownerID, itemID string, delta int) (CartView, error) {
	if ownerID == "" {
		return CartView{}, entities.ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(ownerID)
	cart.SetQuantity(itemID, delta)
	return s.view(cart), nil
}

func (s *cartService) Remove(ctx context.Context, ownerID, itemID string) (CartView, error) {
	if ownerID == "" {
		return CartView{}, entities.ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(ownerID)
	cart.Remove(itemID)
	return s.view(cart), nil
}

func (s *cartService) Clear(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return entities.ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, ownerID)
	return nil
}

func (s *cartService) Get(ctx context.Context, ownerID string) (CartView, error) {
	if ownerID == "" {
		return CartView{}, entities.ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view(s.cart(ownerID)), nil
}

// cart returns the owner's cart, creating it lazily. Callers hold mu.
func (s *cartService) cart(ownerID string) *entities.Cart {
	cart, ok := s.carts[ownerID]
	if !ok {
		cart = &entities.Cart{}
		s.carts[ownerID] = cart
	}
	return cart
}

func (s *cartService) view(cart *entities.Cart) CartView {
	lines := make([]entities.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	return CartView{Lines: lines, Totals: cart.Totals(s.taxRate)}
}
