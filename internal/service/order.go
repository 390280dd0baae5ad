package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/campus-canteen/order-service/internal/config"
	"github.com/campus-canteen/order-service/internal/entities"
	"github.com/campus-canteen/order-service/pkg/trm"
	"github.com/campus-canteen/order-service/pkg/utils"

	"github.com/google/uuid"
)

type OrderRepo interface {
	CreateOrder(ctx context.Context, o entities.Order) error
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entities.Order, error)
	ListActive(ctx context.Context) ([]entities.Order, error)
	TokenActive(ctx context.Context, token string) (bool, error)
	UpdateStatus(ctx context.Context, orderID string, from, to entities.Status) (bool, error)
}

// PaymentVerifier checks a processor callback signature. It reports false on
// any mismatch and never errors.
type PaymentVerifier interface {
	VerifyCallback(proof entities.PaymentProof) bool
}

// EventPublisher emits lifecycle events; failures are logged, never surfaced.
type EventPublisher interface {
	OrderCreated(ctx context.Context, order entities.Order) error
	StatusChanged(ctx context.Context, order entities.Order) error
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	verifier  PaymentVerifier
	events    EventPublisher
	cfg       config.Order
}

func NewOrderService(
	logger *slog.Logger,
	txManager trm.Manager,
	repo OrderRepo,
	verifier PaymentVerifier,
	events EventPublisher,
	cfg config.Order,
) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		verifier:  verifier,
		events:    events,
		cfg:       cfg,
	}
}

var readRetry = utils.RetryConfig{
	InitialDelay: 100 * time.Millisecond,
	MaxAttempts:  3,
	Multiplier:   2,
}

// PlaceOrder turns a validated cart snapshot into a persisted order with a
// pickup token. The total is always recomputed server-side; a client-supplied
// total is only accepted when it matches exactly. For the online path the
// payment proof is verified before anything is written: a failed verification
// creates no rows at all.
func (s *orderService) PlaceOrder(
	ctx context.Context,
	ownerID string,
	lines []entities.OrderLine,
	pickupSlot string,
	clientTotal int,
	proof *entities.PaymentProof,
) (entities.Order, error) {
	if ownerID == "" {
		return entities.Order{}, entities.ErrUnauthenticated
	}
	if err := validateLines(lines); err != nil {
		return entities.Order{}, err
	}
	if !entities.ValidSlot(pickupSlot) {
		return entities.Order{}, fmt.Errorf("%w: unknown pickup slot %q", entities.ErrValidation, pickupSlot)
	}

	totals := entities.ComputeTotals(lines, s.cfg.TaxRate)
	if clientTotal != totals.Total {
		return entities.Order{}, fmt.Errorf("%w: total mismatch, expected %d", entities.ErrValidation, totals.Total)
	}

	order := entities.Order{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Lines:         lines,
		TotalAmount:   totals.Total,
		PickupSlot:    pickupSlot,
		Status:        entities.StatusPending,
		PaymentStatus: entities.PaymentPending,
		CreatedAt:     time.Now().UTC(),
	}

	if proof != nil {
		if !s.verifier.VerifyCallback(*proof) {
			return entities.Order{}, entities.ErrPaymentVerification
		}
		order.PaymentStatus = entities.PaymentPaid
		order.PaymentIntentID = proof.IntentID
		order.PaymentExternalID = proof.ExternalID
	}

	if err := s.createWithToken(ctx, &order); err != nil {
		return entities.Order{}, err
	}

	s.logger.Info("order placed",
		slog.String("order_id", order.ID),
		slog.String("token", order.Token),
		slog.String("payment_status", string(order.PaymentStatus)),
	)

	if err := s.events.OrderCreated(ctx, order); err != nil {
		s.logger.Error("failed to publish order created", slog.Any("error", err))
	}

	return order, nil
}

// createWithToken assigns a token and persists the order atomically. The
// active-set check runs inside the same transaction as the insert and the
// partial unique index backstops concurrent creators, so two active orders can
// never share a token. Collisions get a fresh token up to the configured
// number of attempts.
func (s *orderService) createWithToken(ctx context.Context, order *entities.Order) error {
	attempts := s.cfg.TokenAttempts
	if attempts <= 0 {
		attempts = 5
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		token, err := newToken()
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		order.Token = token

		err = s.txManager.Do(ctx, func(ctx context.Context) error {
			taken, err := s.repo.TokenActive(ctx, order.Token)
			if err != nil {
				return err
			}
			if taken {
				return entities.ErrTokenTaken
			}
			return s.repo.CreateOrder(ctx, *order)
		})
		if errors.Is(err, entities.ErrTokenTaken) {
			s.logger.Debug("token collision, retrying", slog.String("token", order.Token))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	}

	// The active-token space is saturated; this is an operational alarm, not
	// something the customer can fix by retrying.
	s.logger.Error("token attempts exhausted", slog.Int("attempts", attempts))
	return entities.ErrTokenExhausted
}

// Cancel is the owner's self-service escape hatch. It is a business policy
// guard: only the owner, only while Pending, only inside the configured
// window. Everything else is an illegal transition.
func (s *orderService) Cancel(ctx context.Context, orderID, requesterID string) (entities.Order, error) {
	if requesterID == "" {
		return entities.Order{}, entities.ErrUnauthenticated
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}

	if order.OwnerID != requesterID {
		return entities.Order{}, fmt.Errorf("%w: requester does not own the order", entities.ErrIllegalTransition)
	}
	if order.Status != entities.StatusPending {
		return entities.Order{}, fmt.Errorf("%w: cannot cancel a %s order", entities.ErrIllegalTransition, order.Status)
	}
	if s.cfg.CancelWindow > 0 && time.Since(order.CreatedAt) > s.cfg.CancelWindow {
		return entities.Order{}, fmt.Errorf("%w: cancellation window closed", entities.ErrIllegalTransition)
	}

	return s.transition(ctx, order, entities.StatusCancelled)
}

// UpdateStatus advances an order along the kitchen workflow on behalf of
// staff. The transition table is the single authority on legality.
func (s *orderService) UpdateStatus(ctx context.Context, orderID string, next entities.Status) (entities.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}

	if !order.Status.CanTransition(next) {
		return entities.Order{}, fmt.Errorf("%w: %s -> %s", entities.ErrIllegalTransition, order.Status, next)
	}

	return s.transition(ctx, order, next)
}

// transition performs the compare-and-swap. When two writers race, exactly one
// update matches the expected current status; the loser sees the conflict as
// an illegal transition and stored state is never overwritten.
func (s *orderService) transition(ctx context.Context, order entities.Order, next entities.Status) (entities.Order, error) {
	ok, err := s.repo.UpdateStatus(ctx, order.ID, order.Status, next)
	if err != nil {
		return entities.Order{}, err
	}
	if !ok {
		return entities.Order{}, fmt.Errorf("%w: order is no longer %s", entities.ErrIllegalTransition, order.Status)
	}

	order.Status = next
	s.logger.Info("order status changed",
		slog.String("order_id", order.ID),
		slog.String("status", string(next)),
	)

	if err := s.events.StatusChanged(ctx, order); err != nil {
		s.logger.Error("failed to publish status change", slog.Any("error", err))
	}

	return order, nil
}

// ListMyOrders returns the owner's history, newest first.
func (s *orderService) ListMyOrders(ctx context.Context, ownerID string) ([]entities.Order, error) {
	if ownerID == "" {
		return nil, entities.ErrUnauthenticated
	}

	var orders []entities.Order
	err := utils.Retry(readRetry, func() error {
		var err error
		orders, err = s.repo.ListByOwner(ctx, ownerID)
		return err
	})
	return orders, err
}

// KitchenQueue returns every active order, oldest first, so the kitchen
// prepares first-placed orders first.
func (s *orderService) KitchenQueue(ctx context.Context) ([]entities.Order, error) {
	var orders []entities.Order
	err := utils.Retry(readRetry, func() error {
		var err error
		orders, err = s.repo.ListActive(ctx)
		return err
	})
	return orders, err
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (entities.Order, error) {
	var order entities.Order
	err := utils.Retry(readRetry, func() error {
		var err error
		order, err = s.repo.GetOrderByID(ctx, orderID)
		return err
	}, entities.ErrOrderNotFound)
	return order, err
}

// QuoteTotal validates lines and prices them with the canonical formula. The
// payment handler uses it to gate intent creation on the recomputed amount.
func (s *orderService) QuoteTotal(lines []entities.OrderLine) (entities.Totals, error) {
	if err := validateLines(lines); err != nil {
		return entities.Totals{}, err
	}
	return entities.ComputeTotals(lines, s.cfg.TaxRate), nil
}

func validateLines(lines []entities.OrderLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: order has no lines", entities.ErrValidation)
	}
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if l.ItemID == "" {
			return fmt.Errorf("%w: line is missing item id", entities.ErrValidation)
		}
		// One line per item; quantities belong on the line, not in repeats.
		if _, ok := seen[l.ItemID]; ok {
			return fmt.Errorf("%w: duplicate line for item %s", entities.ErrValidation, l.ItemID)
		}
		seen[l.ItemID] = struct{}{}
		if l.Quantity < entities.MinLineQuantity || l.Quantity > entities.MaxLineQuantity {
			return fmt.Errorf("%w: quantity %d out of range for item %s", entities.ErrValidation, l.Quantity, l.ItemID)
		}
		if l.Price < 0 {
			return fmt.Errorf("%w: negative price for item %s", entities.ErrValidation, l.ItemID)
		}
	}
	return nil
}

// newToken draws a 4-digit pickup token. Short and readable beats globally
// unique here; uniqueness among active orders is enforced at creation.
func newToken() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
