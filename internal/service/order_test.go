package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/campus-canteen/order-service/internal/config"
	"github.com/campus-canteen/order-service/internal/entities"
	"github.com/campus-canteen/order-service/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var orderCfg = config.Order{
	TaxRate:       0.05,
	TokenAttempts: 5,
	CancelWindow:  5 * time.Minute,
}

func newOrderService(repo *mockOrderRepo, verifier *mockVerifier, events *mockPublisher) orderAPI {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewOrderService(logger, passthroughTxManager{}, repo, verifier, events, orderCfg)
}

var validLines = []entities.OrderLine{
	{ItemID: "thali", Name: "Veg Thali", Price: 70, Quantity: 2},
	{ItemID: "biryani", Name: "Chicken Biryani", Price: 100, Quantity: 1},
}

const validTotal = 252 // 240 subtotal + 12 tax

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		ownerID string
		lines   []entities.OrderLine
		slot    string
		total   int
		wantErr error
	}{
		{
			name:    "no owner identity",
			lines:   validLines,
			slot:    "12:30 - 12:45",
			total:   validTotal,
			wantErr: entities.ErrUnauthenticated,
		},
		{
			name:    "empty lines",
			ownerID: "student-1",
			slot:    "12:30 - 12:45",
			wantErr: entities.ErrValidation,
		},
		{
			name:    "zero quantity",
			ownerID: "student-1",
			lines:   []entities.OrderLine{{ItemID: "thali", Price: 70, Quantity: 0}},
			slot:    "12:30 - 12:45",
			wantErr: entities.ErrValidation,
		},
		{
			name:    "quantity above maximum",
			ownerID: "student-1",
			lines:   []entities.OrderLine{{ItemID: "thali", Price: 70, Quantity: 11}},
			slot:    "12:30 - 12:45",
			wantErr: entities.ErrValidation,
		},
		{
			name:    "duplicate item lines",
			ownerID: "student-1",
			lines: []entities.OrderLine{
				{ItemID: "thali", Name: "Veg Thali", Price: 70, Quantity: 1},
				{ItemID: "thali", Name: "Veg Thali", Price: 70, Quantity: 1},
			},
			slot:    "12:30 - 12:45",
			total:   147,
			wantErr: entities.ErrValidation,
		},
		{
			name:    "unknown pickup slot",
			ownerID: "student-1",
			lines:   validLines,
			slot:    "15:00 - 15:15",
			total:   validTotal,
			wantErr: entities.ErrValidation,
		},
		{
			name:    "tampered client total",
			ownerID: "student-1",
			lines:   validLines,
			slot:    "12:30 - 12:45",
			total:   253,
			wantErr: entities.ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockOrderRepo)
			verifier := new(mockVerifier)
			events := new(mockPublisher)
			svc := newOrderService(repo, verifier, events)

			_, err := svc.PlaceOrder(context.Background(), tc.ownerID, tc.lines, tc.slot, tc.total, nil)

			assert.ErrorIs(t, err, tc.wantErr)
			// Nothing may be persisted on a rejected request.
			repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_PlaceOrder_Cash(t *testing.T) {
	repo := new(mockOrderRepo)
	verifier := new(mockVerifier)
	events := new(mockPublisher)
	svc := newOrderService(repo, verifier, events)

	repo.On("TokenActive", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil).Once()
	events.On("OrderCreated", mock.Anything, mock.Anything).Return(nil).Once()

	order, err := svc.PlaceOrder(context.Background(), "student-1", validLines, "12:30 - 12:45", validTotal, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "student-1", order.OwnerID)
	assert.Equal(t, validTotal, order.TotalAmount)
	assert.Equal(t, entities.StatusPending, order.Status)
	assert.Equal(t, entities.PaymentPending, order.PaymentStatus)
	assert.Len(t, order.Token, 4)
	assert.Equal(t, validLines, order.Lines)

	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_Online(t *testing.T) {
	proof := &entities.PaymentProof{IntentID: "intent_abc", ExternalID: "pay_1", Signature: "sig"}

	t.Run("verified payment creates paid order", func(t *testing.T) {
		repo := new(mockOrderRepo)
		verifier := new(mockVerifier)
		events := new(mockPublisher)
		svc := newOrderService(repo, verifier, events)

		verifier.On("VerifyCallback", *proof).Return(true).Once()
		repo.On("TokenActive", mock.Anything, mock.Anything).Return(false, nil).Once()
		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil).Once()
		events.On("OrderCreated", mock.Anything, mock.Anything).Return(nil).Once()

		order, err := svc.PlaceOrder(context.Background(), "student-1", validLines, "12:30 - 12:45", validTotal, proof)
		require.NoError(t, err)

		assert.Equal(t, entities.PaymentPaid, order.PaymentStatus)
		assert.Equal(t, "intent_abc", order.PaymentIntentID)
		assert.Equal(t, "pay_1", order.PaymentExternalID)
		verifier.AssertExpectations(t)
	})

	t.Run("failed verification creates nothing", func(t *testing.T) {
		repo := new(mockOrderRepo)
		verifier := new(mockVerifier)
		events := new(mockPublisher)
		svc := newOrderService(repo, verifier, events)

		verifier.On("VerifyCallback", *proof).Return(false).Once()

		_, err := svc.PlaceOrder(context.Background(), "student-1", validLines, "12:30 - 12:45", validTotal, proof)

		assert.ErrorIs(t, err, entities.ErrPaymentVerification)
		repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "TokenActive", mock.Anything, mock.Anything)
	})
}

func TestOrderService_PlaceOrder_TokenCollisions(t *testing.T) {
	t.Run("retries on active token and succeeds", func(t *testing.T) {
		repo := new(mockOrderRepo)
		verifier := new(mockVerifier)
		events := new(mockPublisher)
		svc := newOrderService(repo, verifier, events)

		repo.On("TokenActive", mock.Anything, mock.Anything).Return(true, nil).Once()
		repo.On("TokenActive", mock.Anything, mock.Anything).Return(false, nil).Once()
		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil).Once()
		events.On("OrderCreated", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := svc.PlaceOrder(context.Background(), "student-1", validLines, "12:30 - 12:45", validTotal, nil)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("retries when the unique index loses the race", func(t *testing.T) {
		repo := new(mockOrderRepo)
		verifier := new(mockVerifier)
		events := new(mockPublisher)
		svc := newOrderService(repo, verifier, events)

		// The check passes but a concurrent creator inserts the same token
		// first; the partial unique index rejects ours and we retry.
		repo.On("TokenActive", mock.Anything, mock.Anything).Return(false, nil).Twice()
		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(entities.ErrTokenTaken).Once()
		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil).Once()
		events.On("OrderCreated", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := svc.PlaceOrder(context.Background(), "student-1", validLines, "12:30 - 12:45", validTotal, nil)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("exhausted attempts surface the alarm", func(t *testing.T) {
		repo := new(mockOrderRepo)
		verifier := new(mockVerifier)
		events := new(mockPublisher)
		svc := newOrderService(repo, verifier, events)

		repo.On("TokenActive", mock.Anything, mock.Anything).Return(true, nil).Times(5)

		_, err := svc.PlaceOrder(context.Background(), "student-1", validLines, "12:30 - 12:45", validTotal, nil)

		assert.ErrorIs(t, err, entities.ErrTokenExhausted)
		repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})
}

func TestOrderService_PlaceOrder_PublishFailureIsNotFatal(t *testing.T) {
	repo := new(mockOrderRepo)
	verifier := new(mockVerifier)
	events := new(mockPublisher)
	svc := newOrderService(repo, verifier, events)

	repo.On("TokenActive", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil).Once()
	events.On("OrderCreated", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := svc.PlaceOrder(context.Background(), "student-1", validLines, "12:30 - 12:45", validTotal, nil)
	assert.NoError(t, err)
}

func TestOrderService_Cancel(t *testing.T) {
	pendingOrder := entities.Order{
		ID:        "order-1",
		OwnerID:   "student-1",
		Status:    entities.StatusPending,
		CreatedAt: time.Now().Add(-time.Minute),
	}

	testCases := []struct {
		name         string
		requesterID  string
		order        entities.Order
		mockBehavior func(repo *mockOrderRepo, events *mockPublisher)
		wantErr      error
	}{
		{
			name:        "owner cancels pending order",
			requesterID: "student-1",
			order:       pendingOrder,
			mockBehavior: func(repo *mockOrderRepo, events *mockPublisher) {
				repo.On("UpdateStatus", mock.Anything, "order-1", entities.StatusPending, entities.StatusCancelled).
					Return(true, nil).Once()
				events.On("StatusChanged", mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name:        "requester is not the owner",
			requesterID: "student-2",
			order:       pendingOrder,
			wantErr:     entities.ErrIllegalTransition,
		},
		{
			name:        "order already preparing",
			requesterID: "student-1",
			order: entities.Order{
				ID: "order-1", OwnerID: "student-1",
				Status: entities.StatusPreparing, CreatedAt: pendingOrder.CreatedAt,
			},
			wantErr: entities.ErrIllegalTransition,
		},
		{
			name:        "order already cancelled",
			requesterID: "student-1",
			order: entities.Order{
				ID: "order-1", OwnerID: "student-1",
				Status: entities.StatusCancelled, CreatedAt: pendingOrder.CreatedAt,
			},
			wantErr: entities.ErrIllegalTransition,
		},
		{
			name:        "cancellation window closed",
			requesterID: "student-1",
			order: entities.Order{
				ID: "order-1", OwnerID: "student-1",
				Status: entities.StatusPending, CreatedAt: time.Now().Add(-time.Hour),
			},
			wantErr: entities.ErrIllegalTransition,
		},
		{
			name:        "concurrent staff update wins the race",
			requesterID: "student-1",
			order:       pendingOrder,
			mockBehavior: func(repo *mockOrderRepo, events *mockPublisher) {
				// Compare-and-swap misses: the stored status moved on.
				repo.On("UpdateStatus", mock.Anything, "order-1", entities.StatusPending, entities.StatusCancelled).
					Return(false, nil).Once()
			},
			wantErr: entities.ErrIllegalTransition,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockOrderRepo)
			verifier := new(mockVerifier)
			events := new(mockPublisher)
			svc := newOrderService(repo, verifier, events)

			repo.On("GetOrderByID", mock.Anything, "order-1").Return(tc.order, nil).Once()
			if tc.mockBehavior != nil {
				tc.mockBehavior(repo, events)
			}

			order, err := svc.Cancel(context.Background(), "order-1", tc.requesterID)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entities.StatusCancelled, order.Status)
			repo.AssertExpectations(t)
		})
	}
}

func TestOrderService_Cancel_Unauthenticated(t *testing.T) {
	svc := newOrderService(new(mockOrderRepo), new(mockVerifier), new(mockPublisher))

	_, err := svc.Cancel(context.Background(), "order-1", "")
	assert.ErrorIs(t, err, entities.ErrUnauthenticated)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	testCases := []struct {
		name    string
		current entities.Status
		next    entities.Status
		wantErr bool
	}{
		{name: "pending to preparing", current: entities.StatusPending, next: entities.StatusPreparing},
		{name: "preparing to ready", current: entities.StatusPreparing, next: entities.StatusReady},
		{name: "ready to collected", current: entities.StatusReady, next: entities.StatusCollected},
		{name: "ready cannot go back to preparing", current: entities.StatusReady, next: entities.StatusPreparing, wantErr: true},
		{name: "collected is terminal", current: entities.StatusCollected, next: entities.StatusReady, wantErr: true},
		{name: "cancelled is terminal", current: entities.StatusCancelled, next: entities.StatusPreparing, wantErr: true},
		{name: "preparing cannot be cancelled", current: entities.StatusPreparing, next: entities.StatusCancelled, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockOrderRepo)
			events := new(mockPublisher)
			svc := newOrderService(repo, new(mockVerifier), events)

			order := entities.Order{ID: "order-1", Status: tc.current}
			repo.On("GetOrderByID", mock.Anything, "order-1").Return(order, nil).Once()

			if !tc.wantErr {
				repo.On("UpdateStatus", mock.Anything, "order-1", tc.current, tc.next).Return(true, nil).Once()
				events.On("StatusChanged", mock.Anything, mock.Anything).Return(nil).Once()
			}

			updated, err := svc.UpdateStatus(context.Background(), "order-1", tc.next)

			if tc.wantErr {
				assert.ErrorIs(t, err, entities.ErrIllegalTransition)
				repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.next, updated.Status)
		})
	}
}

func TestOrderService_UpdateStatus_LosesRace(t *testing.T) {
	repo := new(mockOrderRepo)
	svc := newOrderService(repo, new(mockVerifier), new(mockPublisher))

	// Loaded as Pending, but a concurrent cancel commits first; the CAS must
	// miss and the caller sees the conflict instead of overwriting it.
	repo.On("GetOrderByID", mock.Anything, "order-1").
		Return(entities.Order{ID: "order-1", Status: entities.StatusPending}, nil).Once()
	repo.On("UpdateStatus", mock.Anything, "order-1", entities.StatusPending, entities.StatusPreparing).
		Return(false, nil).Once()

	_, err := svc.UpdateStatus(context.Background(), "order-1", entities.StatusPreparing)
	assert.ErrorIs(t, err, entities.ErrIllegalTransition)
}

func TestOrderService_Listings(t *testing.T) {
	repo := new(mockOrderRepo)
	svc := newOrderService(repo, new(mockVerifier), new(mockPublisher))

	mine := []entities.Order{{ID: "a"}, {ID: "b"}}
	active := []entities.Order{{ID: "c", Status: entities.StatusPending}}

	repo.On("ListByOwner", mock.Anything, "student-1").Return(mine, nil).Once()
	repo.On("ListActive", mock.Anything).Return(active, nil).Once()

	got, err := svc.ListMyOrders(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, mine, got)

	got, err = svc.KitchenQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, active, got)

	_, err = svc.ListMyOrders(context.Background(), "")
	assert.ErrorIs(t, err, entities.ErrUnauthenticated)
}

func TestOrderService_QuoteTotal(t *testing.T) {
	svc := newOrderService(new(mockOrderRepo), new(mockVerifier), new(mockPublisher))

	totals, err := svc.QuoteTotal(validLines)
	require.NoError(t, err)
	assert.Equal(t, entities.Totals{Subtotal: 240, Tax: 12, Total: 252}, totals)

	_, err = svc.QuoteTotal(nil)
	assert.ErrorIs(t, err, entities.ErrValidation)

	// Quoting applies the same line rules as checkout, so a repeated item is
	// caught here instead of surfacing later as a constraint violation.
	_, err = svc.QuoteTotal([]entities.OrderLine{
		{ItemID: "thali", Name: "Veg Thali", Price: 70, Quantity: 1},
		{ItemID: "thali", Name: "Veg Thali", Price: 70, Quantity: 1},
	})
	assert.ErrorIs(t, err, entities.ErrValidation)
}
