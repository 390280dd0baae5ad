package service_test

import (
	"context"

	"github.com/campus-canteen/order-service/internal/entities"
	"github.com/campus-canteen/order-service/pkg/trm"

	"github.com/stretchr/testify/mock"
)

// orderAPI is the surface under test; the constructor returns an unexported
// concrete type, so the helpers talk through this.
type orderAPI interface {
	PlaceOrder(ctx context.Context, ownerID string, lines []entities.OrderLine, pickupSlot string, clientTotal int, proof *entities.PaymentProof) (entities.Order, error)
	Cancel(ctx context.Context, orderID, requesterID string) (entities.Order, error)
	UpdateStatus(ctx context.Context, orderID string, next entities.Status) (entities.Order, error)
	ListMyOrders(ctx context.Context, ownerID string) ([]entities.Order, error)
	KitchenQueue(ctx context.Context) ([]entities.Order, error)
	GetOrder(ctx context.Context, orderID string) (entities.Order, error)
	QuoteTotal(lines []entities.OrderLine) (entities.Totals, error)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, o entities.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockOrderRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByOwner(ctx context.Context, ownerID string) ([]entities.Order, error) {
	args := m.Called(ctx, ownerID)
	orders, _ := args.Get(0).([]entities.Order)
	return orders, args.Error(1)
}

func (m *mockOrderRepo) ListActive(ctx context.Context) ([]entities.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]entities.Order)
	return orders, args.Error(1)
}

func (m *mockOrderRepo) TokenActive(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, orderID string, from, to entities.Status) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifyCallback(proof entities.PaymentProof) bool {
	return m.Called(proof).Bool(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) OrderCreated(ctx context.Context, order entities.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockPublisher) StatusChanged(ctx context.Context, order entities.Order) error {
	return m.Called(ctx, order).Error(0)
}

// passthroughTxManager runs callbacks directly; the repo mocks decide outcomes.
type passthroughTxManager struct{}

func (passthroughTxManager) BeginTx(ctx context.Context) (context.Context, trm.Transaction, error) {
	return ctx, nil, nil
}

func (passthroughTxManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	return callback(ctx)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Item(ctx context.Context, id string) (entities.MenuItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.MenuItem), args.Error(1)
}
