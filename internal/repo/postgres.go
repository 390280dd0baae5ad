package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campus-canteen/order-service/internal/entities"
	"github.com/campus-canteen/order-service/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const activeTokenIndex = "orders_active_token_idx"

var orderColumns = []string{
	"order_id", "owner_id", "total_amount", "pickup_slot", "token",
	"status", "payment_status", "payment_intent_id", "payment_external_id",
	"created_at",
}

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateOrder inserts the order row and its lines. Callers run it inside a
// transaction so either the whole order exists or none of it does. A race on
// the active-token index surfaces as entities.ErrTokenTaken.
func (r *postgresRepo) CreateOrder(ctx context.Context, o entities.Order) error {
	query, args := r.qb.Insert("orders").
		Columns(orderColumns...).
		Values(
			o.ID, o.OwnerID, o.TotalAmount, o.PickupSlot, o.Token,
			string(o.Status), string(o.PaymentStatus),
			nullString(o.PaymentIntentID), nullString(o.PaymentExternalID),
			o.CreatedAt,
		).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, activeTokenIndex) {
			return entities.ErrTokenTaken
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	q := r.qb.Insert("order_lines").
		Columns("order_id", "item_id", "name", "price", "quantity")
	for _, l := range o.Lines {
		q = q.Values(o.ID, l.ItemID, l.Name, l.Price, l.Quantity)
	}

	query, args = q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order lines: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	query, args = r.qb.Select("order_id", "item_id", "name", "price", "quantity").
		From("order_lines").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	var lines []OrderLine
	if err := r.selectContext(ctx, &lines, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order lines: %w", err)
	}

	return OrderToEntity(order, lines), nil
}

// ListByOwner returns the owner's order history, newest first.
func (r *postgresRepo) ListByOwner(ctx context.Context, ownerID string) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		MustSql()

	return r.listOrders(ctx, query, args)
}

// ListActive returns all orders still on the kitchen queue, oldest first so
// first-placed orders are prepared first.
func (r *postgresRepo) ListActive(ctx context.Context) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"status": activeStatusStrings()}).
		OrderBy("created_at ASC").
		MustSql()

	return r.listOrders(ctx, query, args)
}

func (r *postgresRepo) listOrders(ctx context.Context, query string, args []any) ([]entities.Order, error) {
	var orders []Order
	if err := r.selectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	if len(orders) == 0 {
		return []entities.Order{}, nil
	}

	ids := make([]string, len(orders))
	for i, order := range orders {
		ids[i] = order.OrderID
	}

	// Fetch lines for the whole page in one query and stitch them in.
	query, args = r.qb.Select("order_id", "item_id", "name", "price", "quantity").
		From("order_lines").
		Where(sq.Eq{"order_id": ids}).
		MustSql()

	var lines []OrderLine
	if err := r.selectContext(ctx, &lines, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select order lines: %w", err)
	}
	linesMap := make(map[string][]OrderLine, len(ids))
	for _, l := range lines {
		linesMap[l.OrderID] = append(linesMap[l.OrderID], l)
	}

	result := make([]entities.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, OrderToEntity(order, linesMap[order.OrderID]))
	}

	return result, nil
}

// TokenActive reports whether the token is held by any non-terminal order.
func (r *postgresRepo) TokenActive(ctx context.Context, token string) (bool, error) {
	query, args := r.qb.Select("1").
		From("orders").
		Where(sq.Eq{"token": token, "status": activeStatusStrings()}).
		Limit(1).
		MustSql()

	var one int
	err := r.getContext(ctx, &one, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return true, nil
}

// UpdateStatus moves an order from one status to another as a compare-and-swap:
// it reports false when the stored status no longer matches from, which is how
// the losing side of a concurrent transition finds out.
func (r *postgresRepo) UpdateStatus(ctx context.Context, orderID string, from, to entities.Status) (bool, error) {
	query, args := r.qb.Update("orders").
		Set("status", string(to)).
		Where(sq.Eq{"order_id": orderID, "status": string(from)}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

func activeStatusStrings() []string {
	statuses := entities.ActiveStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == constraint
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
