package repo

import (
	"database/sql"
	"time"

	"github.com/campus-canteen/order-service/internal/entities"
)

type Order struct {
	OrderID           string         `db:"order_id"`
	OwnerID           string         `db:"owner_id"`
	TotalAmount       int            `db:"total_amount"`
	PickupSlot        string         `db:"pickup_slot"`
	Token             string         `db:"token"`
	Status            string         `db:"status"`
	PaymentStatus     string         `db:"payment_status"`
	PaymentIntentID   sql.NullString `db:"payment_intent_id"`
	PaymentExternalID sql.NullString `db:"payment_external_id"`
	CreatedAt         time.Time      `db:"created_at"`
}

type OrderLine struct {
	OrderID  string `db:"order_id"`
	ItemID   string `db:"item_id"`
	Name     string `db:"name"`
	Price    int    `db:"price"`
	Quantity int    `db:"quantity"`
}

func LineToEntity(l OrderLine) entities.OrderLine {
	return entities.OrderLine{
		ItemID:   l.ItemID,
		Name:     l.Name,
		Price:    l.Price,
		Quantity: l.Quantity,
	}
}

func OrderToEntity(o Order, lines []OrderLine) entities.Order {
	order := entities.Order{
		ID:                o.OrderID,
		OwnerID:           o.OwnerID,
		TotalAmount:       o.TotalAmount,
		PickupSlot:        o.PickupSlot,
		Token:             o.Token,
		Status:            entities.Status(o.Status),
		PaymentStatus:     entities.PaymentStatus(o.PaymentStatus),
		PaymentIntentID:   nullStringToString(o.PaymentIntentID),
		PaymentExternalID: nullStringToString(o.PaymentExternalID),
		CreatedAt:         o.CreatedAt,
	}

	if len(lines) > 0 {
		order.Lines = make([]entities.OrderLine, 0, len(lines))
		for _, l := range lines {
			order.Lines = append(order.Lines, LineToEntity(l))
		}
	}

	return order
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
