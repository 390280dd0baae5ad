package handler

import (
	"time"

	"github.com/campus-canteen/order-service/internal/entities"
	"github.com/campus-canteen/order-service/internal/service"
)

// OrderLine is a priced line snapshot inside an order
type OrderLine struct {
	ItemID   string `json:"item_id" validate:"required"`
	Name     string `json:"name"`
	Price    int    `json:"price" validate:"gte=0"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=10"`
}

// Order represents a placed order
type Order struct {
	ID            string      `json:"id"`
	Lines         []OrderLine `json:"lines"`
	TotalAmount   int         `json:"total_amount"`
	PickupSlot    string      `json:"pickup_slot"`
	Token         string      `json:"token"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"payment_status"`
	CreatedAt     time.Time   `json:"created_at"`
}

// PlaceOrderRequest is the checkout payload. The total is recomputed
// server-side; a mismatch rejects the request.
type PlaceOrderRequest struct {
	Lines       []OrderLine `json:"lines" validate:"required,min=1,dive"`
	PickupSlot  string      `json:"pickup_slot" validate:"required"`
	TotalAmount int         `json:"total_amount" validate:"gte=0"`
}

// UpdateStatusRequest moves an order along the kitchen workflow
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreatePaymentRequest asks for a payment intent covering the given cart
type CreatePaymentRequest struct {
	Lines  []OrderLine `json:"lines" validate:"required,min=1,dive"`
	Amount int         `json:"amount" validate:"gt=0"`
}

// PaymentIntent mirrors the processor's provisional payment
type PaymentIntent struct {
	IntentID string `json:"intent_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

// VerifyPaymentRequest carries the processor callback plus the order to create
// once the signature checks out
type VerifyPaymentRequest struct {
	IntentID  string            `json:"intent_id" validate:"required"`
	PaymentID string            `json:"payment_id" validate:"required"`
	Signature string            `json:"signature" validate:"required"`
	Order     PlaceOrderRequest `json:"order" validate:"required"`
}

// VerifyPaymentResponse reports the created order for a verified payment
type VerifyPaymentResponse struct {
	Success bool  `json:"success"`
	Order   Order `json:"order"`
}

// AddCartItemRequest puts one catalog item into the session cart
type AddCartItemRequest struct {
	ItemID string `json:"item_id" validate:"required"`
}

// ChangeQuantityRequest adjusts a cart line by a signed delta
type ChangeQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// Cart is the priced session cart
type Cart struct {
	Lines    []CartLine `json:"lines"`
	Subtotal int        `json:"subtotal"`
	Tax      int        `json:"tax"`
	Total    int        `json:"total"`
}

// CartLine is one item in the session cart
type CartLine struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// MenuItem is a catalog entry as served to the storefront
type MenuItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     int    `json:"price"`
	Available bool   `json:"available"`
	Veg       bool   `json:"is_veg"`
}

func LineJSONToEntity(l OrderLine) entities.OrderLine {
	return entities.OrderLine{
		ItemID:   l.ItemID,
		Name:     l.Name,
		Price:    l.Price,
		Quantity: l.Quantity,
	}
}

func LinesJSONToEntity(lines []OrderLine) []entities.OrderLine {
	out := make([]entities.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineJSONToEntity(l))
	}
	return out
}

func OrderEntityToJSON(o entities.Order) Order {
	lines := make([]OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLine{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
		})
	}

	return Order{
		ID:            o.ID,
		Lines:         lines,
		TotalAmount:   o.TotalAmount,
		PickupSlot:    o.PickupSlot,
		Token:         o.Token,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
	}
}

func OrdersEntityToJSON(orders []entities.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderEntityToJSON(o))
	}
	return out
}

func CartViewToJSON(v service.CartView) Cart {
	lines := make([]CartLine, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, CartLine{ItemID: l.ItemID, Name: l.Name, Price: l.Price, Quantity: l.Quantity})
	}
	return Cart{
		Lines:    lines,
		Subtotal: v.Totals.Subtotal,
		Tax:      v.Totals.Tax,
		Total:    v.Totals.Total,
	}
}

func MenuItemsToJSON(items []entities.MenuItem) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		out = append(out, MenuItem{
			ID:        it.ID,
			Name:      it.Name,
			Category:  it.Category,
			Price:     it.Price,
			Available: it.Available,
			Veg:       it.Veg,
		})
	}
	return out
}
