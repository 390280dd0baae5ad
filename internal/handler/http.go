package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/campus-canteen/order-service/internal/entities"
	"github.com/campus-canteen/order-service/internal/middleware"
	"github.com/campus-canteen/order-service/internal/service"
	"github.com/campus-canteen/order-service/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, ownerID string, lines []entities.OrderLine, pickupSlot string, clientTotal int, proof *entities.PaymentProof) (entities.Order, error)
	Cancel(ctx context.Context, orderID, requesterID string) (entities.Order, error)
	UpdateStatus(ctx context.Context, orderID string, next entities.Status) (entities.Order, error)
	ListMyOrders(ctx context.Context, ownerID string) ([]entities.Order, error)
	KitchenQueue(ctx context.Context) ([]entities.Order, error)
	GetOrder(ctx context.Context, orderID string) (entities.Order, error)
	QuoteTotal(lines []entities.OrderLine) (entities.Totals, error)
}

type CartService interface {
	Add(ctx context.Context, ownerID, itemID string) (service.CartView, error)
	SetQuantity(ctx context.Context, ownerID, itemID string, delta int) (service.CartView, error)
	Remove(ctx context.Context, ownerID, itemID string) (service.CartView, error)
	Clear(ctx context.Context, ownerID string) error
	Get(ctx context.Context, ownerID string) (service.CartView, error)
}

type PaymentService interface {
	CreateIntent(ctx context.Context, amount int) (entities.PaymentIntent, error)
}

type MenuService interface {
	List(ctx context.Context) ([]entities.MenuItem, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	orders   OrderService
	carts    CartService
	payments PaymentService
	menu     MenuService
	auth     func(http.Handler) http.Handler
}

func NewHTTPHandler(
	logger *slog.Logger,
	orders OrderService,
	carts CartService,
	payments PaymentService,
	menu MenuService,
	auth func(http.Handler) http.Handler,
) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		orders:   orders,
		carts:    carts,
		payments: payments,
		menu:     menu,
		auth:     auth,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Get("/menu", h.GetMenu)

	r.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/orders", h.PlaceOrder)
		r.Get("/orders/my-orders", h.MyOrders)
		r.Get("/orders/kitchen", h.KitchenQueue)
		r.Get("/orders/{order_id}", h.GetOrder)
		r.Put("/orders/{order_id}/cancel", h.CancelOrder)
		r.Put("/orders/{order_id}/status", h.UpdateStatus)

		r.Post("/payment/create-order", h.CreatePayment)
		r.Post("/payment/verify", h.VerifyPayment)

		r.Get("/cart", h.GetCart)
		r.Post("/cart/items", h.AddCartItem)
		r.Patch("/cart/items/{item_id}", h.ChangeCartQuantity)
		r.Delete("/cart/items/{item_id}", h.RemoveCartItem)
		r.Delete("/cart", h.ClearCart)
	})
}

// GetMenu returns the current catalog.
// @Summary      List the menu
// @Description  Returns catalog items with availability flags
// @Tags         menu
// @Success      200  {array}   MenuItem
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /menu [get]
func (h *HTTPHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.menu.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list menu", slog.Any("error", err))
		utils.WriteError(w, "INTERNAL", "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, MenuItemsToJSON(items), http.StatusOK)
}

// PlaceOrder creates a cash (pay at counter) order.
// @Summary      Place an order
// @Description  Creates an order with a pickup token, payment due at the counter
// @Tags         orders
// @Param        request  body  PlaceOrderRequest  true  "Order payload"
// @Success      201  {object}  Order
// @Failure      400  {object}  utils.ErrorResponse "Validation error"
// @Failure      401  {object}  utils.ErrorResponse "Missing or invalid token"
// @Failure      503  {object}  utils.ErrorResponse "No pickup tokens available"
// @Router       /orders [post]
// @Security     BearerAuth
func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PlaceOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "VALIDATION", "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.PlaceOrder(ctx, middleware.OwnerID(ctx), LinesJSONToEntity(req.Lines), req.PickupSlot, req.TotalAmount, nil)
	if err != nil {
		h.writeOrderError(ctx, w, err, "failed to place order")
		return
	}

	ordersPlaced.WithLabelValues(string(order.PaymentStatus)).Inc()
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

// MyOrders returns the caller's orders, newest first.
// @Summary      List my orders
// @Tags         orders
// @Success      200  {array}   Order
// @Failure      401  {object}  utils.ErrorResponse "Missing or invalid token"
// @Router       /orders/my-orders [get]
// @Security     BearerAuth
func (h *HTTPHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.orders.ListMyOrders(ctx, middleware.OwnerID(ctx))
	if err != nil {
		h.writeOrderError(ctx, w, err, "failed to list orders")
		return
	}

	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

// KitchenQueue returns all active orders, oldest first.
// @Summary      Kitchen queue
// @Description  Active orders across all customers in preparation order
// @Tags         orders
// @Success      200  {array}   Order
// @Failure      401  {object}  utils.ErrorResponse "Missing or invalid token"
// @Router       /orders/kitchen [get]
// @Security     BearerAuth
func (h *HTTPHandler) KitchenQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.orders.KitchenQueue(ctx)
	if err != nil {
		h.writeOrderError(ctx, w, err, "failed to list kitchen queue")
		return
	}

	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

// GetOrder returns a single order by ID.
// @Summary      Get order by ID
// @Tags         orders
// @Param        order_id  path  string  true  "Order identifier"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Router       /orders/{order_id} [get]
// @Security     BearerAuth
func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	if err := h.validate.Var(orderID, "required,uuid"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		h.writeOrderError(ctx, w, err, "failed to get order")
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// CancelOrder cancels the caller's own pending order.
// @Summary      Cancel an order
// @Description  Only the owner may cancel, only while pending and inside the cancellation window
// @Tags         orders
// @Param        order_id  path  string  true  "Order identifier"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      409  {object}  utils.ErrorResponse "Order can no longer be cancelled"
// @Router       /orders/{order_id}/cancel [put]
// @Security     BearerAuth
func (h *HTTPHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	if err := h.validate.Var(orderID, "required,uuid"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.Cancel(ctx, orderID, middleware.OwnerID(ctx))
	if err != nil {
		h.writeOrderError(ctx, w, err, "failed to cancel order")
		return
	}

	statusTransitions.WithLabelValues(string(order.Status)).Inc()
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// UpdateStatus advances an order along the kitchen workflow.
// @Summary      Update order status
// @Description  Moves an order one step along pending, preparing, ready, collected
// @Tags         orders
// @Param        order_id  path  string               true  "Order identifier"
// @Param        request   body  UpdateStatusRequest  true  "Target status"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      409  {object}  utils.ErrorResponse "Transition not allowed"
// @Router       /orders/{order_id}/status [put]
// @Security     BearerAuth
func (h *HTTPHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	if err := h.validate.Var(orderID, "required,uuid"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	var req UpdateStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "VALIDATION", "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	next, err := entities.ParseStatus(req.Status)
	if err != nil {
		utils.WriteError(w, "VALIDATION", "unknown status", http.StatusBadRequest)
		return
	}

	order, err := h.orders.UpdateStatus(ctx, orderID, next)
	if err != nil {
		h.writeOrderError(ctx, w, err, "failed to update status")
		return
	}

	statusTransitions.WithLabelValues(string(order.Status)).Inc()
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// CreatePayment opens a payment intent with the processor.
// @Summary      Create a payment intent
// @Description  Recomputes the cart total and asks the processor for an intent covering it
// @Tags         payment
// @Param        request  body  CreatePaymentRequest  true  "Cart snapshot and expected amount"
// @Success      200  {object}  PaymentIntent
// @Failure      400  {object}  utils.ErrorResponse "Amount does not match the cart"
// @Failure      502  {object}  utils.ErrorResponse "Payment processor unavailable"
// @Router       /payment/create-order [post]
// @Security     BearerAuth
func (h *HTTPHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePaymentRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "VALIDATION", "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	totals, err := h.orders.QuoteTotal(LinesJSONToEntity(req.Lines))
	if err != nil {
		h.writeOrderError(ctx, w, err, "failed to quote total")
		return
	}
	if req.Amount != totals.Total {
		ordersRejected.WithLabelValues("VALIDATION").Inc()
		utils.WriteError(w, "VALIDATION", "amount does not match the cart total", http.StatusBadRequest)
		return
	}

	intent, err := h.payments.CreateIntent(ctx, totals.Total)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create payment intent", slog.Any("error", err))
		utils.WriteError(w, "PAYMENT_UPSTREAM", "payment processor unavailable", http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, PaymentIntent{
		IntentID: intent.ID,
		Amount:   intent.Amount,
		Currency: intent.Currency,
	}, http.StatusOK)
}

// VerifyPayment checks the processor callback and places the paid order.
// @Summary      Verify a payment and place the order
// @Description  Validates the callback signature, then creates the order already marked paid
// @Tags         payment
// @Param        request  body  VerifyPaymentRequest  true  "Processor callback and order payload"
// @Success      201  {object}  VerifyPaymentResponse
// @Failure      400  {object}  utils.ErrorResponse "Signature verification failed"
// @Failure      503  {object}  utils.ErrorResponse "No pickup tokens available"
// @Router       /payment/verify [post]
// @Security     BearerAuth
func (h *HTTPHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req VerifyPaymentRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "VALIDATION", "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	proof := &entities.PaymentProof{
		IntentID:   req.IntentID,
		ExternalID: req.PaymentID,
		Signature:  req.Signature,
	}

	order, err := h.orders.PlaceOrder(ctx, middleware.OwnerID(ctx), LinesJSONToEntity(req.Order.Lines), req.Order.PickupSlot, req.Order.TotalAmount, proof)
	if err != nil {
		h.writeOrderError(ctx, w, err, "failed to place paid order")
		return
	}

	ordersPlaced.WithLabelValues(string(order.PaymentStatus)).Inc()
	utils.WriteJSON(w, VerifyPaymentResponse{
		Success: true,
		Order:   OrderEntityToJSON(order),
	}, http.StatusCreated)
}

// GetCart returns the caller's priced cart.
// @Summary      Get the cart
// @Tags         cart
// @Success      200  {object}  Cart
// @Failure      401  {object}  utils.ErrorResponse "Missing or invalid token"
// @Router       /cart [get]
// @Security     BearerAuth
func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.carts.Get(ctx, middleware.OwnerID(ctx))
	if err != nil {
		h.writeOrderError(ctx, w, err, "failed to get cart")
		return
	}

	utils.WriteJSON(w, CartViewToJSON(view), http.StatusOK)
}

// AddCartItem adds one unit of a catalog item to the cart.
// @Summary      Add an item to the cart
// @Tags         cart
// @Param        request  body  AddCartItemRequest  true  "Catalog item"
// @Success      200  {object}  Cart
// @Failure      400  {object}  utils.ErrorResponse "Item unavailable"
// @Failure      404  {object}  utils.ErrorResponse "Item not found"
// @Router       /cart/items [post]
// @Security     BearerAuth
func (h *HTTPHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddCartItemRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "VALIDATION", "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	view, err := h.carts.Add(ctx, middleware.OwnerID(ctx), req.ItemID)
	if err != nil {
		h.writeOrderError(ctx, w, err, "failed to add cart item")
		return
	}

	utils.WriteJSON(w, CartViewToJSON(view), http.StatusOK)
}

// ChangeCartQuantity adjusts a cart line by a signed delta.
// @Summary      Change item quantity
// @Description  Positive delta increments, negative decrements, reaching zero removes the line
// @Tags         cart
// @Param        item_id  path  string                 true  "Catalog item identifier"
// @Param        request  body  ChangeQuantityRequest  true  "Signed quantity delta"
// @Success      200  {object}  Cart
// @Failure      404  {object}  utils.ErrorResponse "Item not in cart"
// @Router       /cart/items/{item_id} [patch]
// @Security     BearerAuth
func (h *HTTPHandler) ChangeCartQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	itemID := chi.URLParam(r, "item_id")

	if err := h.validate.Var(itemID, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	var req ChangeQuantityRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "VALIDATION", "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	view, err := h.carts.SetQuantity(ctx, middleware.OwnerID(ctx), itemID, req.Delta)
	if err != nil {
		h.writeOrderError(ctx, w, err, "failed to change cart quantity")
		return
	}

	utils.WriteJSON(w, CartViewToJSON(view), http.StatusOK)
}

// RemoveCartItem drops a line from the cart.
// @Summary      Remove an item from the cart
// @Tags         cart
// @Param        item_id  path  string  true  "Catalog item identifier"
// @Success      200  {object}  Cart
// @Router       /cart/items/{item_id} [delete]
// @Security     BearerAuth
func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	itemID := chi.URLParam(r, "item_id")

	if err := h.validate.Var(itemID, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	view, err := h.carts.Remove(ctx, middleware.OwnerID(ctx), itemID)
	if err != nil {
		h.writeOrderError(ctx, w, err, "failed to remove cart item")
		return
	}

	utils.WriteJSON(w, CartViewToJSON(view), http.StatusOK)
}

// ClearCart empties the caller's cart.
// @Summary      Clear the cart
// @Tags         cart
// @Success      204  "Cart cleared"
// @Router       /cart [delete]
// @Security     BearerAuth
func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.carts.Clear(ctx, middleware.OwnerID(ctx)); err != nil {
		h.writeOrderError(ctx, w, err, "failed to clear cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) writeOrderError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, entities.ErrValidation):
		ordersRejected.WithLabelValues("VALIDATION").Inc()
		utils.WriteError(w, "VALIDATION", err.Error(), http.StatusBadRequest)
	case errors.Is(err, entities.ErrUnauthenticated):
		utils.WriteError(w, "UNAUTHENTICATED", "authentication required", http.StatusUnauthorized)
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "NOT_FOUND", "order not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrItemNotFound):
		utils.WriteError(w, "NOT_FOUND", "item not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrIllegalTransition):
		utils.WriteError(w, "ILLEGAL_TRANSITION", err.Error(), http.StatusConflict)
	case errors.Is(err, entities.ErrPaymentVerification):
		paymentVerificationFailures.Inc()
		utils.WriteError(w, "PAYMENT_VERIFICATION", "payment verification failed", http.StatusBadRequest)
	case errors.Is(err, entities.ErrTokenExhausted):
		tokenExhaustions.Inc()
		utils.WriteError(w, "TOKEN_EXHAUSTED", "no pickup tokens available, try again later", http.StatusServiceUnavailable)
	default:
		h.logger.ErrorContext(ctx, msg, slog.Any("error", err))
		utils.WriteError(w, "INTERNAL", "internal server error", http.StatusInternalServerError)
	}
}
