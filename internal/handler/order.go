package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/akverma/order-management-api/internal/model"
	"github.com/akverma/order-management-api/internal/queue"
	"github.com/akverma/order-management-api/internal/repository"
)

// OrderStore is the order surface the handlers depend on.
// *repository.OrderRepo satisfies it.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	FindAll(ctx context.Context) ([]model.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (model.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OrderHandler bundles dependencies for the order endpoints. Publish sends
// the order-placed event to the broker; failures are logged and ignored so
// a broker outage never blocks order creation.
type OrderHandler struct {
	Orders   OrderStore
	Products ProductStore
	Publish  func(ctx context.Context, ev queue.OrderPlacedEvent) error
}

func NewOrderHandler(orders OrderStore, products ProductStore,
	publish func(context.Context, queue.OrderPlacedEvent) error) *OrderHandler {
	return &OrderHandler{Orders: orders, Products: products, Publish: publish}
}

type createOrderReq struct {
	User               string   `json:"user"`
	Products           []string `json:"products"`
	Quantities         []int    `json:"quantities"`
	TotalAmount        float64  `json:"totalAmount"`
	BillingInformation string   `json:"billingInformation"`
}

type updateStatusReq struct {
	OrderID   string `json:"orderId"`
	NewStatus string `json:"newStatus"`
}

// orderProduct is a populated product line in the all-orders listing.
type orderProduct struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// populatedOrder is an order with product names resolved and the raw
// quantities column folded into the product lines.
type populatedOrder struct {
	ID                 primitive.ObjectID `json:"id"`
	User               primitive.ObjectID `json:"user"`
	UserName           string             `json:"userName,omitempty"`
	Products           []orderProduct     `json:"products"`
	TotalAmount        float64            `json:"totalAmount"`
	OrderDate          time.Time          `json:"orderDate"`
	BillingInformation string             `json:"billingInformation"`
	Status             string             `json:"status"`
}

// Create handles POST /api/orders. Placing an order needs no account; the
// user field references the buyer when one is known.
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to create the order"})
	}
	if len(req.Products) == 0 || len(req.Products) != len(req.Quantities) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to create the order"})
	}
	if !model.ValidBilling(req.BillingInformation) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to create the order"})
	}
	userID, err := primitive.ObjectIDFromHex(req.User)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to create the order"})
	}
	productIDs := make([]primitive.ObjectID, 0, len(req.Products))
	for _, p := range req.Products {
		pid, err := primitive.ObjectIDFromHex(p)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to create the order"})
		}
		productIDs = append(productIDs, pid)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	order := model.Order{
		User:               userID,
		Products:           productIDs,
		Quantities:         req.Quantities,
		TotalAmount:        req.TotalAmount,
		BillingInformation: req.BillingInformation,
	}
	if err := h.Orders.Create(ctx, &order); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to create the order"})
	}

	if h.Publish != nil {
		ev := queue.OrderPlacedEvent{
			OrderID:            order.ID.Hex(),
			UserID:             order.User.Hex(),
			ProductIDs:         req.Products,
			Quantities:         order.Quantities,
			TotalAmount:        order.TotalAmount,
			BillingInformation: order.BillingInformation,
			Status:             order.Status,
			PlacedAt:           order.OrderDate.Format(time.RFC3339),
		}
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("order: publish order.placed failed: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Order has been placed."})
}

// List handles GET /api/orders and returns all orders with product names
// resolved against the catalog. A product that no longer exists shows up
// as "Unknown Product" rather than failing the listing.
func (h *OrderHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	orders, err := h.Orders.FindAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error in fetching all the orders data"})
	}

	out := make([]populatedOrder, 0, len(orders))
	for _, o := range orders {
		po := populatedOrder{
			ID:                 o.ID,
			User:               o.User,
			Products:           make([]orderProduct, 0, len(o.Products)),
			TotalAmount:        o.TotalAmount,
			OrderDate:          o.OrderDate,
			BillingInformation: o.BillingInformation,
			Status:             o.Status,
		}
		for i, pid := range o.Products {
			qty := 0
			if i < len(o.Quantities) {
				qty = o.Quantities[i]
			}
			po.Products = append(po.Products, orderProduct{
				ID:       pid.Hex(),
				Name:     h.productName(ctx, pid),
				Quantity: qty,
			})
		}
		out = append(out, po)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	order, err := h.Orders.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch the order"})
	}
	return c.JSON(http.StatusOK, order)
}

// ListByUser handles GET /api/orders/user/:id.
func (h *OrderHandler) ListByUser(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid user ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	orders, err := h.Orders.FindByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch user orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateStatus handles PUT /api/orders with body {orderId, newStatus}.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	id, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid orderId"})
	}
	if !model.ValidStatus(req.NewStatus) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Orders.UpdateStatus(ctx, id, req.NewStatus); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update the order status"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Status has been updated"})
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Orders.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete the order"})
	}
	return c.NoContent(http.StatusNoContent)
}

// productName resolves a product's display name, falling back to a
// placeholder when the product was deleted after the order was placed.
func (h *OrderHandler) productName(ctx context.Context, id primitive.ObjectID) string {
	p, err := h.Products.FindByID(ctx, id)
	if err != nil {
		return "Unknown Product"
	}
	return p.Name
}
