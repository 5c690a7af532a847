package handlers

import (
	"net/http"

	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct {
	orders *services.OrderService
}

func NewOrdersHandler(orders *services.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// CreateOrder godoc
// @Summary     Submit a purchase inquiry
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       request body models.CreateOrderRequest true "Inquiry"
// @Success     201 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /api/v1/orders [post]
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderResponse(order))
}

// ListOrders godoc
// @Summary     List purchase inquiries
// @Tags        orders
// @Produce     json
// @Security    BearerAuth
// @Param       status query string false "pending, contacted, completed or cancelled"
// @Success     200 {object} models.OrderListResponse
// @Router      /api/v1/admin/orders [get]
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.OrderListResponse{Orders: make([]models.OrderResponse, 0, len(orders))}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, orderResponse(o))
	}
	c.JSON(http.StatusOK, resp)
}

// GetOrder godoc
// @Summary     Get a purchase inquiry
// @Tags        orders
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Order id"
// @Success     200 {object} models.OrderResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders/{id} [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}

// UpdateStatus godoc
// @Summary     Change an inquiry's status
// @Description Completing an inquiry marks the painting as sold.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                          true "Order id"
// @Param       request body models.UpdateOrderStatusRequest true "New status"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders/{id}/status [patch]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}

// DeleteOrder godoc
// @Summary     Delete a purchase inquiry
// @Tags        orders
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Order id"
// @Success     200 {object} models.MessageResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders/{id} [delete]
func (h *OrdersHandler) DeleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "order deleted"})
}
