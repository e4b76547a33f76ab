package order

import (
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jesicacake/storefront-order-service/internal/cart"
	"github.com/jesicacake/storefront-order-service/pkg/blobstore"
	"github.com/sirupsen/logrus"
)

const sessionCookie = "session_id"

type PlaceOrderRequest struct {
	CustomerName    string  `json:"customer_name" binding:"required"`
	CustomerPhone   string  `json:"customer_phone" binding:"required"`
	CustomerAddress string  `json:"customer_address" binding:"required"`
	DeliveryDate    string  `json:"delivery_date" binding:"required"`
	Notes           string  `json:"notes"`
	UserID          *string `json:"user_id"`
}

type UpdateStatusRequest struct {
	ID     uint   `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

type orderHandler struct {
	log          *logrus.Entry
	orderService OrderService
	cartService  cart.CartService
	proofStore   blobstore.Store
	staleAfter   time.Duration
}

func NewHandler(orderService OrderService, cartService cart.CartService,
	proofStore blobstore.Store, staleAfter time.Duration, log *logrus.Entry) *orderHandler {
	return &orderHandler{
		log:          log,
		orderService: orderService,
		cartService:  cartService,
		proofStore:   proofStore,
		staleAfter:   staleAfter,
	}
}

func (h *orderHandler) Register(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/orders", h.getOrders)
		api.POST("/orders", h.placeOrder)
		api.PATCH("/orders", h.updateStatus)
		api.POST("/orders/:id/payment-proof", h.attachPaymentProof)
		api.GET("/cron", h.runMaintenance)
	}
}

func orderResponse(o *Order) gin.H {
	return gin.H{
		"order": o,
		"lines": LineViews(o),
	}
}

// placeOrder checks out the session's cart. Cart clearing is a separate
// follow-up step after the order lands; a clear failure leaves a stale
// cart, not a broken order.
func (h *orderHandler) placeOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required order fields"})
		return
	}

	deliveryDate, err := time.ParseInLocation("2006-01-02", req.DeliveryDate, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery date"})
		return
	}

	sessionID, err := c.Cookie(sessionCookie)
	if err != nil || sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No cart session"})
		return
	}

	userCart, err := h.cartService.GetOrCreateCart(sessionID)
	if err != nil {
		h.log.Errorf("failed to fetch cart for checkout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed, try again"})
		return
	}
	items, err := h.cartService.GetCartItems(userCart.ID)
	if err != nil {
		h.log.Errorf("failed to fetch cart items for checkout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed, try again"})
		return
	}

	placed, err := h.orderService.PlaceOrder(PlaceOrderInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		DeliveryDate:    deliveryDate,
		Notes:           req.Notes,
		UserID:          req.UserID,
	}, items)
	if err != nil {
		if IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if IsPermissionDenied(err) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "The system cannot create orders due to security settings. Please contact the administrator.",
			})
			return
		}
		h.log.Errorf("failed to place order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed, try again"})
		return
	}

	if err := h.cartService.Clear(userCart.ID); err != nil {
		h.log.Errorf("order %d placed but cart %d not cleared: %v", placed.ID, userCart.ID, err)
	}

	c.JSON(http.StatusCreated, orderResponse(placed))
}

// getOrders returns one order when ?id= is given, the full list newest
// first otherwise.
func (h *orderHandler) getOrders(c *gin.Context) {
	raw := c.Query("id")
	if raw == "" {
		orders, err := h.orderService.ListOrders()
		if err != nil {
			h.log.Errorf("failed to list orders: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
		return
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	found, err := h.orderService.GetOrder(uint(id))
	if err != nil {
		if IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		h.log.Errorf("failed to fetch order %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, orderResponse(found))
}

func (h *orderHandler) updateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID and status are required"})
		return
	}

	next, err := ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.orderService.UpdateStatus(req.ID, next)
	if err != nil {
		if IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf("failed to update order %d status: %v", req.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	c.JSON(http.StatusOK, orderResponse(updated))
}

// attachPaymentProof stores the uploaded image and records its URL on the
// order. Repeated uploads overwrite the URL.
func (h *orderHandler) attachPaymentProof(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment proof file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.log.Errorf("failed to open upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store payment proof"})
		return
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	fileURL, err := h.proofStore.Save(name, src)
	if err != nil {
		h.log.Errorf("failed to store payment proof: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store payment proof"})
		return
	}

	updated, err := h.orderService.AttachPaymentProof(uint(id), fileURL)
	if err != nil {
		if IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		h.log.Errorf("failed to attach payment proof to order %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach payment proof"})
		return
	}

	c.JSON(http.StatusOK, orderResponse(updated))
}

// runMaintenance is the daily sweep, kept callable by external schedulers.
func (h *orderHandler) runMaintenance(c *gin.Context) {
	cancelled, err := h.orderService.CancelStalePending(h.staleAfter)
	if err != nil {
		h.log.Errorf("maintenance sweep failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error updating orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Daily maintenance executed successfully",
		"cancelled": cancelled,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
