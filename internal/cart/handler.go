package cart

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const sessionCookie = "session_id"

type AddItemRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
	ToppingID *uint `json:"topping_id"`
}

type UpdateItemRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

type cartHandler struct {
	log         *logrus.Entry
	cartService CartService
}

func NewHandler(cartService CartService, log *logrus.Entry) *cartHandler {
	return &cartHandler{
		log:         log,
		cartService: cartService,
	}
}

func (h *cartHandler) Register(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/cart", h.getCart)
		api.POST("/cart", h.addItem)
		api.PUT("/cart", h.updateItem)
		api.DELETE("/cart", h.removeItem)
	}
}

// sessionID reads the session cookie, minting and setting one when absent.
func (h *cartHandler) sessionID(c *gin.Context) string {
	sessionID, err := c.Cookie(sessionCookie)
	if err != nil || sessionID == "" {
		sessionID = uuid.NewString()
		c.SetCookie(sessionCookie, sessionID, 60*60*24*30, "/", "", false, true)
	}
	return sessionID
}

func (h *cartHandler) getCart(c *gin.Context) {
	sessionID := h.sessionID(c)

	cart, err := h.cartService.GetOrCreateCart(sessionID)
	if err != nil {
		h.log.Errorf("failed to fetch cart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	items, err := h.cartService.GetCartItems(cart.ID)
	if err != nil {
		h.log.Errorf("failed to fetch cart items: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_id":    cart.ID,
		"session_id": sessionID,
		"items":      items,
		"total":      ItemsTotal(items),
	})
}

func (h *cartHandler) addItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID and quantity are required"})
		return
	}

	item, err := h.cartService.AddItem(h.sessionID(c), req.ProductID, req.Quantity, req.ToppingID)
	if err != nil {
		if IsInvalidQuantity(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf("failed to add cart item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *cartHandler) updateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item ID and quantity are required"})
		return
	}

	item, err := h.cartService.UpdateItemQuantity(req.ItemID, req.Quantity)
	if err != nil {
		if IsInvalidQuantity(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		h.log.Errorf("failed to update cart item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// DELETE /api/cart?itemId=N removes one line, ?clearAll=true empties the
// session's cart.
func (h *cartHandler) removeItem(c *gin.Context) {
	if c.Query("clearAll") == "true" {
		cart, err := h.cartService.GetOrCreateCart(h.sessionID(c))
		if err != nil {
			h.log.Errorf("failed to fetch cart: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		if err := h.cartService.Clear(cart.ID); err != nil {
			h.log.Errorf("failed to clear cart %d: %v", cart.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	itemID, err := strconv.ParseUint(c.Query("itemId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item ID or clearAll parameter is required"})
		return
	}

	if err := h.cartService.RemoveItem(uint(itemID)); err != nil {
		if IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		h.log.Errorf("failed to remove cart item %d: %v", itemID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
