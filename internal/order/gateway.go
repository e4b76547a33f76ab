package order

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminUpdateRequest struct {
	OrderID uint                   `json:"orderId"`
	Updates map[string]interface{} `json:"updates"`
}

// adminGateway is the privileged write path for staff order edits. The
// interactive client's role may not hold write permission on orders; the
// gateway applies updates through the service-role connection instead.
type adminGateway struct {
	log          *logrus.Entry
	orderService OrderService
}

func NewAdminGateway(orderService OrderService, log *logrus.Entry) *adminGateway {
	return &adminGateway{
		log:          log,
		orderService: orderService,
	}
}

func (g *adminGateway) Register(router *gin.Engine, adminAuth gin.HandlerFunc) {
	admin := router.Group("/admin", adminAuth)
	{
		admin.PUT("/orders/update", g.updateOrder)
	}
}

func (g *adminGateway) updateOrder(c *gin.Context) {
	var req AdminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.OrderID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID is required"})
		return
	}

	updated, err := g.orderService.AdminUpdate(req.OrderID, req.Updates)
	if err != nil {
		if IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Store failures, a vanished order included, surface with the
		// original detail for admin debugging.
		g.log.Errorf("admin update of order %d failed: %v", req.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update order",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
		"message": "Order updated successfully",
	})
}
