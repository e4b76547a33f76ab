package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type catalogHandler struct {
	log            *logrus.Entry
	catalogService CatalogService
}

func NewHandler(catalogService CatalogService, log *logrus.Entry) *catalogHandler {
	return &catalogHandler{
		log:            log,
		catalogService: catalogService,
	}
}

func (h *catalogHandler) Register(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.GET("/toppings", h.listToppings)
	}
}

func (h *catalogHandler) listProducts(c *gin.Context) {
	filter := ListFilter{
		Category:      c.Query("category"),
		AvailableOnly: c.Query("available") == "true",
	}

	products, err := h.catalogService.ListProducts(filter)
	if err != nil {
		h.log.Errorf("failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *catalogHandler) getProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := h.catalogService.GetProduct(uint(id))
	if err != nil {
		if IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.log.Errorf("failed to get product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *catalogHandler) listToppings(c *gin.Context) {
	toppings, err := h.catalogService.ListToppings(c.Query("available") == "true")
	if err != nil {
		h.log.Errorf("failed to list toppings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch toppings"})
		return
	}

	c.JSON(http.StatusOK, toppings)
}
