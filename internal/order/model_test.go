package order

import (
	"testing"

	"github.com/jesicacake/storefront-order-service/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLineViewsPrefersCatalogRows(t *testing.T) {
	productID := uint(1)
	o := &Order{
		Items: []OrderItem{
			{
				ProductID:    &productID,
				Quantity:     2,
				UnitPrice:    100000,
				ToppingPrice: 15000,
				Product:      &catalog.Product{Model: gorm.Model{ID: 1}, Name: "Red Velvet"},
				Topping:      &catalog.Topping{Model: gorm.Model{ID: 7}, Name: "Choco Crunch"},
			},
		},
		Details: []OrderDetail{
			{ProductName: "Red Velvet", ToppingName: "Choco Crunch", Quantity: 2, UnitPrice: 100000, ToppingPrice: 15000},
		},
	}

	views := LineViews(o)
	require.Len(t, views, 1)
	assert.Equal(t, LineSourceCatalog, views[0].Source)
	assert.Equal(t, "Red Velvet", views[0].ProductName)
	assert.Equal(t, "Choco Crunch", views[0].ToppingName)
	assert.Equal(t, int64(230000), views[0].LineTotal)
}

func TestLineViewsFallsBackToSnapshotWhenProductGone(t *testing.T) {
	o := &Order{
		Items: []OrderItem{
			// Catalog row deleted: reference nulled, association unresolved.
			{ProductID: nil, Quantity: 1, UnitPrice: 50000},
		},
		Details: []OrderDetail{
			{ProductName: "Brownie", Quantity: 1, UnitPrice: 50000},
		},
	}

	views := LineViews(o)
	require.Len(t, views, 1)
	assert.Equal(t, LineSourceSnapshot, views[0].Source)
	assert.Equal(t, "Brownie", views[0].ProductName)
	assert.Equal(t, int64(50000), views[0].LineTotal)
}

func TestLineViewsNeverMixesSourcesWithinALine(t *testing.T) {
	productID := uint(1)
	o := &Order{
		Items: []OrderItem{
			// Product resolves but the topping row is gone: still a catalog
			// line, the topping name is simply absent.
			{
				ProductID: &productID,
				Quantity:  1,
				UnitPrice: 100000,
				Product:   &catalog.Product{Model: gorm.Model{ID: 1}, Name: "Red Velvet"},
			},
		},
		Details: []OrderDetail{
			{ProductName: "Red Velvet", ToppingName: "Choco Crunch", Quantity: 1, UnitPrice: 100000},
		},
	}

	views := LineViews(o)
	require.Len(t, views, 1)
	assert.Equal(t, LineSourceCatalog, views[0].Source)
	assert.Empty(t, views[0].ToppingName)
}
