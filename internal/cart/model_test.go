package cart

import (
	"testing"

	"github.com/jesicacake/storefront-order-service/internal/catalog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestItemsTotal(t *testing.T) {
	topping := &catalog.Topping{Model: gorm.Model{ID: 7}, Name: "Choco Crunch", Price: 15000}
	cake := &catalog.Product{Model: gorm.Model{ID: 1}, Name: "Red Velvet", Price: 100000}
	brownie := &catalog.Product{Model: gorm.Model{ID: 2}, Name: "Brownie", Price: 50000}

	tests := []struct {
		name  string
		items []CartItem
		want  int64
	}{
		{
			name:  "empty cart",
			items: nil,
			want:  0,
		},
		{
			name: "product with topping times quantity",
			items: []CartItem{
				{ProductID: 1, Quantity: 2, Product: cake, Topping: topping},
			},
			want: 230000,
		},
		{
			name: "multiple lines",
			items: []CartItem{
				{ProductID: 1, Quantity: 1, Product: cake},
				{ProductID: 2, Quantity: 2, Product: brownie},
			},
			want: 200000,
		},
		{
			name: "deleted product contributes zero",
			items: []CartItem{
				{ProductID: 99, Quantity: 3},
				{ProductID: 2, Quantity: 1, Product: brownie},
			},
			want: 50000,
		},
		{
			name: "deleted topping contributes zero",
			items: []CartItem{
				{ProductID: 1, Quantity: 2, Product: cake},
			},
			want: 200000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ItemsTotal(tt.items))
		})
	}
}
