package cart

import (
	"github.com/jesicacake/storefront-order-service/internal/catalog"
	"gorm.io/gorm"
)

// One cart per storefront session. The session identifier is an opaque
// string minted at the HTTP boundary and persisted client-side.
type Cart struct {
	gorm.Model
	SessionID string     `gorm:"uniqueIndex" json:"session_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

// CartItem holds one (product, optional topping) selection. At most one
// topping per line.
type CartItem struct {
	gorm.Model
	CartID    uint             `gorm:"index" json:"cart_id"`
	ProductID uint             `json:"product_id"`
	ToppingID *uint            `json:"topping_id"`
	Quantity  int              `json:"quantity"`
	Product   *catalog.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"product,omitempty"`
	Topping   *catalog.Topping `gorm:"foreignKey:ToppingID;constraint:OnDelete:SET NULL" json:"topping,omitempty"`
}

// ItemsTotal sums (unit price + topping price) * quantity over the lines.
// A line whose catalog row has been deleted contributes zero rather than
// failing the whole cart.
func ItemsTotal(items []CartItem) int64 {
	var total int64
	for _, item := range items {
		var productPrice, toppingPrice int64
		if item.Product != nil {
			productPrice = item.Product.Price
		}
		if item.Topping != nil {
			toppingPrice = item.Topping.Price
		}
		total += (productPrice + toppingPrice) * int64(item.Quantity)
	}
	return total
}
