package order

import (
	"time"

	"github.com/jesicacake/storefront-order-service/internal/catalog"
	"gorm.io/gorm"
)

// Order is created once from a cart snapshot and never recomputed. The
// stored total is authoritative even if catalog prices move afterwards.
// Customer fields are denormalized, not a foreign key to a user.
type Order struct {
	gorm.Model
	CustomerName    string        `json:"customer_name"`
	CustomerPhone   string        `json:"customer_phone"`
	CustomerAddress string        `json:"customer_address"`
	DeliveryDate    time.Time     `json:"delivery_date"`
	TotalAmount     int64         `json:"total_amount"`
	Status          Status        `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(20);default:'unpaid'" json:"payment_status"`
	Notes           string        `json:"notes"`
	PaymentProofURL string        `json:"payment_proof_url"`
	UserID          *string       `json:"user_id"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Details         []OrderDetail `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"details"`
}

// OrderItem is the normalized line snapshot. Catalog references are
// nullable because products and toppings may be deleted after the order
// is placed.
type OrderItem struct {
	gorm.Model
	OrderID      uint             `gorm:"index" json:"order_id"`
	ProductID    *uint            `json:"product_id"`
	ToppingID    *uint            `json:"topping_id"`
	Quantity     int              `json:"quantity"`
	UnitPrice    int64            `json:"unit_price"`
	ToppingPrice int64            `json:"topping_price"`
	Product      *catalog.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"product,omitempty"`
	Topping      *catalog.Topping `gorm:"foreignKey:ToppingID;constraint:OnDelete:SET NULL" json:"topping,omitempty"`
}

// OrderDetail is the flattened line snapshot carrying plain-text names,
// kept alongside the normalized rows so invoices survive catalog deletes.
type OrderDetail struct {
	gorm.Model
	OrderID      uint   `gorm:"index" json:"order_id"`
	ProductName  string `json:"product_name"`
	ToppingName  string `json:"topping_name"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
	ToppingPrice int64  `json:"topping_price"`
}

// Line display sources.
const (
	LineSourceCatalog  = "catalog"
	LineSourceSnapshot = "snapshot"
)

// LineView is what invoice and admin pages render. Each line comes either
// from the resolved catalog rows or, when the product name no longer
// resolves, wholly from the flattened snapshot. The two are never mixed
// within one line.
type LineView struct {
	Source       string `json:"source"`
	ProductName  string `json:"product_name"`
	ToppingName  string `json:"topping_name"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
	ToppingPrice int64  `json:"topping_price"`
	LineTotal    int64  `json:"line_total"`
}

// LineViews builds the display lines for an order. Items and details are
// written positionally in the same transaction, so details[i] is the
// flattened copy of items[i].
func LineViews(o *Order) []LineView {
	views := make([]LineView, 0, len(o.Items))
	for i, item := range o.Items {
		view := LineView{
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			ToppingPrice: item.ToppingPrice,
			LineTotal:    (item.UnitPrice + item.ToppingPrice) * int64(item.Quantity),
		}

		if item.Product != nil {
			view.Source = LineSourceCatalog
			view.ProductName = item.Product.Name
			if item.Topping != nil {
				view.ToppingName = item.Topping.Name
			}
		} else if i < len(o.Details) {
			view.Source = LineSourceSnapshot
			view.ProductName = o.Details[i].ProductName
			view.ToppingName = o.Details[i].ToppingName
		} else {
			view.Source = LineSourceSnapshot
		}

		views = append(views, view)
	}
	return views
}
