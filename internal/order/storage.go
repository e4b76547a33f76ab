package order

import (
	"fmt"
	"time"

	"github.com/jesicacake/storefront-order-service/pkg/postgres"
	"gorm.io/gorm"
)

type Storage interface {
	CreateOrder(order *Order, items []OrderItem, details []OrderDetail) (uint, error)
	GetOrderByID(orderID uint) (*Order, error)
	ListOrders() ([]Order, error)
	UpdateOrder(role string, orderID uint, updates map[string]interface{}) (*Order, error)
	FindStalePending(olderThan time.Time) ([]Order, error)
}

type OrderStorage struct {
	rcp *postgres.RoleConnectionPool
}

func NewStorage(rcp *postgres.RoleConnectionPool) Storage {
	return &OrderStorage{
		rcp: rcp,
	}
}

// CreateOrder writes the order and both line representations in one
// transaction. Either everything lands or nothing does.
func (s *OrderStorage) CreateOrder(order *Order, items []OrderItem, details []OrderDetail) (uint, error) {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return 0, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order - %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items - %w", err)
		}

		for i := range details {
			details[i].OrderID = order.ID
		}
		if err := tx.Create(&details).Error; err != nil {
			return fmt.Errorf("failed to create order details - %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	order.Items = items
	order.Details = details
	return order.ID, nil
}

func (s *OrderStorage) GetOrderByID(orderID uint) (*Order, error) {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return nil, err
	}

	var order Order
	err = db.Preload("Items.Product").Preload("Items.Topping").Preload("Details").
		First(&order, orderID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *OrderStorage) ListOrders() ([]Order, error) {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return []Order{}, err
	}

	var orders []Order
	err = db.Preload("Items.Product").Preload("Items.Topping").Preload("Details").
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return []Order{}, err
	}
	return orders, nil
}

// UpdateOrder applies field updates through the connection of the given
// credential role and stamps updated_at. Zero matched rows is an error,
// never a silent success.
func (s *OrderStorage) UpdateOrder(role string, orderID uint, updates map[string]interface{}) (*Order, error) {
	db, err := s.rcp.GetConnectionPool(role)
	if err != nil {
		return nil, err
	}

	updates["updated_at"] = time.Now()

	result := db.Model(&Order{}).Where("id = ?", orderID).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errOrderNotFound
	}

	return s.GetOrderByID(orderID)
}

func (s *OrderStorage) FindStalePending(olderThan time.Time) ([]Order, error) {
	db, err := s.rcp.GetConnectionPool(postgres.ServiceRole)
	if err != nil {
		return []Order{}, err
	}

	var orders []Order
	err = db.Where("status = ? AND created_at < ?", StatusPending, olderThan).Find(&orders).Error
	if err != nil {
		return []Order{}, err
	}
	return orders, nil
}
