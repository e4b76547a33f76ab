package cart

import (
	"fmt"

	"github.com/jesicacake/storefront-order-service/pkg/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Storage interface {
	GetOrCreateCart(sessionID string) (*Cart, error)
	GetCartItems(cartID uint) ([]CartItem, error)
	FindItem(cartID uint, productID uint, toppingID *uint) (*CartItem, error)
	CreateItem(item *CartItem) error
	UpdateItemQuantity(itemID uint, quantity int) (*CartItem, error)
	RemoveItem(itemID uint) error
	ClearCart(cartID uint) error
}

type CartStorage struct {
	rcp *postgres.RoleConnectionPool
}

func NewStorage(rcp *postgres.RoleConnectionPool) Storage {
	return &CartStorage{
		rcp: rcp,
	}
}

// GetOrCreateCart resolves the unique cart for a session. Two near
// simultaneous calls race on the session_id unique index: the insert is an
// upsert that ignores the conflict and the reread returns whichever row won.
func (s *CartStorage) GetOrCreateCart(sessionID string) (*Cart, error) {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return nil, err
	}

	newCart := Cart{SessionID: sessionID}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(&newCart)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create cart - %s", result.Error)
	}

	var cart Cart
	if err := db.Where("session_id = ?", sessionID).First(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cart - %s", err)
	}
	return &cart, nil
}

func (s *CartStorage) GetCartItems(cartID uint) ([]CartItem, error) {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return []CartItem{}, err
	}

	var items []CartItem
	err = db.Preload("Product").Preload("Topping").
		Where("cart_id = ?", cartID).Find(&items).Error
	if err != nil {
		return []CartItem{}, err
	}
	return items, nil
}

func (s *CartStorage) FindItem(cartID uint, productID uint, toppingID *uint) (*CartItem, error) {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return nil, err
	}

	query := db.Where("cart_id = ? AND product_id = ?", cartID, productID)
	if toppingID != nil {
		query = query.Where("topping_id = ?", *toppingID)
	} else {
		query = query.Where("topping_id IS NULL")
	}

	var item CartItem
	if err := query.First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errCartItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *CartStorage) CreateItem(item *CartItem) error {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return err
	}

	if err := db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to add cart item - %s", err)
	}
	return nil
}

func (s *CartStorage) UpdateItemQuantity(itemID uint, quantity int) (*CartItem, error) {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return nil, err
	}

	result := db.Model(&CartItem{}).Where("id = ?", itemID).Update("quantity", quantity)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errCartItemNotFound
	}

	var item CartItem
	if err := db.First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CartStorage) RemoveItem(itemID uint) error {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return err
	}

	result := db.Delete(&CartItem{}, itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errCartItemNotFound
	}
	return nil
}

func (s *CartStorage) ClearCart(cartID uint) error {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return err
	}

	return db.Where("cart_id = ?", cartID).Delete(&CartItem{}).Error
}
