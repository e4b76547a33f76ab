package cart

import (
	"github.com/sirupsen/logrus"
)

type CartService interface {
	GetOrCreateCart(sessionID string) (*Cart, error)
	GetCartItems(cartID uint) ([]CartItem, error)
	AddItem(sessionID string, productID uint, quantity int, toppingID *uint) (*CartItem, error)
	UpdateItemQuantity(itemID uint, quantity int) (*CartItem, error)
	RemoveItem(itemID uint) error
	Clear(cartID uint) error
}

type cartService struct {
	storage Storage
	logger  *logrus.Entry
}

func NewService(storage Storage, log *logrus.Entry) CartService {
	return &cartService{
		storage: storage,
		logger:  log,
	}
}

func (s *cartService) GetOrCreateCart(sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, errEmptySessionID
	}
	return s.storage.GetOrCreateCart(sessionID)
}

func (s *cartService) GetCartItems(cartID uint) ([]CartItem, error) {
	return s.storage.GetCartItems(cartID)
}

// AddItem merges into an existing (product, topping) line instead of
// creating a duplicate. Stock limits are a presentation concern and are not
// enforced here.
func (s *cartService) AddItem(sessionID string, productID uint, quantity int, toppingID *uint) (*CartItem, error) {
	if quantity < 1 {
		return nil, errInvalidQuantity
	}

	cart, err := s.GetOrCreateCart(sessionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.storage.FindItem(cart.ID, productID, toppingID)
	if err == nil {
		return s.storage.UpdateItemQuantity(existing.ID, existing.Quantity+quantity)
	}
	if !IsNotFound(err) {
		return nil, err
	}

	item := CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		ToppingID: toppingID,
		Quantity:  quantity,
	}
	if err := s.storage.CreateItem(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemQuantity never deletes. Removal is an explicit operation.
func (s *cartService) UpdateItemQuantity(itemID uint, quantity int) (*CartItem, error) {
	if quantity < 1 {
		return nil, errInvalidQuantity
	}
	return s.storage.UpdateItemQuantity(itemID, quantity)
}

func (s *cartService) RemoveItem(itemID uint) error {
	return s.storage.RemoveItem(itemID)
}

func (s *cartService) Clear(cartID uint) error {
	return s.storage.ClearCart(cartID)
}
