package catalog

import (
	"github.com/sirupsen/logrus"
)

type CatalogService interface {
	ListProducts(filter ListFilter) ([]Product, error)
	GetProduct(id uint) (*Product, error)
	GetTopping(id uint) (*Topping, error)
	ListToppings(availableOnly bool) ([]Topping, error)
}

type catalogService struct {
	storage Storage
	logger  *logrus.Entry
}

func NewService(storage Storage, log *logrus.Entry) CatalogService {
	return &catalogService{
		storage: storage,
		logger:  log,
	}
}

func (s *catalogService) ListProducts(filter ListFilter) ([]Product, error) {
	return s.storage.ListProducts(filter)
}

func (s *catalogService) GetProduct(id uint) (*Product, error) {
	return s.storage.GetProduct(id)
}

func (s *catalogService) GetTopping(id uint) (*Topping, error) {
	return s.storage.GetTopping(id)
}

func (s *catalogService) ListToppings(availableOnly bool) ([]Topping, error) {
	return s.storage.ListToppings(availableOnly)
}
