package catalog

import (
	"fmt"

	"github.com/jesicacake/storefront-order-service/pkg/postgres"
	"gorm.io/gorm"
)

type ListFilter struct {
	Category      string
	AvailableOnly bool
}

type Storage interface {
	ListProducts(filter ListFilter) ([]Product, error)
	GetProduct(id uint) (*Product, error)
	GetTopping(id uint) (*Topping, error)
	ListToppings(availableOnly bool) ([]Topping, error)
}

type CatalogStorage struct {
	rcp *postgres.RoleConnectionPool
}

func NewStorage(rcp *postgres.RoleConnectionPool) Storage {
	return &CatalogStorage{
		rcp: rcp,
	}
}

func (s *CatalogStorage) ListProducts(filter ListFilter) ([]Product, error) {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return []Product{}, err
	}

	query := db.Order("name")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.AvailableOnly {
		query = query.Where("available = ?", true)
	}

	var products []Product
	if err := query.Find(&products).Error; err != nil {
		return []Product{}, fmt.Errorf("failed to list products - %s", err)
	}
	return products, nil
}

func (s *CatalogStorage) GetProduct(id uint) (*Product, error) {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := db.First(&product, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *CatalogStorage) GetTopping(id uint) (*Topping, error) {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return nil, err
	}

	var topping Topping
	if err := db.First(&topping, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errToppingNotFound
		}
		return nil, err
	}
	return &topping, nil
}

func (s *CatalogStorage) ListToppings(availableOnly bool) ([]Topping, error) {
	db, err := s.rcp.GetConnectionPool(postgres.AppRole)
	if err != nil {
		return []Topping{}, err
	}

	query := db.Order("name")
	if availableOnly {
		query = query.Where("available = ?", true)
	}

	var toppings []Topping
	if err := query.Find(&toppings).Error; err != nil {
		return []Topping{}, fmt.Errorf("failed to list toppings - %s", err)
	}
	return toppings, nil
}
