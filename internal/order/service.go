package order

import (
	"fmt"
	"time"

	"github.com/jesicacake/storefront-order-service/internal/cart"
	"github.com/jesicacake/storefront-order-service/internal/realtime"
	"github.com/jesicacake/storefront-order-service/pkg/postgres"
	"github.com/sirupsen/logrus"
)

// DeliveryWindow bounds how far out a delivery date may be chosen,
// in whole days from today.
type DeliveryWindow struct {
	MinDays int
	MaxDays int
}

type PlaceOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	DeliveryDate    time.Time
	Notes           string
	UserID          *string
}

type OrderService interface {
	PlaceOrder(input PlaceOrderInput, items []cart.CartItem) (*Order, error)
	GetOrder(orderID uint) (*Order, error)
	ListOrders() ([]Order, error)
	UpdateStatus(orderID uint, next Status) (*Order, error)
	UpdatePaymentStatus(orderID uint, next PaymentStatus) (*Order, error)
	AttachPaymentProof(orderID uint, fileURL string) (*Order, error)
	AdminUpdate(orderID uint, updates map[string]interface{}) (*Order, error)
	CancelStalePending(olderThan time.Duration) (int, error)
}

type orderService struct {
	storage Storage
	hub     *realtime.Hub
	window  DeliveryWindow
	logger  *logrus.Entry
}

func NewService(storage Storage, hub *realtime.Hub, window DeliveryWindow, log *logrus.Entry) OrderService {
	return &orderService{
		storage: storage,
		hub:     hub,
		window:  window,
		logger:  log,
	}
}

func (s *orderService) publish(action realtime.Action, order *Order) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(realtime.Event{
		Action:  action,
		OrderID: order.ID,
		Row:     order,
	})
}

func (s *orderService) validateDeliveryDate(date time.Time) error {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	min := today.AddDate(0, 0, s.window.MinDays)
	max := today.AddDate(0, 0, s.window.MaxDays)

	if day.Before(min) || day.After(max) {
		return fmt.Errorf("%w: pick between %s and %s", errDeliveryDateOutOfRange,
			min.Format("2006-01-02"), max.Format("2006-01-02"))
	}
	return nil
}

// PlaceOrder validates, snapshots the cart lines and writes the order with
// both line representations in one transaction. All validation happens
// before the first store call. Clearing the originating cart is the
// caller's follow-up step.
func (s *orderService) PlaceOrder(input PlaceOrderInput, items []cart.CartItem) (*Order, error) {
	if input.CustomerName == "" || input.CustomerPhone == "" || input.CustomerAddress == "" {
		return nil, errMissingCustomerInfo
	}
	if err := s.validateDeliveryDate(input.DeliveryDate); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errEmptyCart
	}

	orderItems := make([]OrderItem, 0, len(items))
	orderDetails := make([]OrderDetail, 0, len(items))
	for _, item := range items {
		var unitPrice, toppingPrice int64
		var productName, toppingName string

		if item.Product != nil {
			unitPrice = item.Product.Price
			productName = item.Product.Name
			if item.Quantity > item.Product.Stock {
				// Stock is advisory, not decremented here. Admin follows up.
				s.logger.Warnf("order line exceeds stock snapshot: product %d, quantity %d, stock %d",
					item.ProductID, item.Quantity, item.Product.Stock)
			}
		}
		if item.Topping != nil {
			toppingPrice = item.Topping.Price
			toppingName = item.Topping.Name
		}

		productID := item.ProductID
		orderItems = append(orderItems, OrderItem{
			ProductID:    &productID,
			ToppingID:    item.ToppingID,
			Quantity:     item.Quantity,
			UnitPrice:    unitPrice,
			ToppingPrice: toppingPrice,
		})
		orderDetails = append(orderDetails, OrderDetail{
			ProductName:  productName,
			ToppingName:  toppingName,
			Quantity:     item.Quantity,
			UnitPrice:    unitPrice,
			ToppingPrice: toppingPrice,
		})
	}

	newOrder := Order{
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.CustomerAddress,
		DeliveryDate:    input.DeliveryDate,
		TotalAmount:     cart.ItemsTotal(items),
		Status:          StatusPending,
		PaymentStatus:   PaymentUnpaid,
		Notes:           input.Notes,
		UserID:          input.UserID,
	}

	if _, err := s.storage.CreateOrder(&newOrder, orderItems, orderDetails); err != nil {
		return nil, err
	}

	s.publish(realtime.ActionInsert, &newOrder)
	return &newOrder, nil
}

func (s *orderService) GetOrder(orderID uint) (*Order, error) {
	return s.storage.GetOrderByID(orderID)
}

func (s *orderService) ListOrders() ([]Order, error) {
	return s.storage.ListOrders()
}

func (s *orderService) UpdateStatus(orderID uint, next Status) (*Order, error) {
	current, err := s.storage.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", errIllegalTransition, current.Status, next)
	}

	updated, err := s.storage.UpdateOrder(postgres.ServiceRole, orderID, map[string]interface{}{
		"status": next,
	})
	if err != nil {
		return nil, err
	}

	s.publish(realtime.ActionUpdate, updated)
	return updated, nil
}

func (s *orderService) UpdatePaymentStatus(orderID uint, next PaymentStatus) (*Order, error) {
	current, err := s.storage.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if !current.PaymentStatus.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", errIllegalTransition, current.PaymentStatus, next)
	}

	updated, err := s.storage.UpdateOrder(postgres.ServiceRole, orderID, map[string]interface{}{
		"payment_status": next,
	})
	if err != nil {
		return nil, err
	}

	s.publish(realtime.ActionUpdate, updated)
	return updated, nil
}

// AttachPaymentProof overwrites any previous proof URL. Repeated uploads
// are last-write-wins on purpose.
func (s *orderService) AttachPaymentProof(orderID uint, fileURL string) (*Order, error) {
	updated, err := s.storage.UpdateOrder(postgres.AppRole, orderID, map[string]interface{}{
		"payment_proof_url": fileURL,
	})
	if err != nil {
		return nil, err
	}

	s.publish(realtime.ActionUpdate, updated)
	return updated, nil
}

// Fields the admin gateway may touch.
var adminUpdatableFields = map[string]bool{
	"status":            true,
	"payment_status":    true,
	"notes":             true,
	"payment_proof_url": true,
	"delivery_date":     true,
	"customer_name":     true,
	"customer_phone":    true,
	"customer_address":  true,
}

// AdminUpdate applies a partial update through the service-role
// connection, validating status transitions against the current row.
func (s *orderService) AdminUpdate(orderID uint, updates map[string]interface{}) (*Order, error) {
	filtered := make(map[string]interface{}, len(updates))
	for key, value := range updates {
		if adminUpdatableFields[key] {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return nil, errNoUpdatableFields
	}

	current, err := s.storage.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	if raw, ok := filtered["status"]; ok {
		next, err := ParseStatus(fmt.Sprint(raw))
		if err != nil {
			return nil, err
		}
		if !current.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s -> %s", errIllegalTransition, current.Status, next)
		}
		filtered["status"] = next
	}
	if raw, ok := filtered["payment_status"]; ok {
		next, err := ParsePaymentStatus(fmt.Sprint(raw))
		if err != nil {
			return nil, err
		}
		if !current.PaymentStatus.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s -> %s", errIllegalTransition, current.PaymentStatus, next)
		}
		filtered["payment_status"] = next
	}

	updated, err := s.storage.UpdateOrder(postgres.ServiceRole, orderID, filtered)
	if err != nil {
		return nil, err
	}

	s.publish(realtime.ActionUpdate, updated)
	return updated, nil
}

// CancelStalePending flips pending orders older than the given age to
// cancelled. Runs daily; also reachable via the cron endpoint.
func (s *orderService) CancelStalePending(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	stale, err := s.storage.FindStalePending(cutoff)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, o := range stale {
		updated, err := s.storage.UpdateOrder(postgres.ServiceRole, o.ID, map[string]interface{}{
			"status": StatusCancelled,
		})
		if err != nil {
			s.logger.Errorf("failed to cancel stale order %d: %v", o.ID, err)
			continue
		}
		s.publish(realtime.ActionUpdate, updated)
		cancelled++
	}
	return cancelled, nil
}
