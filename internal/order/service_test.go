package order

import (
	"testing"
	"time"

	"github.com/jesicacake/storefront-order-service/internal/cart"
	"github.com/jesicacake/storefront-order-service/internal/catalog"
	"github.com/jesicacake/storefront-order-service/internal/realtime"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStorage struct {
	orders      map[uint]*Order
	nextID      uint
	createErr   error
	updateErr   error
	updateRoles []string
}

func newFakeOrderStorage() *fakeStorage {
	return &fakeStorage{orders: make(map[uint]*Order)}
}

func (f *fakeStorage) CreateOrder(order *Order, items []OrderItem, details []OrderDetail) (uint, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	order.ID = f.nextID
	for i := range items {
		items[i].OrderID = order.ID
	}
	for i := range details {
		details[i].OrderID = order.ID
	}
	order.Items = items
	order.Details = details
	stored := *order
	f.orders[order.ID] = &stored
	return order.ID, nil
}

func (f *fakeStorage) GetOrderByID(orderID uint) (*Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, errOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeStorage) ListOrders() ([]Order, error) {
	var orders []Order
	for _, o := range f.orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (f *fakeStorage) UpdateOrder(role string, orderID uint, updates map[string]interface{}) (*Order, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	order, ok := f.orders[orderID]
	if !ok {
		return nil, errOrderNotFound
	}
	f.updateRoles = append(f.updateRoles, role)

	if v, ok := updates["status"]; ok {
		order.Status = Status(toString(v))
	}
	if v, ok := updates["payment_status"]; ok {
		order.PaymentStatus = PaymentStatus(toString(v))
	}
	if v, ok := updates["payment_proof_url"]; ok {
		order.PaymentProofURL = toString(v)
	}
	if v, ok := updates["notes"]; ok {
		order.Notes = toString(v)
	}
	order.UpdatedAt = time.Now()

	copied := *order
	return &copied, nil
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case Status:
		return string(s)
	case PaymentStatus:
		return string(s)
	default:
		return ""
	}
}

func (f *fakeStorage) FindStalePending(olderThan time.Time) ([]Order, error) {
	var stale []Order
	for _, o := range f.orders {
		if o.Status == StatusPending && o.CreatedAt.Before(olderThan) {
			stale = append(stale, *o)
		}
	}
	return stale, nil
}

func testWindow() DeliveryWindow {
	return DeliveryWindow{MinDays: 3, MaxDays: 30}
}

func newTestService(storage Storage, hub *realtime.Hub) OrderService {
	return NewService(storage, hub, testWindow(), logrus.NewEntry(logrus.New()))
}

func sampleCartItems() []cart.CartItem {
	toppingID := uint(7)
	return []cart.CartItem{
		{
			ProductID: 1,
			ToppingID: &toppingID,
			Quantity:  2,
			Product:   &catalog.Product{Model: gorm.Model{ID: 1}, Name: "Red Velvet", Price: 100000, Stock: 10},
			Topping:   &catalog.Topping{Model: gorm.Model{ID: 7}, Name: "Choco Crunch", Price: 15000},
		},
	}
}

func validInput() PlaceOrderInput {
	return PlaceOrderInput{
		CustomerName:    "Andi",
		CustomerPhone:   "+6281234567890",
		CustomerAddress: "Jl. Melati 12, Jakarta",
		DeliveryDate:    time.Now().AddDate(0, 0, 3),
	}
}

func TestPlaceOrderSnapshotsCart(t *testing.T) {
	storage := newFakeOrderStorage()
	svc := newTestService(storage, nil)

	placed, err := svc.PlaceOrder(validInput(), sampleCartItems())
	require.NoError(t, err)

	assert.Equal(t, int64(230000), placed.TotalAmount)
	assert.Equal(t, StatusPending, placed.Status)
	assert.Equal(t, PaymentUnpaid, placed.PaymentStatus)

	require.Len(t, placed.Items, 1)
	assert.Equal(t, 2, placed.Items[0].Quantity)
	assert.Equal(t, int64(100000), placed.Items[0].UnitPrice)
	assert.Equal(t, int64(15000), placed.Items[0].ToppingPrice)

	require.Len(t, placed.Details, 1)
	assert.Equal(t, "Red Velvet", placed.Details[0].ProductName)
	assert.Equal(t, "Choco Crunch", placed.Details[0].ToppingName)
}

func TestPlaceOrderRejectsMissingCustomerInfo(t *testing.T) {
	storage := newFakeOrderStorage()
	svc := newTestService(storage, nil)

	input := validInput()
	input.CustomerPhone = ""

	_, err := svc.PlaceOrder(input, sampleCartItems())
	assert.True(t, IsValidation(err))
	assert.Empty(t, storage.orders, "nothing written on validation failure")
}

func TestPlaceOrderRejectsDeliveryDateOutsideWindow(t *testing.T) {
	storage := newFakeOrderStorage()
	svc := newTestService(storage, nil)

	tooSoon := validInput()
	tooSoon.DeliveryDate = time.Now().AddDate(0, 0, 1)
	_, err := svc.PlaceOrder(tooSoon, sampleCartItems())
	assert.True(t, IsValidation(err))

	tooFar := validInput()
	tooFar.DeliveryDate = time.Now().AddDate(0, 0, 45)
	_, err = svc.PlaceOrder(tooFar, sampleCartItems())
	assert.True(t, IsValidation(err))

	assert.Empty(t, storage.orders, "nothing written on validation failure")
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	svc := newTestService(newFakeOrderStorage(), nil)

	_, err := svc.PlaceOrder(validInput(), nil)
	assert.True(t, IsValidation(err))
}

func TestPlaceOrderDeletedProductContributesZero(t *testing.T) {
	storage := newFakeOrderStorage()
	svc := newTestService(storage, nil)

	items := []cart.CartItem{
		{ProductID: 99, Quantity: 3},
	}

	placed, err := svc.PlaceOrder(validInput(), items)
	require.NoError(t, err)
	assert.Equal(t, int64(0), placed.TotalAmount)
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	storage := newFakeOrderStorage()
	svc := newTestService(storage, nil)

	placed, err := svc.PlaceOrder(validInput(), sampleCartItems())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(placed.ID, StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, updated.Status)

	updated, err = svc.UpdateStatus(placed.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)

	// Terminal state: nothing leaves completed.
	_, err = svc.UpdateStatus(placed.ID, StatusPending)
	assert.True(t, IsValidation(err))
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc := newTestService(newFakeOrderStorage(), nil)

	_, err := svc.UpdateStatus(42, StatusProcessing)
	assert.True(t, IsNotFound(err))
}

func TestStatusUpdateIsObservedBySubscriber(t *testing.T) {
	storage := newFakeOrderStorage()
	hub := realtime.NewHub(logrus.NewEntry(logrus.New()))
	svc := newTestService(storage, hub)

	placed, err := svc.PlaceOrder(validInput(), sampleCartItems())
	require.NoError(t, err)

	sub := hub.Subscribe(realtime.Filter{OrderID: placed.ID})
	defer sub.Close()

	_, err = svc.UpdateStatus(placed.ID, StatusProcessing)
	require.NoError(t, err)

	select {
	case event := <-sub.C:
		assert.Equal(t, realtime.ActionUpdate, event.Action)
		assert.Equal(t, placed.ID, event.OrderID)
		row, ok := event.Row.(*Order)
		require.True(t, ok)
		assert.Equal(t, StatusProcessing, row.Status)
	case <-time.After(time.Second):
		t.Fatal("no realtime event within the delay bound")
	}
}

func TestAttachPaymentProofLastWriteWins(t *testing.T) {
	storage := newFakeOrderStorage()
	svc := newTestService(storage, nil)

	placed, err := svc.PlaceOrder(validInput(), sampleCartItems())
	require.NoError(t, err)

	_, err = svc.AttachPaymentProof(placed.ID, "/uploads/first.jpg")
	require.NoError(t, err)

	updated, err := svc.AttachPaymentProof(placed.ID, "/uploads/second.jpg")
	require.NoError(t, err)

	assert.Equal(t, "/uploads/second.jpg", updated.PaymentProofURL)
	assert.Len(t, storage.orders, 1, "no duplicate order rows")
}

func TestAdminUpdateWhitelistsFields(t *testing.T) {
	storage := newFakeOrderStorage()
	svc := newTestService(storage, nil)

	placed, err := svc.PlaceOrder(validInput(), sampleCartItems())
	require.NoError(t, err)

	updated, err := svc.AdminUpdate(placed.ID, map[string]interface{}{
		"status":       "processing",
		"notes":        "call before delivery",
		"total_amount": 1, // not updatable, silently dropped
	})
	require.NoError(t, err)

	assert.Equal(t, StatusProcessing, updated.Status)
	assert.Equal(t, "call before delivery", updated.Notes)
	assert.Equal(t, int64(230000), updated.TotalAmount)
}

func TestAdminUpdateRejectsIllegalTransition(t *testing.T) {
	storage := newFakeOrderStorage()
	svc := newTestService(storage, nil)

	placed, err := svc.PlaceOrder(validInput(), sampleCartItems())
	require.NoError(t, err)

	_, err = svc.AdminUpdate(placed.ID, map[string]interface{}{"status": "completed"})
	assert.True(t, IsValidation(err))
}

func TestAdminUpdateRejectsEmptyUpdates(t *testing.T) {
	svc := newTestService(newFakeOrderStorage(), nil)

	_, err := svc.AdminUpdate(1, map[string]interface{}{"total_amount": 0})
	assert.True(t, IsValidation(err))
}

func TestAdminUpdateUnknownOrderSurfacesError(t *testing.T) {
	svc := newTestService(newFakeOrderStorage(), nil)

	_, err := svc.AdminUpdate(999, map[string]interface{}{"status": "processing"})
	assert.Error(t, err)
}

func TestCancelStalePending(t *testing.T) {
	storage := newFakeOrderStorage()
	svc := newTestService(storage, nil)

	placed, err := svc.PlaceOrder(validInput(), sampleCartItems())
	require.NoError(t, err)

	// Age the order past the sweep cutoff.
	storage.orders[placed.ID].CreatedAt = time.Now().Add(-48 * time.Hour)

	cancelled, err := svc.CancelStalePending(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	refreshed, err := svc.GetOrder(placed.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, refreshed.Status)
}
