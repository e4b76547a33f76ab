package realtime

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Event carries the post-mutation row image so consumers can overwrite
// their view without a reread.
type Event struct {
	Action  Action      `json:"action"`
	OrderID uint        `json:"order_id"`
	Row     interface{} `json:"row"`
}

// Filter limits delivery to one order. The zero value matches every order.
type Filter struct {
	OrderID uint
}

func (f Filter) matches(e Event) bool {
	return f.OrderID == 0 || f.OrderID == e.OrderID
}

type Subscription struct {
	C      chan Event
	filter Filter
	hub    *Hub
	once   sync.Once
}

// Close stops delivery and releases the subscription. Safe to call more
// than once; callers must close on every exit path.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
	})
}

// Hub fans order row changes out to any number of concurrent subscribers.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
	log  *logrus.Entry
}

func NewHub(log *logrus.Entry) *Hub {
	return &Hub{
		subs: make(map[*Subscription]struct{}),
		log:  log,
	}
}

func (h *Hub) Subscribe(filter Filter) *Subscription {
	sub := &Subscription{
		C:      make(chan Event, 16),
		filter: filter,
		hub:    h,
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	close(sub.C)
}

// Publish delivers to every matching subscriber without blocking the
// mutating request. A subscriber that cannot keep up loses events; it holds
// full row images, so the next event restores a consistent view.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		if !sub.filter.matches(event) {
			continue
		}
		select {
		case sub.C <- event:
		default:
			h.log.Warnf("dropped %s event for order %d: slow subscriber", event.Action, event.OrderID)
		}
	}
}
