package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Fake in-memory untuk test. Find* return salinan, meniru scan row dari DB:
// mutasi entity belum terlihat sebelum Save.

type memProducts struct {
	mu   sync.Mutex
	rows map[string]Product
}

func newMemProducts(ps ...Product) *memProducts {
	m := &memProducts{rows: map[string]Product{}}
	for _, p := range ps {
		m.rows[p.ID] = p
	}
	return m
}

func (m *memProducts) FindByID(_ context.Context, id string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	cp := p
	return &cp, nil
}

func (m *memProducts) Save(_ context.Context, p *Product) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.rows[p.ID] = *p
	return p, nil
}

func (m *memProducts) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memProducts) FindAll(_ context.Context) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Product, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].Stock
}

type memOrders struct {
	mu    sync.Mutex
	rows  map[string]Order
	saves int
}

func newMemOrders() *memOrders { return &memOrders{rows: map[string]Order{}} }

func (m *memOrders) FindByID(_ context.Context, id string) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	cp := o
	cp.Lines = append([]OrderLine(nil), o.Lines...)
	return &cp, nil
}

func (m *memOrders) Save(_ context.Context, o *Order) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	cp := *o
	cp.Lines = append([]OrderLine(nil), o.Lines...)
	m.rows[o.ID] = cp
	m.saves++
	return o, nil
}

func (m *memOrders) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memOrders) FindAll(_ context.Context) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Order, 0, len(m.rows))
	for _, o := range m.rows {
		out = append(out, o)
	}
	return out, nil
}

type memLines struct {
	mu   sync.Mutex
	rows map[string]OrderLine
}

func newMemLines() *memLines { return &memLines{rows: map[string]OrderLine{}} }

func (m *memLines) Save(_ context.Context, l *OrderLine) (*OrderLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	m.rows[l.ID] = *l
	return l, nil
}

func (m *memLines) DeleteByOrderID(_ context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.rows {
		if l.OrderID == orderID {
			delete(m.rows, id)
		}
	}
	return nil
}

func (m *memLines) byOrder(orderID string) []OrderLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []OrderLine
	for _, l := range m.rows {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out
}

// fakePub merekam event yang dipublish per topic.
type fakePub struct {
	mu     sync.Mutex
	topics []string
}

func (p *fakePub) Publish(topic string, _, _ []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
}

func (p *fakePub) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}
