package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Lifecycle mengelola state machine status order plus sweep berkala yang
// memajukan order PLACED -> COMPLETED setelah delay tetap.
//
// Registry pending bersifat in-memory & tidak durable: restart proses
// kehilangan order yang sedang in-flight (limitasi terdokumentasi; cache,
// bukan source of truth).
type Lifecycle struct {
	Orders   OrderStore
	Events   Publisher // boleh nil
	Logger   *zap.Logger
	Interval time.Duration // default 120s, lihat config
	Service  string

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewLifecycle(orders OrderStore, events Publisher, logger *zap.Logger, interval time.Duration) *Lifecycle {
	if interval <= 0 {
		interval = 120 * time.Second
	}
	return &Lifecycle{
		Orders:   orders,
		Events:   events,
		Logger:   logger,
		Interval: interval,
		pending:  make(map[string]struct{}),
	}
}

// Register mendaftarkan order untuk deferred completion.
// Dipanggil dari goroutine request; sweep membaca dari goroutine timer.
func (l *Lifecycle) Register(orderID string) {
	l.mu.Lock()
	l.pending[orderID] = struct{}{}
	l.mu.Unlock()
}

// Pending: snapshot id terdaftar (dipakai sweep & test).
func (l *Lifecycle) Pending() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.pending))
	for id := range l.pending {
		ids = append(ids, id)
	}
	return ids
}

func (l *Lifecycle) deregister(orderID string) {
	l.mu.Lock()
	delete(l.pending, orderID)
	l.mu.Unlock()
}

// Place memajukan order CREATED -> PLACED, persist, lalu daftarkan untuk
// deferred completion.
func (l *Lifecycle) Place(ctx context.Context, o *Order) (*Order, error) {
	if !CanTransition(o.Status, StatusPlaced) {
		return nil, fmt.Errorf("cannot place order %s from status %s", o.ID, o.Status)
	}
	o.Status = StatusPlaced
	o, err := l.Orders.Save(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	l.Register(o.ID)
	return o, nil
}

// Start menjalankan sweep di goroutine sendiri sampai ctx selesai.
func (l *Lifecycle) Start(ctx context.Context) {
	go func() {
		t := time.NewTicker(l.Interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Sweep(ctx)
			}
		}
	}()
}

// Sweep: setiap order terdaftar yang masih PLACED -> COMPLETED, persist,
// deregister. Order yang bukan PLACED dibiarkan terdaftar untuk sweep
// berikutnya; hanya transisi PLACED->COMPLETED yang men-deregister.
func (l *Lifecycle) Sweep(ctx context.Context) {
	for _, id := range l.Pending() {
		o, err := l.Orders.FindByID(ctx, id)
		if err != nil {
			if l.Logger != nil {
				l.Logger.Warn("sweep: fetch order failed", zap.String("orderId", id), zap.Error(err))
			}
			continue
		}
		if o.Status != StatusPlaced {
			continue
		}
		o.Status = StatusCompleted
		if _, err := l.Orders.Save(ctx, o); err != nil {
			if l.Logger != nil {
				l.Logger.Warn("sweep: save order failed", zap.String("orderId", id), zap.Error(err))
			}
			continue
		}
		l.deregister(id)
		l.publishCompleted(o)
		if l.Logger != nil {
			l.Logger.Info("order completed by sweep", zap.String("orderId", id))
		}
	}
}

func (l *Lifecycle) publishCompleted(o *Order) {
	if l.Events == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCompleted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      l.Service,
		CorrelationID: o.ID,
		Payload:       MustMarshal(OrderCompletedPayload{OrderID: o.ID}),
	}
	l.Events.Publish(TopicOrderCompleted, PartitionKey(o.ID), MustMarshal(ev))
}
