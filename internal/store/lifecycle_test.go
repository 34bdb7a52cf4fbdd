package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedOrder(t *testing.T, orders *memOrders, status Status) *Order {
	t.Helper()
	o, err := orders.Save(context.Background(), &Order{
		OrderDate:  testClock,
		Status:     status,
		TotalPrice: price("100"),
	})
	require.NoError(t, err)
	return o
}

func TestPlace_FromCreated(t *testing.T) {
	orders := newMemOrders()
	lc := NewLifecycle(orders, nil, zap.NewNop(), time.Minute)
	o := seedOrder(t, orders, StatusCreated)

	placed, err := lc.Place(context.Background(), o)
	require.NoError(t, err)

	assert.Equal(t, StatusPlaced, placed.Status)
	assert.Contains(t, lc.Pending(), o.ID)

	stored, err := orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPlaced, stored.Status)
}

func TestPlace_InvalidTransition(t *testing.T) {
	orders := newMemOrders()
	lc := NewLifecycle(orders, nil, zap.NewNop(), time.Minute)
	o := seedOrder(t, orders, StatusCompleted)

	_, err := lc.Place(context.Background(), o)
	assert.Error(t, err)
	assert.Empty(t, lc.Pending())
}

func TestSweep_CompletesPlacedOrders(t *testing.T) {
	orders := newMemOrders()
	pub := &fakePub{}
	lc := NewLifecycle(orders, pub, zap.NewNop(), time.Minute)

	placed := seedOrder(t, orders, StatusPlaced)
	lc.Register(placed.ID)

	lc.Sweep(context.Background())

	stored, err := orders.FindByID(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
	assert.NotContains(t, lc.Pending(), placed.ID, "PLACED->COMPLETED men-deregister")
	assert.Equal(t, []string{TopicOrderCompleted}, pub.published())
}

func TestSweep_NonPlacedStaysRegisteredAndUntouched(t *testing.T) {
	orders := newMemOrders()
	lc := NewLifecycle(orders, nil, zap.NewNop(), time.Minute)

	created := seedOrder(t, orders, StatusCreated)
	completed := seedOrder(t, orders, StatusCompleted)
	lc.Register(created.ID)
	lc.Register(completed.ID)

	lc.Sweep(context.Background())

	gotCreated, _ := orders.FindByID(context.Background(), created.ID)
	gotCompleted, _ := orders.FindByID(context.Background(), completed.ID)
	assert.Equal(t, StatusCreated, gotCreated.Status)
	assert.Equal(t, StatusCompleted, gotCompleted.Status)

	// non-PLACED dipertimbangkan ulang di sweep berikutnya
	assert.ElementsMatch(t, []string{created.ID, completed.ID}, lc.Pending())
}

func TestSweep_MissingOrderStaysRegistered(t *testing.T) {
	orders := newMemOrders()
	lc := NewLifecycle(orders, nil, zap.NewNop(), time.Minute)
	lc.Register("ghost")

	lc.Sweep(context.Background())

	assert.Contains(t, lc.Pending(), "ghost")
}

func TestStart_PeriodicSweep(t *testing.T) {
	orders := newMemOrders()
	lc := NewLifecycle(orders, nil, zap.NewNop(), 10*time.Millisecond)

	placed := seedOrder(t, orders, StatusPlaced)
	lc.Register(placed.ID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lc.Start(ctx)

	require.Eventually(t, func() bool {
		o, err := orders.FindByID(context.Background(), placed.ID)
		return err == nil && o.Status == StatusCompleted
	}, time.Second, 5*time.Millisecond)
}

func TestRegistry_ConcurrentRegisterAndSweep(t *testing.T) {
	orders := newMemOrders()
	lc := NewLifecycle(orders, nil, zap.NewNop(), time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				o := seedOrder(t, orders, StatusPlaced)
				lc.Register(o.ID)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 20; j++ {
			lc.Sweep(context.Background())
		}
	}()
	wg.Wait()

	// sweep terakhir menghabiskan sisa yang terdaftar
	lc.Sweep(context.Background())
	assert.Empty(t, lc.Pending())

	all, err := orders.FindAll(context.Background())
	require.NoError(t, err)
	for _, o := range all {
		assert.Equal(t, StatusCompleted, o.Status)
	}
}
