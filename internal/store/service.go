package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service: koordinator order, satu-satunya pintu masuk dari boundary layer.
// Orkestrasi Reserver + store + Lifecycle untuk create/get/delete/list/update.
type Service struct {
	Products  ProductStore
	Orders    OrderStore
	Lines     OrderLineStore
	Reserver  *Reserver
	Lifecycle *Lifecycle
	Events    Publisher // boleh nil
	Logger    *zap.Logger
	Name      string

	Now func() time.Time // injectable untuk test
}

func NewService(products ProductStore, orders OrderStore, lines OrderLineStore,
	lc *Lifecycle, events Publisher, logger *zap.Logger, name string) *Service {
	return &Service{
		Products:  products,
		Orders:    orders,
		Lines:     lines,
		Reserver:  &Reserver{Products: products, Logger: logger},
		Lifecycle: lc,
		Events:    events,
		Logger:    logger,
		Name:      name,
		Now:       time.Now,
	}
}

// CreateOrder: validasi penuh dulu, lalu persist order (checkpoint CREATED),
// reserve stok + simpan tiap line yang diterima, majukan ke PLACED dan
// persist lagi (dua checkpoint), daftarkan ke sweep.
func (s *Service) CreateOrder(ctx context.Context, reqs []LineRequest) (*Order, error) {
	total, admitted, err := s.Reserver.Validate(ctx, reqs)
	if err != nil {
		return nil, err
	}

	order := &Order{
		OrderDate:  s.Now(),
		Status:     StatusCreated,
		TotalPrice: total,
	}
	order, err = s.Orders.Save(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	for _, a := range admitted {
		if err := s.Reserver.Reserve(ctx, a.Product, a.Qty); err != nil {
			return nil, err
		}
		line, err := s.Lines.Save(ctx, &OrderLine{
			OrderID:   order.ID,
			ProductID: a.Product.ID,
			Qty:       a.Qty,
		})
		if err != nil {
			return nil, fmt.Errorf("save order line: %w", err)
		}
		order.Lines = append(order.Lines, *line)
	}

	if order, err = s.Lifecycle.Place(ctx, order); err != nil {
		return nil, err
	}

	s.publish(TopicOrderCreated, EventOrderCreated, order.ID, OrderCreatedPayload{
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice.String(),
		Lines:      toLineQty(order.Lines),
	})
	s.publish(TopicOrderPlaced, EventOrderPlaced, order.ID, OrderPlacedPayload{
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice.String(),
	})

	s.Logger.Info("order created",
		zap.String("orderId", order.ID),
		zap.String("total", order.TotalPrice.String()),
		zap.Int("lines", len(order.Lines)))
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.Orders.FindByID(ctx, id)
}

// DeleteOrder: hard delete tanpa cek eksistensi ("ensure absent").
// Stok yang sudah ter-reserve TIDAK dikembalikan (perilaku terdokumentasi).
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	return s.Orders.DeleteByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	return s.Orders.FindAll(ctx)
}

type adjustPlan struct {
	product *Product
	delta   int
	qty     int
}

// UpdateOrder: replace wholesale line set order dengan qty baru.
// Stok pakai diff lama->baru per product; total dihitung ulang dari qty
// BARU pada harga sekarang (dua kalkulasi terpisah, jangan dicampur).
// Status tidak berubah. Semua validasi selesai sebelum mutasi pertama.
func (s *Service) UpdateOrder(ctx context.Context, id string, reqs []LineRequest) (*Order, error) {
	order, err := s.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prev := order.CommittedQty()

	// pass 1: validasi + rencana delta, belum ada mutasi.
	// Agregasi dulu supaya satu product = satu plan (pasangan duplikat
	// dijumlahkan, bukan dua snapshot stok yang saling menimpa).
	total := decimal.Zero
	aggregated := aggregate(reqs, true)
	plans := make([]adjustPlan, 0, len(aggregated))
	for _, req := range aggregated {
		p, err := s.Products.FindByID(ctx, req.ProductID)
		if errors.Is(err, ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, req.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("find product %s: %w", req.ProductID, err)
		}

		delta := req.Qty - prev[p.ID]
		if p.Stock-delta < 0 {
			return nil, &InsufficientStockError{
				ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: delta,
			}
		}
		if req.Qty > 0 {
			total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(req.Qty))))
		}
		plans = append(plans, adjustPlan{product: p, delta: delta, qty: req.Qty})
	}

	// pass 2: terapkan delta stok lalu replace line set
	for _, pl := range plans {
		if err := s.Reserver.Adjust(ctx, pl.product, pl.delta); err != nil {
			return nil, err
		}
	}
	if err := s.Lines.DeleteByOrderID(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("delete order lines: %w", err)
	}
	order.Lines = nil
	for _, pl := range plans {
		if pl.qty <= 0 {
			continue
		}
		line, err := s.Lines.Save(ctx, &OrderLine{
			OrderID:   order.ID,
			ProductID: pl.product.ID,
			Qty:       pl.qty,
		})
		if err != nil {
			return nil, fmt.Errorf("save order line: %w", err)
		}
		order.Lines = append(order.Lines, *line)
	}

	order.TotalPrice = total
	if order, err = s.Orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.Logger.Info("order updated",
		zap.String("orderId", order.ID),
		zap.String("total", order.TotalPrice.String()),
		zap.Int("lines", len(order.Lines)))
	return order, nil
}

func (s *Service) publish(topic, eventType, orderID string, payload any) {
	if s.Events == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Name,
		CorrelationID: orderID,
		Payload:       MustMarshal(payload),
	}
	s.Events.Publish(topic, PartitionKey(orderID), MustMarshal(ev))
}

func toLineQty(lines []OrderLine) []LineQty {
	out := make([]LineQty, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineQty{ProductID: l.ProductID, Qty: l.Qty})
	}
	return out
}
