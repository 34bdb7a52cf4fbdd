package store

import (
	"encoding/json"
	"time"
)

const (
	TopicOrderCreated   = "store.order.created"
	TopicOrderPlaced    = "store.order.placed"
	TopicOrderCompleted = "store.order.completed"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderPlaced    = "OrderPlaced"
	EventOrderCompleted = "OrderCompleted"
)

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type LineQty struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type OrderCreatedPayload struct {
	OrderID    string    `json:"order_id"`
	TotalPrice string    `json:"total_price"`
	Lines      []LineQty `json:"lines"`
}

type OrderPlacedPayload struct {
	OrderID    string `json:"order_id"`
	TotalPrice string `json:"total_price"`
}

type OrderCompletedPayload struct {
	OrderID string `json:"order_id"`
}

// MustMarshal: payload event selalu marshalable; kalau tidak, itu bug.
func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
