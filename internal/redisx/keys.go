package redisx

import "time"

const (
	// Cache representasi order utk GET cepat: order:{order_id} -> JSON order
	KeyOrder = "order:%s"

	// Cache status order: order_status:{order_id} -> "PLACED" dst.
	KeyOrderStatus = "order_status:%s"
)

var (
	// TTL pendek: status bisa berubah oleh sweep tanpa invalidasi cache.
	TTLOrderCache  = 1 * time.Minute
	TTLStatusCache = 1 * time.Minute
)
