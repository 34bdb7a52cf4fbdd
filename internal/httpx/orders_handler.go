package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-store-management.git/internal/redisx"
	"github.com/ariefcatur/go-store-management.git/internal/store"
)

type OrdersHandler struct {
	Service *store.Service
	Redis   *redis.Client // boleh nil (test)
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/api/orders", h.createOrder)
	r.Get("/api/orders", h.listOrders)
	r.Get("/api/orders/{id}", h.getOrder)
	r.Put("/api/orders/{id}", h.updateOrder)
	r.Delete("/api/orders/{id}", h.deleteOrder)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Mapping taxonomy error domain -> status code; sisanya unexpected (500).
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNoValidProductInOrder), store.IsInsufficientStock(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrOrderNotFound), errors.Is(err, store.ErrProductNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "an unexpected error occurred"})
	}
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var reqs []store.LineRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Service.CreateOrder(ctx, reqs)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.cacheOrder(ctx, order)
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) coba cache
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrder, id)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	// 2) fallback DB
	order, err := h.Service.GetOrder(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.cacheOrder(ctx, order)
	writeJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var reqs []store.LineRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Service.UpdateOrder(ctx, id, reqs)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.invalidate(ctx, id)
	writeJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Service.DeleteOrder(ctx, id); err != nil {
		writeErr(w, err)
		return
	}
	h.invalidate(ctx, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Service.ListOrders(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// cacheOrder: TTL pendek; status bisa berubah oleh sweep tanpa invalidasi.
func (h *OrdersHandler) cacheOrder(ctx context.Context, o *store.Order) {
	if h.Redis == nil {
		return
	}
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	_ = h.Redis.Set(ctx, fmt.Sprintf(redisx.KeyOrder, o.ID), b, redisx.TTLOrderCache).Err()
	_ = h.Redis.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, o.ID), string(o.Status), redisx.TTLStatusCache).Err()
}

func (h *OrdersHandler) invalidate(ctx context.Context, id string) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrder, id), fmt.Sprintf(redisx.KeyOrderStatus, id)).Err()
}
