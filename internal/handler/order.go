package handler

import (
	"log/slog"
	"net/http"

	"github.com/aingmeong/shop/internal/ctxkeys"
	"github.com/aingmeong/shop/internal/model"
	"github.com/aingmeong/shop/internal/service"
)

type orderHandler struct {
	orderService *service.OrderService
	adminEmail   string
}

func NewOrderHandler(orderService *service.OrderService, adminEmail string) *orderHandler {
	return &orderHandler{
		orderService: orderService,
		adminEmail:   adminEmail,
	}
}

// Checkout turns the user's cart into a pending order. Totals are computed
// server-side from the stored cart; the request only carries notes.
func (h *orderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Notes string `json:"notes"`
	}
	// An empty body is a valid checkout with no notes.
	if r.ContentLength != 0 {
		err := decodeJSON(r, &req)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	order, err := h.orderService.Checkout(user.ID, req.Notes)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    order,
	})
}

func (h *orderHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	orders, err := h.orderService.ByUser(user.ID)
	if err != nil {
		slog.Error("failed to list orders", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    orders,
		"count":   len(orders),
	})
}

func (h *orderHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	isAdmin := user.Role(h.adminEmail) == model.RoleAdmin
	order, err := h.orderService.ByID(r.PathValue("id"), user.ID, isAdmin)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    order,
	})
}
