package handler

import (
	"net/http"

	"github.com/aingmeong/shop/internal/ctxkeys"
	"github.com/aingmeong/shop/internal/service"
)

type cartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *cartHandler {
	return &cartHandler{cartService: cartService}
}

func (h *cartHandler) respondCart(w http.ResponseWriter, userID string) {
	lines, total, err := h.cartService.Cart(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"items":   lines,
		"total":   total,
		"count":   len(lines),
	})
}

func (h *cartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	h.respondCart(w, user.ID)
}

func (h *cartHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	err = h.cartService.Add(user.ID, req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.respondCart(w, user.ID)
}

func (h *cartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Quantity int `json:"quantity"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.cartService.SetQuantity(user.ID, r.PathValue("productId"), req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.respondCart(w, user.ID)
}

func (h *cartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.cartService.Remove(user.ID, r.PathValue("productId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.respondCart(w, user.ID)
}

func (h *cartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.cartService.Clear(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Cart cleared",
	})
}
