package handler

import (
	"log/slog"
	"net/http"

	"github.com/aingmeong/shop/internal/service"
)

// 10MB cap on the multipart form; the image itself is limited separately.
const maxUploadFormSize = 10 << 20

type productHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *productHandler {
	return &productHandler{productService: productService}
}

func (h *productHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.All()
	if err != nil {
		slog.Error("failed to list products", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to load products")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    products,
		"count":   len(products),
	})
}

func (h *productHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.ByID(r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    product,
	})
}

func (h *productHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.productService.Create(req.Name, req.Price, req.Description)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    product,
	})
}

func (h *productHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.productService.Update(r.PathValue("id"), req.Name, req.Price, req.Description)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    product,
	})
}

func (h *productHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.productService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product deleted",
	})
}

// UploadImage accepts a multipart form with an "image" field and attaches it
// to the product, replacing any previous image.
func (h *productHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxUploadFormSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer func() { _ = file.Close() }()

	product, err := h.productService.AttachImage(r.Context(), r.PathValue("id"), file, header)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    product,
	})
}
