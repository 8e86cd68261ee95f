package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

type ProductHandler struct {
	Products entity.ProductRepositoryInterface
	Logger   *zap.Logger
}

func NewProductHandler(products entity.ProductRepositoryInterface, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{Products: products, Logger: logger}
}

// Search handles GET /admin/products?q=&limit=.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(q) < 2 {
		badRequest(w, "q must have at least 2 characters")
		return
	}
	limit := queryInt(r, "limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	products, err := h.Products.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, r, h.Logger, &usecase.TechnicalError{Code: "DATABASE_ERROR", Message: "product search failed", Err: err})
		return
	}
	if products == nil {
		products = []*entity.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}
