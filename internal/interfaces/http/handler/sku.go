package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/wms/backend/internal/application/catalog"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// SkuHandler handles SKU API endpoints
type SkuHandler struct {
	BaseHandler
	skuService *appcatalog.SkuService
}

// NewSkuHandler creates a new SkuHandler
func NewSkuHandler(skuService *appcatalog.SkuService) *SkuHandler {
	return &SkuHandler{skuService: skuService}
}

// CreateSku handles POST /api/v1/skus
func (h *SkuHandler) CreateSku(c *gin.Context) {
	var req appcatalog.CreateSkuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sku, err := h.skuService.CreateSku(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sku)
}

// GetSku handles GET /api/v1/skus/:id
func (h *SkuHandler) GetSku(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid SKU ID")
		return
	}

	sku, err := h.skuService.GetSku(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sku)
}

// ListSkus handles GET /api/v1/skus
func (h *SkuHandler) ListSkus(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filters := make(map[string]any)
	if isActive := c.Query("is_active"); isActive != "" {
		filters["is_active"] = isActive == "true"
	}

	filter := buildFilter(req, filters)
	skus, total, err := h.skuService.ListSkus(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, skus, total, filter.Page, filter.PageSize)
}

// UpdateSku handles PUT /api/v1/skus/:id
func (h *SkuHandler) UpdateSku(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid SKU ID")
		return
	}

	var req appcatalog.UpdateSkuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sku, err := h.skuService.UpdateSku(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sku)
}
