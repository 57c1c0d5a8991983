package handler

import (
	"github.com/gin-gonic/gin"

	apppartner "github.com/wms/backend/internal/application/partner"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// WarehouseHandler handles warehouse API endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *apppartner.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *apppartner.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// CreateWarehouse handles POST /api/v1/warehouses
func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	var req apppartner.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	warehouse, err := h.warehouseService.CreateWarehouse(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// GetWarehouse handles GET /api/v1/warehouses/:id
func (h *WarehouseHandler) GetWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	warehouse, err := h.warehouseService.GetWarehouse(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// ListWarehouses handles GET /api/v1/warehouses
func (h *WarehouseHandler) ListWarehouses(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filters := make(map[string]any)
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if whType := c.Query("type"); whType != "" {
		filters["type"] = whType
	}

	filter := buildFilter(req, filters)
	warehouses, total, err := h.warehouseService.ListWarehouses(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, warehouses, total, filter.Page, filter.PageSize)
}

// UpdateWarehouse handles PUT /api/v1/warehouses/:id
func (h *WarehouseHandler) UpdateWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req apppartner.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	warehouse, err := h.warehouseService.UpdateWarehouse(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// DeactivateWarehouse handles POST /api/v1/warehouses/:id/deactivate
func (h *WarehouseHandler) DeactivateWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	if err := h.warehouseService.DeactivateWarehouse(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ActivateWarehouse handles POST /api/v1/warehouses/:id/activate
func (h *WarehouseHandler) ActivateWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	if err := h.warehouseService.ActivateWarehouse(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
