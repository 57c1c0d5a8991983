package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// InventoryHandler handles inventory transaction and balance endpoints
type InventoryHandler struct {
	BaseHandler
	transactionService *appinventory.TransactionService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(transactionService *appinventory.TransactionService) *InventoryHandler {
	return &InventoryHandler{transactionService: transactionService}
}

// RecordTransaction handles POST /api/v1/transactions
func (h *InventoryHandler) RecordTransaction(c *gin.Context) {
	var req appinventory.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tx, err := h.transactionService.RecordTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *InventoryHandler) GetTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// ListTransactions handles GET /api/v1/transactions
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filters := make(map[string]any)
	if warehouseID := c.Query("warehouse_id"); warehouseID != "" {
		filters["warehouse_id"] = warehouseID
	}
	if skuID := c.Query("sku_id"); skuID != "" {
		filters["sku_id"] = skuID
	}
	if txType := c.Query("transaction_type"); txType != "" {
		filters["transaction_type"] = txType
	}
	if batchLot := c.Query("batch_lot"); batchLot != "" {
		filters["batch_lot"] = batchLot
	}

	filter := buildFilter(req, filters)
	transactions, total, err := h.transactionService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, transactions, total, filter.Page, filter.PageSize)
}

// GetBalances handles GET /api/v1/warehouses/:id/balances
func (h *InventoryHandler) GetBalances(c *gin.Context) {
	warehouseID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	balances, err := h.transactionService.GetBalances(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balances)
}
