package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostNameWeeklyStorage is the fixed line-item name for aggregated weekly
// pallet storage. All SKUs' storage for a period collapse into this one line.
const CostNameWeeklyStorage = "Weekly Pallet Storage"

// UnitPalletWeek is the unit of the storage line item: one pallet stored for
// one week.
const UnitPalletWeek = "pallet-week"

// CostDetail is one per-SKU/batch (or per-container, per-shipment)
// contribution to a line item. Details are retained through aggregation for
// traceability.
type CostDetail struct {
	SkuID           *uuid.UUID `json:"sku_id,omitempty"`
	SkuCode         string     `json:"sku_code,omitempty"`
	Description     string     `json:"description,omitempty"`
	BatchLot        string     `json:"batch_lot,omitempty"`
	TransactionType string     `json:"transaction_type,omitempty"`
	Reference       string     `json:"reference,omitempty"`
	Count           int        `json:"count"`
}

// CostLineItem is one row of aggregated cost output for a (category, name)
// pair within a billing period. For rate-based categories Amount equals
// Quantity x UnitRate; for storage it is the summed pre-computed weekly cost.
type CostLineItem struct {
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	CostCategory  CostCategory    `json:"cost_category"`
	CostName      string          `json:"cost_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitRate      decimal.Decimal `json:"unit_rate"`
	Unit          string          `json:"unit"`
	Amount        decimal.Decimal `json:"amount"`
	Details       []CostDetail    `json:"details,omitempty"`
}

// CostCategorySummary is one row per distinct (category, name) across all
// line items for a period.
type CostCategorySummary struct {
	CostCategory  CostCategory    `json:"cost_category"`
	CostName      string          `json:"cost_name"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	UnitRate      decimal.Decimal `json:"unit_rate"`
	Unit          string          `json:"unit"`
}

// SummarizeCosts collapses line items into per-(category, name) totals.
// Items in one bucket share the same unit rate by construction (they came
// from the same rate lookup), so the first one seen is representative.
// Output preserves first-seen order and the function is pure: applying it
// twice to the same input yields identical results.
func SummarizeCosts(items []CostLineItem) []CostCategorySummary {
	type bucket struct {
		index   int
		summary CostCategorySummary
	}

	buckets := make(map[string]*bucket)
	order := 0

	for _, item := range items {
		key := string(item.CostCategory) + "|" + item.CostName
		if b, ok := buckets[key]; ok {
			b.summary.TotalQuantity = b.summary.TotalQuantity.Add(item.Quantity)
			b.summary.TotalAmount = b.summary.TotalAmount.Add(item.Amount)
			continue
		}
		buckets[key] = &bucket{
			index: order,
			summary: CostCategorySummary{
				CostCategory:  item.CostCategory,
				CostName:      item.CostName,
				TotalQuantity: item.Quantity,
				TotalAmount:   item.Amount,
				UnitRate:      item.UnitRate,
				Unit:          item.Unit,
			},
		}
		order++
	}

	summaries := make([]CostCategorySummary, len(buckets))
	for _, b := range buckets {
		summaries[b.index] = b.summary
	}
	return summaries
}
