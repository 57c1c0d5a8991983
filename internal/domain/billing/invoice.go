package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusFinalized InvoiceStatus = "finalized"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusVoided    InvoiceStatus = "voided"
)

// IsValid returns true if the status is a known invoice status
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusFinalized, InvoiceStatusPaid, InvoiceStatusVoided:
		return true
	}
	return false
}

// InvoiceLineItem is one summarized charge on an invoice
type InvoiceLineItem struct {
	shared.BaseEntity
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	CostCategory CostCategory    `gorm:"type:varchar(30);not null" json:"cost_category"`
	CostName     string          `gorm:"type:varchar(200);not null" json:"cost_name"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitRate     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_rate"`
	Unit         string          `gorm:"type:varchar(50)" json:"unit,omitempty"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
}

// TableName returns the table name for GORM
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

// Invoice is a billing-period statement for one warehouse, built from the
// cost summary. It starts as a draft and can be regenerated until finalized.
type Invoice struct {
	shared.BaseEntity
	InvoiceNumber      string            `gorm:"type:varchar(100);not null;uniqueIndex" json:"invoice_number"`
	WarehouseID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"warehouse_id"`
	BillingPeriodStart time.Time         `gorm:"type:timestamptz;not null" json:"billing_period_start"`
	BillingPeriodEnd   time.Time         `gorm:"type:timestamptz;not null" json:"billing_period_end"`
	Status             InvoiceStatus     `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	TotalAmount        decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	LineItems          []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`
	IssuedAt           *time.Time        `gorm:"type:timestamptz" json:"issued_at,omitempty"`
	PaidAt             *time.Time        `gorm:"type:timestamptz" json:"paid_at,omitempty"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoiceFromSummary builds a draft invoice from a period's cost summary.
// The invoice number is deterministic per warehouse and period so regenerating
// a draft replaces rather than duplicates it.
func NewInvoiceFromSummary(
	warehouseID uuid.UUID,
	warehouseCode string,
	period BillingPeriod,
	summaries []CostCategorySummary,
) (*Invoice, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if warehouseCode == "" {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse code cannot be empty")
	}

	invoice := &Invoice{
		BaseEntity:         shared.NewBaseEntity(),
		InvoiceNumber:      fmt.Sprintf("INV-%s-%s", warehouseCode, period.Label()),
		WarehouseID:        warehouseID,
		BillingPeriodStart: period.Start,
		BillingPeriodEnd:   period.End,
		Status:             InvoiceStatusDraft,
		TotalAmount:        decimal.Zero,
	}

	for _, s := range summaries {
		invoice.LineItems = append(invoice.LineItems, InvoiceLineItem{
			BaseEntity:   shared.NewBaseEntity(),
			InvoiceID:    invoice.ID,
			CostCategory: s.CostCategory,
			CostName:     s.CostName,
			Quantity:     s.TotalQuantity,
			UnitRate:     s.UnitRate,
			Unit:         s.Unit,
			Amount:       s.TotalAmount,
		})
		invoice.TotalAmount = invoice.TotalAmount.Add(s.TotalAmount)
	}

	return invoice, nil
}

// IsEditable returns true while the invoice can still be regenerated
func (i *Invoice) IsEditable() bool {
	return i.Status == InvoiceStatusDraft
}

// Finalize locks the invoice for issuing
func (i *Invoice) Finalize() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Only draft invoices can be finalized")
	}
	now := time.Now()
	i.Status = InvoiceStatusFinalized
	i.IssuedAt = &now
	return nil
}

// MarkPaid records payment of a finalized invoice
func (i *Invoice) MarkPaid() error {
	if i.Status != InvoiceStatusFinalized {
		return shared.NewDomainError("INVALID_STATUS", "Only finalized invoices can be marked paid")
	}
	now := time.Now()
	i.Status = InvoiceStatusPaid
	i.PaidAt = &now
	return nil
}

// Void cancels an invoice that has not been paid
func (i *Invoice) Void() error {
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATUS", "Paid invoices cannot be voided")
	}
	i.Status = InvoiceStatusVoided
	return nil
}
