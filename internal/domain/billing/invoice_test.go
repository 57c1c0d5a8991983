package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoiceFromSummary(t *testing.T) {
	warehouseID := uuid.New()
	period := BillingPeriodStarting(2024, time.March, time.UTC)
	summaries := []CostCategorySummary{
		{
			CostCategory:  CostCategoryStorage,
			CostName:      CostNameWeeklyStorage,
			TotalQuantity: decimal.NewFromInt(11),
			TotalAmount:   decimal.NewFromFloat(55.00),
			UnitRate:      decimal.NewFromInt(5),
			Unit:          UnitPalletWeek,
		},
		{
			CostCategory:  CostCategoryContainer,
			CostName:      "Container Unload",
			TotalQuantity: decimal.NewFromInt(1),
			TotalAmount:   decimal.NewFromFloat(150.00),
			UnitRate:      decimal.NewFromInt(150),
			Unit:          "container",
		},
	}

	invoice, err := NewInvoiceFromSummary(warehouseID, "WH-LA", period, summaries)
	require.NoError(t, err)

	assert.Equal(t, "INV-WH-LA-20240316-20240415", invoice.InvoiceNumber)
	assert.Equal(t, InvoiceStatusDraft, invoice.Status)
	assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromFloat(205.00)))
	require.Len(t, invoice.LineItems, 2)
	assert.Equal(t, invoice.ID, invoice.LineItems[0].InvoiceID)
	assert.True(t, invoice.IsEditable())
}

func TestNewInvoiceFromSummary_EmptySummary(t *testing.T) {
	invoice, err := NewInvoiceFromSummary(uuid.New(), "WH-1", BillingPeriodStarting(2024, time.March, time.UTC), nil)
	require.NoError(t, err)
	assert.True(t, invoice.TotalAmount.IsZero())
	assert.Empty(t, invoice.LineItems)
}

func TestInvoice_Lifecycle(t *testing.T) {
	invoice, err := NewInvoiceFromSummary(uuid.New(), "WH-1", BillingPeriodStarting(2024, time.March, time.UTC), nil)
	require.NoError(t, err)

	require.NoError(t, invoice.Finalize())
	assert.Equal(t, InvoiceStatusFinalized, invoice.Status)
	assert.NotNil(t, invoice.IssuedAt)
	assert.False(t, invoice.IsEditable())

	// Double finalize is rejected
	assert.Error(t, invoice.Finalize())

	require.NoError(t, invoice.MarkPaid())
	assert.Equal(t, InvoiceStatusPaid, invoice.Status)
	assert.NotNil(t, invoice.PaidAt)

	// Paid invoices cannot be voided
	assert.Error(t, invoice.Void())
}

func TestInvoice_VoidDraft(t *testing.T) {
	invoice, err := NewInvoiceFromSummary(uuid.New(), "WH-1", BillingPeriodStarting(2024, time.March, time.UTC), nil)
	require.NoError(t, err)

	require.NoError(t, invoice.Void())
	assert.Equal(t, InvoiceStatusVoided, invoice.Status)

	// Voided invoices cannot be paid
	assert.Error(t, invoice.MarkPaid())
}
