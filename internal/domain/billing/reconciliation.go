package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationStatus classifies one invoice line against the expected costs
type ReconciliationStatus string

const (
	// ReconciliationStatusMatched means invoiced and expected agree within tolerance
	ReconciliationStatusMatched ReconciliationStatus = "matched"
	// ReconciliationStatusVariance means both sides exist but the amounts differ
	ReconciliationStatusVariance ReconciliationStatus = "variance"
	// ReconciliationStatusUnmatched means the invoice carries a charge with no expected cost
	ReconciliationStatusUnmatched ReconciliationStatus = "unmatched"
	// ReconciliationStatusMissing means an expected cost is absent from the invoice
	ReconciliationStatusMissing ReconciliationStatus = "missing"
)

// reconciliationTolerance absorbs rounding noise: differences of at most one
// cent still count as matched.
var reconciliationTolerance = decimal.NewFromFloat(0.01)

// ReconciliationItem is one (category, name) comparison between the invoice
// and the recalculated expected costs. Difference is invoiced minus expected,
// so overbilling is positive.
type ReconciliationItem struct {
	CostCategory     CostCategory         `json:"cost_category"`
	CostName         string               `json:"cost_name"`
	ExpectedQuantity decimal.Decimal      `json:"expected_quantity"`
	InvoicedQuantity decimal.Decimal      `json:"invoiced_quantity"`
	ExpectedAmount   decimal.Decimal      `json:"expected_amount"`
	InvoicedAmount   decimal.Decimal      `json:"invoiced_amount"`
	UnitRate         decimal.Decimal      `json:"unit_rate"`
	Difference       decimal.Decimal      `json:"difference"`
	Status           ReconciliationStatus `json:"status"`
}

// ReconciliationSummary aggregates a report's items
type ReconciliationSummary struct {
	TotalExpected  decimal.Decimal `json:"total_expected"`
	TotalInvoiced  decimal.Decimal `json:"total_invoiced"`
	TotalVariance  decimal.Decimal `json:"total_variance"`
	MatchedCount   int             `json:"matched_count"`
	VarianceCount  int             `json:"variance_count"`
	UnmatchedCount int             `json:"unmatched_count"`
	MissingCount   int             `json:"missing_count"`
}

// Clean reports whether every item matched
func (s ReconciliationSummary) Clean() bool {
	return s.VarianceCount == 0 && s.UnmatchedCount == 0 && s.MissingCount == 0
}

// ReconciliationReport is the full comparison of one invoice against the
// costs recalculated for its billing period.
type ReconciliationReport struct {
	InvoiceID     uuid.UUID             `json:"invoice_id"`
	InvoiceNumber string                `json:"invoice_number"`
	Items         []ReconciliationItem  `json:"items"`
	Summary       ReconciliationSummary `json:"summary"`
}

// ReconcileInvoice matches the invoice's line items against the expected cost
// summary by (category, name). Invoice lines come first in their stored
// order, then expected costs the invoice is missing. The comparison is pure;
// nothing is persisted, so a report can be rerun as data changes.
func ReconcileInvoice(invoice *Invoice, expected []CostCategorySummary) *ReconciliationReport {
	report := &ReconciliationReport{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		Items:         []ReconciliationItem{},
		Summary: ReconciliationSummary{
			TotalExpected: decimal.Zero,
			TotalInvoiced: decimal.Zero,
			TotalVariance: decimal.Zero,
		},
	}

	remaining := make(map[string]CostCategorySummary, len(expected))
	for _, e := range expected {
		remaining[string(e.CostCategory)+"|"+e.CostName] = e
	}

	for _, line := range invoice.LineItems {
		key := string(line.CostCategory) + "|" + line.CostName
		if e, ok := remaining[key]; ok {
			delete(remaining, key)
			diff := line.Amount.Sub(e.TotalAmount)
			status := ReconciliationStatusVariance
			if diff.Abs().LessThanOrEqual(reconciliationTolerance) {
				status = ReconciliationStatusMatched
			}
			report.add(ReconciliationItem{
				CostCategory:     line.CostCategory,
				CostName:         line.CostName,
				ExpectedQuantity: e.TotalQuantity,
				InvoicedQuantity: line.Quantity,
				ExpectedAmount:   e.TotalAmount,
				InvoicedAmount:   line.Amount,
				UnitRate:         line.UnitRate,
				Difference:       diff,
				Status:           status,
			})
			continue
		}

		report.add(ReconciliationItem{
			CostCategory:     line.CostCategory,
			CostName:         line.CostName,
			ExpectedQuantity: decimal.Zero,
			InvoicedQuantity: line.Quantity,
			ExpectedAmount:   decimal.Zero,
			InvoicedAmount:   line.Amount,
			UnitRate:         line.UnitRate,
			Difference:       line.Amount,
			Status:           ReconciliationStatusUnmatched,
		})
	}

	// Expected costs the invoice never billed, in summary order
	for _, e := range expected {
		if _, ok := remaining[string(e.CostCategory)+"|"+e.CostName]; !ok {
			continue
		}
		report.add(ReconciliationItem{
			CostCategory:     e.CostCategory,
			CostName:         e.CostName,
			ExpectedQuantity: e.TotalQuantity,
			InvoicedQuantity: decimal.Zero,
			ExpectedAmount:   e.TotalAmount,
			InvoicedAmount:   decimal.Zero,
			UnitRate:         e.UnitRate,
			Difference:       e.TotalAmount.Neg(),
			Status:           ReconciliationStatusMissing,
		})
	}

	return report
}

func (r *ReconciliationReport) add(item ReconciliationItem) {
	r.Items = append(r.Items, item)
	r.Summary.TotalExpected = r.Summary.TotalExpected.Add(item.ExpectedAmount)
	r.Summary.TotalInvoiced = r.Summary.TotalInvoiced.Add(item.InvoicedAmount)
	r.Summary.TotalVariance = r.Summary.TotalVariance.Add(item.Difference.Abs())

	switch item.Status {
	case ReconciliationStatusMatched:
		r.Summary.MatchedCount++
	case ReconciliationStatusVariance:
		r.Summary.VarianceCount++
	case ReconciliationStatusUnmatched:
		r.Summary.UnmatchedCount++
	case ReconciliationStatusMissing:
		r.Summary.MissingCount++
	}
}
