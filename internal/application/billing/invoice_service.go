package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// InvoiceService turns a billing period's cost summary into invoices and
// walks them through their lifecycle.
type InvoiceService struct {
	warehouseRepo partner.WarehouseRepository
	invoiceRepo   billing.InvoiceRepository
	costService   *CostAggregationService
	logger        *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	warehouseRepo partner.WarehouseRepository,
	invoiceRepo billing.InvoiceRepository,
	costService *CostAggregationService,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		warehouseRepo: warehouseRepo,
		invoiceRepo:   invoiceRepo,
		costService:   costService,
		logger:        logger,
	}
}

// GenerateInvoice builds a draft invoice for the warehouse and period from
// the current cost summary. An existing draft for the same period is
// replaced; a finalized or paid invoice blocks regeneration.
func (s *InvoiceService) GenerateInvoice(
	ctx context.Context,
	warehouseID uuid.UUID,
	period billing.BillingPeriod,
) (*billing.Invoice, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	existing, err := s.invoiceRepo.FindByWarehouseAndPeriod(ctx, warehouseID, period)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil && !existing.IsEditable() {
		return nil, shared.NewDomainError("INVOICE_LOCKED",
			"An invoice for this period has already been finalized")
	}

	summaries, err := s.costService.GetCalculatedCostsSummary(ctx, warehouseID, period)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoiceFromSummary(warehouse.ID, warehouse.Code, period, summaries)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if err := s.invoiceRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("invoice generated",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("warehouse_id", warehouseID.String()),
		zap.String("total", invoice.TotalAmount.String()))

	return invoice, nil
}

// GetInvoice returns one invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceRepo.FindByID(ctx, id)
}

// ListInvoices returns invoices matching the filter with the total count
func (s *InvoiceService) ListInvoices(ctx context.Context, filter shared.Filter) ([]billing.Invoice, int64, error) {
	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// ReconcileInvoice recalculates the expected costs for the invoice's billing
// period and matches them against the invoice's line items. The report is not
// persisted; rerunning it reflects whatever the ledger and transaction log
// hold now.
func (s *InvoiceService) ReconcileInvoice(ctx context.Context, id uuid.UUID) (*billing.ReconciliationReport, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == billing.InvoiceStatusVoided {
		return nil, shared.NewDomainError("INVALID_STATUS", "Voided invoices cannot be reconciled")
	}

	period := billing.BillingPeriod{Start: invoice.BillingPeriodStart, End: invoice.BillingPeriodEnd}
	expected, err := s.costService.GetCalculatedCostsSummary(ctx, invoice.WarehouseID, period)
	if err != nil {
		return nil, err
	}

	report := billing.ReconcileInvoice(invoice, expected)

	s.logger.Info("invoice reconciled",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Int("matched", report.Summary.MatchedCount),
		zap.Int("variances", report.Summary.VarianceCount),
		zap.Int("unmatched", report.Summary.UnmatchedCount),
		zap.Int("missing", report.Summary.MissingCount))

	return report, nil
}

// FinalizeInvoice locks a draft invoice for issuing
func (s *InvoiceService) FinalizeInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.Finalize(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// MarkInvoicePaid records payment against a finalized invoice
func (s *InvoiceService) MarkInvoicePaid(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// VoidInvoice cancels an unpaid invoice
func (s *InvoiceService) VoidInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.Void(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}
