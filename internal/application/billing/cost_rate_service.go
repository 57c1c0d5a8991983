package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// CostRateService manages the per-warehouse rate cards. Writes invalidate
// the warehouse's cached rate card so the next aggregation sees fresh rates.
type CostRateService struct {
	warehouseRepo partner.WarehouseRepository
	rateRepo      billing.CostRateRepository
	rateCache     RateCardCache
	logger        *zap.Logger
}

// NewCostRateService creates a new CostRateService. rateCache may be nil.
func NewCostRateService(
	warehouseRepo partner.WarehouseRepository,
	rateRepo billing.CostRateRepository,
	rateCache RateCardCache,
	logger *zap.Logger,
) *CostRateService {
	return &CostRateService{
		warehouseRepo: warehouseRepo,
		rateRepo:      rateRepo,
		rateCache:     rateCache,
		logger:        logger,
	}
}

// CreateRateRequest carries the fields for a new cost rate
type CreateRateRequest struct {
	WarehouseID   uuid.UUID       `json:"warehouse_id" binding:"required"`
	CostCategory  string          `json:"cost_category" binding:"required"`
	CostName      string          `json:"cost_name" binding:"required"`
	CostValue     decimal.Decimal `json:"cost_value" binding:"required"`
	UnitOfMeasure string          `json:"unit_of_measure" binding:"required"`
	EffectiveDate time.Time       `json:"effective_date" binding:"required"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
}

// CreateRate adds a rate to a warehouse's rate card
func (s *CostRateService) CreateRate(ctx context.Context, req CreateRateRequest) (*billing.CostRate, error) {
	if _, err := s.warehouseRepo.FindByID(ctx, req.WarehouseID); err != nil {
		return nil, err
	}

	rate, err := billing.NewCostRate(
		req.WarehouseID,
		billing.CostCategory(req.CostCategory),
		req.CostName,
		req.CostValue,
		req.UnitOfMeasure,
		req.EffectiveDate,
	)
	if err != nil {
		return nil, err
	}
	if req.EndDate != nil {
		if !req.EndDate.After(req.EffectiveDate) {
			return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date must be after effective date")
		}
		rate.WithEndDate(*req.EndDate)
	}

	if err := s.rateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.WarehouseID)
	return rate, nil
}

// UpdateRateRequest carries the updatable fields of a cost rate
type UpdateRateRequest struct {
	CostName      *string          `json:"cost_name,omitempty"`
	CostValue     *decimal.Decimal `json:"cost_value,omitempty"`
	UnitOfMeasure *string          `json:"unit_of_measure,omitempty"`
	EffectiveDate *time.Time       `json:"effective_date,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
}

// UpdateRate modifies an existing rate
func (s *CostRateService) UpdateRate(ctx context.Context, id uuid.UUID, req UpdateRateRequest) (*billing.CostRate, error) {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CostName != nil {
		if *req.CostName == "" {
			return nil, shared.NewDomainError("INVALID_COST_NAME", "Cost name cannot be empty")
		}
		rate.CostName = *req.CostName
	}
	if req.CostValue != nil {
		if req.CostValue.IsNegative() {
			return nil, shared.NewDomainError("INVALID_COST_VALUE", "Cost value cannot be negative")
		}
		rate.CostValue = *req.CostValue
	}
	if req.UnitOfMeasure != nil {
		rate.UnitOfMeasure = *req.UnitOfMeasure
	}
	if req.EffectiveDate != nil {
		rate.EffectiveDate = *req.EffectiveDate
	}
	if req.EndDate != nil {
		rate.EndDate = req.EndDate
	}
	if rate.EndDate != nil && !rate.EndDate.After(rate.EffectiveDate) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date must be after effective date")
	}

	if err := s.rateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}
	s.invalidate(ctx, rate.WarehouseID)
	return rate, nil
}

// DeleteRate removes a rate from the card
func (s *CostRateService) DeleteRate(ctx context.Context, id uuid.UUID) error {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.rateRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, rate.WarehouseID)
	return nil
}

// GetRate returns one rate by ID
func (s *CostRateService) GetRate(ctx context.Context, id uuid.UUID) (*billing.CostRate, error) {
	return s.rateRepo.FindByID(ctx, id)
}

// ListRatesForWarehouse returns a warehouse's full rate card
func (s *CostRateService) ListRatesForWarehouse(ctx context.Context, warehouseID uuid.UUID) (billing.RateCard, error) {
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.rateRepo.FindByWarehouse(ctx, warehouseID)
}

func (s *CostRateService) invalidate(ctx context.Context, warehouseID uuid.UUID) {
	if s.rateCache == nil {
		return
	}
	if err := s.rateCache.Invalidate(ctx, warehouseID); err != nil {
		s.logger.Warn("rate card cache invalidation failed",
			zap.String("warehouse_id", warehouseID.String()), zap.Error(err))
	}
}
