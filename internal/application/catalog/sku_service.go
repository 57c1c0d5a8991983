package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

// SkuService provides application-level SKU operations
type SkuService struct {
	skuRepo catalog.SkuRepository
	logger  *zap.Logger
}

// NewSkuService creates a new SkuService
func NewSkuService(skuRepo catalog.SkuRepository, logger *zap.Logger) *SkuService {
	return &SkuService{skuRepo: skuRepo, logger: logger}
}

// CreateSkuRequest carries the fields for a new SKU
type CreateSkuRequest struct {
	SkuCode                  string `json:"sku_code" binding:"required"`
	Description              string `json:"description,omitempty"`
	UnitsPerCarton           int    `json:"units_per_carton" binding:"required,min=1"`
	CartonDimensionsCm       string `json:"carton_dimensions_cm,omitempty"`
	StorageCartonsPerPallet  int    `json:"storage_cartons_per_pallet,omitempty" binding:"omitempty,min=1"`
	ShippingCartonsPerPallet int    `json:"shipping_cartons_per_pallet,omitempty" binding:"omitempty,min=1"`
}

// CreateSku registers a new SKU
func (s *SkuService) CreateSku(ctx context.Context, req CreateSkuRequest) (*catalog.Sku, error) {
	existing, err := s.skuRepo.FindByCode(ctx, req.SkuCode)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_SKU_CODE", "A SKU with this code already exists")
	}

	sku, err := catalog.NewSku(req.SkuCode, req.Description, req.UnitsPerCarton)
	if err != nil {
		return nil, err
	}
	sku.CartonDimensionsCm = req.CartonDimensionsCm
	sku.StorageCartonsPerPallet = req.StorageCartonsPerPallet
	sku.ShippingCartonsPerPallet = req.ShippingCartonsPerPallet

	if err := s.skuRepo.Save(ctx, sku); err != nil {
		return nil, err
	}

	s.logger.Info("sku created",
		zap.String("sku_id", sku.ID.String()),
		zap.String("sku_code", sku.SkuCode))

	return sku, nil
}

// UpdateSkuRequest carries the updatable fields of a SKU
type UpdateSkuRequest struct {
	Description              *string `json:"description,omitempty"`
	UnitsPerCarton           *int    `json:"units_per_carton,omitempty" binding:"omitempty,min=1"`
	CartonDimensionsCm       *string `json:"carton_dimensions_cm,omitempty"`
	StorageCartonsPerPallet  *int    `json:"storage_cartons_per_pallet,omitempty" binding:"omitempty,min=1"`
	ShippingCartonsPerPallet *int    `json:"shipping_cartons_per_pallet,omitempty" binding:"omitempty,min=1"`
	IsActive                 *bool   `json:"is_active,omitempty"`
}

// UpdateSku modifies an existing SKU
func (s *SkuService) UpdateSku(ctx context.Context, id uuid.UUID, req UpdateSkuRequest) (*catalog.Sku, error) {
	sku, err := s.skuRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		sku.Description = *req.Description
	}
	if req.UnitsPerCarton != nil {
		if *req.UnitsPerCarton <= 0 {
			return nil, shared.NewDomainError("INVALID_UNITS_PER_CARTON", "Units per carton must be positive")
		}
		sku.UnitsPerCarton = *req.UnitsPerCarton
	}
	if req.CartonDimensionsCm != nil {
		sku.CartonDimensionsCm = *req.CartonDimensionsCm
	}
	if req.StorageCartonsPerPallet != nil {
		sku.StorageCartonsPerPallet = *req.StorageCartonsPerPallet
	}
	if req.ShippingCartonsPerPallet != nil {
		sku.ShippingCartonsPerPallet = *req.ShippingCartonsPerPallet
	}
	if req.IsActive != nil {
		sku.IsActive = *req.IsActive
	}

	if err := s.skuRepo.Save(ctx, sku); err != nil {
		return nil, err
	}
	return sku, nil
}

// GetSku returns one SKU by ID
func (s *SkuService) GetSku(ctx context.Context, id uuid.UUID) (*catalog.Sku, error) {
	return s.skuRepo.FindByID(ctx, id)
}

// ListSkus returns SKUs matching the filter with total count
func (s *SkuService) ListSkus(ctx context.Context, filter shared.Filter) ([]catalog.Sku, int64, error) {
	skus, err := s.skuRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.skuRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return skus, total, nil
}
