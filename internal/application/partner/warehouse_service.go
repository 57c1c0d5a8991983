package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// WarehouseService provides application-level warehouse operations
type WarehouseService struct {
	warehouseRepo partner.WarehouseRepository
	logger        *zap.Logger
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(warehouseRepo partner.WarehouseRepository, logger *zap.Logger) *WarehouseService {
	return &WarehouseService{warehouseRepo: warehouseRepo, logger: logger}
}

// CreateWarehouseRequest carries the fields for a new warehouse
type CreateWarehouseRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required"`
	ContactName string `json:"contact_name,omitempty"`
	Email       string `json:"email,omitempty" binding:"omitempty,email"`
	Address     string `json:"address,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// CreateWarehouse registers a new warehouse
func (s *WarehouseService) CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (*partner.Warehouse, error) {
	existing, err := s.warehouseRepo.FindByCode(ctx, req.Code)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A warehouse with this code already exists")
	}

	warehouse, err := partner.NewWarehouse(req.Code, req.Name, partner.WarehouseType(req.Type))
	if err != nil {
		return nil, err
	}
	warehouse.ContactName = req.ContactName
	warehouse.Email = req.Email
	warehouse.Address = req.Address
	warehouse.Notes = req.Notes

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	s.logger.Info("warehouse created",
		zap.String("warehouse_id", warehouse.ID.String()),
		zap.String("code", warehouse.Code))

	return warehouse, nil
}

// UpdateWarehouseRequest carries the updatable fields of a warehouse
type UpdateWarehouseRequest struct {
	Name        *string `json:"name,omitempty"`
	ContactName *string `json:"contact_name,omitempty"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Address     *string `json:"address,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// UpdateWarehouse modifies warehouse contact details
func (s *WarehouseService) UpdateWarehouse(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*partner.Warehouse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
		}
		warehouse.Name = *req.Name
	}
	if req.ContactName != nil {
		warehouse.ContactName = *req.ContactName
	}
	if req.Email != nil {
		warehouse.Email = *req.Email
	}
	if req.Address != nil {
		warehouse.Address = *req.Address
	}
	if req.Notes != nil {
		warehouse.Notes = *req.Notes
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// GetWarehouse returns one warehouse by ID
func (s *WarehouseService) GetWarehouse(ctx context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	return s.warehouseRepo.FindByID(ctx, id)
}

// ListWarehouses returns warehouses matching the filter with total count
func (s *WarehouseService) ListWarehouses(ctx context.Context, filter shared.Filter) ([]partner.Warehouse, int64, error) {
	warehouses, err := s.warehouseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.warehouseRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return warehouses, total, nil
}

// DeactivateWarehouse marks a warehouse inactive; history is kept
func (s *WarehouseService) DeactivateWarehouse(ctx context.Context, id uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	warehouse.Disable()
	return s.warehouseRepo.Save(ctx, warehouse)
}

// ActivateWarehouse reactivates a warehouse
func (s *WarehouseService) ActivateWarehouse(ctx context.Context, id uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	warehouse.Enable()
	return s.warehouseRepo.Save(ctx, warehouse)
}
