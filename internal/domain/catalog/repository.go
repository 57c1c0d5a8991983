package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// SkuRepository defines the persistence interface for SKUs
type SkuRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sku, error)
	FindByCode(ctx context.Context, skuCode string) (*Sku, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sku, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, sku *Sku) error
	Delete(ctx context.Context, id uuid.UUID) error
}
