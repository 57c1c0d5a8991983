package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

type mockSkuRepository struct {
	mock.Mock
}

func (m *mockSkuRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Sku, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Sku), args.Error(1)
}

func (m *mockSkuRepository) FindByCode(ctx context.Context, skuCode string) (*catalog.Sku, error) {
	args := m.Called(ctx, skuCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Sku), args.Error(1)
}

func (m *mockSkuRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Sku, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Sku), args.Error(1)
}

func (m *mockSkuRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSkuRepository) Save(ctx context.Context, sku *catalog.Sku) error {
	args := m.Called(ctx, sku)
	return args.Error(0)
}

func (m *mockSkuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateSku(t *testing.T) {
	t.Run("creates a sku with pallet config", func(t *testing.T) {
		repo := new(mockSkuRepository)
		repo.On("FindByCode", mock.Anything, "WIDGET-12").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Sku")).Return(nil)

		svc := NewSkuService(repo, zap.NewNop())
		sku, err := svc.CreateSku(context.Background(), CreateSkuRequest{
			SkuCode:                 "WIDGET-12",
			Description:             "Widget, 12 pack",
			UnitsPerCarton:          12,
			StorageCartonsPerPallet: 48,
		})

		require.NoError(t, err)
		assert.Equal(t, "WIDGET-12", sku.SkuCode)
		assert.Equal(t, 48, sku.StorageCartonsPerPallet)
		assert.True(t, sku.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		existing, err := catalog.NewSku("WIDGET-12", "Widget", 12)
		require.NoError(t, err)

		repo := new(mockSkuRepository)
		repo.On("FindByCode", mock.Anything, "WIDGET-12").Return(existing, nil)

		svc := NewSkuService(repo, zap.NewNop())
		_, err = svc.CreateSku(context.Background(), CreateSkuRequest{
			SkuCode:        "WIDGET-12",
			UnitsPerCarton: 12,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_SKU_CODE", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUpdateSku(t *testing.T) {
	sku, err := catalog.NewSku("WIDGET-12", "Widget", 12)
	require.NoError(t, err)

	t.Run("updates fields and deactivates", func(t *testing.T) {
		repo := new(mockSkuRepository)
		repo.On("FindByID", mock.Anything, sku.ID).Return(sku, nil)
		repo.On("Save", mock.Anything, sku).Return(nil)

		inactive := false
		perPallet := 60
		svc := NewSkuService(repo, zap.NewNop())
		updated, err := svc.UpdateSku(context.Background(), sku.ID, UpdateSkuRequest{
			StorageCartonsPerPallet: &perPallet,
			IsActive:                &inactive,
		})

		require.NoError(t, err)
		assert.Equal(t, 60, updated.StorageCartonsPerPallet)
		assert.False(t, updated.IsActive)
	})

	t.Run("non-positive units per carton is rejected", func(t *testing.T) {
		repo := new(mockSkuRepository)
		repo.On("FindByID", mock.Anything, sku.ID).Return(sku, nil)

		zero := 0
		svc := NewSkuService(repo, zap.NewNop())
		_, err := svc.UpdateSku(context.Background(), sku.ID, UpdateSkuRequest{UnitsPerCarton: &zero})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_UNITS_PER_CARTON", domainErr.Code)
	})
}

func TestListSkus(t *testing.T) {
	a, err := catalog.NewSku("WIDGET-12", "Widget", 12)
	require.NoError(t, err)

	filter := shared.Filter{Page: 1, PageSize: 20}
	repo := new(mockSkuRepository)
	repo.On("FindAll", mock.Anything, filter).Return([]catalog.Sku{*a}, nil)
	repo.On("Count", mock.Anything, filter).Return(int64(1), nil)

	svc := NewSkuService(repo, zap.NewNop())
	skus, total, err := svc.ListSkus(context.Background(), filter)

	require.NoError(t, err)
	assert.Len(t, skus, 1)
	assert.Equal(t, int64(1), total)
}
