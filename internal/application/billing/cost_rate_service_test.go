package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/shared"
)

func newTestRateService(warehouseRepo *mockWarehouseRepository, rateRepo *mockCostRateRepository, cache RateCardCache) *CostRateService {
	return NewCostRateService(warehouseRepo, rateRepo, cache, zap.NewNop())
}

func TestCreateRate(t *testing.T) {
	warehouse := testWarehouse(t)

	validRequest := func() CreateRateRequest {
		return CreateRateRequest{
			WarehouseID:   warehouse.ID,
			CostCategory:  "Storage",
			CostName:      "Weekly Pallet Storage",
			CostValue:     decimal.NewFromFloat(5.50),
			UnitOfMeasure: "pallet/week",
			EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("creates and invalidates the rate card cache", func(t *testing.T) {
		warehouseRepo := new(mockWarehouseRepository)
		rateRepo := new(mockCostRateRepository)
		cache := new(mockRateCardCache)
		warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)
		rateRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.CostRate")).Return(nil)
		cache.On("Invalidate", mock.Anything, warehouse.ID).Return(nil)

		svc := newTestRateService(warehouseRepo, rateRepo, cache)
		rate, err := svc.CreateRate(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, billing.CostCategoryStorage, rate.CostCategory)
		assert.True(t, rate.CostValue.Equal(decimal.NewFromFloat(5.50)))
		rateRepo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("unknown warehouse fails", func(t *testing.T) {
		warehouseRepo := new(mockWarehouseRepository)
		rateRepo := new(mockCostRateRepository)
		warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(nil, shared.ErrNotFound)

		svc := newTestRateService(warehouseRepo, rateRepo, nil)
		_, err := svc.CreateRate(context.Background(), validRequest())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		rateRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown category fails", func(t *testing.T) {
		warehouseRepo := new(mockWarehouseRepository)
		rateRepo := new(mockCostRateRepository)
		warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)

		req := validRequest()
		req.CostCategory = "Freight"

		svc := newTestRateService(warehouseRepo, rateRepo, nil)
		_, err := svc.CreateRate(context.Background(), req)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_COST_CATEGORY", domainErr.Code)
	})

	t.Run("end date before effective date fails", func(t *testing.T) {
		warehouseRepo := new(mockWarehouseRepository)
		rateRepo := new(mockCostRateRepository)
		warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)

		req := validRequest()
		endDate := req.EffectiveDate.AddDate(0, 0, -1)
		req.EndDate = &endDate

		svc := newTestRateService(warehouseRepo, rateRepo, nil)
		_, err := svc.CreateRate(context.Background(), req)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DATE_RANGE", domainErr.Code)
	})
}

func TestUpdateRate(t *testing.T) {
	warehouse := testWarehouse(t)

	t.Run("updates value and invalidates cache", func(t *testing.T) {
		existing := testRate(t, warehouse.ID, billing.CostCategoryCarton, "Outbound Carton Handling", 1.25)

		warehouseRepo := new(mockWarehouseRepository)
		rateRepo := new(mockCostRateRepository)
		cache := new(mockRateCardCache)
		rateRepo.On("FindByID", mock.Anything, existing.ID).Return(&existing, nil)
		rateRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.CostRate")).Return(nil)
		cache.On("Invalidate", mock.Anything, warehouse.ID).Return(nil)

		newValue := decimal.NewFromFloat(1.50)
		svc := newTestRateService(warehouseRepo, rateRepo, cache)
		updated, err := svc.UpdateRate(context.Background(), existing.ID, UpdateRateRequest{CostValue: &newValue})

		require.NoError(t, err)
		assert.True(t, updated.CostValue.Equal(newValue))
		cache.AssertExpectations(t)
	})

	t.Run("negative value fails", func(t *testing.T) {
		existing := testRate(t, warehouse.ID, billing.CostCategoryCarton, "Outbound Carton Handling", 1.25)

		warehouseRepo := new(mockWarehouseRepository)
		rateRepo := new(mockCostRateRepository)
		rateRepo.On("FindByID", mock.Anything, existing.ID).Return(&existing, nil)

		negative := decimal.NewFromFloat(-1)
		svc := newTestRateService(warehouseRepo, rateRepo, nil)
		_, err := svc.UpdateRate(context.Background(), existing.ID, UpdateRateRequest{CostValue: &negative})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_COST_VALUE", domainErr.Code)
		rateRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestDeleteRate(t *testing.T) {
	warehouse := testWarehouse(t)
	existing := testRate(t, warehouse.ID, billing.CostCategoryShipment, "Outbound Shipment Fee", 3.00)

	warehouseRepo := new(mockWarehouseRepository)
	rateRepo := new(mockCostRateRepository)
	cache := new(mockRateCardCache)
	rateRepo.On("FindByID", mock.Anything, existing.ID).Return(&existing, nil)
	rateRepo.On("Delete", mock.Anything, existing.ID).Return(nil)
	cache.On("Invalidate", mock.Anything, warehouse.ID).Return(nil)

	svc := newTestRateService(warehouseRepo, rateRepo, cache)
	err := svc.DeleteRate(context.Background(), existing.ID)

	require.NoError(t, err)
	rateRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestListRatesForWarehouse(t *testing.T) {
	warehouse := testWarehouse(t)
	card := billing.RateCard{
		testRate(t, warehouse.ID, billing.CostCategoryStorage, "Weekly Pallet Storage", 5.00),
		testRate(t, warehouse.ID, billing.CostCategoryContainer, "Container Unload", 350.00),
	}

	warehouseRepo := new(mockWarehouseRepository)
	rateRepo := new(mockCostRateRepository)
	warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)
	rateRepo.On("FindByWarehouse", mock.Anything, warehouse.ID, mock.Anything).Return(card, nil)

	svc := newTestRateService(warehouseRepo, rateRepo, nil)
	got, err := svc.ListRatesForWarehouse(context.Background(), warehouse.ID)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}
