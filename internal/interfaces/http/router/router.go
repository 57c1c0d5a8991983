// Package router assembles the gin engine: middleware stack, health
// endpoints and the versioned API routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// Dependencies carries everything the router needs to wire routes
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *persistence.Database
	JWTService *auth.JWTService

	WarehouseHandler *handler.WarehouseHandler
	SkuHandler       *handler.SkuHandler
	InventoryHandler *handler.InventoryHandler
	BillingHandler   *handler.BillingHandler
	SystemHandler    *handler.SystemHandler
}

// New builds the gin engine with the full middleware stack and all routes
// registered.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID first so recovery and logging can tag
	// their output, tracing after logging so spans carry the request ID,
	// auth last.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))

	// Health endpoints sit outside API versioning and authentication
	engine.GET("/health", healthHandler(deps.DB))
	engine.GET("/ready", healthHandler(deps.DB))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: deps.JWTService,
		SkipPaths: []string{
			"/health",
			"/ready",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
	}

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	registerWarehouseRoutes(api, deps)
	registerSkuRoutes(api, deps.SkuHandler)
	registerInventoryRoutes(api, deps.InventoryHandler)
	registerBillingRoutes(api, deps.BillingHandler)
	registerSystemRoutes(api, deps.SystemHandler)

	return engine
}

func registerWarehouseRoutes(api *gin.RouterGroup, deps Dependencies) {
	wh := deps.WarehouseHandler
	inv := deps.InventoryHandler
	bill := deps.BillingHandler

	api.POST("/warehouses", wh.CreateWarehouse)
	api.GET("/warehouses", wh.ListWarehouses)
	api.GET("/warehouses/:id", wh.GetWarehouse)
	api.PUT("/warehouses/:id", wh.UpdateWarehouse)
	api.POST("/warehouses/:id/activate", wh.ActivateWarehouse)
	api.POST("/warehouses/:id/deactivate", wh.DeactivateWarehouse)

	// Warehouse-scoped billing and inventory views
	api.GET("/warehouses/:id/rates", bill.ListWarehouseRates)
	api.GET("/warehouses/:id/balances", inv.GetBalances)
	api.GET("/warehouses/:id/costs", bill.GetAllCosts)
	api.GET("/warehouses/:id/costs/storage", bill.GetStorageCosts)
	api.GET("/warehouses/:id/costs/transactions", bill.GetTransactionCosts)
	api.GET("/warehouses/:id/costs/summary", bill.GetCostSummary)
	api.GET("/warehouses/:id/ledger", bill.GetLedger)
	api.POST("/warehouses/:id/ledger/generate", bill.GenerateLedger)
	api.POST("/warehouses/:id/invoices", bill.GenerateInvoice)
}

func registerSkuRoutes(api *gin.RouterGroup, h *handler.SkuHandler) {
	api.POST("/skus", h.CreateSku)
	api.GET("/skus", h.ListSkus)
	api.GET("/skus/:id", h.GetSku)
	api.PUT("/skus/:id", h.UpdateSku)
}

func registerInventoryRoutes(api *gin.RouterGroup, h *handler.InventoryHandler) {
	api.POST("/transactions", h.RecordTransaction)
	api.GET("/transactions", h.ListTransactions)
	api.GET("/transactions/:id", h.GetTransaction)
}

func registerBillingRoutes(api *gin.RouterGroup, h *handler.BillingHandler) {
	api.POST("/rates", h.CreateRate)
	api.GET("/rates/:id", h.GetRate)
	api.PUT("/rates/:id", h.UpdateRate)
	api.DELETE("/rates/:id", h.DeleteRate)

	api.GET("/invoices", h.ListInvoices)
	api.GET("/invoices/:id", h.GetInvoice)
	api.GET("/invoices/:id/reconciliation", h.ReconcileInvoice)
	api.POST("/invoices/:id/finalize", h.FinalizeInvoice)
	api.POST("/invoices/:id/pay", h.PayInvoice)
	api.POST("/invoices/:id/void", h.VoidInvoice)
}

func registerSystemRoutes(api *gin.RouterGroup, h *handler.SystemHandler) {
	api.GET("/system/info", h.GetSystemInfo)
	api.GET("/system/ping", h.Ping)
	api.GET("/system/db/stats", h.GetDBStats)
	api.GET("/system/scheduler/status", h.GetSchedulerStatus)
	api.POST("/system/scheduler/run", h.TriggerSnapshotRun)
}

// healthHandler reports liveness with a database ping
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
