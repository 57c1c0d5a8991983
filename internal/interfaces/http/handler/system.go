package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/scheduler"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// SystemHandler handles system-level endpoints: liveness, readiness,
// database stats and the snapshot scheduler controls.
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	scheduler *scheduler.SnapshotScheduler
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. scheduler may be nil when
// scheduled snapshot generation is disabled.
func NewSystemHandler(db *persistence.Database, snapshotScheduler *scheduler.SnapshotScheduler) *SystemHandler {
	return &SystemHandler{
		db:        db,
		scheduler: snapshotScheduler,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo handles GET /api/v1/system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "WMS Billing API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// Ping handles GET /api/v1/system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message":   "pong",
		"timestamp": time.Now().Format(time.RFC3339),
	}))
}

// GetDBStats handles GET /api/v1/system/db/stats
func (h *SystemHandler) GetDBStats(c *gin.Context) {
	stats, err := h.db.Stats()
	if err != nil {
		h.InternalError(c, "Failed to read database stats")
		return
	}
	h.Success(c, stats)
}

// GetSchedulerStatus handles GET /api/v1/system/scheduler/status
func (h *SystemHandler) GetSchedulerStatus(c *gin.Context) {
	if h.scheduler == nil {
		h.Success(c, gin.H{"enabled": false})
		return
	}
	h.Success(c, h.scheduler.GetStatus())
}

// TriggerSnapshotRun handles POST /api/v1/system/scheduler/run
func (h *SystemHandler) TriggerSnapshotRun(c *gin.Context) {
	if h.scheduler == nil {
		h.BadRequest(c, "Snapshot scheduler is not enabled")
		return
	}
	if err := h.scheduler.TriggerManualRun(); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Snapshot generation triggered"})
}
