package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	appbilling "github.com/wms/backend/internal/application/billing"
	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/config"
)

// cronTickerInterval is the interval at which the scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// cronSpec is the parsed form of a "minute hour * * weekday" expression.
// Only the fields the snapshot job needs are supported.
type cronSpec struct {
	Minute  int
	Hour    int
	Weekday time.Weekday
}

// parseCronSchedule parses "minute hour * * weekday". The snapshot runs once
// a week, so day-of-month and month must be "*". Defaults to Tuesday 03:00.
func parseCronSchedule(expr string) (cronSpec, error) {
	spec := cronSpec{Minute: 0, Hour: 3, Weekday: time.Tuesday}
	if expr == "" {
		return spec, nil
	}

	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return spec, fmt.Errorf("%w: expected 5 cron fields, got %d", ErrInvalidConfig, len(parts))
	}
	if parts[2] != "*" || parts[3] != "*" {
		return spec, fmt.Errorf("%w: day-of-month and month must be '*'", ErrInvalidConfig)
	}

	var err error
	if spec.Minute, err = parseCronField(parts[0], 0, 59); err != nil {
		return spec, err
	}
	if spec.Hour, err = parseCronField(parts[1], 0, 23); err != nil {
		return spec, err
	}
	dow, err := parseCronField(parts[4], 0, 6)
	if err != nil {
		return spec, err
	}
	spec.Weekday = time.Weekday(dow)

	return spec, nil
}

func parseCronField(s string, min, max int) (int, error) {
	val := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: non-numeric cron field %q", ErrInvalidConfig, s)
		}
		val = val*10 + int(c-'0')
	}
	if val < min || val > max {
		return 0, fmt.Errorf("%w: cron field %q out of range [%d,%d]", ErrInvalidConfig, s, min, max)
	}
	return val, nil
}

// SnapshotScheduler runs the weekly storage ledger generation for every
// active warehouse. Generation is idempotent (ledger entries upsert on their
// natural key), so re-runs within the same week are harmless.
type SnapshotScheduler struct {
	spec          cronSpec
	jobTimeout    time.Duration
	enabled       bool
	warehouseRepo partner.WarehouseRepository
	ledgerService *appbilling.StorageLedgerService
	logger        *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewSnapshotScheduler creates a scheduler from the application configuration
func NewSnapshotScheduler(
	cfg config.SchedulerConfig,
	warehouseRepo partner.WarehouseRepository,
	ledgerService *appbilling.StorageLedgerService,
	logger *zap.Logger,
) (*SnapshotScheduler, error) {
	spec, err := parseCronSchedule(cfg.SnapshotCronSchedule)
	if err != nil {
		return nil, err
	}

	return &SnapshotScheduler{
		spec:          spec,
		jobTimeout:    cfg.JobTimeout,
		enabled:       cfg.Enabled,
		warehouseRepo: warehouseRepo,
		ledgerService: ledgerService,
		logger:        logger.Named("snapshot_scheduler"),
	}, nil
}

// Start starts the scheduler loop
func (s *SnapshotScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Snapshot scheduler started",
		zap.Int("hour", s.spec.Hour),
		zap.Int("minute", s.spec.Minute),
		zap.String("weekday", s.spec.Weekday.String()),
		zap.Timep("next_run_at", s.nextRunAt),
	)
	return nil
}

// Stop stops the scheduler and waits for an in-flight run to finish
func (s *SnapshotScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Snapshot scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Snapshot scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop checks once a minute whether the schedule has come due
func (s *SnapshotScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runSnapshotGeneration(ctx)
				s.calculateNextRunTime()
			}
		}
	}
}

func (s *SnapshotScheduler) shouldRun(now time.Time) bool {
	return now.Weekday() == s.spec.Weekday &&
		now.Hour() == s.spec.Hour &&
		now.Minute() == s.spec.Minute
}

func (s *SnapshotScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.spec.Hour, s.spec.Minute, 0, 0, now.Location())
	daysAhead := (int(s.spec.Weekday) - int(now.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, daysAhead)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runSnapshotGeneration regenerates the current billing period's storage
// ledger for every active warehouse
func (s *SnapshotScheduler) runSnapshotGeneration(ctx context.Context) {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	period := billing.BillingPeriodContaining(now)
	s.logger.Info("Starting weekly storage snapshot generation",
		zap.Time("period_start", period.Start),
		zap.Time("period_end", period.End),
	)

	runCtx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	warehouses, err := s.warehouseRepo.FindAll(runCtx, shared.Filter{
		Filters: map[string]any{"status": partner.WarehouseStatusActive},
	})
	if err != nil {
		s.logger.Error("Failed to fetch warehouses for snapshot generation", zap.Error(err))
		return
	}

	generated := 0
	for i := range warehouses {
		warehouse := &warehouses[i]
		count, err := s.ledgerService.GenerateForPeriod(runCtx, warehouse.ID, period)
		if err != nil {
			s.logger.Error("Snapshot generation failed for warehouse",
				zap.String("warehouse_code", warehouse.Code),
				zap.Error(err),
			)
			continue
		}
		generated += count
	}

	s.logger.Info("Weekly storage snapshot generation finished",
		zap.Int("warehouse_count", len(warehouses)),
		zap.Int("entries_generated", generated),
	)
}

// TriggerManualRun starts a snapshot run outside the schedule. Uses a
// background context so the run survives the triggering HTTP request.
func (s *SnapshotScheduler) TriggerManualRun() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runSnapshotGeneration(context.Background())
	return nil
}

// GetStatus returns the scheduler's current status
func (s *SnapshotScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":     s.enabled,
		"is_running":  s.isRunning,
		"weekday":     s.spec.Weekday.String(),
		"hour":        s.spec.Hour,
		"minute":      s.spec.Minute,
		"last_run_at": s.lastRunAt,
		"next_run_at": s.nextRunAt,
	}
}
