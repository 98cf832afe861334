package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/bettercalldoel/event-platform-api/pkg/aws"
)

// SweeperMetrics is the slice of the CloudWatch client the sweeper reports
// through. Nil disables reporting.
type SweeperMetrics interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
	RecordValue(ctx context.Context, metricName string, value float64, dimensions map[string]string) error
}

// Sweeper periodically expires unpaid transactions and cancels undecided
// ones. Ticks are serialized; a slow tick delays the next rather than
// overlapping with it.
type Sweeper struct {
	svc      TransactionService
	interval time.Duration
	metrics  SweeperMetrics
	logger   *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

const defaultSweepInterval = 30 * time.Second

func NewSweeper(svc TransactionService, interval time.Duration, metrics SweeperMetrics, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		svc:      svc,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine. Call Stop to shut it down.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))
}

// Stop halts the loop and blocks until the in-flight tick, if any, finishes.
// Safe to call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
	s.logger.Info("sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := s.Tick(ctx); err != nil {
				s.logger.Error("sweep tick failed", zap.Error(err))
			}
		}
	}
}

// Tick runs one sweep pass and reports how many transactions were expired
// and canceled. Exported so an admin endpoint can force a pass on demand.
func (s *Sweeper) Tick(ctx context.Context) (expired, canceled int, err error) {
	start := time.Now()

	expired, expErr := s.svc.ExpireOverduePayments(ctx)
	canceled, cancelErr := s.svc.CancelOverdueConfirmations(ctx)

	if expired > 0 || canceled > 0 {
		s.logger.Info("sweep pass",
			zap.Int("expired", expired),
			zap.Int("canceled", canceled),
			zap.Duration("took", time.Since(start)))
	}
	s.report(ctx, expired, canceled, time.Since(start), expErr != nil || cancelErr != nil)

	if expErr != nil {
		return expired, canceled, expErr
	}
	return expired, canceled, cancelErr
}

func (s *Sweeper) report(ctx context.Context, expired, canceled int, took time.Duration, failed bool) {
	if s.metrics == nil {
		return
	}
	_ = s.metrics.RecordCount(ctx, awspkg.MetricSweepTicks, nil)
	_ = s.metrics.RecordLatency(ctx, awspkg.MetricSweepLatency, took, nil)
	if expired > 0 {
		_ = s.metrics.RecordValue(ctx, awspkg.MetricTransactionsExpired, float64(expired), nil)
	}
	if canceled > 0 {
		_ = s.metrics.RecordValue(ctx, awspkg.MetricTransactionsCanceled, float64(canceled), nil)
	}
	if failed {
		_ = s.metrics.RecordCount(ctx, awspkg.MetricSweepFailures, nil)
	}
}
