package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	rl "github.com/rogerio-castellano/kitchen-stock/internal/http/rate_limiter"
	"github.com/rogerio-castellano/kitchen-stock/internal/kitchen"
	"github.com/rogerio-castellano/kitchen-stock/internal/notify"
	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

const (
	visitorCleanupSpec = "@every 1m"
	visitorIdle        = 5 * time.Minute
	jobTimeout         = 30 * time.Second
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Scheduler struct {
	sched     *cron.Cron
	ledger    repo.StockLedger
	publisher notify.Publisher
	limiter   *rl.Limiter
}

// New registers the background jobs. Nothing runs until Start.
func New(lowStockSpec string, ledger repo.StockLedger, publisher notify.Publisher, limiter *rl.Limiter) (*Scheduler, error) {
	s := &Scheduler{
		sched:     cron.New(cron.WithParser(cronParser)),
		ledger:    ledger,
		publisher: publisher,
		limiter:   limiter,
	}

	if _, err := s.sched.AddFunc(lowStockSpec, s.SweepLowStock); err != nil {
		return nil, fmt.Errorf("invalid low-stock schedule %q: %w", lowStockSpec, err)
	}
	if limiter != nil {
		if _, err := s.sched.AddFunc(visitorCleanupSpec, s.CleanupVisitors); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

// Stop prevents new runs and waits for running jobs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.sched.Stop().Done():
	case <-ctx.Done():
	}
}

// SweepLowStock announces every product below its threshold so that
// dashboards connected since the last change converge.
func (s *Scheduler) SweepLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := kitchen.SweepLowStock(ctx, s.ledger, s.publisher)
	if err != nil {
		zap.L().Error("low-stock sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("low-stock sweep", zap.Int("products", n))
	}
}

func (s *Scheduler) CleanupVisitors() {
	if n := s.limiter.CleanupVisitors(visitorIdle); n > 0 {
		zap.L().Debug("rate limiter visitors removed", zap.Int("count", n))
	}
}
