package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/paperontime/orderdesk/internal/domain/model"
)

// OrderDeskFacade exposes the subset of application functionality required by the sweeper.
type OrderDeskFacade interface {
	OrdersAwaitingNotification(ctx context.Context, limit int) ([]model.Order, error)
	NotifyPaidOrder(ctx context.Context, order *model.Order) error
}

// NotificationSweeper re-attempts confirmation notifications for paid orders
// whose inline send failed during reconciliation. Payment state is never
// touched here; the sweep is purely advisory.
type NotificationSweeper struct {
	facade        OrderDeskFacade
	sweepInterval time.Duration
	batchSize     int
	workers       int
	logger        *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewNotificationSweeper constructs the sweeper worker pool.
func NewNotificationSweeper(facade OrderDeskFacade, sweepInterval time.Duration, batchSize, workers int, logger *slog.Logger) *NotificationSweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &NotificationSweeper{
		facade:        facade,
		sweepInterval: sweepInterval,
		batchSize:     batchSize,
		workers:       workers,
		logger:        logger,
		jobs:          make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (s *NotificationSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *NotificationSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *NotificationSweeper) dispatch(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.jobs)
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetchAndDispatch(ctx)
		}
	}
}

func (s *NotificationSweeper) fetchAndDispatch(ctx context.Context) {
	orders, err := s.facade.OrdersAwaitingNotification(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("fetch orders awaiting notification failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- order:
		}
	}
}

func (s *NotificationSweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-s.jobs:
			if !ok {
				return
			}
			if err := s.facade.NotifyPaidOrder(ctx, &order); err != nil {
				s.logger.Error("deferred notification failed", slog.String("order", order.OrderNumber), slog.String("error", err.Error()))
			}
		}
	}
}
