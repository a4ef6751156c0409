package maturity

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/avencore/investcore/internal/config"
	"github.com/avencore/investcore/internal/domain"
)

var settlingInvestments sync.Map

type InvestmentRepo interface {
	FindMatured(ctx context.Context, now time.Time, limit uint32) ([]domain.Investment, error)
}

// Settler finalizes a single matured investment. The investment
// service implements it; the settlement path is shared with the lazy
// per-user sweep, so both stay idempotent.
type Settler interface {
	Settle(ctx context.Context, investment domain.Investment) (bool, error)
}

// Service is the background maturity sweep. Active investments past
// their end date are settled even if the owner never visits the
// dashboard.
type Service struct {
	investmentRepo InvestmentRepo
	settler        Settler
	limit          uint32
	workerPool     WorkerPoolI
	sweepInterval  time.Duration
}

func New(cfg *config.Config, investmentRepo InvestmentRepo, settler Settler) *Service {
	return &Service{
		investmentRepo: investmentRepo,
		settler:        settler,
		limit:          1000,
		workerPool:     NewWorkerPool(10),
		sweepInterval:  cfg.SweepInterval,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Maturity sweep started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping maturity sweep")
			return
		case <-ticker.C:
			s.processMatured(ctx)
		}
	}
}

func (s *Service) processMatured(ctx context.Context) {
	investments, err := s.investmentRepo.FindMatured(ctx, time.Now(), atomic.LoadUint32(&s.limit))
	if err != nil {
		zap.L().Error("Failed to fetch matured investments", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, investment := range investments {
		investment := investment
		key := strconv.Itoa(investment.ID)

		if _, loaded := settlingInvestments.LoadOrStore(key, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer settlingInvestments.Delete(key)
				return s.handleInvestment(ctx, investment)
			})
			if err != nil {
				settlingInvestments.Delete(key)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error settling investments", zap.Error(err))
	}
}

func (s *Service) handleInvestment(ctx context.Context, investment domain.Investment) error {
	settled, err := s.settler.Settle(ctx, investment)
	if err != nil {
		return err
	}
	if settled {
		zap.L().Info("Investment settled",
			zap.Int("investmentID", investment.ID),
			zap.Int("userID", investment.UserID),
			zap.String("maturityAmount", investment.MaturityAmount.String()),
		)
	}
	return nil
}
