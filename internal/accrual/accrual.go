// Package accrual runs the fixed-deposit interest job: it snapshots the
// savings of members without an active loan and books the interest earned
// since the previous snapshot.
package accrual

import (
	"context"
	"errors"
	"time"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/pg"
	"github.com/GlebRadaev/fedha/internal/rules"
	"github.com/GlebRadaev/fedha/pkg/metrics"
	"go.uber.org/zap"
)

//go:generate mockgen -source=accrual.go -destination=mock_accrual.go -package=accrual

type Repo interface {
	LockAccrual(ctx context.Context) error
	FreeSavings(ctx context.Context) (float64, error)
	LastUpdated(ctx context.Context) (*time.Time, error)
	Create(ctx context.Context, deposit *domain.FixedDeposit) (*domain.FixedDeposit, error)
	Latest(ctx context.Context) (*domain.FixedDeposit, error)
	List(ctx context.Context) ([]domain.FixedDeposit, error)
}

var ErrNoSavings = errors.New("no savings available for fixed deposit")

type Service struct {
	txManager  pg.TXManager
	repo       Repo
	workerPool WorkerPoolI
	now        func() time.Time
}

func New(txManager pg.TXManager, repo Repo, workerPool WorkerPoolI) *Service {
	return &Service{
		txManager:  txManager,
		repo:       repo,
		workerPool: workerPool,
		now:        time.Now,
	}
}

type result struct {
	deposit *domain.FixedDeposit
	err     error
}

// Accrue queues one accrual run and waits for it. Each run holds the accrual
// lock for its whole transaction, so a later run sees the earlier snapshot
// whatever the pool size.
func (s *Service) Accrue(ctx context.Context) (*domain.FixedDeposit, error) {
	done := make(chan result, 1)
	err := s.workerPool.AddTask(ctx, func() error {
		deposit, err := s.run(ctx)
		done <- result{deposit: deposit, err: err}
		return err
	})
	if err != nil {
		zap.L().Error("can't schedule fixed deposit accrual", zap.Error(err))
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.deposit, r.err
	}
}

func (s *Service) run(ctx context.Context) (*domain.FixedDeposit, error) {
	var deposit *domain.FixedDeposit
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.repo.LockAccrual(ctx); err != nil {
			return err
		}
		savings, err := s.repo.FreeSavings(ctx)
		if err != nil {
			return err
		}
		if savings <= 0 {
			return ErrNoSavings
		}

		prior, err := s.repo.LastUpdated(ctx)
		if err != nil {
			return err
		}

		today := truncateToDay(s.now())
		accrued := rules.AccrueFixedDeposit(savings, prior, today)

		deposit, err = s.repo.Create(ctx, &domain.FixedDeposit{
			TotalSavings:        savings,
			MonthlyInterest:     accrued.MonthlyInterest,
			AccumulatedInterest: accrued.AccumulatedInterest,
			LastUpdated:         today,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNoSavings) {
			metrics.Fedha().ObserveAccrual("no_savings", 0)
		} else {
			metrics.Fedha().ObserveAccrual("failed", 0)
			zap.L().Error("fixed deposit accrual failed", zap.Error(err))
		}
		return nil, err
	}

	metrics.Fedha().ObserveAccrual("ok", deposit.TotalSavings)
	zap.L().Info("fixed deposit accrued",
		zap.Int("deposit_id", deposit.ID),
		zap.Float64("total_savings", deposit.TotalSavings),
		zap.Float64("accumulated_interest", deposit.AccumulatedInterest),
	)
	return deposit, nil
}

// Current returns the most recent snapshot, or nil when none exists.
func (s *Service) Current(ctx context.Context) (*domain.FixedDeposit, error) {
	deposit, err := s.repo.Latest(ctx)
	if err != nil {
		zap.L().Error("failed to get current fixed deposit", zap.Error(err))
		return nil, err
	}
	return deposit, nil
}

func (s *Service) History(ctx context.Context) ([]domain.FixedDeposit, error) {
	deposits, err := s.repo.List(ctx)
	if err != nil {
		zap.L().Error("failed to list fixed deposits", zap.Error(err))
		return nil, err
	}
	return deposits, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
