package depositrepo

import (
	"context"
	"errors"
	"time"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// accrualLockKey identifies the advisory lock that serialises accrual runs.
const accrualLockKey int64 = 0x66656468

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// LockAccrual blocks until no other transaction is accruing. The lock is
// released when the surrounding transaction ends, so it must run inside one.
func (r *Repository) LockAccrual(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, accrualLockKey); err != nil {
		zap.L().Error("can't take accrual lock", zap.Error(err))
		return err
	}
	return nil
}

// FreeSavings sums the shares of members without an active loan.
func (r *Repository) FreeSavings(ctx context.Context) (float64, error) {
	query := `
		SELECT COALESCE(SUM(shares), 0)
		FROM members
		WHERE id NOT IN (SELECT member_id FROM loans WHERE status = 'Active')
	`
	var total float64
	if err := r.db.QueryRow(ctx, query).Scan(&total); err != nil {
		zap.L().Error("can't sum free savings", zap.Error(err))
		return 0, err
	}
	return total, nil
}

// LastUpdated returns the most recent snapshot date, or nil before the first accrual.
func (r *Repository) LastUpdated(ctx context.Context) (*time.Time, error) {
	var last *time.Time
	if err := r.db.QueryRow(ctx, `SELECT MAX(last_updated) FROM fixed_deposits`).Scan(&last); err != nil {
		zap.L().Error("can't get last fixed deposit date", zap.Error(err))
		return nil, err
	}
	return last, nil
}

func (r *Repository) Create(ctx context.Context, deposit *domain.FixedDeposit) (*domain.FixedDeposit, error) {
	query := `
		INSERT INTO fixed_deposits (total_savings, monthly_interest, accumulated_interest, last_updated)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, deposit.TotalSavings, deposit.MonthlyInterest, deposit.AccumulatedInterest, deposit.LastUpdated).
		Scan(&deposit.ID)
	if err != nil {
		zap.L().Error("can't save fixed deposit", zap.Error(err))
		return nil, err
	}
	return deposit, nil
}

func (r *Repository) Latest(ctx context.Context) (*domain.FixedDeposit, error) {
	query := `
		SELECT id, total_savings, monthly_interest, accumulated_interest, last_updated
		FROM fixed_deposits
		ORDER BY id DESC
		LIMIT 1
	`
	var d domain.FixedDeposit
	err := r.db.QueryRow(ctx, query).Scan(&d.ID, &d.TotalSavings, &d.MonthlyInterest, &d.AccumulatedInterest, &d.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't get latest fixed deposit", zap.Error(err))
		return nil, err
	}
	return &d, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.FixedDeposit, error) {
	query := `
		SELECT id, total_savings, monthly_interest, accumulated_interest, last_updated
		FROM fixed_deposits
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("failed to fetch fixed deposits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var deposits []domain.FixedDeposit
	for rows.Next() {
		var d domain.FixedDeposit
		if err := rows.Scan(&d.ID, &d.TotalSavings, &d.MonthlyInterest, &d.AccumulatedInterest, &d.LastUpdated); err != nil {
			zap.L().Error("failed to scan fixed deposit row", zap.Error(err))
			return nil, err
		}
		deposits = append(deposits, d)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("failed to iterate fixed deposit rows", zap.Error(err))
		return nil, err
	}
	return deposits, nil
}

// InterestRevenue sums the monthly interest of every snapshot, not just the latest.
func (r *Repository) InterestRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	if err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(monthly_interest), 0) FROM fixed_deposits`).Scan(&revenue); err != nil {
		zap.L().Error("can't sum fixed deposit revenue", zap.Error(err))
		return 0, err
	}
	return revenue, nil
}
