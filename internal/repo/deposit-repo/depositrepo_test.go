package depositrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

var depositRowColumns = []string{"id", "total_savings", "monthly_interest", "accumulated_interest", "last_updated"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_FreeSavings(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`SELECT COALESCE(SUM(shares), 0) FROM members WHERE id NOT IN (SELECT member_id FROM loans WHERE status = 'Active')`)

	mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows([]string{"total"}).AddRow(100000.0))
	total, err := repo.FreeSavings(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 100000.0, total)

	mock.ExpectQuery(query).WillReturnError(errors.New("database error"))
	_, err = repo.FreeSavings(context.Background())
	assert.Error(t, err)
}

func TestRepository_LastUpdated(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`SELECT MAX(last_updated) FROM fixed_deposits`)
	last := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    *time.Time
	}{
		{
			name: "Previous snapshot exists",
			mockSetup: func() {
				mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(&last))
			},
			result: &last,
		},
		{
			name: "No snapshots yet",
			mockSetup: func() {
				mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(nil))
			},
			result: nil,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.LastUpdated(context.Background())
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta(`INSERT INTO fixed_deposits (total_savings, monthly_interest, accumulated_interest, last_updated) VALUES ($1, $2, $3, $4) RETURNING id`)

	mock.ExpectQuery(query).
		WithArgs(100000.0, 600.0, 600.0, today).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(3))
	deposit, err := repo.Create(context.Background(), &domain.FixedDeposit{
		TotalSavings: 100000, MonthlyInterest: 600, AccumulatedInterest: 600, LastUpdated: today,
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, deposit.ID)

	mock.ExpectQuery(query).
		WithArgs(100000.0, 600.0, 600.0, today).
		WillReturnError(errors.New("database error"))
	deposit, err = repo.Create(context.Background(), &domain.FixedDeposit{
		TotalSavings: 100000, MonthlyInterest: 600, AccumulatedInterest: 600, LastUpdated: today,
	})
	assert.Error(t, err)
	assert.Nil(t, deposit)
}

func TestRepository_Latest(t *testing.T) {
	repo, mock := NewMock(t)
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta(`FROM fixed_deposits ORDER BY id DESC LIMIT 1`)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    *domain.FixedDeposit
	}{
		{
			name: "Latest snapshot",
			mockSetup: func() {
				mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows(depositRowColumns).AddRow(3, 100000.0, 600.0, 600.0, today))
			},
			result: &domain.FixedDeposit{ID: 3, TotalSavings: 100000, MonthlyInterest: 600, AccumulatedInterest: 600, LastUpdated: today},
		},
		{
			name: "No snapshots",
			mockSetup: func() {
				mock.ExpectQuery(query).WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Latest(context.Background())
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_List(t *testing.T) {
	repo, mock := NewMock(t)
	day := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta(`FROM fixed_deposits ORDER BY id`)

	mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows(depositRowColumns).
		AddRow(1, 90000.0, 540.0, 540.0, day.AddDate(0, -1, 0)).
		AddRow(2, 100000.0, 600.0, 600.0, day))
	deposits, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []domain.FixedDeposit{
		{ID: 1, TotalSavings: 90000, MonthlyInterest: 540, AccumulatedInterest: 540, LastUpdated: day.AddDate(0, -1, 0)},
		{ID: 2, TotalSavings: 100000, MonthlyInterest: 600, AccumulatedInterest: 600, LastUpdated: day},
	}, deposits)

	mock.ExpectQuery(query).WillReturnError(errors.New("database error"))
	deposits, err = repo.List(context.Background())
	assert.Error(t, err)
	assert.Nil(t, deposits)
}

func TestRepository_InterestRevenue(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(monthly_interest), 0) FROM fixed_deposits`)).
		WillReturnRows(pgxmock.NewRows([]string{"revenue"}).AddRow(1140.0))
	revenue, err := repo.InterestRevenue(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1140.0, revenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LockAccrual(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`SELECT pg_advisory_xact_lock($1)`)

	mock.ExpectExec(query).WithArgs(accrualLockKey).WillReturnResult(pgxmock.NewResult("SELECT", 1))
	assert.NoError(t, repo.LockAccrual(context.Background()))

	mock.ExpectExec(query).WithArgs(accrualLockKey).WillReturnError(errors.New("database error"))
	assert.Error(t, repo.LockAccrual(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}
