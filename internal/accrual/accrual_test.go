package accrual

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/pg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var today = time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC)

func NewMock(t *testing.T) (*Service, *pg.MockTXManager, *MockRepo, *MockWorkerPoolI) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txManager := pg.NewMockTXManager(ctrl)
	repo := NewMockRepo(ctrl)
	workerPool := NewMockWorkerPoolI(ctrl)
	service := New(txManager, repo, workerPool)
	service.now = func() time.Time { return today.Add(15 * time.Hour) }
	return service, txManager, repo, workerPool
}

func runInline(workerPool *MockWorkerPoolI, txManager *pg.MockTXManager, repo *MockRepo) {
	workerPool.EXPECT().AddTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, task Task) error {
			_ = task()
			return nil
		})
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
			return fn(ctx)
		})
	repo.EXPECT().LockAccrual(gomock.Any()).Return(nil)
}

func TestService_Accrue(t *testing.T) {
	service, txManager, repo, workerPool := NewMock(t)
	prior := time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC)
	dbErr := errors.New("db error")

	tests := []struct {
		name          string
		mockSetup     func()
		expected      *domain.FixedDeposit
		expectedError error
	}{
		{
			name: "first snapshot accrues one month",
			mockSetup: func() {
				runInline(workerPool, txManager, repo)
				repo.EXPECT().FreeSavings(gomock.Any()).Return(100000.0, nil)
				repo.EXPECT().LastUpdated(gomock.Any()).Return(nil, nil)
				repo.EXPECT().Create(gomock.Any(), &domain.FixedDeposit{
					TotalSavings:        100000,
					MonthlyInterest:     600,
					AccumulatedInterest: 600,
					LastUpdated:         today,
				}).DoAndReturn(func(ctx context.Context, d *domain.FixedDeposit) (*domain.FixedDeposit, error) {
					d.ID = 1
					return d, nil
				})
			},
			expected: &domain.FixedDeposit{
				ID:                  1,
				TotalSavings:        100000,
				MonthlyInterest:     600,
				AccumulatedInterest: 600,
				LastUpdated:         today,
			},
		},
		{
			name: "accrues every whole month since the prior snapshot",
			mockSetup: func() {
				runInline(workerPool, txManager, repo)
				repo.EXPECT().FreeSavings(gomock.Any()).Return(50000.0, nil)
				repo.EXPECT().LastUpdated(gomock.Any()).Return(&prior, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, d *domain.FixedDeposit) (*domain.FixedDeposit, error) {
						d.ID = 2
						return d, nil
					})
			},
			expected: &domain.FixedDeposit{
				ID:                  2,
				TotalSavings:        50000,
				MonthlyInterest:     300,
				AccumulatedInterest: 900,
				LastUpdated:         today,
			},
		},
		{
			name: "no free savings writes nothing",
			mockSetup: func() {
				runInline(workerPool, txManager, repo)
				repo.EXPECT().FreeSavings(gomock.Any()).Return(0.0, nil)
			},
			expectedError: ErrNoSavings,
		},
		{
			name: "insert failure rolls back",
			mockSetup: func() {
				runInline(workerPool, txManager, repo)
				repo.EXPECT().FreeSavings(gomock.Any()).Return(1000.0, nil)
				repo.EXPECT().LastUpdated(gomock.Any()).Return(nil, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, dbErr)
			},
			expectedError: dbErr,
		},
		{
			name: "lock failure aborts the run",
			mockSetup: func() {
				workerPool.EXPECT().AddTask(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, task Task) error {
						_ = task()
						return nil
					})
				txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
						return fn(ctx)
					})
				repo.EXPECT().LockAccrual(gomock.Any()).Return(dbErr)
			},
			expectedError: dbErr,
		},
		{
			name: "pool refuses the task",
			mockSetup: func() {
				workerPool.EXPECT().AddTask(gomock.Any(), gomock.Any()).Return(ErrPoolClosed)
			},
			expectedError: ErrPoolClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			deposit, err := service.Accrue(context.Background())
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, deposit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, deposit)
		})
	}
}

func TestService_AccrueOnRealPool(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := pg.NewMockTXManager(ctrl)
	repo := NewMockRepo(ctrl)
	wp := NewWorkerPool(1)
	defer wp.Close()

	service := New(txManager, repo, wp)
	service.now = func() time.Time { return today }

	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
			return fn(ctx)
		})
	repo.EXPECT().LockAccrual(gomock.Any()).Return(nil)
	repo.EXPECT().FreeSavings(gomock.Any()).Return(100000.0, nil)
	repo.EXPECT().LastUpdated(gomock.Any()).Return(nil, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, d *domain.FixedDeposit) (*domain.FixedDeposit, error) {
			d.ID = 7
			return d, nil
		})

	deposit, err := service.Accrue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, deposit.ID)
	assert.Equal(t, 600.0, deposit.AccumulatedInterest)
}

func TestService_AccrueCanceled(t *testing.T) {
	service, _, _, workerPool := NewMock(t)

	ctx, cancel := context.WithCancel(context.Background())
	workerPool.EXPECT().AddTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, task Task) error {
			cancel()
			return nil
		})

	_, err := service.Accrue(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_Current(t *testing.T) {
	service, _, repo, _ := NewMock(t)

	repo.EXPECT().Latest(gomock.Any()).Return(nil, nil)
	deposit, err := service.Current(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, deposit)

	repo.EXPECT().Latest(gomock.Any()).Return(&domain.FixedDeposit{ID: 3}, nil)
	deposit, err = service.Current(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, deposit.ID)

	repo.EXPECT().Latest(gomock.Any()).Return(nil, errors.New("db error"))
	_, err = service.Current(context.Background())
	assert.Error(t, err)
}

func TestService_History(t *testing.T) {
	service, _, repo, _ := NewMock(t)

	repo.EXPECT().List(gomock.Any()).Return([]domain.FixedDeposit{{ID: 1}, {ID: 2}}, nil)
	deposits, err := service.History(context.Background())
	assert.NoError(t, err)
	assert.Len(t, deposits, 2)
}
