package loanrepo

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

var loanRowColumns = []string{"id", "member_id", "amount", "loan_type", "interest_rate", "repayment_period",
	"monthly_repayment", "outstanding_balance", "guarantor_ids", "status", "created_at"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()

	tests := []struct {
		name      string
		loan      *domain.Loan
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Loan saved",
			loan: &domain.Loan{
				MemberID: 1, Amount: 4000, LoanType: "Emergency", InterestRate: 30, RepaymentPeriod: 12,
				MonthlyRepayment: 5200.0 / 12, OutstandingBalance: 4000, GuarantorIDs: "2,3", Status: "Active", CreatedAt: createdAt,
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO loans (member_id, amount, loan_type, interest_rate, repayment_period, monthly_repayment, outstanding_balance, guarantor_ids, status, created_at)`)).
					WithArgs(1, 4000.0, "Emergency", 30.0, 12, 5200.0/12, 4000.0, "2,3", "Active", createdAt).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(5))
			},
		},
		{
			name: "Database error",
			loan: &domain.Loan{MemberID: 1, Amount: 4000, LoanType: "Emergency", Status: "Active", CreatedAt: createdAt},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO loans`)).
					WithArgs(1, 4000.0, "Emergency", 0.0, 0, 0.0, 0.0, "", "Active", createdAt).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Create(context.Background(), tt.loan)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 5, result.ID)
			}
		})
	}
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()
	query := regexp.QuoteMeta(`SELECT id, member_id, amount, loan_type, interest_rate, repayment_period, monthly_repayment, outstanding_balance, guarantor_ids, status, created_at FROM loans WHERE id = $1`)

	tests := []struct {
		name      string
		loanID    int
		mockSetup func()
		expectErr bool
		result    *domain.Loan
	}{
		{
			name:   "Loan found",
			loanID: 5,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(5).
					WillReturnRows(pgxmock.NewRows(loanRowColumns).
						AddRow(5, 1, 4000.0, "Emergency", 30.0, 12, 5200.0/12, 4000.0, "2,3", "Active", createdAt))
			},
			result: &domain.Loan{
				ID: 5, MemberID: 1, Amount: 4000, LoanType: "Emergency", InterestRate: 30, RepaymentPeriod: 12,
				MonthlyRepayment: 5200.0 / 12, OutstandingBalance: 4000, GuarantorIDs: "2,3", Status: "Active", CreatedAt: createdAt,
			},
		},
		{
			name:   "Loan not found",
			loanID: 404,
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(404).WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name:   "Database error",
			loanID: 5,
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(5).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByID(context.Background(), tt.loanID)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_FindForUpdate(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM loans WHERE id = $1 FOR UPDATE`)).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows(loanRowColumns).
			AddRow(5, 1, 1200.0, "Emergency", 30.0, 12, 130.0, 1200.0, "", "Active", time.Now()))

	loan, err := repo.FindForUpdate(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, 1200.0, loan.OutstandingBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()
	query := regexp.QuoteMeta(`FROM loans ORDER BY id`)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		count     int
	}{
		{
			name: "Loans found",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WillReturnRows(pgxmock.NewRows(loanRowColumns).
						AddRow(1, 1, 4000.0, "Emergency", 30.0, 12, 5200.0/12, 4000.0, "", "Active", createdAt).
						AddRow(2, 2, 9000.0, "Short", 60.0, 24, 600.0, 0.0, "1", "Cleared", createdAt))
			},
			count: 2,
		},
		{
			name: "Scan row error",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WillReturnRows(pgxmock.NewRows(loanRowColumns).
						AddRow(1, 1, "invalid_amount", "Emergency", 30.0, 12, 5200.0/12, 4000.0, "", "Active", createdAt))
			},
			expectErr: true,
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
			result, err := repo.List(context.Background())
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result, tt.count)
			}
		})
	}
}

func TestRepository_UpdateRepayment(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`UPDATE loans SET outstanding_balance = $1, status = $2 WHERE id = $3`)

	mock.ExpectExec(query).WithArgs(0.0, "Cleared", 5).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.UpdateRepayment(context.Background(), 5, 0, "Cleared"))

	mock.ExpectExec(query).WithArgs(100.0, "Active", 5).WillReturnError(errors.New("database error"))
	assert.Error(t, repo.UpdateRepayment(context.Background(), 5, 100, "Active"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InterestRevenue(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`SELECT COALESCE(SUM(amount * interest_rate / 100), 0) FROM loans`)

	mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows([]string{"revenue"}).AddRow(1200.0))
	revenue, err := repo.InterestRevenue(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1200.0, revenue)

	mock.ExpectQuery(query).WillReturnError(errors.New("database error"))
	_, err = repo.InterestRevenue(context.Background())
	assert.Error(t, err)
}
