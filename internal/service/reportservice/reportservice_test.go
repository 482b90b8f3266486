package reportservice

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T, exportDir string) (*Service, *MockMemberRepo, *MockLoanRepo, *MockDepositRepo) {
	ctrl := gomock.NewController(t)
	memberRepo := NewMockMemberRepo(ctrl)
	loanRepo := NewMockLoanRepo(ctrl)
	depositRepo := NewMockDepositRepo(ctrl)
	service := New(memberRepo, loanRepo, depositRepo, exportDir)
	defer ctrl.Finish()
	return service, memberRepo, loanRepo, depositRepo
}

var members = []domain.Member{
	{ID: 1, FullName: "Amina Otieno", Age: 22, Shares: 5000, Dividends: 120.5},
	{ID: 2, FullName: "Brian Kamau", Age: 30, Shares: 1000, OutstandingLoan: 400, ExitNoticeGiven: true},
}

func TestGenerate(t *testing.T) {
	service, memberRepo, loanRepo, depositRepo := NewMock(t, t.TempDir())

	tests := []struct {
		name          string
		kind          Kind
		mockSetup     func()
		expected      *domain.Table
		expectedError error
	}{
		{
			name: "Members",
			kind: Members,
			mockSetup: func() {
				memberRepo.EXPECT().List(gomock.Any()).Return(members, nil)
			},
			expected: &domain.Table{
				Title:   "Members Report",
				Columns: []string{"Member ID", "Name", "Age", "Shares"},
				Rows: [][]string{
					{"1", "Amina Otieno", "22", "5000.00"},
					{"2", "Brian Kamau", "30", "1000.00"},
				},
			},
		},
		{
			name: "Loans",
			kind: Loans,
			mockSetup: func() {
				loanRepo.EXPECT().List(gomock.Any()).Return([]domain.Loan{
					{ID: 4, MemberID: 1, Amount: 4000, InterestRate: 30, RepaymentPeriod: 12, OutstandingBalance: 3500},
				}, nil)
			},
			expected: &domain.Table{
				Title:   "Loans Report",
				Columns: []string{"Loan ID", "Member ID", "Loan Amount", "Interest Rate", "Repayment Period", "Outstanding Balance"},
				Rows:    [][]string{{"4", "1", "4000.00", "30.00", "12", "3500.00"}},
			},
		},
		{
			name: "Fixed deposits",
			kind: FixedDeposits,
			mockSetup: func() {
				depositRepo.EXPECT().List(gomock.Any()).Return([]domain.FixedDeposit{
					{ID: 1, TotalSavings: 100000, MonthlyInterest: 600, AccumulatedInterest: 600,
						LastUpdated: time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC)},
				}, nil)
			},
			expected: &domain.Table{
				Title:   "Fixed Deposits Report",
				Columns: []string{"Deposit ID", "Total Savings", "Monthly Interest", "Accumulated Interest", "Last Updated"},
				Rows:    [][]string{{"1", "100000.00", "600.00", "600.00", "2024-05-20"}},
			},
		},
		{
			name: "Dividends",
			kind: Dividends,
			mockSetup: func() {
				memberRepo.EXPECT().List(gomock.Any()).Return(members, nil)
			},
			expected: &domain.Table{
				Title:   "Dividends Report",
				Columns: []string{"Member ID", "Name", "Shares", "Dividends"},
				Rows: [][]string{
					{"1", "Amina Otieno", "5000.00", "120.50"},
					{"2", "Brian Kamau", "1000.00", "0.00"},
				},
			},
		},
		{
			name: "Revenue sums each side once",
			kind: Revenue,
			mockSetup: func() {
				loanRepo.EXPECT().InterestRevenue(gomock.Any()).Return(1200.0, nil)
				depositRepo.EXPECT().InterestRevenue(gomock.Any()).Return(600.0, nil)
			},
			expected: &domain.Table{
				Title:   "Revenue Report",
				Columns: []string{"Loan Revenue", "Fixed Deposit Revenue"},
				Rows:    [][]string{{"1200.00", "600.00"}},
			},
		},
		{
			name: "Exiting members",
			kind: ExitingMembers,
			mockSetup: func() {
				memberRepo.EXPECT().ListExiting(gomock.Any()).Return(members[1:], nil)
			},
			expected: &domain.Table{
				Title:   "Exiting Members Report",
				Columns: []string{"Member ID", "Name", "Shares", "Outstanding Loan", "Exit Notice Given"},
				Rows:    [][]string{{"2", "Brian Kamau", "1000.00", "400.00", "true"}},
			},
		},
		{
			name: "Empty store gives headers only",
			kind: Members,
			mockSetup: func() {
				memberRepo.EXPECT().List(gomock.Any()).Return(nil, nil)
			},
			expected: &domain.Table{
				Title:   "Members Report",
				Columns: []string{"Member ID", "Name", "Age", "Shares"},
				Rows:    [][]string{},
			},
		},
		{
			name:          "Unknown kind",
			kind:          Kind("balance-sheet"),
			mockSetup:     func() {},
			expectedError: ErrUnknownKind,
		},
		{
			name: "Revenue query fails",
			kind: Revenue,
			mockSetup: func() {
				loanRepo.EXPECT().InterestRevenue(gomock.Any()).Return(0.0, errors.New("db error"))
				depositRepo.EXPECT().InterestRevenue(gomock.Any()).Return(600.0, nil).AnyTimes()
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			table, err := service.Generate(context.Background(), tt.kind)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, table)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, table)
		})
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	service, memberRepo, _, _ := NewMock(t, t.TempDir())
	memberRepo.EXPECT().List(gomock.Any()).Return(members, nil).Times(2)

	first, err := service.Generate(context.Background(), Dividends)
	require.NoError(t, err)
	second, err := service.Generate(context.Background(), Dividends)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteCSV(t *testing.T) {
	service, memberRepo, _, _ := NewMock(t, t.TempDir())
	memberRepo.EXPECT().List(gomock.Any()).Return(members, nil)

	var buf bytes.Buffer
	require.NoError(t, service.WriteCSV(context.Background(), Members, &buf))
	assert.Equal(t, "Member ID,Name,Age,Shares\n1,Amina Otieno,22,5000.00\n2,Brian Kamau,30,1000.00\n", buf.String())
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	service, memberRepo, _, _ := NewMock(t, dir)

	t.Run("Generated name in export dir", func(t *testing.T) {
		memberRepo.EXPECT().ListExiting(gomock.Any()).Return(members[1:], nil)

		result, err := service.Export(context.Background(), ExitingMembers, "")
		require.NoError(t, err)
		assert.Equal(t, dir, filepath.Dir(result.Path))
		assert.True(t, strings.HasPrefix(filepath.Base(result.Path), "exiting-members-"))
		assert.Len(t, result.Checksum, 64)

		data, err := os.ReadFile(result.Path)
		require.NoError(t, err)
		assert.Equal(t, "Member ID,Name,Shares,Outstanding Loan,Exit Notice Given\n2,Brian Kamau,1000.00,400.00,true\n", string(data))
	})

	t.Run("Explicit file name", func(t *testing.T) {
		memberRepo.EXPECT().List(gomock.Any()).Return(members, nil)

		result, err := service.Export(context.Background(), Members, "members.csv")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "members.csv"), result.Path)
		assert.FileExists(t, result.Path)
	})

	t.Run("Path in file name is rejected", func(t *testing.T) {
		_, err := service.Export(context.Background(), Members, "../members.csv")
		assert.ErrorIs(t, err, ErrInvalidFileName)
	})
}

func TestExportUnwritableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	service, memberRepo, _, _ := NewMock(t, blocker)
	memberRepo.EXPECT().List(gomock.Any()).Return(members, nil)

	_, err := service.Export(context.Background(), Members, "members.csv")
	assert.ErrorIs(t, err, ErrExport)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		parsed, ok := ParseKind(string(k))
		assert.True(t, ok)
		assert.Equal(t, k, parsed)
	}
	_, ok := ParseKind("MEMBERS")
	assert.False(t, ok)
}
