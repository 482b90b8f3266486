package loanservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/pg"
	"github.com/GlebRadaev/fedha/internal/rules"
	"github.com/GlebRadaev/fedha/pkg/metrics"
	"go.uber.org/zap"
)

//go:generate mockgen -source=loanservice.go -destination=mock_loanservice.go -package=loanservice

type LoanRepo interface {
	Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	FindByID(ctx context.Context, loanID int) (*domain.Loan, error)
	FindForUpdate(ctx context.Context, loanID int) (*domain.Loan, error)
	List(ctx context.Context) ([]domain.Loan, error)
	UpdateRepayment(ctx context.Context, loanID int, balance float64, status string) error
}

type MemberRepo interface {
	FindByID(ctx context.Context, memberID int) (*domain.Member, error)
	TotalContributions(ctx context.Context, memberID int) (float64, error)
	AdjustOutstandingLoan(ctx context.Context, memberID int, delta float64) error
}

type Service struct {
	txManager  pg.TXManager
	loanRepo   LoanRepo
	memberRepo MemberRepo
	now        func() time.Time
}

func New(txManager pg.TXManager, loanRepo LoanRepo, memberRepo MemberRepo) *Service {
	return &Service{
		txManager:  txManager,
		loanRepo:   loanRepo,
		memberRepo: memberRepo,
		now:        time.Now,
	}
}

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrUnknownLoanType = errors.New("unknown loan type")
	ErrMemberNotFound  = errors.New("member not found")
	ErrNotEligible     = fmt.Errorf("member is not eligible for any loan: shares must be at least %.0f", rules.MinEligibleShares)
	ErrExceedsLimit    = errors.New("loan amount exceeds eligible limit")
	ErrLoanNotFound    = errors.New("loan not found")
)

type Application struct {
	MemberID     int
	Amount       float64
	LoanType     string
	GuarantorIDs []int
}

// Apply validates the application against the member's contributions and
// records an active loan. Guarantors are stored as given.
func (s *Service) Apply(ctx context.Context, app Application) (*domain.Loan, error) {
	if app.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	loanType, ok := rules.ParseLoanType(app.LoanType)
	if !ok {
		return nil, ErrUnknownLoanType
	}

	member, err := s.memberRepo.FindByID(ctx, app.MemberID)
	if err != nil {
		zap.L().Error("failed to get member", zap.Error(err))
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	shares, err := s.memberRepo.TotalContributions(ctx, app.MemberID)
	if err != nil {
		zap.L().Error("failed to sum contributions", zap.Error(err))
		return nil, err
	}
	if !rules.IsEligible(shares) {
		metrics.Fedha().ObserveLoanRejected("not_eligible")
		return nil, ErrNotEligible
	}
	if app.Amount > rules.MaxPrincipal(shares, loanType) {
		metrics.Fedha().ObserveLoanRejected("exceeds_limit")
		return nil, fmt.Errorf("%w for %s", ErrExceedsLimit, loanType)
	}

	terms := rules.DeriveLoanTerms(app.Amount, loanType)
	loan := &domain.Loan{
		MemberID:           app.MemberID,
		Amount:             app.Amount,
		LoanType:           string(loanType),
		InterestRate:       terms.InterestRatePercent,
		RepaymentPeriod:    terms.RepaymentPeriod,
		MonthlyRepayment:   terms.MonthlyRepayment,
		OutstandingBalance: app.Amount,
		GuarantorIDs:       joinIDs(app.GuarantorIDs),
		Status:             string(rules.StatusActive),
		CreatedAt:          s.now(),
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		if _, err := s.loanRepo.Create(ctx, loan); err != nil {
			return err
		}
		return s.memberRepo.AdjustOutstandingLoan(ctx, app.MemberID, app.Amount)
	})
	if err != nil {
		zap.L().Error("can't record loan", zap.Error(err))
		return nil, err
	}

	metrics.Fedha().ObserveLoanApplied(loan.LoanType)
	zap.L().Info("loan applied",
		zap.Int("loan_id", loan.ID),
		zap.Int("member_id", loan.MemberID),
		zap.String("loan_type", loan.LoanType),
		zap.Float64("amount", loan.Amount),
	)
	return loan, nil
}

// Repay applies a payment to a loan. Paying off more than is owed clears the
// loan without a refund; paying a cleared loan leaves it cleared.
func (s *Service) Repay(ctx context.Context, loanID int, amount float64) (*domain.Loan, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var loan *domain.Loan
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		loan, err = s.loanRepo.FindForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return ErrLoanNotFound
		}

		balance, status := rules.Repay(loan.OutstandingBalance, amount)
		if err := s.loanRepo.UpdateRepayment(ctx, loanID, balance, string(status)); err != nil {
			return err
		}
		if applied := loan.OutstandingBalance - balance; applied > 0 {
			if err := s.memberRepo.AdjustOutstandingLoan(ctx, loan.MemberID, -applied); err != nil {
				return err
			}
		}
		loan.OutstandingBalance = balance
		loan.Status = string(status)
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrLoanNotFound) {
			zap.L().Error("can't record repayment", zap.Error(err))
		}
		return nil, err
	}

	metrics.Fedha().ObserveRepayment(loan.Status)
	zap.L().Info("repayment recorded",
		zap.Int("loan_id", loanID),
		zap.Float64("outstanding", loan.OutstandingBalance),
		zap.String("status", loan.Status),
	)
	return loan, nil
}

func (s *Service) Get(ctx context.Context, loanID int) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		zap.L().Error("failed to get loan", zap.Error(err))
		return nil, err
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	return loan, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Loan, error) {
	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		zap.L().Error("failed to list loans", zap.Error(err))
		return nil, err
	}
	return loans, nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
