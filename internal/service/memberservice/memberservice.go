package memberservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/rules"
	"go.uber.org/zap"
)

//go:generate mockgen -source=memberservice.go -destination=mock_memberservice.go -package=memberservice

type Repo interface {
	Create(ctx context.Context, member *domain.Member) (*domain.Member, error)
	FindByID(ctx context.Context, memberID int) (*domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
	SearchByName(ctx context.Context, name string) ([]domain.Member, error)
	Summary(ctx context.Context) (*domain.MemberSummary, error)
	SetExitNotice(ctx context.Context, memberID int, given bool) (bool, error)
	AddContribution(ctx context.Context, contribution *domain.Contribution) (*domain.Contribution, error)
	TotalContributions(ctx context.Context, memberID int) (float64, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

var (
	ErrInvalidName         = errors.New("please enter a valid name")
	ErrAgeOutOfRange       = errors.New("age should be between 18 and 35")
	ErrSharesTooLow        = errors.New("shares should be at least 1000")
	ErrInvalidContribution = errors.New("contribution amount must be positive")
	ErrMemberNotFound      = errors.New("member not found")
)

// Limit is what a member may borrow under one loan type.
type Limit struct {
	LoanType     rules.LoanType
	MaxPrincipal float64
}

// Eligibility is judged on the contributions ledger, not on members.shares.
type Eligibility struct {
	MemberID           int
	TotalContributions float64
	Eligible           bool
	Limits             []Limit
}

func (s *Service) AddMember(ctx context.Context, fullName string, age int, shares float64) (*domain.Member, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, ErrInvalidName
	}
	if age < rules.MinMemberAge || age > rules.MaxMemberAge {
		return nil, ErrAgeOutOfRange
	}
	if shares < rules.MinMemberShares {
		return nil, ErrSharesTooLow
	}

	member, err := s.repo.Create(ctx, &domain.Member{
		FullName:        fullName,
		Age:             age,
		Shares:          shares,
		RegistrationFee: rules.RegistrationFee,
	})
	if err != nil {
		zap.L().Error("can't add member", zap.Error(err))
		return nil, err
	}

	zap.L().Info("member added", zap.Int("member_id", member.ID))
	return member, nil
}

func (s *Service) GetMember(ctx context.Context, memberID int) (*domain.Member, error) {
	member, err := s.repo.FindByID(ctx, memberID)
	if err != nil {
		zap.L().Error("failed to get member", zap.Error(err))
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// ListMembers returns every member, or those whose name contains the search text.
func (s *Service) ListMembers(ctx context.Context, name string) ([]domain.Member, error) {
	var (
		members []domain.Member
		err     error
	)
	if name = strings.TrimSpace(name); name != "" {
		members, err = s.repo.SearchByName(ctx, name)
	} else {
		members, err = s.repo.List(ctx)
	}
	if err != nil {
		zap.L().Error("failed to list members", zap.Error(err))
		return nil, err
	}
	return members, nil
}

func (s *Service) Summary(ctx context.Context) (*domain.MemberSummary, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		zap.L().Error("failed to get members summary", zap.Error(err))
		return nil, err
	}
	return summary, nil
}

func (s *Service) AddContribution(ctx context.Context, memberID int, amount float64) (*domain.Contribution, error) {
	if amount <= 0 {
		return nil, ErrInvalidContribution
	}
	if _, err := s.GetMember(ctx, memberID); err != nil {
		return nil, err
	}

	contribution, err := s.repo.AddContribution(ctx, &domain.Contribution{
		MemberID:      memberID,
		Amount:        amount,
		ContributedAt: time.Now(),
	})
	if err != nil {
		zap.L().Error("can't record contribution", zap.Error(err))
		return nil, err
	}
	return contribution, nil
}

func (s *Service) SetExitNotice(ctx context.Context, memberID int, given bool) error {
	updated, err := s.repo.SetExitNotice(ctx, memberID, given)
	if err != nil {
		zap.L().Error("can't set exit notice", zap.Error(err))
		return err
	}
	if !updated {
		return ErrMemberNotFound
	}
	zap.L().Info("exit notice updated", zap.Int("member_id", memberID), zap.Bool("given", given))
	return nil
}

func (s *Service) Eligibility(ctx context.Context, memberID int) (*Eligibility, error) {
	if _, err := s.GetMember(ctx, memberID); err != nil {
		return nil, err
	}
	total, err := s.repo.TotalContributions(ctx, memberID)
	if err != nil {
		zap.L().Error("can't get total contributions", zap.Error(err))
		return nil, err
	}

	result := &Eligibility{
		MemberID:           memberID,
		TotalContributions: total,
		Eligible:           rules.IsEligible(total),
	}
	if result.Eligible {
		for _, t := range rules.LoanTypes() {
			result.Limits = append(result.Limits, Limit{LoanType: t, MaxPrincipal: rules.MaxPrincipal(total, t)})
		}
	}
	return result, nil
}
