package authservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/pkg/auth"
	"go.uber.org/zap"
)

//go:generate mockgen -source=authservice.go -destination=mock_authservice.go -package=authservice

type Repo interface {
	FindByLogin(ctx context.Context, login string) (*domain.Operator, error)
	Create(ctx context.Context, operator *domain.Operator) (*domain.Operator, error)
}

type Service struct {
	operatorRepo Repo
	hashService  auth.HashServiceInterface
	jwtService   auth.JWTServiceInterface
	tokenTTL     time.Duration
}

func New(repo Repo, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, tokenTTL time.Duration) *Service {
	return &Service{
		operatorRepo: repo,
		hashService:  hashService,
		jwtService:   jwtService,
		tokenTTL:     tokenTTL,
	}
}

var (
	ErrInvalidLogin       = errors.New("login cannot be empty")
	ErrLoginTaken         = errors.New("login already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func (s *Service) Register(ctx context.Context, login, password string) (*domain.Operator, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, ErrInvalidLogin
	}
	existing, err := s.operatorRepo.FindByLogin(ctx, login)
	if err != nil {
		zap.L().Error("can't find operator", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		zap.L().Info("operator already exists", zap.String("login", login))
		return nil, ErrLoginTaken
	}
	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password", zap.Error(err))
		return nil, err
	}

	operator, err := s.operatorRepo.Create(ctx, &domain.Operator{
		Login:        login,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		zap.L().Error("can't create operator", zap.Error(err))
		return nil, err
	}

	zap.L().Info("operator registered", zap.String("login", login))
	return operator, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.Operator, error) {
	operator, err := s.operatorRepo.FindByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		zap.L().Error("can't find operator", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if operator == nil || !s.hashService.ComparePassword(operator.PasswordHash, password) {
		zap.L().Info("invalid credentials", zap.String("login", login))
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("operator authenticated", zap.String("login", login))
	return operator, nil
}

func (s *Service) GenerateToken(operatorID int) (string, error) {
	token, err := s.jwtService.GenerateJWT(operatorID, time.Now().Add(s.tokenTTL))
	if err != nil {
		zap.L().Error("can't generate token", zap.Error(err))
		return "", err
	}
	return token, nil
}
