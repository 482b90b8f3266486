package service

import (
	"github.com/GlebRadaev/fedha/internal/accrual"
	"github.com/GlebRadaev/fedha/internal/config"
	"github.com/GlebRadaev/fedha/internal/handlers/auth"
	"github.com/GlebRadaev/fedha/internal/handlers/deposits"
	"github.com/GlebRadaev/fedha/internal/handlers/loans"
	"github.com/GlebRadaev/fedha/internal/handlers/members"
	"github.com/GlebRadaev/fedha/internal/handlers/reports"

	pkgauth "github.com/GlebRadaev/fedha/pkg/auth"

	"github.com/GlebRadaev/fedha/internal/repo"
	authservice "github.com/GlebRadaev/fedha/internal/service/authservice"
	loanservice "github.com/GlebRadaev/fedha/internal/service/loanservice"
	memberservice "github.com/GlebRadaev/fedha/internal/service/memberservice"
	reportservice "github.com/GlebRadaev/fedha/internal/service/reportservice"
)

type Services struct {
	AuthService    auth.Service
	MemberService  members.Service
	LoanService    loans.Service
	AccrualService deposits.Service
	ReportService  reports.Service
	TokenValidator pkgauth.TokenValidator
}

func New(cfg *config.Config, repo *repo.Repositories, workerPool accrual.WorkerPoolI) *Services {
	jwtService := pkgauth.NewJWTService(cfg.JWTSecret)

	return &Services{
		AuthService:    authservice.New(repo.OperatorRepo, &pkgauth.HashService{}, jwtService, cfg.TokenTTL),
		MemberService:  memberservice.New(repo.MemberRepo),
		LoanService:    loanservice.New(repo.TxManager, repo.LoanRepo, repo.MemberRepo),
		AccrualService: accrual.New(repo.TxManager, repo.DepositRepo, workerPool),
		ReportService:  reportservice.New(repo.MemberRepo, repo.LoanRepo, repo.DepositRepo, cfg.ExportDir),
		TokenValidator: jwtService,
	}
}
