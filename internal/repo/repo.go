package repo

import (
	"github.com/GlebRadaev/fedha/internal/pg"
	depositrepo "github.com/GlebRadaev/fedha/internal/repo/deposit-repo"
	loanrepo "github.com/GlebRadaev/fedha/internal/repo/loan-repo"
	memberrepo "github.com/GlebRadaev/fedha/internal/repo/member-repo"
	operatorrepo "github.com/GlebRadaev/fedha/internal/repo/operator-repo"
)

type Repositories struct {
	TxManager    pg.TXManager
	OperatorRepo *operatorrepo.Repository
	MemberRepo   *memberrepo.Repository
	LoanRepo     *loanrepo.Repository
	DepositRepo  *depositrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		TxManager:    txManager,
		OperatorRepo: operatorrepo.New(conn),
		MemberRepo:   memberrepo.New(conn),
		LoanRepo:     loanrepo.New(conn),
		DepositRepo:  depositrepo.New(conn),
	}
}
