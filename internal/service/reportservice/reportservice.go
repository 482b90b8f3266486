package reportservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/pkg/export"
	"github.com/GlebRadaev/fedha/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=reportservice.go -destination=mock_reportservice.go -package=reportservice

type MemberRepo interface {
	List(ctx context.Context) ([]domain.Member, error)
	ListExiting(ctx context.Context) ([]domain.Member, error)
}

type LoanRepo interface {
	List(ctx context.Context) ([]domain.Loan, error)
	InterestRevenue(ctx context.Context) (float64, error)
}

type DepositRepo interface {
	List(ctx context.Context) ([]domain.FixedDeposit, error)
	InterestRevenue(ctx context.Context) (float64, error)
}

type Kind string

const (
	Members        Kind = "members"
	Loans          Kind = "loans"
	FixedDeposits  Kind = "fixed-deposits"
	Dividends      Kind = "dividends"
	Revenue        Kind = "revenue"
	ExitingMembers Kind = "exiting-members"
)

func Kinds() []Kind {
	return []Kind{Members, Loans, FixedDeposits, Dividends, Revenue, ExitingMembers}
}

func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

var (
	ErrUnknownKind     = errors.New("unknown report kind")
	ErrInvalidFileName = errors.New("export file name must not contain a path")
	ErrExport          = errors.New("failed to export report")
)

type Service struct {
	memberRepo  MemberRepo
	loanRepo    LoanRepo
	depositRepo DepositRepo
	exportDir   string
}

func New(memberRepo MemberRepo, loanRepo LoanRepo, depositRepo DepositRepo, exportDir string) *Service {
	return &Service{
		memberRepo:  memberRepo,
		loanRepo:    loanRepo,
		depositRepo: depositRepo,
		exportDir:   exportDir,
	}
}

// Generate projects the current store contents into a table. Rows come back in
// id order, so generating twice without writes in between gives equal tables.
func (s *Service) Generate(ctx context.Context, kind Kind) (*domain.Table, error) {
	var (
		table *domain.Table
		err   error
	)
	switch kind {
	case Members:
		table, err = s.members(ctx)
	case Loans:
		table, err = s.loans(ctx)
	case FixedDeposits:
		table, err = s.fixedDeposits(ctx)
	case Dividends:
		table, err = s.dividends(ctx)
	case Revenue:
		table, err = s.revenue(ctx)
	case ExitingMembers:
		table, err = s.exitingMembers(ctx)
	default:
		return nil, ErrUnknownKind
	}
	if err != nil {
		zap.L().Error("can't generate report", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}
	metrics.Fedha().ObserveReport(string(kind))
	return table, nil
}

// WriteCSV streams the report to w.
func (s *Service) WriteCSV(ctx context.Context, kind Kind, w io.Writer) error {
	table, err := s.Generate(ctx, kind)
	if err != nil {
		return err
	}
	if err := export.WriteTable(w, *table); err != nil {
		zap.L().Error("can't write report csv", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

type Export struct {
	Path     string
	Checksum string
}

// Export saves the report as CSV in the export directory, under fileName or
// under a generated name when fileName is empty.
func (s *Service) Export(ctx context.Context, kind Kind, fileName string) (*Export, error) {
	if fileName == "" {
		fileName = fmt.Sprintf("%s-%s.csv", kind, uuid.NewString())
	}
	if fileName != filepath.Base(fileName) || fileName == "." || fileName == ".." {
		return nil, ErrInvalidFileName
	}

	table, err := s.Generate(ctx, kind)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.exportDir, fileName)
	checksum, err := export.WriteFile(path, *table)
	if err != nil {
		zap.L().Error("can't export report", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	zap.L().Info("report exported", zap.String("kind", string(kind)), zap.String("path", path))
	return &Export{Path: path, Checksum: checksum}, nil
}

func (s *Service) members(ctx context.Context) (*domain.Table, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	table := &domain.Table{
		Title:   "Members Report",
		Columns: []string{"Member ID", "Name", "Age", "Shares"},
		Rows:    make([][]string, 0, len(members)),
	}
	for _, m := range members {
		table.Rows = append(table.Rows, []string{itoa(m.ID), m.FullName, itoa(m.Age), money(m.Shares)})
	}
	return table, nil
}

func (s *Service) loans(ctx context.Context) (*domain.Table, error) {
	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	table := &domain.Table{
		Title:   "Loans Report",
		Columns: []string{"Loan ID", "Member ID", "Loan Amount", "Interest Rate", "Repayment Period", "Outstanding Balance"},
		Rows:    make([][]string, 0, len(loans)),
	}
	for _, l := range loans {
		table.Rows = append(table.Rows, []string{
			itoa(l.ID), itoa(l.MemberID), money(l.Amount), money(l.InterestRate), itoa(l.RepaymentPeriod), money(l.OutstandingBalance),
		})
	}
	return table, nil
}

func (s *Service) fixedDeposits(ctx context.Context) (*domain.Table, error) {
	deposits, err := s.depositRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	table := &domain.Table{
		Title:   "Fixed Deposits Report",
		Columns: []string{"Deposit ID", "Total Savings", "Monthly Interest", "Accumulated Interest", "Last Updated"},
		Rows:    make([][]string, 0, len(deposits)),
	}
	for _, d := range deposits {
		table.Rows = append(table.Rows, []string{
			itoa(d.ID), money(d.TotalSavings), money(d.MonthlyInterest), money(d.AccumulatedInterest), d.LastUpdated.Format("2006-01-02"),
		})
	}
	return table, nil
}

func (s *Service) dividends(ctx context.Context) (*domain.Table, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	table := &domain.Table{
		Title:   "Dividends Report",
		Columns: []string{"Member ID", "Name", "Shares", "Dividends"},
		Rows:    make([][]string, 0, len(members)),
	}
	for _, m := range members {
		table.Rows = append(table.Rows, []string{itoa(m.ID), m.FullName, money(m.Shares), money(m.Dividends)})
	}
	return table, nil
}

// revenue sums loan interest and deposit interest separately; a joined query
// would multiply each side by the row count of the other.
func (s *Service) revenue(ctx context.Context) (*domain.Table, error) {
	var loanRevenue, depositRevenue float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		loanRevenue, err = s.loanRepo.InterestRevenue(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		depositRevenue, err = s.depositRepo.InterestRevenue(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.Table{
		Title:   "Revenue Report",
		Columns: []string{"Loan Revenue", "Fixed Deposit Revenue"},
		Rows:    [][]string{{money(loanRevenue), money(depositRevenue)}},
	}, nil
}

func (s *Service) exitingMembers(ctx context.Context) (*domain.Table, error) {
	members, err := s.memberRepo.ListExiting(ctx)
	if err != nil {
		return nil, err
	}
	table := &domain.Table{
		Title:   "Exiting Members Report",
		Columns: []string{"Member ID", "Name", "Shares", "Outstanding Loan", "Exit Notice Given"},
		Rows:    make([][]string, 0, len(members)),
	}
	for _, m := range members {
		table.Rows = append(table.Rows, []string{
			itoa(m.ID), m.FullName, money(m.Shares), money(m.OutstandingLoan), strconv.FormatBool(m.ExitNoticeGiven),
		})
	}
	return table, nil
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
