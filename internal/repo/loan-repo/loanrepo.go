package loanrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const loanColumns = `id, member_id, amount, loan_type, interest_rate, repayment_period, monthly_repayment, outstanding_balance, guarantor_ids, status, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanLoan(row pgx.Row) (domain.Loan, error) {
	var l domain.Loan
	err := row.Scan(&l.ID, &l.MemberID, &l.Amount, &l.LoanType, &l.InterestRate, &l.RepaymentPeriod,
		&l.MonthlyRepayment, &l.OutstandingBalance, &l.GuarantorIDs, &l.Status, &l.CreatedAt)
	return l, err
}

func (r *Repository) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	query := `
		INSERT INTO loans (member_id, amount, loan_type, interest_rate, repayment_period, monthly_repayment, outstanding_balance, guarantor_ids, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, loan.MemberID, loan.Amount, loan.LoanType, loan.InterestRate, loan.RepaymentPeriod,
		loan.MonthlyRepayment, loan.OutstandingBalance, loan.GuarantorIDs, loan.Status, loan.CreatedAt).Scan(&loan.ID)
	if err != nil {
		zap.L().Error("can't save loan", zap.Error(err))
		return nil, err
	}
	return loan, nil
}

func (r *Repository) find(ctx context.Context, query string, loanID int) (*domain.Loan, error) {
	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find loan", zap.Error(err))
		return nil, err
	}
	return &l, nil
}

func (r *Repository) FindByID(ctx context.Context, loanID int) (*domain.Loan, error) {
	return r.find(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, loanID)
}

// FindForUpdate locks the loan row until the surrounding transaction ends.
func (r *Repository) FindForUpdate(ctx context.Context, loanID int) (*domain.Loan, error) {
	return r.find(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, loanID)
}

func (r *Repository) List(ctx context.Context) ([]domain.Loan, error) {
	rows, err := r.db.Query(ctx, `SELECT `+loanColumns+` FROM loans ORDER BY id`)
	if err != nil {
		zap.L().Error("can't get loans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			zap.L().Error("can't scan loan row", zap.Error(err))
			return nil, err
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("can't iterate loan rows", zap.Error(err))
		return nil, err
	}
	return loans, nil
}

func (r *Repository) UpdateRepayment(ctx context.Context, loanID int, balance float64, status string) error {
	query := `
		UPDATE loans
		SET outstanding_balance = $1, status = $2
		WHERE id = $3
	`
	if _, err := r.db.Exec(ctx, query, balance, status, loanID); err != nil {
		zap.L().Error("failed to update loan repayment", zap.Error(err))
		return err
	}
	return nil
}

// InterestRevenue is the flat interest booked across every loan ever issued.
func (r *Repository) InterestRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount * interest_rate / 100), 0) FROM loans`).Scan(&revenue)
	if err != nil {
		zap.L().Error("can't sum loan revenue", zap.Error(err))
		return 0, err
	}
	return revenue, nil
}
