package memberrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const memberColumns = `id, full_name, age, shares, registration_fee, outstanding_loan, exit_notice_given, dividends`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanMember(row pgx.Row) (domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.ID, &m.FullName, &m.Age, &m.Shares, &m.RegistrationFee, &m.OutstandingLoan, &m.ExitNoticeGiven, &m.Dividends)
	return m, err
}

func (r *Repository) collect(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get members", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			zap.L().Error("can't scan member row", zap.Error(err))
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("can't iterate member rows", zap.Error(err))
		return nil, err
	}
	return members, nil
}

func (r *Repository) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	query := `
		INSERT INTO members (full_name, age, shares, registration_fee, outstanding_loan, exit_notice_given)
		VALUES ($1, $2, $3, $4, 0, false)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, member.FullName, member.Age, member.Shares, member.RegistrationFee).Scan(&member.ID)
	if err != nil {
		zap.L().Error("can't save member", zap.Error(err))
		return nil, err
	}
	return member, nil
}

func (r *Repository) FindByID(ctx context.Context, memberID int) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	m, err := scanMember(r.db.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find member", zap.Error(err))
		return nil, err
	}
	return &m, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Member, error) {
	return r.collect(ctx, `SELECT `+memberColumns+` FROM members ORDER BY id`)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchByName matches a case-insensitive substring; % and _ in name match literally.
func (r *Repository) SearchByName(ctx context.Context, name string) ([]domain.Member, error) {
	return r.collect(ctx, `SELECT `+memberColumns+` FROM members WHERE full_name ILIKE $1 ESCAPE '\' ORDER BY id`, "%"+likeEscaper.Replace(name)+"%")
}

func (r *Repository) ListExiting(ctx context.Context) ([]domain.Member, error) {
	return r.collect(ctx, `SELECT `+memberColumns+` FROM members WHERE exit_notice_given = true ORDER BY id`)
}

func (r *Repository) Summary(ctx context.Context) (*domain.MemberSummary, error) {
	query := `
		SELECT COALESCE(SUM(shares), 0), COALESCE(SUM(registration_fee), 0)
		FROM members
	`
	var summary domain.MemberSummary
	err := r.db.QueryRow(ctx, query).Scan(&summary.TotalShares, &summary.TotalRegistrationFees)
	if err != nil {
		zap.L().Error("can't get members summary", zap.Error(err))
		return nil, err
	}
	return &summary, nil
}

func (r *Repository) SetExitNotice(ctx context.Context, memberID int, given bool) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE members SET exit_notice_given = $1 WHERE id = $2`, given, memberID)
	if err != nil {
		zap.L().Error("can't update exit notice", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// AdjustOutstandingLoan moves the member's loan mirror by delta, never below zero.
func (r *Repository) AdjustOutstandingLoan(ctx context.Context, memberID int, delta float64) error {
	query := `
		UPDATE members
		SET outstanding_loan = GREATEST(outstanding_loan + $1, 0)
		WHERE id = $2
	`
	if _, err := r.db.Exec(ctx, query, delta, memberID); err != nil {
		zap.L().Error("can't adjust outstanding loan", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) AddContribution(ctx context.Context, contribution *domain.Contribution) (*domain.Contribution, error) {
	query := `
		INSERT INTO contributions (member_id, amount, contributed_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, contribution.MemberID, contribution.Amount, contribution.ContributedAt).Scan(&contribution.ID)
	if err != nil {
		zap.L().Error("can't save contribution", zap.Error(err))
		return nil, err
	}
	return contribution, nil
}

// TotalContributions sums the contributions ledger, which is what loan
// eligibility is judged on. It is independent of members.shares.
func (r *Repository) TotalContributions(ctx context.Context, memberID int) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM contributions WHERE member_id = $1`, memberID).Scan(&total)
	if err != nil {
		zap.L().Error("can't sum contributions", zap.Error(err))
		return 0, err
	}
	return total, nil
}
