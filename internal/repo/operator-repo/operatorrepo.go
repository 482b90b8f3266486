package operatorrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (repo *Repository) FindByLogin(ctx context.Context, login string) (*domain.Operator, error) {
	var operator domain.Operator
	err := repo.db.QueryRow(ctx, "SELECT id, login, password_hash FROM operators WHERE login = $1", login).
		Scan(&operator.ID, &operator.Login, &operator.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find operator", zap.Error(err))
		return nil, err
	}
	return &operator, nil
}

func (repo *Repository) Create(ctx context.Context, operator *domain.Operator) (*domain.Operator, error) {
	query := `
		INSERT INTO operators (login, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := repo.db.QueryRow(ctx, query, operator.Login, operator.PasswordHash).Scan(&operator.ID, &operator.CreatedAt)
	if err != nil {
		zap.L().Error("can't save operator", zap.Error(err))
		return nil, err
	}
	return operator, nil
}
