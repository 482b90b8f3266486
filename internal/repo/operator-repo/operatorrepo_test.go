package operatorrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_FindByLogin(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("SELECT id, login, password_hash FROM operators WHERE login = $1")

	tests := []struct {
		name      string
		login     string
		mockSetup func()
		expectErr bool
		result    *domain.Operator
	}{
		{
			name:  "Operator found",
			login: "treasurer",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("treasurer").
					WillReturnRows(pgxmock.NewRows([]string{"id", "login", "password_hash"}).AddRow(1, "treasurer", "hashed_password"))
			},
			result: &domain.Operator{ID: 1, Login: "treasurer", PasswordHash: "hashed_password"},
		},
		{
			name:  "Operator not found",
			login: "stranger",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("stranger").WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name:  "Database error",
			login: "treasurer",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("treasurer").WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByLogin(context.Background(), tt.login)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()
	query := regexp.QuoteMeta(`INSERT INTO operators (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`)

	mock.ExpectQuery(query).
		WithArgs("treasurer", "hashed_password").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(1, createdAt))
	operator, err := repo.Create(context.Background(), &domain.Operator{Login: "treasurer", PasswordHash: "hashed_password"})
	assert.NoError(t, err)
	assert.Equal(t, &domain.Operator{ID: 1, Login: "treasurer", PasswordHash: "hashed_password", CreatedAt: createdAt}, operator)

	mock.ExpectQuery(query).
		WithArgs("treasurer", "hashed_password").
		WillReturnError(errors.New("database error"))
	operator, err = repo.Create(context.Background(), &domain.Operator{Login: "treasurer", PasswordHash: "hashed_password"})
	assert.Error(t, err)
	assert.Nil(t, operator)
}
