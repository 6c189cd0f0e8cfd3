package userrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/paywallet/walletgo/internal/domain"
	"github.com/stretchr/testify/assert"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_FindByEmail(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		email     string
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name:  "User found",
			email: "test@example.com",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "name", "email", "password_hash"}).
					AddRow(1, "Test User", "test@example.com", "hashed_password")
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash FROM users WHERE email = $1")).
					WithArgs("test@example.com").
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.User{
				ID:           1,
				Name:         "Test User",
				Email:        "test@example.com",
				PasswordHash: "hashed_password",
			},
		},
		{
			name:  "User not found",
			email: "missing@example.com",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash FROM users WHERE email = $1")).
					WithArgs("missing@example.com").
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:  "Database error",
			email: "test@example.com",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash FROM users WHERE email = $1")).
					WithArgs("test@example.com").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByEmail(context.Background(), tt.email)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		id        int
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name: "User found",
			id:   1,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "name", "email", "password_hash"}).
					AddRow(1, "Test User", "test@example.com", "hashed_password")
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash FROM users WHERE id = $1")).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.User{
				ID:           1,
				Name:         "Test User",
				Email:        "test@example.com",
				PasswordHash: "hashed_password",
			},
		},
		{
			name: "User not found",
			id:   42,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash FROM users WHERE id = $1")).
					WithArgs(42).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name: "Database error",
			id:   1,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash FROM users WHERE id = $1")).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByID(context.Background(), tt.id)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		user      *domain.User
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name: "Create user successfully",
			user: &domain.User{
				Name:         "New User",
				Email:        "new@example.com",
				PasswordHash: "hashed_password",
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
					INSERT INTO users (name, email, password_hash)
					VALUES ($1, $2, $3)
					RETURNING id
				`)).
					WithArgs("New User", "new@example.com", "hashed_password").
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(1))
			},
			expectErr: false,
			result: &domain.User{
				ID:           1,
				Name:         "New User",
				Email:        "new@example.com",
				PasswordHash: "hashed_password",
			},
		},
		{
			name: "Database error",
			user: &domain.User{
				Name:         "New User",
				Email:        "new@example.com",
				PasswordHash: "hashed_password",
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
					INSERT INTO users (name, email, password_hash)
					VALUES ($1, $2, $3)
					RETURNING id
				`)).
					WithArgs("New User", "new@example.com", "hashed_password").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Create(context.Background(), tt.user)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}
