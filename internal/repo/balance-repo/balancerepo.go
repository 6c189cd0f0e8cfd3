package balancerepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/paywallet/walletgo/internal/domain"
	"github.com/paywallet/walletgo/internal/pg"
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

func (r *Repository) GetUserBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	query := `
        SELECT id, user_id, amount, locked
        FROM balances
        WHERE user_id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.Amount, &balance.Locked)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get user balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}

// GetUserBalanceForUpdate takes a row lock on the balance so concurrent
// transfers touching the same account serialize. Must run inside a
// TXManager.Begin block.
func (r *Repository) GetUserBalanceForUpdate(ctx context.Context, userID int) (*domain.Balance, error) {
	query := `
        SELECT id, user_id, amount, locked
        FROM balances
        WHERE user_id = $1
        FOR UPDATE
    `
	row := r.db.QueryRow(ctx, query, userID)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.Amount, &balance.Locked)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to lock user balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}

func (r *Repository) CreateUserBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	query := `
        INSERT INTO balances (user_id, amount, locked)
        VALUES ($1, 0, 0)
        RETURNING id, user_id, amount, locked
    `
	row := r.db.QueryRow(ctx, query, userID)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.Amount, &balance.Locked)
	if err != nil {
		zap.L().Error("failed to create user balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}

func (r *Repository) Debit(ctx context.Context, userID int, amount int64) (*domain.Balance, error) {
	query := `
        UPDATE balances
        SET amount = amount - $1
        WHERE user_id = $2
        RETURNING id, user_id, amount, locked
    `
	row := r.db.QueryRow(ctx, query, amount, userID)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.Amount, &balance.Locked)
	if err != nil {
		zap.L().Error("failed to debit user balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}

// Credit increments the balance, creating the row for users who have never
// held funds before.
func (r *Repository) Credit(ctx context.Context, userID int, amount int64) (*domain.Balance, error) {
	query := `
        INSERT INTO balances (user_id, amount, locked)
        VALUES ($1, $2, 0)
        ON CONFLICT (user_id) DO UPDATE
        SET amount = balances.amount + EXCLUDED.amount
        RETURNING id, user_id, amount, locked
    `
	row := r.db.QueryRow(ctx, query, userID, amount)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.Amount, &balance.Locked)
	if err != nil {
		zap.L().Error("failed to credit user balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}
