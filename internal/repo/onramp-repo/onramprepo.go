package onramprepo

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

func (r *Repository) Create(ctx context.Context, transaction *domain.OnRampTransaction) (*domain.OnRampTransaction, error) {
	query := `
        INSERT INTO onramp_transactions (user_id, provider, token, amount, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, start_time
    `
	err := r.db.QueryRow(ctx, query,
		transaction.UserID, transaction.Provider, transaction.Token, transaction.Amount, transaction.Status).
		Scan(&transaction.ID, &transaction.StartTime)
	if err != nil {
		zap.L().Error("can't save onramp transaction", zap.Error(err))
		return nil, err
	}
	return transaction, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `
        UPDATE onramp_transactions
        SET status = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		zap.L().Error("failed to update onramp status", zap.Error(err))
		return err
	}
	return nil
}

// FindByTokenForUpdate takes a row lock on the on-ramp transaction so
// concurrent settlements of the same token serialize. Must run inside a
// TXManager.Begin block.
func (r *Repository) FindByTokenForUpdate(ctx context.Context, token string) (*domain.OnRampTransaction, error) {
	query := `
        SELECT id, user_id, provider, token, amount, status, start_time
        FROM onramp_transactions
        WHERE token = $1
        FOR UPDATE
    `
	row := r.db.QueryRow(ctx, query, token)
	var t domain.OnRampTransaction
	err := row.Scan(&t.ID, &t.UserID, &t.Provider, &t.Token, &t.Amount, &t.Status, &t.StartTime)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't lock onramp transaction", zap.Error(err))
		return nil, err
	}
	return &t, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.OnRampTransaction, error) {
	query := `
        SELECT id, user_id, provider, token, amount, status, start_time
        FROM onramp_transactions
        WHERE user_id = $1
        ORDER BY start_time DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get onramp transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.OnRampTransaction
	for rows.Next() {
		var t domain.OnRampTransaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Provider, &t.Token, &t.Amount, &t.Status, &t.StartTime)
		if err != nil {
			zap.L().Error("can't scan onramp transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

func (r *Repository) FindProcessing(ctx context.Context, limit uint32) ([]domain.OnRampTransaction, error) {
	query := `
        SELECT id, user_id, provider, token, amount, status, start_time
        FROM onramp_transactions
        WHERE status = 'Processing'
        ORDER BY start_time ASC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, int(limit))
	if err != nil {
		zap.L().Error("can't get onramp transactions for processing", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.OnRampTransaction
	for rows.Next() {
		var t domain.OnRampTransaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Provider, &t.Token, &t.Amount, &t.Status, &t.StartTime)
		if err != nil {
			zap.L().Error("can't scan onramp transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}
