package transferrepo

import (
	"context"

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

func (r *Repository) CreateTransaction(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	query := `
        INSERT INTO transactions (sender_id, receiver_id, amount, type, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		transaction.SenderID, transaction.ReceiverID, transaction.Amount, transaction.Type, transaction.Status).
		Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return transaction, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error) {
	query := `
        SELECT t.id, t.sender_id, t.receiver_id, t.amount, t.type, t.status, t.created_at,
               s.name, s.email, rc.name, rc.email
        FROM transactions t
        JOIN users s ON s.id = t.sender_id
        JOIN users rc ON rc.id = t.receiver_id
        WHERE t.sender_id = $1 OR t.receiver_id = $1
        ORDER BY t.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(&t.ID, &t.SenderID, &t.ReceiverID, &t.Amount, &t.Type, &t.Status, &t.CreatedAt,
			&t.SenderName, &t.SenderEmail, &t.ReceiverName, &t.ReceiverEmail)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}
