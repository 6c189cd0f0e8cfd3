package domain

import "time"

type User struct {
	ID           int       `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Balance amounts are integer minor-units (paise). Locked funds are
// reserved but still counted inside Amount, so Locked <= Amount.
type Balance struct {
	ID     int   `db:"id"`
	UserID int   `db:"user_id"`
	Amount int64 `db:"amount"`
	Locked int64 `db:"locked"`
}

type Transaction struct {
	ID         int       `db:"id"`
	SenderID   int       `db:"sender_id"`
	ReceiverID int       `db:"receiver_id"`
	Amount     int64     `db:"amount"`
	Type       string    `db:"type"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`

	// Filled by joined reads only, never persisted.
	SenderName    string `db:"sender_name"`
	SenderEmail   string `db:"sender_email"`
	ReceiverName  string `db:"receiver_name"`
	ReceiverEmail string `db:"receiver_email"`
}

type OnRampTransaction struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	Provider  string    `db:"provider"`
	Token     string    `db:"token"`
	Amount    int64     `db:"amount"`
	Status    string    `db:"status"`
	StartTime time.Time `db:"start_time"`
}
