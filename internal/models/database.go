package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds recorded in the audit trail.
const (
	KindDeposit     = "deposit"
	KindWithdrawal  = "withdrawal"
	KindTransferOut = "transfer_out"
	KindTransferIn  = "transfer_in"
)

// User represents a registered user
type User struct {
	Id           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Account represents one account owned by a user (hot data)
type Account struct {
	Id          int64           `db:"id"`
	UserId      int64           `db:"user_id"`
	AccountType string          `db:"account_type"`
	Balance     decimal.Decimal `db:"balance"`
	Version     int64           `db:"version"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Transaction represents immutable transaction history (cold data).
// RelatedAccountId links the two legs of a transfer and is zero for
// deposits and withdrawals. Both legs of one transfer share Reference.
type Transaction struct {
	Id               int64           `db:"id"`
	AccountId        int64           `db:"account_id"`
	Kind             string          `db:"type"`
	Amount           decimal.Decimal `db:"amount"`
	Note             string          `db:"note"`
	RelatedAccountId int64           `db:"related_account_id"`
	Reference        string          `db:"reference"`
	CreatedAt        time.Time       `db:"created_at"`
}
