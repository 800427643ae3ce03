package store

import (
	"context"
	"errors"

	"bank-ledger-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across the engine and the sqlite implementation.
// Callers classify failures with errors.Is; anything else wrapping a
// database/sql failure is a store-level error.
var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrEmptyField             = errors.New("required field is empty")
	ErrSameAccount            = errors.New("source and destination accounts are the same")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrUsernameTaken          = errors.New("username already exists")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// MutationParams contains the parameters for a single-account balance mutation.
type MutationParams struct {
	AccountId int64
	Amount    decimal.Decimal
	Note      string
	Reference string
}

// MutationResult reports the recorded transaction row and the account owner,
// which the engine needs to emit an account_updated notification.
type MutationResult struct {
	Txn    *models.Transaction
	UserId int64
}

// TransferParams contains the parameters for a two-leg transfer.
type TransferParams struct {
	FromAccountId int64
	ToAccountId   int64
	Amount        decimal.Decimal
	Note          string
	Reference     string
}

// TransferResult reports both recorded legs and both account owners.
type TransferResult struct {
	OutTxn     *models.Transaction
	InTxn      *models.Transaction
	FromUserId int64
	ToUserId   int64
}

// LedgerStore defines the persistence contract the ledger engine depends on.
type LedgerStore interface {
	// --- Users ---
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserById(ctx context.Context, userId int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, userId int64) error
	DeleteAllUsers(ctx context.Context) error

	// --- Accounts ---
	CreateAccount(ctx context.Context, userId int64, accountType string) (*models.Account, error)
	GetAccount(ctx context.Context, accountId int64) (*models.Account, error)
	GetAccounts(ctx context.Context, userId int64) ([]models.Account, error)
	GetAccountsByUsername(ctx context.Context, username string) ([]models.Account, error)
	GetAccountBalance(ctx context.Context, accountId int64) (decimal.Decimal, error)

	// --- Transactions ---
	Deposit(ctx context.Context, params MutationParams) (*MutationResult, error)
	Withdraw(ctx context.Context, params MutationParams) (*MutationResult, error)
	Transfer(ctx context.Context, params TransferParams) (*TransferResult, error)
	GetTransactionHistory(ctx context.Context, accountId int64) ([]models.Transaction, error)

	// --- Lifecycle ---
	Close()
}
