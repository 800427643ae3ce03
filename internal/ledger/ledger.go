// Package ledger implements the engine that validates and applies
// balance-changing operations, maintains the transaction audit trail, and
// publishes change notifications after each unit of work commits.
package ledger

import (
	"context"
	"fmt"

	"bank-ledger-go/internal/bus"
	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Ledger struct {
	store store.LedgerStore
	bus   *bus.Bus
}

// New creates a ledger engine over a persistence backend and a notification
// bus. Both are required; the bus is shared with whatever presentation layer
// wants to observe changes.
func New(st store.LedgerStore, b *bus.Bus) *Ledger {
	return &Ledger{store: st, bus: b}
}

// --- Users ---

// CreateUser registers a user. Only the bcrypt hash of the password is
// stored, never the plaintext. A duplicate username fails with
// store.ErrUsernameTaken.
func (l *Ledger) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username", store.ErrEmptyField)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password", store.ErrEmptyField)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return l.store.CreateUser(ctx, username, string(hash))
}

// Authenticate verifies credentials and returns the user's id. It fails
// closed: an unknown username and a wrong password both produce
// store.ErrInvalidCredentials, never distinguishing the two.
func (l *Ledger) Authenticate(ctx context.Context, username, password string) (int64, error) {
	user, err := l.store.GetUserByUsername(ctx, username)
	if err != nil {
		zap.L().Debug("Authentication failed", zap.String("username", username))
		return 0, store.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		zap.L().Debug("Authentication failed", zap.String("username", username))
		return 0, store.ErrInvalidCredentials
	}

	return user.Id, nil
}

// GetUsers lists all registered users, ascending by id.
func (l *Ledger) GetUsers(ctx context.Context) ([]models.User, error) {
	return l.store.GetUsers(ctx)
}

// DeleteUser removes the user and their accounts in one unit of work, then
// emits a user_deleted notification. Transaction rows for the deleted
// accounts stay in the store so the audit trail is never destroyed.
func (l *Ledger) DeleteUser(ctx context.Context, userId int64) error {
	if err := l.store.DeleteUser(ctx, userId); err != nil {
		return err
	}

	l.bus.Notify(bus.EventUserDeleted, userId)
	return nil
}

// DeleteAllUsers performs a full reset: transactions, then accounts, then
// users. No notification is emitted; observers must re-render themselves.
func (l *Ledger) DeleteAllUsers(ctx context.Context) error {
	return l.store.DeleteAllUsers(ctx)
}

// --- Accounts ---

// OpenAccount creates an account with a zero starting balance for an
// existing user and returns the new account id.
func (l *Ledger) OpenAccount(ctx context.Context, userId int64, accountType string) (int64, error) {
	account, err := l.store.CreateAccount(ctx, userId, accountType)
	if err != nil {
		return 0, err
	}
	return account.Id, nil
}

// OpenAccountWithDeposit opens an account and, if initialDeposit is
// positive, immediately deposits it with the given note.
func (l *Ledger) OpenAccountWithDeposit(ctx context.Context, userId int64, accountType string, initialDeposit decimal.Decimal, note string) (int64, error) {
	accountId, err := l.OpenAccount(ctx, userId, accountType)
	if err != nil {
		return 0, err
	}

	if initialDeposit.IsPositive() {
		if err := l.Deposit(ctx, accountId, initialDeposit, note); err != nil {
			return 0, err
		}
	}
	return accountId, nil
}

// GetAccounts returns a user's accounts, ascending by account id.
func (l *Ledger) GetAccounts(ctx context.Context, userId int64) ([]models.Account, error) {
	return l.store.GetAccounts(ctx, userId)
}

// GetAccountsByUsername returns a user's accounts looked up by username,
// ascending by account id.
func (l *Ledger) GetAccountsByUsername(ctx context.Context, username string) ([]models.Account, error) {
	return l.store.GetAccountsByUsername(ctx, username)
}

func (l *Ledger) GetAccountBalance(ctx context.Context, accountId int64) (decimal.Decimal, error) {
	return l.store.GetAccountBalance(ctx, accountId)
}

// --- Transactions ---

// Deposit credits an account and appends one deposit row, then emits
// account_updated for the owning user. A non-positive amount fails with
// store.ErrInvalidAmount; a missing account fails with store.ErrNotFound.
func (l *Ledger) Deposit(ctx context.Context, accountId int64, amount decimal.Decimal, note string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", store.ErrInvalidAmount, amount.String())
	}

	result, err := l.store.Deposit(ctx, store.MutationParams{
		AccountId: accountId,
		Amount:    amount,
		Note:      note,
		Reference: uuid.New().String(),
	})
	if err != nil {
		return err
	}

	l.bus.Notify(bus.EventAccountUpdated, result.UserId)
	return nil
}

// Withdraw debits an account and appends one withdrawal row, then emits
// account_updated. The sufficiency check and the debit happen in the same
// unit of work, so the balance can never go negative through this path.
func (l *Ledger) Withdraw(ctx context.Context, accountId int64, amount decimal.Decimal, note string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", store.ErrInvalidAmount, amount.String())
	}

	result, err := l.store.Withdraw(ctx, store.MutationParams{
		AccountId: accountId,
		Amount:    amount,
		Note:      note,
		Reference: uuid.New().String(),
	})
	if err != nil {
		return err
	}

	l.bus.Notify(bus.EventAccountUpdated, result.UserId)
	return nil
}

// Transfer moves funds between two accounts as one all-or-nothing unit:
// debit source, credit destination, one transfer_out row on the source
// (related = destination) and one transfer_in row on the destination
// (related = source), both legs sharing a reference. account_updated is
// emitted once per distinct affected user.
func (l *Ledger) Transfer(ctx context.Context, fromAccountId, toAccountId int64, amount decimal.Decimal, note string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", store.ErrInvalidAmount, amount.String())
	}
	if fromAccountId == toAccountId {
		return fmt.Errorf("%w: account %d", store.ErrSameAccount, fromAccountId)
	}

	result, err := l.store.Transfer(ctx, store.TransferParams{
		FromAccountId: fromAccountId,
		ToAccountId:   toAccountId,
		Amount:        amount,
		Note:          note,
		Reference:     uuid.New().String(),
	})
	if err != nil {
		return err
	}

	l.bus.Notify(bus.EventAccountUpdated, result.FromUserId)
	if result.ToUserId != result.FromUserId {
		l.bus.Notify(bus.EventAccountUpdated, result.ToUserId)
	}
	return nil
}

// GetTransactionHistory returns an account's transaction rows, most recent
// first. History for deleted accounts remains retrievable.
func (l *Ledger) GetTransactionHistory(ctx context.Context, accountId int64) ([]models.Transaction, error) {
	return l.store.GetTransactionHistory(ctx, accountId)
}
