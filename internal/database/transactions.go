package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// accountState is the snapshot read inside a unit of work before mutating a
// balance. version guards the conditional update.
type accountState struct {
	userId  int64
	balance decimal.Decimal
	version int64
}

func getAccountState(ctx context.Context, tx *sql.Tx, accountId int64) (*accountState, error) {
	var state accountState
	var balanceStr string
	err := tx.QueryRowContext(ctx, queryGetAccountForUpdate, accountId).Scan(
		&state.userId, &balanceStr, &state.version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %d", store.ErrNotFound, accountId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read account %d: %w", accountId, err)
	}

	state.balance, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance '%s': %w", balanceStr, err)
	}
	return &state, nil
}

// setAccountBalance applies the new balance with optimistic locking. Zero rows
// affected means another writer moved the version since the read.
func setAccountBalance(ctx context.Context, tx *sql.Tx, accountId int64, newBalance decimal.Decimal, version int64) error {
	result, err := tx.ExecContext(ctx, queryUpdateAccountBalance, newBalance.String(), accountId, version)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("balance update failed - %w", store.ErrConcurrentModification)
	}
	return nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, accountId int64, kind string, amount decimal.Decimal, note string, relatedAccountId int64, reference string) (int64, error) {
	var related interface{}
	if relatedAccountId != 0 {
		related = relatedAccountId
	}

	result, err := tx.ExecContext(ctx, queryInsertTransaction,
		accountId, kind, amount.String(), note, related, reference)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}

	txnId, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction id: %w", err)
	}
	return txnId, nil
}

// Deposit atomically credits the account balance and appends one deposit row.
func (s *Service) Deposit(ctx context.Context, params store.MutationParams) (*store.MutationResult, error) {
	zap.L().Info("Processing deposit",
		zap.Int64("account_id", params.AccountId),
		zap.String("amount", params.Amount.String()),
		zap.String("reference", params.Reference))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	state, err := getAccountState(ctx, tx, params.AccountId)
	if err != nil {
		return nil, err
	}

	newBalance := state.balance.Add(params.Amount)

	txnId, err := insertTransaction(ctx, tx, params.AccountId, models.KindDeposit, params.Amount, params.Note, 0, params.Reference)
	if err != nil {
		return nil, err
	}

	if err := setAccountBalance(ctx, tx, params.AccountId, newBalance, state.version); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Deposit processed successfully",
		zap.Int64("account_id", params.AccountId),
		zap.String("old_balance", state.balance.String()),
		zap.String("new_balance", newBalance.String()))

	return &store.MutationResult{
		Txn: &models.Transaction{
			Id:        txnId,
			AccountId: params.AccountId,
			Kind:      models.KindDeposit,
			Amount:    params.Amount,
			Note:      params.Note,
			Reference: params.Reference,
		},
		UserId: state.userId,
	}, nil
}

// Withdraw atomically checks sufficiency, debits the balance, and appends one
// withdrawal row. The check and the debit share one unit of work.
func (s *Service) Withdraw(ctx context.Context, params store.MutationParams) (*store.MutationResult, error) {
	zap.L().Info("Processing withdrawal",
		zap.Int64("account_id", params.AccountId),
		zap.String("amount", params.Amount.String()),
		zap.String("reference", params.Reference))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	state, err := getAccountState(ctx, tx, params.AccountId)
	if err != nil {
		return nil, err
	}

	if state.balance.LessThan(params.Amount) {
		return nil, fmt.Errorf("%w: balance %s, requested %s",
			store.ErrInsufficientFunds, state.balance.String(), params.Amount.String())
	}

	newBalance := state.balance.Sub(params.Amount)

	txnId, err := insertTransaction(ctx, tx, params.AccountId, models.KindWithdrawal, params.Amount, params.Note, 0, params.Reference)
	if err != nil {
		return nil, err
	}

	if err := setAccountBalance(ctx, tx, params.AccountId, newBalance, state.version); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Withdrawal processed successfully",
		zap.Int64("account_id", params.AccountId),
		zap.String("old_balance", state.balance.String()),
		zap.String("new_balance", newBalance.String()))

	return &store.MutationResult{
		Txn: &models.Transaction{
			Id:        txnId,
			AccountId: params.AccountId,
			Kind:      models.KindWithdrawal,
			Amount:    params.Amount,
			Note:      params.Note,
			Reference: params.Reference,
		},
		UserId: state.userId,
	}, nil
}

// Transfer moves funds between two accounts as one unit of work: debit
// source, credit destination, and record both legs. Either everything
// commits or nothing does; no partial leg is ever visible to readers.
func (s *Service) Transfer(ctx context.Context, params store.TransferParams) (*store.TransferResult, error) {
	zap.L().Info("Processing transfer",
		zap.Int64("from_account_id", params.FromAccountId),
		zap.Int64("to_account_id", params.ToAccountId),
		zap.String("amount", params.Amount.String()),
		zap.String("reference", params.Reference))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	fromState, err := getAccountState(ctx, tx, params.FromAccountId)
	if err != nil {
		return nil, err
	}
	toState, err := getAccountState(ctx, tx, params.ToAccountId)
	if err != nil {
		return nil, err
	}

	if fromState.balance.LessThan(params.Amount) {
		return nil, fmt.Errorf("%w: balance %s, requested %s",
			store.ErrInsufficientFunds, fromState.balance.String(), params.Amount.String())
	}

	// Debit leg on the source account, related = destination.
	outTxnId, err := insertTransaction(ctx, tx, params.FromAccountId, models.KindTransferOut,
		params.Amount, params.Note, params.ToAccountId, params.Reference)
	if err != nil {
		return nil, err
	}

	// Credit leg on the destination account, related = source.
	inTxnId, err := insertTransaction(ctx, tx, params.ToAccountId, models.KindTransferIn,
		params.Amount, params.Note, params.FromAccountId, params.Reference)
	if err != nil {
		return nil, err
	}

	if err := setAccountBalance(ctx, tx, params.FromAccountId, fromState.balance.Sub(params.Amount), fromState.version); err != nil {
		return nil, err
	}
	if err := setAccountBalance(ctx, tx, params.ToAccountId, toState.balance.Add(params.Amount), toState.version); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Transfer processed successfully",
		zap.Int64("from_account_id", params.FromAccountId),
		zap.Int64("to_account_id", params.ToAccountId),
		zap.String("amount", params.Amount.String()))

	return &store.TransferResult{
		OutTxn: &models.Transaction{
			Id:               outTxnId,
			AccountId:        params.FromAccountId,
			Kind:             models.KindTransferOut,
			Amount:           params.Amount,
			Note:             params.Note,
			RelatedAccountId: params.ToAccountId,
			Reference:        params.Reference,
		},
		InTxn: &models.Transaction{
			Id:               inTxnId,
			AccountId:        params.ToAccountId,
			Kind:             models.KindTransferIn,
			Amount:           params.Amount,
			Note:             params.Note,
			RelatedAccountId: params.FromAccountId,
			Reference:        params.Reference,
		},
		FromUserId: fromState.userId,
		ToUserId:   toState.userId,
	}, nil
}

// GetTransactionHistory returns all transaction rows for an account, most
// recent first, with insertion order breaking same-timestamp ties. Rows for
// deleted accounts remain retrievable.
func (s *Service) GetTransactionHistory(ctx context.Context, accountId int64) ([]models.Transaction, error) {
	zap.L().Debug("Getting transaction history", zap.Int64("account_id", accountId))

	rows, err := s.db.QueryContext(ctx, queryGetTransactionHistory, accountId)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var transactions []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		var amountStr string
		var related sql.NullInt64
		err := rows.Scan(&txn.Id, &txn.AccountId, &txn.Kind, &amountStr,
			&txn.Note, &related, &txn.Reference, &txn.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
		}
		if related.Valid {
			txn.RelatedAccountId = related.Int64
		}

		transactions = append(transactions, txn)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}
