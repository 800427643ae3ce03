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

// CreateAccount inserts a new account with a zero starting balance. The owner
// is verified first; foreign keys are not enforced by the schema.
func (s *Service) CreateAccount(ctx context.Context, userId int64, accountType string) (*models.Account, error) {
	zap.L().Info("Creating account", zap.Int64("user_id", userId), zap.String("account_type", accountType))

	if _, err := s.GetUserById(ctx, userId); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, queryInsertAccount, userId, accountType)
	if err != nil {
		zap.L().Error("Failed to insert account", zap.Int64("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to insert account: %w", err)
	}

	accountId, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("unable to get new account id: %w", err)
	}

	zap.L().Info("Account created successfully",
		zap.Int64("account_id", accountId),
		zap.Int64("user_id", userId),
		zap.String("account_type", accountType))

	return s.GetAccount(ctx, accountId)
}

func (s *Service) GetAccount(ctx context.Context, accountId int64) (*models.Account, error) {
	var account models.Account
	var balanceStr string
	err := s.db.QueryRowContext(ctx, queryGetAccount, accountId).Scan(
		&account.Id, &account.UserId, &account.AccountType, &balanceStr,
		&account.Version, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %d", store.ErrNotFound, accountId)
		}
		zap.L().Error("Failed to query account", zap.Int64("account_id", accountId), zap.Error(err))
		return nil, fmt.Errorf("unable to query account: %w", err)
	}

	account.Balance, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance '%s': %w", balanceStr, err)
	}

	return &account, nil
}

// GetAccounts returns all accounts for a user, ordered by account id ascending.
func (s *Service) GetAccounts(ctx context.Context, userId int64) ([]models.Account, error) {
	zap.L().Debug("Querying accounts", zap.Int64("user_id", userId))

	rows, err := s.db.QueryContext(ctx, queryGetAccounts, userId)
	if err != nil {
		return nil, fmt.Errorf("unable to query accounts: %w", err)
	}
	return scanAccounts(rows)
}

// GetAccountsByUsername returns all accounts for a username, ordered by
// account id ascending.
func (s *Service) GetAccountsByUsername(ctx context.Context, username string) ([]models.Account, error) {
	zap.L().Debug("Querying accounts by username", zap.String("username", username))

	rows, err := s.db.QueryContext(ctx, queryGetAccountsByUsername, username)
	if err != nil {
		return nil, fmt.Errorf("unable to query accounts by username: %w", err)
	}
	return scanAccounts(rows)
}

func scanAccounts(rows *sql.Rows) ([]models.Account, error) {
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		var balanceStr string
		err := rows.Scan(&account.Id, &account.UserId, &account.AccountType, &balanceStr,
			&account.Version, &account.CreatedAt, &account.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan account row: %w", err)
		}

		account.Balance, err = decimal.NewFromString(balanceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse balance '%s': %w", balanceStr, err)
		}

		accounts = append(accounts, account)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	return accounts, nil
}

func (s *Service) GetAccountBalance(ctx context.Context, accountId int64) (decimal.Decimal, error) {
	zap.L().Debug("Getting balance", zap.Int64("account_id", accountId))

	var balanceStr string
	err := s.db.QueryRowContext(ctx, queryGetAccountBalance, accountId).Scan(&balanceStr)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("%w: account %d", store.ErrNotFound, accountId)
	}
	if err != nil {
		zap.L().Error("Failed to get balance", zap.Int64("account_id", accountId), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		zap.L().Error("Failed to parse balance", zap.String("balance_str", balanceStr), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to parse balance: %w", err)
	}

	return balance, nil
}
