/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	"go.uber.org/zap"
)

func (s *Service) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	zap.L().Info("Creating user", zap.String("username", username))

	result, err := s.db.ExecContext(ctx, queryInsertUser, username, passwordHash)
	if err != nil {
		zap.L().Error("Failed to insert user", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("unable to insert user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrUsernameTaken, username)
	}

	zap.L().Info("User created successfully", zap.String("username", username))

	// Return the created user
	return s.GetUserByUsername(ctx, username)
}

func (s *Service) GetUserById(ctx context.Context, userId int64) (*models.User, error) {
	zap.L().Debug("Querying user by ID", zap.Int64("user_id", userId))

	var user models.User
	err := s.db.QueryRowContext(ctx, queryGetUserById, userId).Scan(
		&user.Id, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %d", store.ErrNotFound, userId)
		}
		zap.L().Error("Failed to query user by ID", zap.Int64("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by ID: %w", err)
	}

	return &user, nil
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	zap.L().Debug("Querying user by username", zap.String("username", username))

	var user models.User
	err := s.db.QueryRowContext(ctx, queryGetUserByUsername, username).Scan(
		&user.Id, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, username)
		}
		zap.L().Error("Failed to query user by username", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by username: %w", err)
	}

	return &user, nil
}

func (s *Service) GetUsers(ctx context.Context) ([]models.User, error) {
	zap.L().Debug("Querying users")

	rows, err := s.db.QueryContext(ctx, queryGetUsers)
	if err != nil {
		zap.L().Error("Failed to query users", zap.Error(err))
		return nil, fmt.Errorf("unable to query users: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(&user.Id, &user.Username, &user.PasswordHash, &user.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan user row: %w", err)
		}

		users = append(users, user)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	zap.L().Info("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}

// DeleteUser removes the user's accounts and then the user row in one unit of
// work. Transaction rows belonging to the deleted accounts are kept so the
// audit trail survives user removal.
func (s *Service) DeleteUser(ctx context.Context, userId int64) error {
	zap.L().Info("Deleting user", zap.Int64("user_id", userId))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, queryDeleteUserAccounts, userId); err != nil {
		return fmt.Errorf("failed to delete accounts: %w", err)
	}

	result, err := tx.ExecContext(ctx, queryDeleteUser, userId)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: user %d", store.ErrNotFound, userId)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("User deleted", zap.Int64("user_id", userId))
	return nil
}

// DeleteAllUsers clears transactions, accounts, and users in that order
// (children before parents). A full reset, including the audit trail.
func (s *Service) DeleteAllUsers(ctx context.Context) error {
	zap.L().Warn("Deleting all users, accounts, and transactions")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, queryDeleteAllTransactions); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, queryDeleteAllAccounts); err != nil {
		return fmt.Errorf("failed to delete accounts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, queryDeleteAllUsers); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
