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

const (
	// User queries
	queryInsertUser = `
		INSERT OR IGNORE INTO users (username, password_hash) VALUES (?, ?)`

	queryGetUserById = `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = ?`

	queryGetUserByUsername = `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = ?`

	queryGetUsers = `
		SELECT id, username, password_hash, created_at
		FROM users
		ORDER BY id`

	queryDeleteUserAccounts = `
		DELETE FROM accounts WHERE user_id = ?`

	queryDeleteUser = `
		DELETE FROM users WHERE id = ?`

	// Account queries
	queryInsertAccount = `
		INSERT INTO accounts (user_id, account_type, balance, version)
		VALUES (?, ?, '0', 1)`

	queryGetAccount = `
		SELECT id, user_id, account_type, balance, version, created_at, updated_at
		FROM accounts
		WHERE id = ?`

	queryGetAccounts = `
		SELECT id, user_id, account_type, balance, version, created_at, updated_at
		FROM accounts
		WHERE user_id = ?
		ORDER BY id ASC`

	queryGetAccountsByUsername = `
		SELECT a.id, a.user_id, a.account_type, a.balance, a.version, a.created_at, a.updated_at
		FROM accounts a
		JOIN users u ON a.user_id = u.id
		WHERE u.username = ?
		ORDER BY a.id ASC`

	queryGetAccountBalance = `
		SELECT balance
		FROM accounts
		WHERE id = ?`

	// Locked inside a transaction before a balance mutation.
	queryGetAccountForUpdate = `
		SELECT user_id, balance, version
		FROM accounts
		WHERE id = ?`

	queryUpdateAccountBalance = `
		UPDATE accounts
		SET balance = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?`

	// Transaction queries
	queryInsertTransaction = `
		INSERT INTO transactions (account_id, type, amount, note, related_account_id, reference)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryGetTransactionHistory = `
		SELECT id, account_id, type, amount, note, related_account_id, reference, created_at
		FROM transactions
		WHERE account_id = ?
		ORDER BY created_at DESC, id DESC`

	queryDeleteAllTransactions = `
		DELETE FROM transactions`

	queryDeleteAllAccounts = `
		DELETE FROM accounts`

	queryDeleteAllUsers = `
		DELETE FROM users`
)
