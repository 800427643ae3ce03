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

package main

import (
	"context"
	"flag"
	"fmt"

	"bank-ledger-go/internal/common"
	"bank-ledger-go/internal/config"
	"bank-ledger-go/internal/models"

	"go.uber.org/zap"
)

type accountStats struct {
	totalUsers        int
	totalAccounts     int
	usersWithAccounts int
}

func printAccount(account models.Account, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	fmt.Printf("%s #%-6d %-15s: %20s\n",
		symbol,
		account.Id,
		account.AccountType,
		account.Balance.StringFixed(2))
}

func printAccounts(accounts []models.Account) {
	for i, account := range accounts {
		isLast := i == len(accounts)-1
		printAccount(account, isLast)
	}
}

func printUserHeader(user models.User, accountCount int) {
	fmt.Printf("\n┌─ User: %s\n", user.Username)
	fmt.Printf("│  ID: %d\n", user.Id)
	fmt.Printf("│  Accounts: %d\n", accountCount)
	common.PrintBoxSeparator(78)
}

func processUsersAndGenerateReport(ctx context.Context, users []models.User, services *common.Services) accountStats {
	stats := accountStats{}

	for _, user := range users {
		stats.totalUsers++

		accounts, err := services.Ledger.GetAccounts(ctx, user.Id)
		if err != nil {
			zap.L().Error("Failed to get accounts",
				zap.Int64("user_id", user.Id),
				zap.String("username", user.Username),
				zap.Error(err))
			continue
		}

		if len(accounts) == 0 {
			continue
		}

		printUserHeader(user, len(accounts))
		printAccounts(accounts)

		stats.usersWithAccounts++
		stats.totalAccounts += len(accounts)
	}

	return stats
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	usernameFlag := flag.String("username", "", "Filter by specific username (optional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	zap.L().Info("Connecting to database", zap.String("path", cfg.Database.Path))
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	var users []models.User
	if *usernameFlag != "" {
		user, err := services.DbService.GetUserByUsername(ctx, *usernameFlag)
		if err != nil {
			zap.L().Fatal("User not found", zap.String("username", *usernameFlag), zap.Error(err))
		}
		users = append(users, *user)
	} else {
		users, err = services.Ledger.GetUsers(ctx)
		if err != nil {
			zap.L().Fatal("Failed to get users", zap.Error(err))
		}
	}

	common.PrintHeader("ACCOUNT BALANCE REPORT", common.DefaultWidth)

	stats := processUsersAndGenerateReport(ctx, users, services)

	summary := fmt.Sprintf("SUMMARY: %d users with accounts (%d total accounts across %d users queried)",
		stats.usersWithAccounts, stats.totalAccounts, stats.totalUsers)
	common.PrintFooter(summary, common.DefaultWidth)

	zap.L().Info("Account query completed",
		zap.Int("users_queried", stats.totalUsers),
		zap.Int("users_with_accounts", stats.usersWithAccounts),
		zap.Int("total_accounts", stats.totalAccounts))
}
