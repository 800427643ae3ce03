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
	"errors"
	"flag"
	"fmt"

	"bank-ledger-go/internal/common"
	"bank-ledger-go/internal/config"
	"bank-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	accountFlag := flag.Int64("account", 0, "Account id to withdraw from (required)")
	amountFlag := flag.String("amount", "", "Amount to withdraw (required)")
	noteFlag := flag.String("note", "Withdrawal", "Free-text note recorded on the transaction")
	flag.Parse()

	if *accountFlag == 0 || *amountFlag == "" {
		zap.L().Fatal("Both flags are required: --account and --amount")
	}

	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		zap.L().Fatal("Invalid amount", zap.String("amount", *amountFlag), zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if err := services.Ledger.Withdraw(ctx, *accountFlag, amount, *noteFlag); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidAmount):
			zap.L().Fatal("Amount must be positive", zap.String("amount", amount.String()))
		case errors.Is(err, store.ErrInsufficientFunds):
			zap.L().Fatal("Insufficient funds", zap.Int64("account_id", *accountFlag), zap.Error(err))
		case errors.Is(err, store.ErrNotFound):
			zap.L().Fatal("Account not found", zap.Int64("account_id", *accountFlag))
		default:
			zap.L().Fatal("Withdrawal failed", zap.Error(err))
		}
	}

	balance, err := services.Ledger.GetAccountBalance(ctx, *accountFlag)
	if err != nil {
		zap.L().Fatal("Withdrawal recorded but balance read failed", zap.Error(err))
	}

	fmt.Printf("✓ Withdrew %s from account %d (balance: %s)\n",
		amount.StringFixed(2), *accountFlag, balance.StringFixed(2))
}
