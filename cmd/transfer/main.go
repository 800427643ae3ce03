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
	fromFlag := flag.Int64("from", 0, "Source account id (required)")
	toFlag := flag.Int64("to", 0, "Destination account id (required)")
	amountFlag := flag.String("amount", "", "Amount to transfer (required)")
	noteFlag := flag.String("note", "Transfer", "Free-text note recorded on both legs")
	flag.Parse()

	if *fromFlag == 0 || *toFlag == 0 || *amountFlag == "" {
		zap.L().Fatal("Required flags: --from, --to, and --amount")
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

	if err := services.Ledger.Transfer(ctx, *fromFlag, *toFlag, amount, *noteFlag); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidAmount):
			zap.L().Fatal("Amount must be positive", zap.String("amount", amount.String()))
		case errors.Is(err, store.ErrSameAccount):
			zap.L().Fatal("Source and destination accounts must differ", zap.Int64("account_id", *fromFlag))
		case errors.Is(err, store.ErrInsufficientFunds):
			zap.L().Fatal("Insufficient funds in source account", zap.Int64("account_id", *fromFlag), zap.Error(err))
		case errors.Is(err, store.ErrNotFound):
			zap.L().Fatal("Account not found", zap.Error(err))
		default:
			zap.L().Fatal("Transfer failed", zap.Error(err))
		}
	}

	fromBalance, err := services.Ledger.GetAccountBalance(ctx, *fromFlag)
	if err != nil {
		zap.L().Fatal("Transfer recorded but balance read failed", zap.Error(err))
	}
	toBalance, err := services.Ledger.GetAccountBalance(ctx, *toFlag)
	if err != nil {
		zap.L().Fatal("Transfer recorded but balance read failed", zap.Error(err))
	}

	fmt.Printf("✓ Transferred %s from account %d to account %d\n",
		amount.StringFixed(2), *fromFlag, *toFlag)
	fmt.Printf("  Account %d balance: %s\n", *fromFlag, fromBalance.StringFixed(2))
	fmt.Printf("  Account %d balance: %s\n", *toFlag, toBalance.StringFixed(2))
}
