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

func formatRelated(txn models.Transaction) string {
	switch txn.Kind {
	case models.KindTransferOut:
		return fmt.Sprintf(" -> account %d", txn.RelatedAccountId)
	case models.KindTransferIn:
		return fmt.Sprintf(" <- account %d", txn.RelatedAccountId)
	default:
		return ""
	}
}

func printTransaction(txn models.Transaction, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	fmt.Printf("%s %s  %-12s %12s  %s%s\n",
		symbol,
		txn.CreatedAt.Format("2006-01-02 15:04:05"),
		txn.Kind,
		txn.Amount.StringFixed(2),
		txn.Note,
		formatRelated(txn))
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	accountFlag := flag.Int64("account", 0, "Account id to query (required)")
	flag.Parse()

	if *accountFlag == 0 {
		zap.L().Fatal("Required flag: --account")
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

	history, err := services.Ledger.GetTransactionHistory(ctx, *accountFlag)
	if err != nil {
		zap.L().Fatal("Failed to get transaction history", zap.Error(err))
	}

	common.PrintHeader(fmt.Sprintf("TRANSACTION HISTORY: ACCOUNT %d", *accountFlag), common.DefaultWidth)

	if len(history) == 0 {
		fmt.Println("No transactions recorded")
	}
	for i, txn := range history {
		printTransaction(txn, i == len(history)-1)
	}

	common.PrintFooter(fmt.Sprintf("%d transactions (most recent first)", len(history)), common.DefaultWidth)

	zap.L().Info("History query completed",
		zap.Int64("account_id", *accountFlag),
		zap.Int("count", len(history)))
}
