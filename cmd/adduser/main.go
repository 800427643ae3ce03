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

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	usernameFlag := flag.String("username", "", "Username for the new user (required)")
	passwordFlag := flag.String("password", "", "Password for the new user (required)")
	accountFlag := flag.String("account", "", "Optional account type to open immediately (e.g. Checking)")
	flag.Parse()

	if *usernameFlag == "" || *passwordFlag == "" {
		zap.L().Fatal("Both flags are required: --username and --password")
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

	user, err := services.Ledger.CreateUser(ctx, *usernameFlag, *passwordFlag)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			zap.L().Fatal("Username already exists", zap.String("username", *usernameFlag))
		}
		zap.L().Fatal("Failed to create user", zap.Error(err))
	}

	fmt.Println()
	common.PrintHeader("USER CREATED", common.DefaultWidth)
	fmt.Printf("ID:       %d\n", user.Id)
	fmt.Printf("Username: %s\n", user.Username)
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()

	if *accountFlag != "" {
		accountId, err := services.Ledger.OpenAccount(ctx, user.Id, *accountFlag)
		if err != nil {
			zap.L().Fatal("User created but account could not be opened", zap.Error(err))
		}
		fmt.Printf("✓ Opened %s account %d with zero balance\n", *accountFlag, accountId)
	}

	zap.L().Info("User created successfully", zap.Int64("id", user.Id), zap.String("username", user.Username))
}
