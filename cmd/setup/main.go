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

	seedFlag := flag.Bool("seed", false, "Load users and accounts from the seed file after initialization")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	zap.L().Info("Initializing database", zap.String("path", cfg.Database.Path))
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	common.PrintHeader("DATABASE INITIALIZED", common.DefaultWidth)
	fmt.Printf("Path: %s\n", cfg.Database.Path)
	common.PrintSeparator("=", common.DefaultWidth)

	if !*seedFlag {
		return
	}

	seedUsers, err := common.LoadSeedFile(cfg.Seed.File)
	if err != nil {
		zap.L().Fatal("Failed to load seed file", zap.String("file", cfg.Seed.File), zap.Error(err))
	}
	zap.L().Info("Seed file loaded", zap.String("file", cfg.Seed.File), zap.Int("users", len(seedUsers)))

	created := 0
	skipped := 0
	for _, seedUser := range seedUsers {
		user, err := services.Ledger.CreateUser(ctx, seedUser.Username, seedUser.Password)
		if err != nil {
			if errors.Is(err, store.ErrUsernameTaken) {
				zap.L().Info("Seed user already exists, skipping", zap.String("username", seedUser.Username))
				skipped++
				continue
			}
			zap.L().Fatal("Failed to create seed user", zap.String("username", seedUser.Username), zap.Error(err))
		}
		created++

		for _, seedAccount := range seedUser.Accounts {
			initialDeposit := decimal.Zero
			if seedAccount.InitialDeposit != "" {
				initialDeposit, err = decimal.NewFromString(seedAccount.InitialDeposit)
				if err != nil {
					zap.L().Fatal("Invalid initial deposit in seed file",
						zap.String("username", seedUser.Username),
						zap.String("amount", seedAccount.InitialDeposit),
						zap.Error(err))
				}
			}

			accountId, err := services.Ledger.OpenAccountWithDeposit(ctx, user.Id, seedAccount.Type, initialDeposit, "Initial Balance")
			if err != nil {
				zap.L().Fatal("Failed to open seed account",
					zap.String("username", seedUser.Username),
					zap.String("account_type", seedAccount.Type),
					zap.Error(err))
			}
			fmt.Printf("✓ %s: account %d (%s)\n", seedUser.Username, accountId, seedAccount.Type)
		}
	}

	summary := fmt.Sprintf("SEED COMPLETE: %d users created, %d skipped", created, skipped)
	common.PrintFooter(summary, common.DefaultWidth)
}
