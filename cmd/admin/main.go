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
	listFlag := flag.Bool("list", false, "List all users")
	deleteFlag := flag.Int64("delete-user", 0, "Delete the user with this id (accounts removed, history kept)")
	resetFlag := flag.Bool("reset", false, "Delete all transactions, accounts, and users")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	switch {
	case *listFlag:
		users, err := services.Ledger.GetUsers(ctx)
		if err != nil {
			zap.L().Fatal("Failed to get users", zap.Error(err))
		}

		common.PrintHeader("USERS", common.DefaultWidth)
		for i, user := range users {
			fmt.Printf("%s #%-6d %s\n", common.BoxPrefix(i == len(users)-1), user.Id, user.Username)
		}
		common.PrintFooter(fmt.Sprintf("%d users", len(users)), common.DefaultWidth)

	case *deleteFlag != 0:
		if err := services.Ledger.DeleteUser(ctx, *deleteFlag); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				zap.L().Fatal("User not found", zap.Int64("user_id", *deleteFlag))
			}
			zap.L().Fatal("Failed to delete user", zap.Error(err))
		}
		fmt.Printf("✓ Deleted user %d (accounts removed, transaction history kept)\n", *deleteFlag)

	case *resetFlag:
		if err := services.Ledger.DeleteAllUsers(ctx); err != nil {
			zap.L().Fatal("Failed to reset database", zap.Error(err))
		}
		fmt.Println("✓ Database reset: all transactions, accounts, and users deleted")

	default:
		zap.L().Fatal("One of --list, --delete-user, or --reset is required")
	}
}
