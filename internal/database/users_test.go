package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"bank-ledger-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	service := &Service{db: db}

	// Use the actual schema initialization
	if err := service.InitSchema(); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func mustCreateUser(t *testing.T, service *Service, username string) int64 {
	t.Helper()
	user, err := service.CreateUser(context.Background(), username, "test-hash")
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user.Id
}

func mustCreateAccount(t *testing.T, service *Service, userId int64, accountType string) int64 {
	t.Helper()
	account, err := service.CreateAccount(context.Background(), userId, accountType)
	if err != nil {
		t.Fatalf("Failed to create account for user %d: %v", userId, err)
	}
	return account.Id
}

func TestCreateUser(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	user, err := service.CreateUser(context.Background(), "alice", "hash1")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("Expected username alice, got %s", user.Username)
	}
	if user.PasswordHash != "hash1" {
		t.Errorf("Expected stored hash, got %s", user.PasswordHash)
	}
	if user.Id == 0 {
		t.Error("Expected a system-assigned id")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	mustCreateUser(t, service, "alice")

	_, err := service.CreateUser(context.Background(), "alice", "other-hash")
	if !errors.Is(err, store.ErrUsernameTaken) {
		t.Fatalf("Expected ErrUsernameTaken, got %v", err)
	}
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.GetUserByUsername(context.Background(), "nobody")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetUsers_OrderedById(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	mustCreateUser(t, service, "alice")
	mustCreateUser(t, service, "bob")
	mustCreateUser(t, service, "carol")

	users, err := service.GetUsers(context.Background())
	if err != nil {
		t.Fatalf("GetUsers failed: %v", err)
	}

	if len(users) != 3 {
		t.Fatalf("Expected 3 users, got %d", len(users))
	}
	for i := 1; i < len(users); i++ {
		if users[i].Id <= users[i-1].Id {
			t.Errorf("Expected ascending ids, got %d before %d", users[i-1].Id, users[i].Id)
		}
	}
}

func TestDeleteUser_RemovesAccountsKeepsTransactions(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	userId := mustCreateUser(t, service, "alice")
	accountId := mustCreateAccount(t, service, userId, "Checking")

	_, err := service.Deposit(ctx, store.MutationParams{
		AccountId: accountId,
		Amount:    decimal.NewFromInt(100),
		Note:      "Initial Balance",
	})
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	if err := service.DeleteUser(ctx, userId); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	accounts, err := service.GetAccounts(ctx, userId)
	if err != nil {
		t.Fatalf("GetAccounts failed: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("Expected no accounts after user deletion, got %d", len(accounts))
	}

	_, err = service.GetUserById(ctx, userId)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected deleted user to be gone, got %v", err)
	}

	// Audit trail survives: rows remain retrievable by account id.
	history, err := service.GetTransactionHistory(ctx, accountId)
	if err != nil {
		t.Fatalf("GetTransactionHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("Expected orphaned transaction row to remain, got %d rows", len(history))
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	err := service.DeleteUser(context.Background(), 999)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAllUsers(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	userId := mustCreateUser(t, service, "alice")
	accountId := mustCreateAccount(t, service, userId, "Checking")

	_, err := service.Deposit(ctx, store.MutationParams{
		AccountId: accountId,
		Amount:    decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	if err := service.DeleteAllUsers(ctx); err != nil {
		t.Fatalf("DeleteAllUsers failed: %v", err)
	}

	users, err := service.GetUsers(ctx)
	if err != nil {
		t.Fatalf("GetUsers failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected no users after reset, got %d", len(users))
	}

	history, err := service.GetTransactionHistory(ctx, accountId)
	if err != nil {
		t.Fatalf("GetTransactionHistory failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("Expected empty transaction table after reset, got %d rows", len(history))
	}
}
