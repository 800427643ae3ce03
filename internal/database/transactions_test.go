package database

import (
	"context"
	"errors"
	"testing"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

func TestDeposit(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	userId := mustCreateUser(t, service, "alice")
	accountId := mustCreateAccount(t, service, userId, "Checking")

	amount := decimal.RequireFromString("100.00")
	result, err := service.Deposit(ctx, store.MutationParams{
		AccountId: accountId,
		Amount:    amount,
		Note:      "Initial Balance",
		Reference: "ref-1",
	})
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	if result.UserId != userId {
		t.Errorf("Expected owner %d, got %d", userId, result.UserId)
	}
	if result.Txn.Kind != models.KindDeposit {
		t.Errorf("Expected deposit kind, got %s", result.Txn.Kind)
	}

	balance, err := service.GetAccountBalance(ctx, accountId)
	if err != nil {
		t.Fatalf("GetAccountBalance failed: %v", err)
	}
	if !balance.Equal(amount) {
		t.Errorf("Expected balance %s, got %s", amount.String(), balance.String())
	}

	history, err := service.GetTransactionHistory(ctx, accountId)
	if err != nil {
		t.Fatalf("GetTransactionHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 history row, got %d", len(history))
	}
	if history[0].Note != "Initial Balance" {
		t.Errorf("Expected note to round-trip, got %q", history[0].Note)
	}
	if history[0].RelatedAccountId != 0 {
		t.Errorf("Expected no related account on a deposit, got %d", history[0].RelatedAccountId)
	}
}

func TestDeposit_AccountNotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.Deposit(context.Background(), store.MutationParams{
		AccountId: 999,
		Amount:    decimal.NewFromInt(10),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestWithdraw(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	userId := mustCreateUser(t, service, "alice")
	accountId := mustCreateAccount(t, service, userId, "Checking")

	_, err := service.Deposit(ctx, store.MutationParams{
		AccountId: accountId,
		Amount:    decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	result, err := service.Withdraw(ctx, store.MutationParams{
		AccountId: accountId,
		Amount:    decimal.RequireFromString("30.00"),
		Note:      "ATM",
	})
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if result.Txn.Kind != models.KindWithdrawal {
		t.Errorf("Expected withdrawal kind, got %s", result.Txn.Kind)
	}

	balance, err := service.GetAccountBalance(ctx, accountId)
	if err != nil {
		t.Fatalf("GetAccountBalance failed: %v", err)
	}
	expected := decimal.RequireFromString("70.00")
	if !balance.Equal(expected) {
		t.Errorf("Expected balance %s, got %s", expected.String(), balance.String())
	}
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	userId := mustCreateUser(t, service, "alice")
	accountId := mustCreateAccount(t, service, userId, "Checking")

	_, err := service.Deposit(ctx, store.MutationParams{
		AccountId: accountId,
		Amount:    decimal.RequireFromString("70.00"),
	})
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	_, err = service.Withdraw(ctx, store.MutationParams{
		AccountId: accountId,
		Amount:    decimal.RequireFromString("1000.00"),
	})
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}

	// Rejected operation leaves balance and history untouched.
	balance, err := service.GetAccountBalance(ctx, accountId)
	if err != nil {
		t.Fatalf("GetAccountBalance failed: %v", err)
	}
	expected := decimal.RequireFromString("70.00")
	if !balance.Equal(expected) {
		t.Errorf("Expected balance %s, got %s", expected.String(), balance.String())
	}

	history, err := service.GetTransactionHistory(ctx, accountId)
	if err != nil {
		t.Fatalf("GetTransactionHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("Expected history unchanged at 1 row, got %d", len(history))
	}
}

func TestTransfer(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	aliceId := mustCreateUser(t, service, "alice")
	bobId := mustCreateUser(t, service, "bob")
	fromAccount := mustCreateAccount(t, service, aliceId, "Checking")
	toAccount := mustCreateAccount(t, service, bobId, "Savings")

	_, err := service.Deposit(ctx, store.MutationParams{
		AccountId: fromAccount,
		Amount:    decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	amount := decimal.RequireFromString("40.00")
	result, err := service.Transfer(ctx, store.TransferParams{
		FromAccountId: fromAccount,
		ToAccountId:   toAccount,
		Amount:        amount,
		Note:          "Rent",
		Reference:     "transfer-ref",
	})
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	if result.FromUserId != aliceId || result.ToUserId != bobId {
		t.Errorf("Expected owners %d/%d, got %d/%d", aliceId, bobId, result.FromUserId, result.ToUserId)
	}

	fromBalance, _ := service.GetAccountBalance(ctx, fromAccount)
	toBalance, _ := service.GetAccountBalance(ctx, toAccount)
	if !fromBalance.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("Expected source balance 60.00, got %s", fromBalance.String())
	}
	if !toBalance.Equal(amount) {
		t.Errorf("Expected destination balance 40.00, got %s", toBalance.String())
	}

	// Exactly one transfer_out leg on the source, related = destination.
	fromHistory, err := service.GetTransactionHistory(ctx, fromAccount)
	if err != nil {
		t.Fatalf("GetTransactionHistory failed: %v", err)
	}
	if len(fromHistory) != 2 {
		t.Fatalf("Expected 2 rows on source, got %d", len(fromHistory))
	}
	out := fromHistory[0]
	if out.Kind != models.KindTransferOut {
		t.Errorf("Expected transfer_out leg, got %s", out.Kind)
	}
	if out.RelatedAccountId != toAccount {
		t.Errorf("Expected related account %d, got %d", toAccount, out.RelatedAccountId)
	}
	if !out.Amount.Equal(amount) {
		t.Errorf("Expected leg amount %s, got %s", amount.String(), out.Amount.String())
	}

	// Exactly one transfer_in leg on the destination, related = source.
	toHistory, err := service.GetTransactionHistory(ctx, toAccount)
	if err != nil {
		t.Fatalf("GetTransactionHistory failed: %v", err)
	}
	if len(toHistory) != 1 {
		t.Fatalf("Expected 1 row on destination, got %d", len(toHistory))
	}
	in := toHistory[0]
	if in.Kind != models.KindTransferIn {
		t.Errorf("Expected transfer_in leg, got %s", in.Kind)
	}
	if in.RelatedAccountId != fromAccount {
		t.Errorf("Expected related account %d, got %d", fromAccount, in.RelatedAccountId)
	}
	if !in.Amount.Equal(amount) {
		t.Errorf("Expected leg amount %s, got %s", amount.String(), in.Amount.String())
	}

	// Both legs share the operation reference.
	if out.Reference != "transfer-ref" || in.Reference != "transfer-ref" {
		t.Errorf("Expected legs to share reference, got %q and %q", out.Reference, in.Reference)
	}
}

func TestTransfer_InsufficientFundsRollsBack(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	userId := mustCreateUser(t, service, "alice")
	fromAccount := mustCreateAccount(t, service, userId, "Checking")
	toAccount := mustCreateAccount(t, service, userId, "Savings")

	_, err := service.Deposit(ctx, store.MutationParams{
		AccountId: fromAccount,
		Amount:    decimal.RequireFromString("10.00"),
	})
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	_, err = service.Transfer(ctx, store.TransferParams{
		FromAccountId: fromAccount,
		ToAccountId:   toAccount,
		Amount:        decimal.RequireFromString("25.00"),
	})
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}

	fromBalance, _ := service.GetAccountBalance(ctx, fromAccount)
	toBalance, _ := service.GetAccountBalance(ctx, toAccount)
	if !fromBalance.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("Expected source balance unchanged, got %s", fromBalance.String())
	}
	if !toBalance.Equal(decimal.Zero) {
		t.Errorf("Expected destination balance unchanged, got %s", toBalance.String())
	}

	toHistory, _ := service.GetTransactionHistory(ctx, toAccount)
	if len(toHistory) != 0 {
		t.Errorf("Expected no partial leg on destination, got %d rows", len(toHistory))
	}
}

func TestTransfer_MissingDestinationRollsBack(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	userId := mustCreateUser(t, service, "alice")
	fromAccount := mustCreateAccount(t, service, userId, "Checking")

	_, err := service.Deposit(ctx, store.MutationParams{
		AccountId: fromAccount,
		Amount:    decimal.RequireFromString("50.00"),
	})
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	_, err = service.Transfer(ctx, store.TransferParams{
		FromAccountId: fromAccount,
		ToAccountId:   999,
		Amount:        decimal.RequireFromString("20.00"),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	fromBalance, _ := service.GetAccountBalance(ctx, fromAccount)
	if !fromBalance.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("Expected source balance unchanged, got %s", fromBalance.String())
	}
	fromHistory, _ := service.GetTransactionHistory(ctx, fromAccount)
	if len(fromHistory) != 1 {
		t.Errorf("Expected source history unchanged, got %d rows", len(fromHistory))
	}
}

func TestGetTransactionHistory_MostRecentFirst(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	userId := mustCreateUser(t, service, "alice")
	accountId := mustCreateAccount(t, service, userId, "Checking")

	// Same-second inserts: insertion order must break the timestamp tie.
	for i := 0; i < 3; i++ {
		_, err := service.Deposit(ctx, store.MutationParams{
			AccountId: accountId,
			Amount:    decimal.NewFromInt(int64(i + 1)),
		})
		if err != nil {
			t.Fatalf("Deposit %d failed: %v", i, err)
		}
	}

	history, err := service.GetTransactionHistory(ctx, accountId)
	if err != nil {
		t.Fatalf("GetTransactionHistory failed: %v", err)
	}

	if len(history) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].Id >= history[i-1].Id {
			t.Errorf("Expected descending insertion order, got id %d before %d",
				history[i-1].Id, history[i].Id)
		}
	}
}
