package ledger

import (
	"errors"
	"testing"

	lederr "github.com/bankcore/ledger-service/internal/errors"
)

func TestAdminCloseAccount(t *testing.T) {
	l := newTestLedger(t)
	admin := NewAdmin("BankAdmin", "admin_pass")

	// Wrong admin credential: closure rejected, account untouched.
	if err := admin.CloseAccount(l, "SAV-1", "wrong"); !errors.Is(err, lederr.ErrAuthFailed) {
		t.Fatalf("want ErrAuthFailed, got %v", err)
	}
	if _, err := l.Account("SAV-1"); err != nil {
		t.Fatalf("account gone after rejected closure: %v", err)
	}

	// Unknown account with correct credential.
	if err := admin.CloseAccount(l, "NOPE", "admin_pass"); !errors.Is(err, lederr.ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}

	// Successful closure is a hard delete.
	if err := admin.CloseAccount(l, "SAV-1", "admin_pass"); err != nil {
		t.Fatalf("CloseAccount: %v", err)
	}
	if _, err := l.Account("SAV-1"); !errors.Is(err, lederr.ErrAccountNotFound) {
		t.Fatalf("closed account still resolvable: %v", err)
	}
	if _, err := l.Statement("SAV-1"); !errors.Is(err, lederr.ErrAccountNotFound) {
		t.Fatalf("closed account statement still resolvable: %v", err)
	}

	// Remaining accounts keep their display order.
	accounts := admin.ViewAccounts(l)
	if len(accounts) != 1 || accounts[0].Number != "CUR-1" {
		t.Fatalf("unexpected accounts after closure: %+v", accounts)
	}

	// The freed number can be reused for a new account.
	if _, err := l.OpenSavings("SAV-1", dec("0"), dec("0.01"), "fresh"); err != nil {
		t.Fatalf("reopen after closure: %v", err)
	}
	statement, err := l.Statement("SAV-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(statement.Transactions) != 0 {
		t.Fatalf("old transaction log survived closure: %+v", statement.Transactions)
	}
}
