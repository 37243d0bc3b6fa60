package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/bankcore/ledger-service/internal/audit"
	"github.com/bankcore/ledger-service/internal/ledger"
	"github.com/bankcore/ledger-service/internal/models"
	"github.com/bankcore/ledger-service/internal/service"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newTestServer wires the full stack against a fresh in-memory ledger,
// mirroring cmd/server.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := ledger.NewLedger("Test Owner")
	admin := ledger.NewAdmin("BankAdmin", "admin_pass")
	trail := audit.NewTrail()

	router := mux.NewRouter()
	NewAccountHandler(service.NewAccountService(l, trail, logger), logger).RegisterRoutes(router)
	NewTransferHandler(service.NewTransferService(l, trail, logger), logger).RegisterRoutes(router)
	NewAdminHandler(service.NewAdminService(admin, l, trail, logger), logger).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// doJSON sends a JSON request, asserts the status code, and decodes the
// response body into out when it is non-nil.
func doJSON(t *testing.T, srv *httptest.Server, method, path string, body interface{}, wantStatus int, out interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s status=%d want=%d body=%s", method, path, resp.StatusCode, wantStatus, raw)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func openTestAccounts(t *testing.T, srv *httptest.Server) {
	t.Helper()
	doJSON(t, srv, http.MethodPost, "/accounts/savings", models.OpenSavingsRequest{
		Number:         "SAV-1",
		InitialBalance: dec("1000"),
		InterestRate:   dec("0.12"),
		Credential:     "sav-secret",
	}, http.StatusCreated, nil)
	doJSON(t, srv, http.MethodPost, "/accounts/current", models.OpenCurrentRequest{
		Number:         "CUR-1",
		InitialBalance: dec("500"),
		OverdraftLimit: dec("200"),
		Credential:     "cur-secret",
	}, http.StatusCreated, nil)
}

func TestOpenAndGetAccounts(t *testing.T) {
	srv := newTestServer(t)
	openTestAccounts(t, srv)

	var account models.AccountResponse
	doJSON(t, srv, http.MethodGet, "/accounts/SAV-1", nil, http.StatusOK, &account)
	if account.Kind != models.KindSavings || !account.Balance.Equal(dec("1000")) {
		t.Fatalf("unexpected account: %+v", account)
	}
	if account.InterestRate == nil || !account.InterestRate.Equal(dec("0.12")) {
		t.Fatalf("missing interest rate: %+v", account)
	}
	if account.Description == "" {
		t.Fatalf("missing description")
	}

	var accounts []models.AccountResponse
	doJSON(t, srv, http.MethodGet, "/accounts", nil, http.StatusOK, &accounts)
	if len(accounts) != 2 || accounts[0].Number != "SAV-1" || accounts[1].Number != "CUR-1" {
		t.Fatalf("unexpected account list: %+v", accounts)
	}

	// Duplicate number conflicts.
	doJSON(t, srv, http.MethodPost, "/accounts/savings", models.OpenSavingsRequest{
		Number:         "SAV-1",
		InitialBalance: dec("0"),
		InterestRate:   dec("0.01"),
		Credential:     "x",
	}, http.StatusConflict, nil)

	doJSON(t, srv, http.MethodGet, "/accounts/NOPE", nil, http.StatusNotFound, nil)
}

func TestDepositAndWithdrawEndpoints(t *testing.T) {
	srv := newTestServer(t)
	openTestAccounts(t, srv)

	var account models.AccountResponse
	doJSON(t, srv, http.MethodPost, "/accounts/SAV-1/deposit", models.AmountRequest{Amount: dec("250")}, http.StatusOK, &account)
	if !account.Balance.Equal(dec("1250")) {
		t.Fatalf("balance=%s want=1250", account.Balance)
	}

	doJSON(t, srv, http.MethodPost, "/accounts/SAV-1/deposit", models.AmountRequest{Amount: dec("0")}, http.StatusBadRequest, nil)
	doJSON(t, srv, http.MethodPost, "/accounts/SAV-1/withdraw", models.AmountRequest{Amount: dec("9999")}, http.StatusConflict, nil)

	// Current accounts may go negative up to the overdraft limit.
	doJSON(t, srv, http.MethodPost, "/accounts/CUR-1/withdraw", models.AmountRequest{Amount: dec("700")}, http.StatusOK, &account)
	if !account.Balance.Equal(dec("-200")) {
		t.Fatalf("balance=%s want=-200", account.Balance)
	}
	doJSON(t, srv, http.MethodPost, "/accounts/CUR-1/withdraw", models.AmountRequest{Amount: dec("0.01")}, http.StatusConflict, nil)
}

func TestTransferEndpoint(t *testing.T) {
	srv := newTestServer(t)
	openTestAccounts(t, srv)

	var receipt models.TransferReceipt
	doJSON(t, srv, http.MethodPost, "/transfers", models.TransferRequest{
		FromAccount: "SAV-1",
		ToAccount:   "CUR-1",
		Amount:      dec("300"),
		Credential:  "sav-secret",
	}, http.StatusCreated, &receipt)
	if receipt.ID == "" || !receipt.Amount.Equal(dec("300")) {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	var account models.AccountResponse
	doJSON(t, srv, http.MethodGet, "/accounts/SAV-1", nil, http.StatusOK, &account)
	if !account.Balance.Equal(dec("700")) {
		t.Fatalf("source=%s want=700", account.Balance)
	}
	doJSON(t, srv, http.MethodGet, "/accounts/CUR-1", nil, http.StatusOK, &account)
	if !account.Balance.Equal(dec("800")) {
		t.Fatalf("destination=%s want=800", account.Balance)
	}

	// Wrong source credential: nothing moves.
	doJSON(t, srv, http.MethodPost, "/transfers", models.TransferRequest{
		FromAccount: "SAV-1",
		ToAccount:   "CUR-1",
		Amount:      dec("10"),
		Credential:  "wrong",
	}, http.StatusUnauthorized, nil)
	doJSON(t, srv, http.MethodGet, "/accounts/SAV-1", nil, http.StatusOK, &account)
	if !account.Balance.Equal(dec("700")) {
		t.Fatalf("balance changed on rejected transfer: %s", account.Balance)
	}

	doJSON(t, srv, http.MethodPost, "/transfers", models.TransferRequest{
		FromAccount: "NOPE",
		ToAccount:   "CUR-1",
		Amount:      dec("10"),
		Credential:  "x",
	}, http.StatusNotFound, nil)
}

func TestInterestAndStatementEndpoints(t *testing.T) {
	srv := newTestServer(t)
	openTestAccounts(t, srv)

	var run models.InterestRunResponse
	doJSON(t, srv, http.MethodPost, "/interest", nil, http.StatusOK, &run)
	if run.AccountsVisited != 2 {
		t.Fatalf("visited=%d want=2", run.AccountsVisited)
	}

	// 1000 * 0.12 / 12 = 10 on the savings account.
	var statement models.StatementResponse
	doJSON(t, srv, http.MethodGet, "/accounts/SAV-1/statement", nil, http.StatusOK, &statement)
	if len(statement.Transactions) != 1 {
		t.Fatalf("transactions=%d want=1", len(statement.Transactions))
	}
	tx := statement.Transactions[0]
	if tx.Kind != models.TransactionInterest || !tx.Amount.Equal(dec("10")) {
		t.Fatalf("unexpected interest transaction: %+v", tx)
	}

	var statements []models.StatementResponse
	doJSON(t, srv, http.MethodGet, "/statements", nil, http.StatusOK, &statements)
	if len(statements) != 2 {
		t.Fatalf("statements=%d want=2", len(statements))
	}
	// The current account accrues nothing.
	if len(statements[1].Transactions) != 0 {
		t.Fatalf("current account should have no transactions: %+v", statements[1])
	}
}

func TestChangeCredentialEndpoint(t *testing.T) {
	srv := newTestServer(t)
	openTestAccounts(t, srv)

	doJSON(t, srv, http.MethodPut, "/accounts/SAV-1/credential", models.ChangeCredentialRequest{
		OldCredential: "wrong",
		NewCredential: "next",
	}, http.StatusUnauthorized, nil)

	doJSON(t, srv, http.MethodPut, "/accounts/SAV-1/credential", models.ChangeCredentialRequest{
		OldCredential: "sav-secret",
		NewCredential: "next",
	}, http.StatusNoContent, nil)

	// Transfers now require the new credential.
	doJSON(t, srv, http.MethodPost, "/transfers", models.TransferRequest{
		FromAccount: "SAV-1",
		ToAccount:   "CUR-1",
		Amount:      dec("5"),
		Credential:  "next",
	}, http.StatusCreated, nil)
}

func TestAdminEndpoints(t *testing.T) {
	srv := newTestServer(t)
	openTestAccounts(t, srv)

	doJSON(t, srv, http.MethodDelete, "/admin/accounts/SAV-1", models.CloseAccountRequest{
		AdminCredential: "wrong",
	}, http.StatusUnauthorized, nil)
	doJSON(t, srv, http.MethodGet, "/accounts/SAV-1", nil, http.StatusOK, nil)

	doJSON(t, srv, http.MethodDelete, "/admin/accounts/SAV-1", models.CloseAccountRequest{
		AdminCredential: "admin_pass",
	}, http.StatusNoContent, nil)
	doJSON(t, srv, http.MethodGet, "/accounts/SAV-1", nil, http.StatusNotFound, nil)

	doJSON(t, srv, http.MethodDelete, "/admin/accounts/NOPE", models.CloseAccountRequest{
		AdminCredential: "admin_pass",
	}, http.StatusNotFound, nil)

	var accounts []models.AccountResponse
	doJSON(t, srv, http.MethodGet, "/admin/accounts", nil, http.StatusOK, &accounts)
	if len(accounts) != 1 || accounts[0].Number != "CUR-1" {
		t.Fatalf("unexpected accounts after closure: %+v", accounts)
	}

	var entries []audit.Entry
	doJSON(t, srv, http.MethodGet, "/audit/ACCOUNT/CUR-1", nil, http.StatusOK, &entries)
	if len(entries) != 1 || entries[0].Action != audit.ActionCreate {
		t.Fatalf("unexpected audit entries: %+v", entries)
	}
}
