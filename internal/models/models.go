package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind identifies the withdrawal policy of an account.
// The set is closed: behavior is selected by exhaustive switch, never by
// open-ended subtyping.
type AccountKind string

const (
	KindSavings AccountKind = "savings"
	KindCurrent AccountKind = "current"
)

// TransactionKind identifies a balance-affecting event.
type TransactionKind string

const (
	TransactionDeposit  TransactionKind = "deposit"
	TransactionWithdraw TransactionKind = "withdraw"
	TransactionInterest TransactionKind = "interest"
)

// Transaction is an immutable record of one balance-affecting event on a
// single account. Amount is always positive; Kind says which way it moved.
type Transaction struct {
	ID        string          `json:"id"`
	Kind      TransactionKind `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// TransferReceipt records one completed transfer between two accounts.
type TransferReceipt struct {
	ID          string          `json:"id"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

type OpenSavingsRequest struct {
	Number         string          `json:"number"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	Credential     string          `json:"credential"`
}

type OpenCurrentRequest struct {
	Number         string          `json:"number"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
	Credential     string          `json:"credential"`
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type ChangeCredentialRequest struct {
	OldCredential string `json:"old_credential"`
	NewCredential string `json:"new_credential"`
}

type TransferRequest struct {
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Credential  string          `json:"credential"`
}

type CloseAccountRequest struct {
	AdminCredential string `json:"admin_credential"`
}

// AccountResponse is the wire view of an account. Variant-specific fields
// are pointers so only the relevant one is serialized.
type AccountResponse struct {
	Number         string           `json:"number"`
	Kind           AccountKind      `json:"kind"`
	Balance        decimal.Decimal  `json:"balance"`
	InterestRate   *decimal.Decimal `json:"interest_rate,omitempty"`
	OverdraftLimit *decimal.Decimal `json:"overdraft_limit,omitempty"`
	Description    string           `json:"description"`
}

type StatementResponse struct {
	AccountNumber string        `json:"account_number"`
	Transactions  []Transaction `json:"transactions"`
}

type InterestRunResponse struct {
	AccountsVisited int `json:"accounts_visited"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
