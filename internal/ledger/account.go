package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankcore/ledger-service/internal/errors"
	"github.com/bankcore/ledger-service/internal/models"
)

var monthsPerYear = decimal.NewFromInt(12)

// Account is a balance-bearing entity with a withdrawal policy chosen by its
// kind and an append-only transaction log. All fields are unexported; the
// owning Ledger is the only writer and callers only ever see snapshots.
// Methods here assume the ledger mutex is held.
type Account struct {
	number     string
	kind       models.AccountKind
	balance    decimal.Decimal
	credential string

	// variant-specific policy parameters
	interestRate   decimal.Decimal // savings only
	overdraftLimit decimal.Decimal // current only, never negative

	transactions []models.Transaction
}

func newSavingsAccount(number string, initial, rate decimal.Decimal, credential string) *Account {
	return &Account{
		number:       number,
		kind:         models.KindSavings,
		balance:      initial,
		credential:   credential,
		interestRate: rate,
	}
}

func newCurrentAccount(number string, initial, overdraft decimal.Decimal, credential string) *Account {
	return &Account{
		number:         number,
		kind:           models.KindCurrent,
		balance:        initial,
		credential:     credential,
		overdraftLimit: overdraft,
	}
}

// deposit increases the balance and records the event. A deposit of a
// positive amount cannot fail for any account kind.
func (a *Account) deposit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return errors.ErrInvalidAmount
	}
	a.balance = a.balance.Add(amount)
	a.record(models.TransactionDeposit, amount)
	return nil
}

// withdraw applies the kind-specific withdrawal policy: a savings balance
// never goes below zero, a current balance never goes below the negated
// overdraft limit.
func (a *Account) withdraw(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return errors.ErrInvalidAmount
	}
	switch a.kind {
	case models.KindSavings:
		if amount.GreaterThan(a.balance) {
			return errors.ErrInsufficientFunds
		}
	case models.KindCurrent:
		if amount.GreaterThan(a.balance.Add(a.overdraftLimit)) {
			return errors.ErrOverdraftExceeded
		}
	}
	a.balance = a.balance.Sub(amount)
	a.record(models.TransactionWithdraw, amount)
	return nil
}

// applyMonthlyInterest accrues one month of interest on a savings account,
// computed from the balance before the mutation. Current accounts do not
// accrue interest. Returns the accrued amount and whether anything changed.
func (a *Account) applyMonthlyInterest() (decimal.Decimal, bool) {
	switch a.kind {
	case models.KindSavings:
		interest := a.balance.Mul(a.interestRate).Div(monthsPerYear)
		a.balance = a.balance.Add(interest)
		a.record(models.TransactionInterest, interest)
		return interest, true
	default:
		return decimal.Zero, false
	}
}

// verifyCredential never mutates state and never logs the candidate.
func (a *Account) verifyCredential(candidate string) bool {
	return candidate == a.credential
}

// changeCredential replaces the stored credential after re-verifying the old
// one. Credential changes are not financial events, so no transaction is
// recorded.
func (a *Account) changeCredential(oldCredential, newCredential string) error {
	if !a.verifyCredential(oldCredential) {
		return errors.ErrAuthFailed
	}
	a.credential = newCredential
	return nil
}

// record appends exactly one transaction for a balance mutation, in the same
// critical section as the mutation itself.
func (a *Account) record(kind models.TransactionKind, amount decimal.Decimal) {
	a.transactions = append(a.transactions, models.Transaction{
		ID:        uuid.New().String(),
		Kind:      kind,
		Amount:    amount,
		CreatedAt: time.Now(),
	})
}

// describe renders the human-readable account summary. Variant fields are
// included here so callers never branch on the concrete kind.
func (a *Account) describe() string {
	switch a.kind {
	case models.KindSavings:
		return fmt.Sprintf("Savings Account - Number: %s, Balance: $%s, Interest Rate: %s%%",
			a.number, a.balance.String(), a.interestRate.Mul(decimal.NewFromInt(100)).String())
	case models.KindCurrent:
		return fmt.Sprintf("Current Account - Number: %s, Balance: $%s, Overdraft Limit: $%s",
			a.number, a.balance.String(), a.overdraftLimit.String())
	default:
		return fmt.Sprintf("Account - Number: %s, Balance: $%s", a.number, a.balance.String())
	}
}

// snapshot builds the wire view of the account. The returned value shares no
// mutable state with the account.
func (a *Account) snapshot() models.AccountResponse {
	resp := models.AccountResponse{
		Number:      a.number,
		Kind:        a.kind,
		Balance:     a.balance,
		Description: a.describe(),
	}
	switch a.kind {
	case models.KindSavings:
		rate := a.interestRate
		resp.InterestRate = &rate
	case models.KindCurrent:
		limit := a.overdraftLimit
		resp.OverdraftLimit = &limit
	}
	return resp
}

// statement copies the transaction log so callers cannot mutate it.
func (a *Account) statement() models.StatementResponse {
	transactions := make([]models.Transaction, len(a.transactions))
	copy(transactions, a.transactions)
	return models.StatementResponse{
		AccountNumber: a.number,
		Transactions:  transactions,
	}
}
