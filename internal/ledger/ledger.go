package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankcore/ledger-service/internal/errors"
	"github.com/bankcore/ledger-service/internal/models"
)

// Ledger owns a customer's accounts. Accounts are keyed by account number
// and never shared outside the ledger; a single mutex serializes every
// operation so cross-account transfers are atomic.
type Ledger struct {
	mu       sync.Mutex
	owner    string
	accounts map[string]*Account
	order    []string // account numbers in insertion order, drives display order
}

func NewLedger(owner string) *Ledger {
	return &Ledger{
		owner:    owner,
		accounts: make(map[string]*Account),
	}
}

func (l *Ledger) Owner() string {
	return l.owner
}

// OpenSavings creates a savings account with the given annual interest rate.
func (l *Ledger) OpenSavings(number string, initial, rate decimal.Decimal, credential string) (models.AccountResponse, error) {
	if initial.Sign() < 0 || rate.Sign() < 0 {
		return models.AccountResponse{}, errors.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.add(newSavingsAccount(number, initial, rate, credential))
}

// OpenCurrent creates a current account with the given overdraft limit.
func (l *Ledger) OpenCurrent(number string, initial, overdraft decimal.Decimal, credential string) (models.AccountResponse, error) {
	if initial.Sign() < 0 || overdraft.Sign() < 0 {
		return models.AccountResponse{}, errors.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.add(newCurrentAccount(number, initial, overdraft, credential))
}

func (l *Ledger) add(a *Account) (models.AccountResponse, error) {
	if _, exists := l.accounts[a.number]; exists {
		return models.AccountResponse{}, errors.ErrAccountExists
	}
	l.accounts[a.number] = a
	l.order = append(l.order, a.number)
	return a.snapshot(), nil
}

// Account returns a snapshot of one account.
func (l *Ledger) Account(number string) (models.AccountResponse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[number]
	if !ok {
		return models.AccountResponse{}, errors.ErrAccountNotFound
	}
	return a.snapshot(), nil
}

// Accounts returns snapshots of every account in insertion order.
func (l *Ledger) Accounts() []models.AccountResponse {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.AccountResponse, 0, len(l.order))
	for _, number := range l.order {
		out = append(out, l.accounts[number].snapshot())
	}
	return out
}

// Deposit credits an account and returns its updated snapshot.
func (l *Ledger) Deposit(number string, amount decimal.Decimal) (models.AccountResponse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[number]
	if !ok {
		return models.AccountResponse{}, errors.ErrAccountNotFound
	}
	if err := a.deposit(amount); err != nil {
		return models.AccountResponse{}, err
	}
	return a.snapshot(), nil
}

// Withdraw debits an account under its kind-specific policy and returns the
// updated snapshot.
func (l *Ledger) Withdraw(number string, amount decimal.Decimal) (models.AccountResponse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[number]
	if !ok {
		return models.AccountResponse{}, errors.ErrAccountNotFound
	}
	if err := a.withdraw(amount); err != nil {
		return models.AccountResponse{}, err
	}
	return a.snapshot(), nil
}

// ChangeCredential rotates an account credential after verifying the old one.
func (l *Ledger) ChangeCredential(number, oldCredential, newCredential string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[number]
	if !ok {
		return errors.ErrAccountNotFound
	}
	return a.changeCredential(oldCredential, newCredential)
}

// Transfer moves amount from one account to another, authorized by the
// source account's credential only; the destination requires none. The
// debit is the only step that can fail once validation passes, so a failed
// transfer leaves both accounts untouched and there is never a committed
// debit without its credit.
func (l *Ledger) Transfer(fromNumber, toNumber string, amount decimal.Decimal, credential string) (models.TransferReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	from, ok := l.accounts[fromNumber]
	if !ok {
		return models.TransferReceipt{}, errors.ErrAccountNotFound
	}
	if !from.verifyCredential(credential) {
		return models.TransferReceipt{}, errors.ErrAuthFailed
	}
	to, ok := l.accounts[toNumber]
	if !ok {
		return models.TransferReceipt{}, errors.ErrAccountNotFound
	}
	if amount.Sign() <= 0 {
		return models.TransferReceipt{}, errors.ErrInvalidAmount
	}

	if err := from.withdraw(amount); err != nil {
		return models.TransferReceipt{}, err
	}
	// Amount is already validated positive, so the credit cannot fail.
	_ = to.deposit(amount)

	return models.TransferReceipt{
		ID:          uuid.New().String(),
		FromAccount: fromNumber,
		ToAccount:   toNumber,
		Amount:      amount,
		CreatedAt:   time.Now(),
	}, nil
}

// ApplyMonthlyInterest accrues one month of interest on every account in
// insertion order. Accounts whose kind does not accrue interest are skipped.
// Returns the number of accounts visited.
func (l *Ledger) ApplyMonthlyInterest() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, number := range l.order {
		l.accounts[number].applyMonthlyInterest()
	}
	return len(l.order)
}

// Statement returns the transaction history of one account.
func (l *Ledger) Statement(number string) (models.StatementResponse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[number]
	if !ok {
		return models.StatementResponse{}, errors.ErrAccountNotFound
	}
	return a.statement(), nil
}

// Statements returns every account's transaction history in insertion order.
func (l *Ledger) Statements() []models.StatementResponse {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.StatementResponse, 0, len(l.order))
	for _, number := range l.order {
		out = append(out, l.accounts[number].statement())
	}
	return out
}

// close removes and discards an account. The transaction log goes with it;
// closure is a hard delete, not an archival operation. Only the Admin may
// reach this.
func (l *Ledger) close(number string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[number]; !ok {
		return errors.ErrAccountNotFound
	}
	delete(l.accounts, number)
	for i, n := range l.order {
		if n == number {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}
