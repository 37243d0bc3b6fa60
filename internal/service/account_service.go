package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/bankcore/ledger-service/internal/audit"
	"github.com/bankcore/ledger-service/internal/errors"
	"github.com/bankcore/ledger-service/internal/ledger"
	"github.com/bankcore/ledger-service/internal/models"
)

type AccountService interface {
	OpenSavings(ctx context.Context, req *models.OpenSavingsRequest) (models.AccountResponse, error)
	OpenCurrent(ctx context.Context, req *models.OpenCurrentRequest) (models.AccountResponse, error)
	GetAccount(ctx context.Context, number string) (models.AccountResponse, error)
	ListAccounts(ctx context.Context) []models.AccountResponse
	Deposit(ctx context.Context, number string, amount decimal.Decimal) (models.AccountResponse, error)
	Withdraw(ctx context.Context, number string, amount decimal.Decimal) (models.AccountResponse, error)
	ChangeCredential(ctx context.Context, number string, req *models.ChangeCredentialRequest) error
	ApplyMonthlyInterest(ctx context.Context) models.InterestRunResponse
	Statement(ctx context.Context, number string) (models.StatementResponse, error)
	Statements(ctx context.Context) []models.StatementResponse
}

type AccountServiceImpl struct {
	ledger *ledger.Ledger
	trail  *audit.Trail
	logger *slog.Logger
}

func NewAccountService(l *ledger.Ledger, trail *audit.Trail, logger *slog.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{
		ledger: l,
		trail:  trail,
		logger: logger,
	}
}

func (s *AccountServiceImpl) OpenSavings(ctx context.Context, req *models.OpenSavingsRequest) (models.AccountResponse, error) {
	if req.Number == "" {
		return models.AccountResponse{}, errors.NewValidationError("number", "must be non-empty")
	}

	account, err := s.ledger.OpenSavings(req.Number, req.InitialBalance, req.InterestRate, req.Credential)
	if err != nil {
		s.logger.Warn("failed to open savings account",
			"account_number", req.Number,
			"error", err.Error(),
		)
		return models.AccountResponse{}, err
	}

	s.recordAccountAudit(account, audit.ActionCreate)
	s.logger.Info("savings account opened",
		"account_number", account.Number,
		"balance", account.Balance.String(),
	)
	return account, nil
}

func (s *AccountServiceImpl) OpenCurrent(ctx context.Context, req *models.OpenCurrentRequest) (models.AccountResponse, error) {
	if req.Number == "" {
		return models.AccountResponse{}, errors.NewValidationError("number", "must be non-empty")
	}

	account, err := s.ledger.OpenCurrent(req.Number, req.InitialBalance, req.OverdraftLimit, req.Credential)
	if err != nil {
		s.logger.Warn("failed to open current account",
			"account_number", req.Number,
			"error", err.Error(),
		)
		return models.AccountResponse{}, err
	}

	s.recordAccountAudit(account, audit.ActionCreate)
	s.logger.Info("current account opened",
		"account_number", account.Number,
		"balance", account.Balance.String(),
	)
	return account, nil
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, number string) (models.AccountResponse, error) {
	if number == "" {
		return models.AccountResponse{}, errors.NewValidationError("number", "must be non-empty")
	}

	account, err := s.ledger.Account(number)
	if err != nil {
		s.logger.Warn("account lookup failed",
			"account_number", number,
			"error", err.Error(),
		)
		return models.AccountResponse{}, err
	}
	return account, nil
}

func (s *AccountServiceImpl) ListAccounts(ctx context.Context) []models.AccountResponse {
	return s.ledger.Accounts()
}

func (s *AccountServiceImpl) Deposit(ctx context.Context, number string, amount decimal.Decimal) (models.AccountResponse, error) {
	if number == "" {
		return models.AccountResponse{}, errors.NewValidationError("number", "must be non-empty")
	}

	account, err := s.ledger.Deposit(number, amount)
	if err != nil {
		s.logger.Warn("deposit rejected",
			"account_number", number,
			"amount", amount.String(),
			"error", err.Error(),
		)
		return models.AccountResponse{}, err
	}

	s.recordAccountAudit(account, audit.ActionDeposit)
	s.logger.Info("deposit applied",
		"account_number", number,
		"amount", amount.String(),
		"balance", account.Balance.String(),
	)
	return account, nil
}

func (s *AccountServiceImpl) Withdraw(ctx context.Context, number string, amount decimal.Decimal) (models.AccountResponse, error) {
	if number == "" {
		return models.AccountResponse{}, errors.NewValidationError("number", "must be non-empty")
	}

	account, err := s.ledger.Withdraw(number, amount)
	if err != nil {
		s.logger.Warn("withdrawal rejected",
			"account_number", number,
			"amount", amount.String(),
			"error", err.Error(),
		)
		return models.AccountResponse{}, err
	}

	s.recordAccountAudit(account, audit.ActionWithdraw)
	s.logger.Info("withdrawal applied",
		"account_number", number,
		"amount", amount.String(),
		"balance", account.Balance.String(),
	)
	return account, nil
}

// ChangeCredential rotates an account credential. Neither the old nor the
// new credential is ever logged or audited.
func (s *AccountServiceImpl) ChangeCredential(ctx context.Context, number string, req *models.ChangeCredentialRequest) error {
	if number == "" {
		return errors.NewValidationError("number", "must be non-empty")
	}
	if req.NewCredential == "" {
		return errors.NewValidationError("new_credential", "must be non-empty")
	}

	if err := s.ledger.ChangeCredential(number, req.OldCredential, req.NewCredential); err != nil {
		s.logger.Warn("credential change rejected",
			"account_number", number,
			"error", err.Error(),
		)
		return err
	}

	s.logger.Info("credential changed", "account_number", number)
	return nil
}

func (s *AccountServiceImpl) ApplyMonthlyInterest(ctx context.Context) models.InterestRunResponse {
	visited := s.ledger.ApplyMonthlyInterest()

	run := models.InterestRunResponse{AccountsVisited: visited}
	if value, err := json.Marshal(run); err == nil {
		s.trail.Record(audit.EntityTypeLedger, s.ledger.Owner(), audit.ActionInterest, nil, value)
	}

	s.logger.Info("monthly interest applied", "accounts_visited", visited)
	return run
}

func (s *AccountServiceImpl) Statement(ctx context.Context, number string) (models.StatementResponse, error) {
	if number == "" {
		return models.StatementResponse{}, errors.NewValidationError("number", "must be non-empty")
	}

	statement, err := s.ledger.Statement(number)
	if err != nil {
		s.logger.Warn("statement lookup failed",
			"account_number", number,
			"error", err.Error(),
		)
		return models.StatementResponse{}, err
	}
	return statement, nil
}

func (s *AccountServiceImpl) Statements(ctx context.Context) []models.StatementResponse {
	return s.ledger.Statements()
}

// recordAccountAudit writes a balance snapshot to the audit trail. Audit
// failures never fail the business operation.
func (s *AccountServiceImpl) recordAccountAudit(account models.AccountResponse, action string) {
	snapshot := struct {
		Number  string          `json:"number"`
		Balance decimal.Decimal `json:"balance"`
	}{
		Number:  account.Number,
		Balance: account.Balance,
	}

	value, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error("failed to marshal account audit snapshot",
			"account_number", account.Number,
			"error", err.Error(),
		)
		return
	}

	s.trail.Record(audit.EntityTypeAccount, account.Number, action, nil, value)
}
