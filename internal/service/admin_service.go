package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bankcore/ledger-service/internal/audit"
	"github.com/bankcore/ledger-service/internal/errors"
	"github.com/bankcore/ledger-service/internal/ledger"
	"github.com/bankcore/ledger-service/internal/models"
)

type AdminService interface {
	CloseAccount(ctx context.Context, number string, adminCredential string) error
	ViewAccounts(ctx context.Context) []models.AccountResponse
	AuditEntries(ctx context.Context, entityType, entityID string) []audit.Entry
}

type AdminServiceImpl struct {
	admin  *ledger.Admin
	ledger *ledger.Ledger
	trail  *audit.Trail
	logger *slog.Logger
}

func NewAdminService(admin *ledger.Admin, l *ledger.Ledger, trail *audit.Trail, logger *slog.Logger) *AdminServiceImpl {
	return &AdminServiceImpl{
		admin:  admin,
		ledger: l,
		trail:  trail,
		logger: logger,
	}
}

// CloseAccount hard-deletes an account under admin authority. The admin
// credential itself is never logged.
func (s *AdminServiceImpl) CloseAccount(ctx context.Context, number string, adminCredential string) error {
	if number == "" {
		return errors.NewValidationError("number", "must be non-empty")
	}

	// Snapshot before closing so the audit entry can carry the final state.
	// A failed closure discards the snapshot.
	lastState, lookupErr := s.ledger.Account(number)

	if err := s.admin.CloseAccount(s.ledger, number, adminCredential); err != nil {
		s.logger.Warn("account closure rejected",
			"account_number", number,
			"error", err.Error(),
		)
		return err
	}

	if lookupErr == nil {
		s.recordClosureAudit(lastState)
	}
	s.logger.Info("account closed",
		"account_number", number,
		"admin", s.admin.Name(),
	)
	return nil
}

func (s *AdminServiceImpl) ViewAccounts(ctx context.Context) []models.AccountResponse {
	return s.admin.ViewAccounts(s.ledger)
}

func (s *AdminServiceImpl) AuditEntries(ctx context.Context, entityType, entityID string) []audit.Entry {
	return s.trail.ByEntity(entityType, entityID)
}

func (s *AdminServiceImpl) recordClosureAudit(lastState models.AccountResponse) {
	value, err := json.Marshal(lastState)
	if err != nil {
		s.logger.Error("failed to marshal closure audit snapshot",
			"account_number", lastState.Number,
			"error", err.Error(),
		)
		return
	}

	s.trail.Record(audit.EntityTypeAccount, lastState.Number, audit.ActionClose, value, nil)
}
