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

type TransferService interface {
	Transfer(ctx context.Context, req *models.TransferRequest) (models.TransferReceipt, error)
}

type TransferServiceImpl struct {
	ledger *ledger.Ledger
	trail  *audit.Trail
	logger *slog.Logger
}

func NewTransferService(l *ledger.Ledger, trail *audit.Trail, logger *slog.Logger) *TransferServiceImpl {
	return &TransferServiceImpl{
		ledger: l,
		trail:  trail,
		logger: logger,
	}
}

// Transfer moves funds between two accounts of the ledger. Only the shape of
// the request is validated here; amount and credential checks belong to the
// ledger so their order of precedence stays in one place. The source
// credential is never logged or audited.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req *models.TransferRequest) (models.TransferReceipt, error) {
	if err := s.validateTransferRequest(req); err != nil {
		s.logger.Warn("invalid transfer request",
			"from_account", req.FromAccount,
			"to_account", req.ToAccount,
			"error", err.Error(),
		)
		return models.TransferReceipt{}, err
	}

	receipt, err := s.ledger.Transfer(req.FromAccount, req.ToAccount, req.Amount, req.Credential)
	if err != nil {
		s.logger.Warn("transfer rejected",
			"from_account", req.FromAccount,
			"to_account", req.ToAccount,
			"amount", req.Amount.String(),
			"error", err.Error(),
		)
		return models.TransferReceipt{}, err
	}

	s.recordTransferAudit(receipt)
	s.logger.Info("transfer completed",
		"transfer_id", receipt.ID,
		"from_account", receipt.FromAccount,
		"to_account", receipt.ToAccount,
		"amount", receipt.Amount.String(),
	)
	return receipt, nil
}

func (s *TransferServiceImpl) validateTransferRequest(req *models.TransferRequest) error {
	if req.FromAccount == "" {
		return errors.NewValidationError("from_account", "must be non-empty")
	}
	if req.ToAccount == "" {
		return errors.NewValidationError("to_account", "must be non-empty")
	}
	return nil
}

// recordTransferAudit writes the receipt to the audit trail. Audit failures
// never fail the transfer itself.
func (s *TransferServiceImpl) recordTransferAudit(receipt models.TransferReceipt) {
	value, err := json.Marshal(receipt)
	if err != nil {
		s.logger.Error("failed to marshal transfer audit snapshot",
			"transfer_id", receipt.ID,
			"error", err.Error(),
		)
		return
	}

	s.trail.Record(audit.EntityTypeTransfer, receipt.ID, audit.ActionTransfer, nil, value)
}
