package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bankcore/ledger-service/internal/audit"
	"github.com/bankcore/ledger-service/internal/errors"
	"github.com/bankcore/ledger-service/internal/ledger"
	"github.com/bankcore/ledger-service/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.NewLedger("Test Owner")
	if _, err := l.OpenSavings("SAV-1", dec("1000"), dec("0.05"), "sav-secret"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.OpenCurrent("CUR-1", dec("500"), dec("200"), "cur-secret"); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestTransferServiceValidation(t *testing.T) {
	l := seededLedger(t)
	trail := audit.NewTrail()
	svc := NewTransferService(l, trail, discardLogger())

	tests := []struct {
		name string
		req  models.TransferRequest
	}{
		{"empty source", models.TransferRequest{ToAccount: "CUR-1", Amount: dec("10"), Credential: "x"}},
		{"empty destination", models.TransferRequest{FromAccount: "SAV-1", Amount: dec("10"), Credential: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := svc.Transfer(context.Background(), &req); !errors.IsValidationError(err) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}

	if len(trail.All()) != 0 {
		t.Fatalf("rejected transfers must not be audited")
	}
}

func TestTransferServiceRecordsAudit(t *testing.T) {
	l := seededLedger(t)
	trail := audit.NewTrail()
	svc := NewTransferService(l, trail, discardLogger())

	req := models.TransferRequest{
		FromAccount: "SAV-1",
		ToAccount:   "CUR-1",
		Amount:      dec("75"),
		Credential:  "sav-secret",
	}
	receipt, err := svc.Transfer(context.Background(), &req)
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	entries := trail.ByEntity(audit.EntityTypeTransfer, receipt.ID)
	if len(entries) != 1 {
		t.Fatalf("audit entries=%d want=1", len(entries))
	}
	if entries[0].Action != audit.ActionTransfer {
		t.Fatalf("action=%s want=%s", entries[0].Action, audit.ActionTransfer)
	}
	// The source credential must never reach the audit trail.
	if strings.Contains(string(entries[0].NewValue), "sav-secret") {
		t.Fatalf("credential leaked into audit payload: %s", entries[0].NewValue)
	}
}

func TestTransferServicePropagatesDomainErrors(t *testing.T) {
	l := seededLedger(t)
	trail := audit.NewTrail()
	svc := NewTransferService(l, trail, discardLogger())

	req := models.TransferRequest{
		FromAccount: "SAV-1",
		ToAccount:   "CUR-1",
		Amount:      dec("10"),
		Credential:  "wrong",
	}
	if _, err := svc.Transfer(context.Background(), &req); !errors.IsAuthFailed(err) {
		t.Fatalf("want ErrAuthFailed, got %v", err)
	}
	if len(trail.All()) != 0 {
		t.Fatalf("failed transfer must not be audited")
	}
}
