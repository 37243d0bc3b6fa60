package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bankcore/ledger-service/internal/errors"
	"github.com/bankcore/ledger-service/internal/models"
	"github.com/bankcore/ledger-service/internal/service"
	u "github.com/bankcore/ledger-service/internal/utils"
)

type TransferHandler struct {
	transferService service.TransferService
	logger          *slog.Logger
}

func NewTransferHandler(transferService service.TransferService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

func (h *TransferHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transfers", h.CreateTransfer).Methods(http.MethodPost)
}

func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid transfer request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	receipt, err := h.transferService.Transfer(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create transfer")
		return
	}

	u.WriteJSON(w, http.StatusCreated, receipt)
}

func (h *TransferHandler) handleServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "account not found", err.Error())
	case errors.IsAuthFailed(err):
		u.WriteError(w, http.StatusUnauthorized, "credential verification failed", "source account credential mismatch")
	case errors.IsInvalidAmount(err):
		u.WriteError(w, http.StatusBadRequest, "invalid amount", err.Error())
	case errors.IsInsufficientFunds(err):
		u.WriteError(w, http.StatusConflict, "insufficient funds", "source account does not cover the transfer")
	case errors.IsOverdraftExceeded(err):
		u.WriteError(w, http.StatusConflict, "overdraft limit exceeded", "source account does not cover the transfer")
	case errors.IsValidationError(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	default:
		h.logger.Error("internal server error during "+action, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
