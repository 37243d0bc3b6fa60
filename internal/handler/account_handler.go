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

type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

func NewAccountHandler(accountService service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts/savings", h.OpenSavings).Methods(http.MethodPost)
	router.HandleFunc("/accounts/current", h.OpenCurrent).Methods(http.MethodPost)
	router.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{number}", h.GetAccount).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{number}/deposit", h.Deposit).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{number}/withdraw", h.Withdraw).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{number}/credential", h.ChangeCredential).Methods(http.MethodPut)
	router.HandleFunc("/accounts/{number}/statement", h.Statement).Methods(http.MethodGet)
	router.HandleFunc("/statements", h.Statements).Methods(http.MethodGet)
	router.HandleFunc("/interest", h.ApplyMonthlyInterest).Methods(http.MethodPost)
}

func (h *AccountHandler) OpenSavings(w http.ResponseWriter, r *http.Request) {
	var req models.OpenSavingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid open savings request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	account, err := h.accountService.OpenSavings(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "open savings account")
		return
	}

	u.WriteJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) OpenCurrent(w http.ResponseWriter, r *http.Request) {
	var req models.OpenCurrentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid open current request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	account, err := h.accountService.OpenCurrent(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "open current account")
		return
	}

	u.WriteJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	u.WriteJSON(w, http.StatusOK, h.accountService.ListAccounts(r.Context()))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	account, err := h.accountService.GetAccount(r.Context(), number)
	if err != nil {
		h.handleServiceError(w, err, "get account")
		return
	}

	u.WriteJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	var req models.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid deposit request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	account, err := h.accountService.Deposit(r.Context(), number, req.Amount)
	if err != nil {
		h.handleServiceError(w, err, "deposit")
		return
	}

	u.WriteJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	var req models.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid withdraw request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	account, err := h.accountService.Withdraw(r.Context(), number, req.Amount)
	if err != nil {
		h.handleServiceError(w, err, "withdraw")
		return
	}

	u.WriteJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) ChangeCredential(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	var req models.ChangeCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid change credential request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	if err := h.accountService.ChangeCredential(r.Context(), number, &req); err != nil {
		h.handleServiceError(w, err, "change credential")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	statement, err := h.accountService.Statement(r.Context(), number)
	if err != nil {
		h.handleServiceError(w, err, "get statement")
		return
	}

	u.WriteJSON(w, http.StatusOK, statement)
}

func (h *AccountHandler) Statements(w http.ResponseWriter, r *http.Request) {
	u.WriteJSON(w, http.StatusOK, h.accountService.Statements(r.Context()))
}

func (h *AccountHandler) ApplyMonthlyInterest(w http.ResponseWriter, r *http.Request) {
	u.WriteJSON(w, http.StatusOK, h.accountService.ApplyMonthlyInterest(r.Context()))
}

func (h *AccountHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "account not found", "")
	case errors.IsAlreadyExists(err):
		u.WriteError(w, http.StatusConflict, "account number already in use", "")
	case errors.IsInvalidAmount(err):
		u.WriteError(w, http.StatusBadRequest, "invalid amount", err.Error())
	case errors.IsInsufficientFunds(err):
		u.WriteError(w, http.StatusConflict, "insufficient funds", err.Error())
	case errors.IsOverdraftExceeded(err):
		u.WriteError(w, http.StatusConflict, "overdraft limit exceeded", err.Error())
	case errors.IsAuthFailed(err):
		u.WriteError(w, http.StatusUnauthorized, "credential verification failed", "")
	case errors.IsValidationError(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	default:
		h.logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
