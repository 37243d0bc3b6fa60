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

type AdminHandler struct {
	adminService service.AdminService
	logger       *slog.Logger
}

func NewAdminHandler(adminService service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/admin/accounts", h.ViewAccounts).Methods(http.MethodGet)
	router.HandleFunc("/admin/accounts/{number}", h.CloseAccount).Methods(http.MethodDelete)
	router.HandleFunc("/audit/{entityType}/{entityID}", h.AuditEntries).Methods(http.MethodGet)
}

func (h *AdminHandler) ViewAccounts(w http.ResponseWriter, r *http.Request) {
	u.WriteJSON(w, http.StatusOK, h.adminService.ViewAccounts(r.Context()))
}

func (h *AdminHandler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	var req models.CloseAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid close account request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	if err := h.adminService.CloseAccount(r.Context(), number, req.AdminCredential); err != nil {
		h.handleServiceError(w, err, "close account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) AuditEntries(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entries := h.adminService.AuditEntries(r.Context(), vars["entityType"], vars["entityID"])
	u.WriteJSON(w, http.StatusOK, entries)
}

func (h *AdminHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.IsAuthFailed(err):
		u.WriteError(w, http.StatusUnauthorized, "admin credential verification failed", "")
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "account not found", "")
	case errors.IsValidationError(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	default:
		h.logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
