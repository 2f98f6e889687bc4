package handler

import (
	"errors"
	"net/http"

	"github.com/MikhailRaia/link-rewards/internal/middleware"
	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/storage"
	"github.com/go-chi/chi/v5"
)

type withdrawResponse struct {
	Message    string                   `json:"message"`
	Withdrawal *model.WithdrawalRequest `json:"withdrawal"`
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	withdrawal, err := h.withdrawals.RequestWithdrawal(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInsufficientBalance):
			writeMessage(w, http.StatusBadRequest, "balance is below the withdrawal minimum")
		case errors.Is(err, storage.ErrUserNotFound):
			writeMessage(w, http.StatusNotFound, "user not found")
		default:
			writeMessage(w, http.StatusInternalServerError, "failed to create withdrawal request")
		}
		return
	}

	writeJSON(w, http.StatusOK, withdrawResponse{
		Message:    "withdrawal requested",
		Withdrawal: withdrawal,
	})
}

func (h *Handler) handleApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "withdrawal id is required")
		return
	}

	_, err := h.withdrawals.Approve(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrWithdrawalNotFound):
			writeMessage(w, http.StatusNotFound, "withdrawal request not found")
		case errors.Is(err, storage.ErrInvalidTransition):
			writeMessage(w, http.StatusConflict, "withdrawal request is already settled")
		default:
			writeMessage(w, http.StatusInternalServerError, "failed to approve withdrawal")
		}
		return
	}

	writeMessage(w, http.StatusOK, "withdrawal approved")
}

func (h *Handler) handlePendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	pending, err := h.withdrawals.Pending(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "failed to list withdrawals")
		return
	}

	if pending == nil {
		pending = []model.WithdrawalRequest{}
	}

	writeJSON(w, http.StatusOK, pending)
}
