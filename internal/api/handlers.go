package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/remotask-app/remotask/internal/app/settlement"
	"github.com/remotask-app/remotask/internal/domain"
)

// handleSummary serves the dashboard view: balance, status, referral
// stats and the payment schedule.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.core.Summary()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleStatus serves the notification tri-state.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := s.core.Sync(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status, err := s.core.Status()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": string(status),
	})
}

// handleReferrals serves the referral screen figures.
func (s *Server) handleReferrals(w http.ResponseWriter, r *http.Request) {
	stats, err := s.core.ReferralStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleShare processes one share attempt. Blocked decisions come back
// as 200 with the decision in the body — they are outcomes, not errors.
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	res, err := s.core.Share()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"decision": res.Decision.String(),
		"message":  res.Message,
		"enqueued": res.Enqueued,
	})
}

// handleTransactions lists withdrawals, optionally filtered by
// ?status=Pending|Completed|Failed.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	status := domain.TxStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.TxPending, domain.TxCompleted, domain.TxFailed:
	default:
		writeError(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	txs, err := s.core.Transactions(status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
	})
}

// handleWithdraw submits a withdrawal request.
func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req settlement.WithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := s.core.Withdraw(req)
	if err != nil {
		switch {
		case domain.IsValidation(err),
			errors.Is(err, domain.ErrNoPaymentMethod),
			errors.Is(err, domain.ErrUnknownMethod):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrInsufficientBalance):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// activateRequest is the activation submission body.
type activateRequest struct {
	Phone string `json:"phone"`
}

// handleActivate runs the activation payment flow.
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.core.Activate(r.Context(), req.Phone); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPhone):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrPushDeclined),
			errors.Is(err, domain.ErrPaymentCancelled),
			errors.Is(err, domain.ErrPaymentFailed),
			errors.Is(err, domain.ErrPollTimeout):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "activated",
	})
}
