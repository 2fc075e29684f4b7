package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"fairmoney-bot/internal/model"
	"fairmoney-bot/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.auth.Login(r.Context(), req.Username, req.Password, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		log.WithError(err).Error("login")
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, adminFrom(r))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if err := s.auth.Logout(r.Context(), tokenFrom(r)); err != nil {
		log.WithError(err).Error("logout")
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := s.stats.Dashboard(r.Context())
	if err != nil {
		log.WithError(err).Error("dashboard stats")
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleWithdrawals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	requests, err := s.withdrawals.ListAll(r.Context())
	if err != nil {
		log.WithError(err).Error("list withdrawals")
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, requests)
}

type statusUpdateRequest struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

func (s *Server) handleWithdrawalStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == 0 {
		respondError(w, http.StatusBadRequest, "Invalid withdrawal update data")
		return
	}

	request, err := s.review.Review(r.Context(), req.ID, model.WithdrawalStatus(req.Status))
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, request)
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "Invalid withdrawal update data")
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "Withdrawal request not found")
	case errors.Is(err, service.ErrAlreadyReviewed):
		respondError(w, http.StatusConflict, "Withdrawal request already reviewed")
	default:
		log.WithError(err).Error("update withdrawal status")
		respondError(w, http.StatusInternalServerError, "Server error")
	}
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	users, err := s.users.ListAll(r.Context())
	if err != nil {
		log.WithError(err).Error("list users")
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleBotStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := s.stats.Dashboard(r.Context())
	if err != nil {
		log.WithError(err).Error("bot stats")
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

type botWithdrawRequest struct {
	TelegramID int64 `json:"telegramId"`
	Amount     int64 `json:"amount"`
}

// handleBotWithdraw submits a withdrawal on behalf of a bot user. Runs the
// same validation and single-debit transaction as the in-chat flow.
func (s *Server) handleBotWithdraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req botWithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TelegramID == 0 || req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid withdrawal data")
		return
	}

	user, err := s.users.FindByTelegramID(r.Context(), req.TelegramID)
	if err != nil {
		log.WithError(err).Error("bot withdraw")
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if !user.HasBankDetails() {
		respondError(w, http.StatusBadRequest, "Bank details not set")
		return
	}

	request, err := s.rewards.SubmitWithdrawal(r.Context(), user, strconv.FormatInt(req.Amount, 10))
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, request)
	case errors.Is(err, service.ErrAmountTooLow),
		errors.Is(err, service.ErrAmountTooHigh),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInsufficientBalance):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.WithError(err).Error("bot withdraw")
		respondError(w, http.StatusInternalServerError, "Server error")
	}
}
