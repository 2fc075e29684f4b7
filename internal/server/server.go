// Package server exposes the admin dashboard API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"fairmoney-bot/internal/repository"
	"fairmoney-bot/internal/service"
)

// Server is the dashboard HTTP API: token-authenticated admin endpoints plus
// a couple of public bot endpoints.
type Server struct {
	auth        *service.AuthService
	stats       *service.StatsService
	review      *service.ReviewService
	rewards     *service.RewardsService
	users       *repository.UserRepository
	withdrawals *repository.WithdrawalRepository

	httpServer *http.Server
}

func New(addr string,
	auth *service.AuthService,
	stats *service.StatsService,
	review *service.ReviewService,
	rewards *service.RewardsService,
	users *repository.UserRepository,
	withdrawals *repository.WithdrawalRepository,
) *Server {
	s := &Server{
		auth:        auth,
		stats:       stats,
		review:      review,
		rewards:     rewards,
		users:       users,
		withdrawals: withdrawals,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/me", s.requireAuth(s.handleMe))
	mux.HandleFunc("/api/auth/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("/api/admin/dashboard", s.requireAuth(s.handleDashboard))
	mux.HandleFunc("/api/admin/withdrawals", s.requireAuth(s.handleWithdrawals))
	mux.HandleFunc("/api/admin/withdrawals/status", s.requireAuth(s.handleWithdrawalStatus))
	mux.HandleFunc("/api/admin/users", s.requireAuth(s.handleUsers))
	mux.HandleFunc("/api/bot/stats", s.handleBotStats)
	mux.HandleFunc("/api/bot/withdraw", s.handleBotWithdraw)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves in the background until Shutdown.
func (s *Server) Start() {
	go func() {
		log.WithField("addr", s.httpServer.Addr).Info("admin API listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("admin API server error")
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
