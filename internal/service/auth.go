package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"fairmoney-bot/internal/model"
	"fairmoney-bot/internal/repository"
)

// AuthService backs the dashboard login: bcrypt-checked credentials, uuid
// bearer tokens, expiry enforced on every lookup.
type AuthService struct {
	admins   *repository.AdminRepository
	sessions *repository.SessionRepository
	ttl      time.Duration
}

func NewAuthService(admins *repository.AdminRepository, sessions *repository.SessionRepository, ttl time.Duration) *AuthService {
	return &AuthService{admins: admins, sessions: sessions, ttl: ttl}
}

// SeedAdmin makes sure the configured dashboard account exists and its stored
// hash matches the configured password.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) error {
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if admin == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		log.WithField("username", username).Info("seeding dashboard admin")
		return s.admins.Create(ctx, &model.Admin{Username: username, PasswordHash: string(hash)})
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		log.WithField("username", username).Info("rotating dashboard admin password")
		return s.admins.UpdatePasswordHash(ctx, admin, string(hash))
	}

	return nil
}

// Login verifies credentials and issues a fresh session.
func (s *AuthService) Login(ctx context.Context, username, password string, now time.Time) (*model.Session, error) {
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	session := &model.Session{
		Token:     uuid.NewString(),
		AdminID:   admin.ID,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Authenticate resolves a bearer token to its admin. Expired sessions are
// deleted on sight.
func (s *AuthService) Authenticate(ctx context.Context, token string, now time.Time) (*model.Admin, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrUnauthorized
	}
	if session.Expired(now) {
		if err := s.sessions.DeleteByToken(ctx, token); err != nil {
			log.WithError(err).Warn("failed to delete expired session")
		}
		return nil, ErrUnauthorized
	}

	admin, err := s.admins.FindByID(ctx, session.AdminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrUnauthorized
	}
	return admin, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteByToken(ctx, token)
}

// PurgeExpired is run on an interval by the scheduler.
func (s *AuthService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.sessions.DeleteExpired(ctx, now)
}
