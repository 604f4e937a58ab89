package auth

import (
	"log/slog"
	"time"

	"cashbook/internal"

	"github.com/google/uuid"
)

type Repository interface {
	GetUserByUsername(username string) (*User, error)
	GetUserByID(id string) (*User, error)
	CreateSession(session *Session) error
	GetSessionByToken(token string) (*Session, error)
	DeleteSession(token string) error
}

type Service struct {
	repo       Repository
	bcryptCost int
	sessionTTL time.Duration
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, sessionTTL time.Duration, logger *slog.Logger) *Service {
	if sessionTTL <= 0 {
		sessionTTL = internal.DefaultSessionTTL
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Authenticate verifies credentials and opens a new session. Each login
// creates its own session row; concurrent sessions per user are fine.
func (s *Service) Authenticate(dto LoginDTO) (*User, string, error) {
	if err := dto.Validate(); err != nil {
		return nil, "", internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	user, err := s.repo.GetUserByUsername(dto.Username)
	if err != nil {
		s.logger.Error("failed to look up user", "error", err, "username", dto.Username)
		return nil, "", internal.NewStorageError("failed to look up user", err)
	}
	if user == nil {
		return nil, "", internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(user.PasswordHash, dto.Password); err != nil {
		return nil, "", internal.ErrInvalidCredentials
	}

	token, err := GenerateRandomToken()
	if err != nil {
		return nil, "", internal.NewInternalError("failed to generate session token", err)
	}

	session := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}

	if err := s.repo.CreateSession(session); err != nil {
		s.logger.Error("failed to create session", "error", err, "user_id", user.ID)
		return nil, "", internal.NewStorageError("failed to create session", err)
	}

	s.logger.Info("session created", "user_id", user.ID, "expires_at", session.ExpiresAt)
	return user, token, nil
}

// ValidateSession resolves a bearer token to its user. Expired rows are not
// swept; they simply stop validating here.
func (s *Service) ValidateSession(token string) (*User, error) {
	if token == "" {
		return nil, internal.ErrNotAuthenticated
	}

	session, err := s.repo.GetSessionByToken(token)
	if err != nil {
		s.logger.Error("failed to look up session", "error", err)
		return nil, internal.NewStorageError("failed to look up session", err)
	}
	if session == nil {
		return nil, internal.ErrNotAuthenticated
	}
	if session.Expired(time.Now()) {
		return nil, internal.ErrSessionExpired
	}

	user, err := s.repo.GetUserByID(session.UserID)
	if err != nil {
		s.logger.Error("failed to load session user", "error", err, "user_id", session.UserID)
		return nil, internal.NewStorageError("failed to load user", err)
	}
	if user == nil {
		return nil, internal.ErrNotAuthenticated
	}

	return user, nil
}

// Logout invalidates the session token. Unknown tokens are a no-op.
func (s *Service) Logout(token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.DeleteSession(token); err != nil {
		s.logger.Error("failed to delete session", "error", err)
		return internal.NewStorageError("failed to delete session", err)
	}
	return nil
}

// SessionTTL exposes the configured lifetime for cookie max-age.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}
