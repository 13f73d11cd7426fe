package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/asset-inventory/internal"
	sessionDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/session"
	userDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/user"
	"github.com/frahmantamala/asset-inventory/internal/metrics"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository lookups return (nil, nil) when no user matches.
type UserRepository interface {
	Create(ctx context.Context, row *userDatamodel.User) error
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
}

// SessionRepository.Get returns (nil, nil) for an unknown or revoked session.
type SessionRepository interface {
	Create(ctx context.Context, row *sessionDatamodel.Session) error
	Get(ctx context.Context, id string) (*sessionDatamodel.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Options struct {
	BCryptCost      int
	SessionDuration time.Duration
}

// Service is the main auth service with dependencies
type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenGenerator
	opts     Options
	logger   *slog.Logger
	now      func() time.Time

	compareHash func(hash, password []byte) error
	dummyOnce   sync.Once
	dummyHash   []byte
}

func NewService(users UserRepository, sessions SessionRepository, tokens TokenGenerator, opts Options, logger *slog.Logger) *Service {
	if opts.BCryptCost == 0 {
		opts.BCryptCost = bcrypt.DefaultCost
	}
	if opts.SessionDuration <= 0 {
		opts.SessionDuration = 8 * time.Hour
	}
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		opts:     opts,
		logger:   logger,
		now:      time.Now,

		compareHash: bcrypt.CompareHashAndPassword,
	}
}

// Register creates an account. Usernames are unique; the password is kept as a
// salted bcrypt hash.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*User, error) {
	dto = dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		s.logger.Warn("registration validation failed", "error", appErr.GetDetailedMessage())
		return nil, appErr
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	row := &userDatamodel.User{
		Username:     dto.Username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, row); err != nil {
		s.logger.Warn("failed to register user", "error", err, "username", dto.Username)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", row.ID, "username", row.Username)
	return toUser(row), nil
}

// Login checks the credentials and opens a server-side session. Unknown user
// and wrong password fail the same way.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	dto = dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	row, err := s.users.GetByUsername(ctx, dto.Username)
	if err != nil {
		return nil, err
	}
	if !s.checkPassword(row, dto.Password) {
		metrics.RecordLogin("invalid_credentials")
		s.logger.Warn("login rejected", "username", dto.Username)
		return nil, internal.ErrInvalidCredentials
	}

	now := s.now()
	if purged, err := s.sessions.DeleteExpired(ctx, now); err != nil {
		s.logger.Warn("failed to purge expired sessions", "error", err)
	} else if purged > 0 {
		s.logger.Debug("purged expired sessions", "count", purged)
	}

	session := &sessionDatamodel.Session{
		ID:        uuid.NewString(),
		UserID:    row.ID,
		ExpiresAt: now.Add(s.opts.SessionDuration),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	who := Identity{
		UserID:    row.ID,
		Username:  row.Username,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}
	token, err := s.tokens.GenerateToken(who)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign token", err)
	}

	metrics.RecordLogin("success")
	s.logger.Info("user logged in", "user_id", row.ID)
	return &Session{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
		User:      *toUser(row),
		Identity:  who,
	}, nil
}

// Logout revokes the caller's session. Logging out twice, or anonymously, is
// not an error.
func (s *Service) Logout(ctx context.Context, who Identity) error {
	if who.SessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, who.SessionID); err != nil {
		s.logger.Error("failed to revoke session", "error", err, "user_id", who.UserID)
		return err
	}
	s.logger.Info("user logged out", "user_id", who.UserID)
	return nil
}

// Authenticate resolves a bearer token to the Identity of a live session.
func (s *Service) Authenticate(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Anonymous, internal.ErrAuthRequired
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return Anonymous, internal.ErrAuthRequired.WithCause(err)
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return Anonymous, err
	}
	if session == nil || session.UserID != claims.UserID {
		return Anonymous, internal.ErrAuthRequired
	}
	if !s.now().Before(session.ExpiresAt) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("failed to drop expired session", "error", err)
		}
		return Anonymous, internal.ErrAuthRequired
	}

	return Identity{
		UserID:    claims.UserID,
		Username:  claims.Username,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BCryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkPassword runs a bcrypt comparison even for an unknown user, so both
// rejections cost the same.
func (s *Service) checkPassword(row *userDatamodel.User, password string) bool {
	if row == nil {
		_ = s.compareHash(s.unknownUserHash(), []byte(password))
		return false
	}
	return s.compareHash([]byte(row.PasswordHash), []byte(password)) == nil
}

func (s *Service) unknownUserHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.opts.BCryptCost)
	})
	return s.dummyHash
}

func toUser(row *userDatamodel.User) *User {
	return &User{
		ID:        row.ID,
		Username:  row.Username,
		CreatedAt: row.CreatedAt,
	}
}
