package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/inventory-api/internal/auth"
	"github.com/example/inventory-api/internal/clock"
	"github.com/example/inventory-api/internal/event"
	"github.com/example/inventory-api/internal/logging"
)

// TokenIssuer signs access tokens for a user id.
type TokenIssuer interface {
	IssueToken(userID int64) (string, time.Time, error)
}

// RegisterInput carries the fields accepted by Register.
type RegisterInput struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// Token is the result of a successful login.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service handles registration and login
type Service struct {
	repo      Repository
	tokens    TokenIssuer
	publisher event.Publisher
	clock     clock.Clock
	logger    *slog.Logger
}

// NewService creates a new user service. publisher, c and logger may be nil.
func NewService(repo Repository, tokens TokenIssuer, publisher event.Publisher, c clock.Clock, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	if c == nil {
		c = clock.NewSystem()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		repo:      repo,
		tokens:    tokens,
		publisher: publisher,
		clock:     c,
		logger:    logger,
	}
}

func (in RegisterInput) validate() error {
	switch {
	case in.ID <= 0:
		return fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	case strings.TrimSpace(in.Username) == "":
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case !isValidEmail(in.Email):
		return fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	return nil
}

// Register creates a new user
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	u := &User{
		ID:           in.ID,
		Username:     in.Username,
		PasswordHash: passwordHash,
		Name:         in.Name,
		Email:        in.Email,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.publish(ctx, event.TypeUserRegistered, u.ID, event.UserRegistered{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
	})
	return u, nil
}

// Login checks the credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		// keep the response time close to that of a wrong password
		auth.CheckPassword(password, dummyHash())
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.tokens.IssueToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.publish(ctx, event.TypeUserLoggedIn, u.ID, event.UserLoggedIn{
		UserID:   u.ID,
		Username: u.Username,
	})
	return &Token{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *Service) publish(ctx context.Context, eventType string, userID int64, data any) {
	e, err := event.New(eventType, userID, data, s.clock.Now())
	if err == nil {
		err = s.publisher.Publish(ctx, e)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "publish event failed", "type", eventType, "user_id", userID, "error", err)
	}
}

var (
	dummyOnce sync.Once
	dummy     string
)

func dummyHash() string {
	dummyOnce.Do(func() {
		dummy, _ = auth.HashPassword("not-a-real-password")
	})
	return dummy
}
