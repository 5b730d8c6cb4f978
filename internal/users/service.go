package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarmini1/messagely/internal/auth"
	"github.com/sarmini1/messagely/internal/models"
	"github.com/sarmini1/messagely/internal/storage"
)

// Service is the user-directory and message-ledger access layer. It
// applies credential hashing on the way in and keeps the
// authentication contract to a plain boolean, leaving the store's
// existence semantics intact everywhere else.
type Service struct {
	users    storage.UserStore
	messages storage.MessageStore
	hasher   *auth.PasswordHasher
}

// NewService composes the service from its stores and hasher.
func NewService(users storage.UserStore, messages storage.MessageStore, hasher *auth.PasswordHasher) *Service {
	return &Service{users: users, messages: messages, hasher: hasher}
}

// Register hashes the password and creates the user. A taken username
// surfaces as storage.ErrAlreadyExists. The returned record includes
// the digest; callers must not forward it outward.
func (s *Service) Register(ctx context.Context, username, password, firstName, lastName, phone string) (models.User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: digest,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
	})
}

// Authenticate reports whether the username/password pair is valid.
// An unknown username and a wrong password are indistinguishable to
// the caller: both come back as a plain false, never ErrNotFound.
// Verification is only attempted once a user row was actually found.
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.hasher.Verify(password, user.PasswordHash), nil
}

// Get returns the full profile for a username.
func (s *Service) Get(ctx context.Context, username string) (models.User, error) {
	return s.users.GetUser(ctx, username)
}

// All returns the public directory listing, ordered by username.
func (s *Service) All(ctx context.Context) ([]models.UserSummary, error) {
	return s.users.ListUsers(ctx)
}

// TouchLastLogin records a successful login for the user.
func (s *Service) TouchLastLogin(ctx context.Context, username string) error {
	return s.users.TouchLastLogin(ctx, username)
}

// Send records a message from one user to another.
func (s *Service) Send(ctx context.Context, from, to, body string) (models.Message, error) {
	return s.messages.CreateMessage(ctx, from, to, body)
}

// GetMessage fetches a single message with both endpoints resolved.
func (s *Service) GetMessage(ctx context.Context, id int64) (models.Message, error) {
	return s.messages.GetMessage(ctx, id)
}

// MarkMessageRead stamps a message's read_at, once.
func (s *Service) MarkMessageRead(ctx context.Context, id int64) (models.Message, error) {
	return s.messages.MarkMessageRead(ctx, id)
}

// MessagesFrom lists messages the user sent, with recipient identity.
func (s *Service) MessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error) {
	return s.messages.MessagesFrom(ctx, username)
}

// MessagesTo lists messages the user received, with sender identity.
func (s *Service) MessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	return s.messages.MessagesTo(ctx, username)
}
