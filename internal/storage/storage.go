package storage

import (
	"context"
	"errors"

	"github.com/sarmini1/messagely/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations on directory users.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
	TouchLastLogin(ctx context.Context, username string) error
}

// MessageStore captures persistence operations on the message ledger.
// Retrieval joins the counterpart user row so callers never see a
// message without its sender/recipient identity fields.
type MessageStore interface {
	CreateMessage(ctx context.Context, from, to, body string) (models.Message, error)
	GetMessage(ctx context.Context, id int64) (models.Message, error)
	MarkMessageRead(ctx context.Context, id int64) (models.Message, error)
	MessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error)
	MessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error)
}
