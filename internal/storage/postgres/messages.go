package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sarmini1/messagely/internal/models"
	"github.com/sarmini1/messagely/internal/storage"
)

// CreateMessage inserts a message between two existing users and
// returns it with both endpoints resolved. A reference to a missing
// user trips the foreign key and comes back as ErrNotFound.
func (s *Store) CreateMessage(ctx context.Context, from, to, body string) (models.Message, error) {
	const query = `
		INSERT INTO messages (from_username, to_username, body)
		VALUES ($1, $2, $3)
		RETURNING id;
	`
	var id int64
	if err := s.db.QueryRow(ctx, query, from, to, body).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return models.Message{}, storage.ErrNotFound
		}
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return s.GetMessage(ctx, id)
}

// GetMessage fetches a single message joined with the sender's and
// recipient's identity fields.
func (s *Store) GetMessage(ctx context.Context, id int64) (models.Message, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       f.username, f.first_name, f.last_name, f.phone,
		       t.username, t.first_name, t.last_name, t.phone
		FROM messages m
		JOIN users f ON m.from_username = f.username
		JOIN users t ON m.to_username = t.username
		WHERE m.id = $1;
	`
	var m models.Message
	err := s.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt,
		&m.FromUser.Username, &m.FromUser.FirstName, &m.FromUser.LastName, &m.FromUser.Phone,
		&m.ToUser.Username, &m.ToUser.FirstName, &m.ToUser.LastName, &m.ToUser.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Message{}, storage.ErrNotFound
		}
		return models.Message{}, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

// MarkMessageRead stamps read_at the first time it is called for a
// message; later calls keep the original timestamp.
func (s *Store) MarkMessageRead(ctx context.Context, id int64) (models.Message, error) {
	const query = `
		UPDATE messages
		SET read_at = COALESCE(read_at, NOW())
		WHERE id = $1;
	`
	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return models.Message{}, fmt.Errorf("mark message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.Message{}, storage.ErrNotFound
	}
	return s.GetMessage(ctx, id)
}

// MessagesFrom returns every message sent by the user, oldest first,
// each joined with the recipient's public identity fields. An unknown
// username is ErrNotFound; a known user with no messages is an empty
// slice.
func (s *Store) MessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error) {
	exists, err := s.userExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, storage.ErrNotFound
	}

	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       u.username, u.first_name, u.last_name, u.phone
		FROM messages m
		JOIN users u ON m.to_username = u.username
		WHERE m.from_username = $1
		ORDER BY m.sent_at ASC;
	`
	rows, err := s.db.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("query sent messages: %w", err)
	}
	defer rows.Close()

	messages := []models.SentMessage{}
	for rows.Next() {
		var m models.SentMessage
		if err := rows.Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt,
			&m.ToUser.Username, &m.ToUser.FirstName, &m.ToUser.LastName, &m.ToUser.Phone); err != nil {
			return nil, fmt.Errorf("scan sent message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MessagesTo is the mirror of MessagesFrom: every message received by
// the user, joined with the sender's public identity fields.
func (s *Store) MessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	exists, err := s.userExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, storage.ErrNotFound
	}

	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       u.username, u.first_name, u.last_name, u.phone
		FROM messages m
		JOIN users u ON m.from_username = u.username
		WHERE m.to_username = $1
		ORDER BY m.sent_at ASC;
	`
	rows, err := s.db.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("query received messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ReceivedMessage{}
	for rows.Next() {
		var m models.ReceivedMessage
		if err := rows.Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt,
			&m.FromUser.Username, &m.FromUser.FirstName, &m.FromUser.LastName, &m.FromUser.Phone); err != nil {
			return nil, fmt.Errorf("scan received message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *Store) userExists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1);`
	var exists bool
	if err := s.db.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}
