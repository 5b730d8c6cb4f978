package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sarmini1/messagely/internal/models"
	"github.com/sarmini1/messagely/internal/storage"
)

// memStore is an in-memory stand-in for the postgres store with the
// same existence and join semantics, so handlers can be exercised end
// to end without a database.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	messages []*memMessage
	nextID   int64
}

type memMessage struct {
	id     int64
	from   string
	to     string
	body   string
	sentAt time.Time
	readAt *time.Time
}

func newMemStore() *memStore {
	return &memStore{users: map[string]models.User{}}
}

func (m *memStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	user.JoinedAt = time.Now()
	m.users[user.Username] = user
	return user, nil
}

func (m *memStore) GetUser(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]models.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UserSummary{}
	for _, u := range m.users {
		out = append(out, models.UserSummary{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memStore) TouchLastLogin(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return storage.ErrNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	m.users[username] = user
	return nil
}

func (m *memStore) CreateMessage(ctx context.Context, from, to, body string) (models.Message, error) {
	m.mu.Lock()
	if _, ok := m.users[from]; !ok {
		m.mu.Unlock()
		return models.Message{}, storage.ErrNotFound
	}
	if _, ok := m.users[to]; !ok {
		m.mu.Unlock()
		return models.Message{}, storage.ErrNotFound
	}
	m.nextID++
	msg := &memMessage{id: m.nextID, from: from, to: to, body: body, sentAt: time.Now()}
	m.messages = append(m.messages, msg)
	m.mu.Unlock()
	return m.GetMessage(ctx, msg.id)
}

func (m *memStore) GetMessage(_ context.Context, id int64) (models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.id == id {
			return models.Message{
				ID:       msg.id,
				FromUser: m.counterpart(msg.from),
				ToUser:   m.counterpart(msg.to),
				Body:     msg.body,
				SentAt:   msg.sentAt,
				ReadAt:   msg.readAt,
			}, nil
		}
	}
	return models.Message{}, storage.ErrNotFound
}

func (m *memStore) MarkMessageRead(ctx context.Context, id int64) (models.Message, error) {
	m.mu.Lock()
	for _, msg := range m.messages {
		if msg.id == id {
			if msg.readAt == nil {
				now := time.Now()
				msg.readAt = &now
			}
			m.mu.Unlock()
			return m.GetMessage(ctx, id)
		}
	}
	m.mu.Unlock()
	return models.Message{}, storage.ErrNotFound
}

func (m *memStore) MessagesFrom(_ context.Context, username string) ([]models.SentMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; !ok {
		return nil, storage.ErrNotFound
	}
	out := []models.SentMessage{}
	for _, msg := range m.messages {
		if msg.from != username {
			continue
		}
		out = append(out, models.SentMessage{
			ID:     msg.id,
			ToUser: m.counterpart(msg.to),
			Body:   msg.body,
			SentAt: msg.sentAt,
			ReadAt: msg.readAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (m *memStore) MessagesTo(_ context.Context, username string) ([]models.ReceivedMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; !ok {
		return nil, storage.ErrNotFound
	}
	out := []models.ReceivedMessage{}
	for _, msg := range m.messages {
		if msg.to != username {
			continue
		}
		out = append(out, models.ReceivedMessage{
			ID:       msg.id,
			FromUser: m.counterpart(msg.from),
			Body:     msg.body,
			SentAt:   msg.sentAt,
			ReadAt:   msg.readAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (m *memStore) counterpart(username string) models.Counterpart {
	u := m.users[username]
	return models.Counterpart{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
