package models

import "time"

// Counterpart holds the public identity fields of the user on the
// other end of a message, resolved at query time from the live user
// row rather than snapshotted at send time.
type Counterpart struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// SentMessage is a message viewed from its sender's side.
type SentMessage struct {
	ID     int64       `json:"id"`
	ToUser Counterpart `json:"to_user"`
	Body   string      `json:"body"`
	SentAt time.Time   `json:"sent_at"`
	ReadAt *time.Time  `json:"read_at"`
}

// ReceivedMessage is a message viewed from its recipient's side.
type ReceivedMessage struct {
	ID       int64       `json:"id"`
	FromUser Counterpart `json:"from_user"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
}

// Message is the full record with both endpoints resolved.
type Message struct {
	ID       int64       `json:"id"`
	FromUser Counterpart `json:"from_user"`
	ToUser   Counterpart `json:"to_user"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
}
