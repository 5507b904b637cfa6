package domain

import "time"

// Support message sender kinds.
const (
	SenderUser  = "user"
	SenderStaff = "staff"
)

// SupportMessage is a user-to-staff message. Records are insert-only: this
// subsystem never mutates or deletes them.
type SupportMessage struct {
	MessageID string    `json:"id" dynamodbav:"message_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Sender    string    `json:"sender" dynamodbav:"sender"` // "user" | "staff"
	Message   string    `json:"message" dynamodbav:"message"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}
