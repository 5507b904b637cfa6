package domain

import "time"

// Profile is the richer platform-facing record materialized the first time a
// new authenticated identity is observed. The identity subsystem only creates
// it; the rest of the platform owns its evolution.
type Profile struct {
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	DisplayName string    `json:"display_name" dynamodbav:"display_name"`
	AvatarURL   string    `json:"avatar_url" dynamodbav:"avatar_url"`
	Role        string    `json:"role" dynamodbav:"role"`
	Followers   int       `json:"followers" dynamodbav:"followers"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
}
