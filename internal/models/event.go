package models

// UserRegisteredEvent is published to Kafka after a successful registration.
type UserRegisteredEvent struct {
	EventID   string `json:"event_id"`  // Unique event identifier
	UserID    string `json:"user_id"`   // Identifier of the created user
	Username  string `json:"username"`  // Registered username
	Email     string `json:"email"`     // Registered email
	Timestamp int64  `json:"timestamp"` // Unix time of registration
}
