package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID `json:"id" db:"user_id"`                 // Primary key
	Firstname    string    `json:"firstname" db:"firstname"`        // First name
	Lastname     string    `json:"lastname" db:"lastname"`          // Last name
	Email        string    `json:"email" db:"email"`                // Unique email
	Username     string    `json:"username" db:"username"`          // Unique username
	PasswordHash string    `json:"-" db:"password_hash"`            // Hashed password, never serialized
	CountryCode  string    `json:"countrycode" db:"country_code"`   // Dialing code, e.g. +1
	MobileNumber string    `json:"mobilenumber" db:"mobile_number"` // Unique together with country_code
	CreatedAt    time.Time `json:"created_at" db:"created_at"`      // Creation timestamp
}
