package models

import "time"

// User is a console operator. API references accept its id or its email.
type User struct {
	ID           int64     `json:"id" db:"Id"`
	Email        string    `json:"email" db:"Email"`
	DisplayName  string    `json:"displayName" db:"DisplayName"`
	PasswordHash string    `json:"-" db:"PasswordHash"`
	CreatedAt    time.Time `json:"createdAt" db:"CreatedAt"`
	UpdatedAt    time.Time `json:"updatedAt" db:"UpdatedAt"`
}
