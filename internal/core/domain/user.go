package domain

import "time"

// User models an account in the identity store.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal returns the request identity for u.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
