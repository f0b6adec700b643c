package model

import "time"

// User roles. Admins manage documents and see all questions; students may
// ask questions and manage their own.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// User is an account in the system. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
