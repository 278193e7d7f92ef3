package models

import "time"

// User represents a registered account. Expense payers and share holders
// reference users by ID.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique handle used for login and directory search.
	Username string

	// FirstName and LastName are display names, also searchable.
	FirstName string
	LastName  string

	// Email is the user's email address (unique).
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized to clients.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser builds a user with a fresh timestamp. The ID is assigned by the
// store on insert if left empty.
func NewUser(username, email, firstName, lastName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Username:     username,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
