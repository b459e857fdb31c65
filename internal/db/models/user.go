package models

import "time"

// User represents a catalog account. Emails are unique. PasswordHash is nil
// for social-login accounts created without a password, and is never
// serialized into API responses.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FirstName    string    `db:"first_name" json:"first_name"`
	MiddleName   *string   `db:"middle_name" json:"middle_name,omitempty"`
	LastName     string    `db:"last_name" json:"last_name"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	CreatedBy    string    `db:"created_by" json:"created_by"`
	UpdatedBy    string    `db:"updated_by" json:"updated_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName returns the user's display name, skipping an absent middle name.
func (u *User) FullName() string {
	if u.MiddleName != nil && *u.MiddleName != "" {
		return u.FirstName + " " + *u.MiddleName + " " + u.LastName
	}
	return u.FirstName + " " + u.LastName
}
