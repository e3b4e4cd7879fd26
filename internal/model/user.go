package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Passwords are stored bcrypt-hashed.  The Authorized flag is
// false until an admin approves the account; it gates booking for fans
// and match/stadium mutation for managers.
//
// Fields:
//  ID           – UUID primary key.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name.
//  LastName     – family name.
//  Birthdate    – date of birth (date only, stored UTC).
//  Gender       – one of the Genders enumeration.
//  City         – one of the Cities enumeration.
//  Address      – optional street address.
//  Role         – fan, manager or admin.
//  Authorized   – admin-granted approval flag.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Birthdate    time.Time // users.birthdate
	Gender       string    // users.gender
	City         string    // users.city
	Address      *string   // users.address (nullable)
	Role         string    // users.role
	Authorized   bool      // users.authorized
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
