package models

import "time"

// User is one dashboard login. Users live in a small JSON file next to
// the binary, capped at a handful of seats; there is no self-signup.
type User struct {
	ID          int        `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Password    string     `json:"password"` // bcrypt hash
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLogin"`
	IsActive    bool       `json:"isActive"`
}

// UserFile is the on-disk shape of the user store.
type UserFile struct {
	Users     []User    `json:"users"`
	MaxUsers  int       `json:"maxUsers"`
	CreatedAt time.Time `json:"createdAt"`
}
