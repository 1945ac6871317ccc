package models

import "time"

// PIN is the secondary credential linked to an account. Only the bcrypt
// hash is ever stored; the clear PIN never leaves the auth package.
type PIN struct {
	ID        string
	AccountID string
	Hash      string
	UpdatedAt time.Time
}
