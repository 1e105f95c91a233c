package entity

import "time"

// Account is the aggregate root for the account domain. Password holds a
// bcrypt hash. Email is unique; accounts are never hard-deleted.
type Account struct {
	ID        string
	Email     string
	Password  string
	Username  string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is the public projection embedded in post and comment reads.
type Summary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

func (a *Account) Summary() Summary {
	return Summary{ID: a.ID, Username: a.Username, AvatarURL: a.AvatarURL}
}
