package entity

import "time"

// Comment is attached to exactly one post. No edit transition exists; it is
// created and eventually deleted.
type Comment struct {
	ID        string
	Content   string
	AuthorID  string
	PostID    string
	CreatedAt time.Time

	Author *Summary // populated on reads
}
