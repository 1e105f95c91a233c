package entity

import "time"

// Post is an authored article. AuthorID is immutable after creation. Likes is
// a set of account ids (each at most once) and CommentIDs the ordered set of
// comment references; both are denormalized on the post document and must stay
// consistent with it under concurrent mutation.
type Post struct {
	ID         string
	Title      string
	Content    string // opaque rich-text blob
	CoverImage string // storage reference, never interpreted
	AuthorID   string
	Likes      []string
	CommentIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Author *Summary // populated on reads
}

// Liked reports whether accountID is in the liker set.
func (p *Post) Liked(accountID string) bool {
	for _, id := range p.Likes {
		if id == accountID {
			return true
		}
	}
	return false
}
