package domain

import "time"

// Reaction is an emoji reaction on a card comment
type Reaction struct {
	ReactionID      string `json:"reaction_id"`
	Emoji           string `json:"emoji"`
	UserID          string `json:"user_id"`
	UserEmail       string `json:"user_email,omitempty"`
	UserDisplayName string `json:"user_display_name,omitempty"`
}

// Comment is a comment on a card
type Comment struct {
	CommentID       string     `json:"comment_id"`
	UserID          string     `json:"user_id"`
	UserEmail       string     `json:"user_email,omitempty"`
	UserAvatar      string     `json:"user_avatar,omitempty"`
	UserDisplayName string     `json:"user_display_name,omitempty"`
	Content         string     `json:"content"`
	Reactions       []Reaction `json:"reactions"`
	CommentedAt     time.Time  `json:"commented_at"`
}

// Clone returns a deep copy of the comment
func (c Comment) Clone() Comment {
	out := c
	if c.Reactions != nil {
		out.Reactions = append([]Reaction(nil), c.Reactions...)
	}
	return out
}
