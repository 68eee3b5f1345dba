package domain

import "time"

// Card is a single card inside a column
type Card struct {
	ID          string       `json:"_id"`
	BoardID     string       `json:"board_id"`
	ColumnID    string       `json:"column_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CoverPhoto  string       `json:"cover_photo"`
	DueDate     *time.Time   `json:"due_date"`
	IsCompleted bool         `json:"is_completed"`
	Members     []string     `json:"members"`
	Comments    []Comment    `json:"comments"`
	Attachments []Attachment `json:"attachments"`
	Destroy     bool         `json:"_destroy"`
	CreatedAt   *time.Time   `json:"created_at,omitempty"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty"`

	// PlaceholderCard marks the synthetic card kept in empty columns. Never persisted.
	PlaceholderCard bool `json:"FE_PlaceholderCard,omitempty"`
}

// Clone returns a deep copy of the card
func (c Card) Clone() Card {
	out := c
	out.DueDate = cloneTime(c.DueDate)
	out.CreatedAt = cloneTime(c.CreatedAt)
	out.UpdatedAt = cloneTime(c.UpdatedAt)
	out.Members = cloneStrings(c.Members)
	if c.Comments != nil {
		out.Comments = make([]Comment, len(c.Comments))
		for i := range c.Comments {
			out.Comments[i] = c.Comments[i].Clone()
		}
	}
	if c.Attachments != nil {
		out.Attachments = make([]Attachment, len(c.Attachments))
		for i := range c.Attachments {
			out.Attachments[i] = c.Attachments[i].Clone()
		}
	}
	return out
}

// HasMember reports whether the user is assigned to the card
func (c *Card) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}
