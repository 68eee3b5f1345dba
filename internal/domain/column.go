package domain

import "time"

// Column is a list of cards on a board. CardOrderIDs is the authoritative order of Cards.
type Column struct {
	ID           string     `json:"_id"`
	BoardID      string     `json:"board_id"`
	Title        string     `json:"title"`
	CardOrderIDs []string   `json:"card_order_ids"`
	Cards        []Card     `json:"cards"`
	Destroy      bool       `json:"_destroy"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// Clone returns a deep copy of the column
func (c Column) Clone() Column {
	out := c
	out.CardOrderIDs = cloneStrings(c.CardOrderIDs)
	if c.Cards != nil {
		out.Cards = make([]Card, len(c.Cards))
		for i := range c.Cards {
			out.Cards[i] = c.Cards[i].Clone()
		}
	}
	out.CreatedAt = cloneTime(c.CreatedAt)
	out.UpdatedAt = cloneTime(c.UpdatedAt)
	return out
}

// CardIndex returns the index of the card in Cards, or -1
func (c *Column) CardIndex(cardID string) int {
	for i := range c.Cards {
		if c.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}

// HasPlaceholder reports whether the column holds a placeholder card
func (c *Column) HasPlaceholder() bool {
	for i := range c.Cards {
		if c.Cards[i].PlaceholderCard {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the column has no real cards
func (c *Column) IsEmpty() bool {
	for i := range c.Cards {
		if !c.Cards[i].PlaceholderCard {
			return false
		}
	}
	return true
}
