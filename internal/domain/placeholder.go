package domain

import (
	"strings"
	"time"
)

const placeholderSuffix = "-placeholder-card"

// PlaceholderCardID returns the id of the placeholder card of a column
func PlaceholderCardID(columnID string) string {
	return columnID + placeholderSuffix
}

// PlaceholderColumnID returns the column id a placeholder card id was built from
func PlaceholderColumnID(id string) string {
	return strings.TrimSuffix(id, placeholderSuffix)
}

// IsPlaceholderID reports whether id names a placeholder card
func IsPlaceholderID(id string) bool {
	return strings.HasSuffix(id, placeholderSuffix)
}

// GeneratePlaceholderCard builds the synthetic card that keeps an empty column non-empty.
// Timestamps are fresh on every call and carry no meaning.
func GeneratePlaceholderCard(column Column) Card {
	now := time.Now().UTC()
	return Card{
		ID:              PlaceholderCardID(column.ID),
		BoardID:         column.BoardID,
		ColumnID:        column.ID,
		Members:         []string{},
		Comments:        []Comment{},
		Attachments:     []Attachment{},
		CreatedAt:       &now,
		UpdatedAt:       &now,
		PlaceholderCard: true,
	}
}

// InstallPlaceholder replaces the column's cards with its placeholder card
func InstallPlaceholder(column *Column) {
	placeholder := GeneratePlaceholderCard(*column)
	column.Cards = []Card{placeholder}
	column.CardOrderIDs = []string{placeholder.ID}
}

// PersistableIDs drops placeholder ids from an order array before it leaves the client
func PersistableIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !IsPlaceholderID(id) {
			out = append(out, id)
		}
	}
	return out
}
