package domain

import (
	"time"
)

// BoardType represents the visibility of a board
type BoardType string

const (
	BoardTypePublic  BoardType = "public"
	BoardTypePrivate BoardType = "private"
)

// BoardRole represents the role of a board member
type BoardRole string

const (
	BoardRoleAdmin  BoardRole = "admin"
	BoardRoleMember BoardRole = "member"
)

// BoardMember is a user that belongs to a board
type BoardMember struct {
	UserID   string    `json:"user_id"`
	Role     BoardRole `json:"board_role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Board is the active board aggregate: the board with its columns and cards.
// ColumnOrderIDs is the authoritative display order of Columns.
type Board struct {
	ID             string        `json:"_id"`
	Title          string        `json:"title"`
	Description    string        `json:"description,omitempty"`
	Type           BoardType     `json:"type,omitempty"`
	WorkspaceID    string        `json:"workspace_id,omitempty"`
	CoverPhoto     string        `json:"cover_photo,omitempty"`
	ColumnOrderIDs []string      `json:"column_order_ids"`
	Columns        []Column      `json:"columns"`
	Members        []BoardMember `json:"members,omitempty"`
	Destroy        bool          `json:"_destroy"`
	CreatedAt      *time.Time    `json:"created_at,omitempty"`
	UpdatedAt      *time.Time    `json:"updated_at,omitempty"`
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := *b
	out.ColumnOrderIDs = cloneStrings(b.ColumnOrderIDs)
	if b.Columns != nil {
		out.Columns = make([]Column, len(b.Columns))
		for i := range b.Columns {
			out.Columns[i] = b.Columns[i].Clone()
		}
	}
	if b.Members != nil {
		out.Members = append([]BoardMember(nil), b.Members...)
	}
	out.CreatedAt = cloneTime(b.CreatedAt)
	out.UpdatedAt = cloneTime(b.UpdatedAt)
	return &out
}

// ColumnIndex returns the index of the column in Columns, or -1
func (b *Board) ColumnIndex(columnID string) int {
	for i := range b.Columns {
		if b.Columns[i].ID == columnID {
			return i
		}
	}
	return -1
}

// FindColumn returns the column with the given id
func (b *Board) FindColumn(columnID string) (*Column, bool) {
	i := b.ColumnIndex(columnID)
	if i < 0 {
		return nil, false
	}
	return &b.Columns[i], true
}

// FindColumnByCardID returns the column holding the card with the given id
func (b *Board) FindColumnByCardID(cardID string) (*Column, bool) {
	for i := range b.Columns {
		if b.Columns[i].CardIndex(cardID) >= 0 {
			return &b.Columns[i], true
		}
	}
	return nil, false
}

// FindCard returns the card with the given id and its column
func (b *Board) FindCard(cardID string) (*Card, *Column, bool) {
	col, ok := b.FindColumnByCardID(cardID)
	if !ok {
		return nil, nil, false
	}
	return &col.Cards[col.CardIndex(cardID)], col, true
}

// HasMember reports whether the user is a member of the board
func (b *Board) HasMember(userID string) bool {
	for _, m := range b.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// CardCount returns the number of real cards on the board
func (b *Board) CardCount() int {
	n := 0
	for i := range b.Columns {
		for j := range b.Columns[i].Cards {
			if !b.Columns[i].Cards[j].PlaceholderCard {
				n++
			}
		}
	}
	return n
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
