package dto

import "trellone-sync/internal/domain"

// CreateBoardRequest is the body of POST /boards
type CreateBoardRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description,omitempty"`
	Type        domain.BoardType `json:"type" binding:"omitempty,oneof=public private"`
	WorkspaceID string           `json:"workspace_id,omitempty"`
}

// ListBoardsQuery holds the query of GET /boards
type ListBoardsQuery struct {
	Page        int
	Limit       int
	Keyword     string
	WorkspaceID string
}

// UpdateBoardRequest is the body of PUT /boards/:id. Nil fields are left untouched.
type UpdateBoardRequest struct {
	Title          *string  `json:"title,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Type           *string  `json:"type,omitempty"`
	CoverPhoto     *string  `json:"cover_photo,omitempty"`
	ColumnOrderIDs []string `json:"column_order_ids,omitempty"`
	Destroy        *bool    `json:"_destroy,omitempty"`
}

// MoveCardRequest is the body of PUT /boards/supports/moving-card
type MoveCardRequest struct {
	CurrentCardID    string   `json:"current_card_id"`
	PrevColumnID     string   `json:"prev_column_id"`
	PrevCardOrderIDs []string `json:"prev_card_order_ids"`
	NextColumnID     string   `json:"next_column_id"`
	NextCardOrderIDs []string `json:"next_card_order_ids"`
}
