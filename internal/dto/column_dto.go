package dto

// CreateColumnRequest is the body of POST /columns
type CreateColumnRequest struct {
	BoardID string `json:"board_id"`
	Title   string `json:"title"`
}

// UpdateColumnRequest is the body of PUT /columns/:id
type UpdateColumnRequest struct {
	Title        *string  `json:"title,omitempty"`
	CardOrderIDs []string `json:"card_order_ids,omitempty"`
}
