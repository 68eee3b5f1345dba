package dto

// OpenBoardResponse is returned by the local API after a board is opened
type OpenBoardResponse struct {
	BoardID string `json:"board_id"`
	Columns int    `json:"columns"`
	Cards   int    `json:"cards"`
}

// AddColumnRequest is the local API body for adding a column to the active board
type AddColumnRequest struct {
	Title string `json:"title"`
}

// AddCardRequest is the local API body for adding a card to a column of the active board
type AddCardRequest struct {
	Title string `json:"title"`
}

// ColumnOrderRequest reorders columns of the active board by moving one column onto another
type ColumnOrderRequest struct {
	ActiveColumnID string `json:"active_column_id" binding:"required"`
	OverColumnID   string `json:"over_column_id" binding:"required"`
}

// PreferencesRequest updates persisted UI flags
type PreferencesRequest struct {
	Values map[string]bool `json:"values" binding:"required"`
}

// DragStartRequest begins a drag of a column or a card
type DragStartRequest struct {
	Kind     string `json:"kind" binding:"required,oneof=column card"`
	ActiveID string `json:"active_id" binding:"required"`
}

// DragTargetRequest names the entity under the pointer. An empty OverID on end cancels the drop.
type DragTargetRequest struct {
	OverID string `json:"over_id"`
}

// DragStateResponse reports the drag state after an event
type DragStateResponse struct {
	State string `json:"state"`
}
