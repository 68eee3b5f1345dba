package realtime

// Client emitted events
const (
	EventClientUpdatedBoard     = "CLIENT_USER_UPDATED_BOARD"
	EventClientUpdatedCard      = "CLIENT_USER_UPDATED_CARD"
	EventClientDeletedBoard     = "CLIENT_USER_DELETED_BOARD"
	EventClientUpdatedWorkspace = "CLIENT_USER_UPDATED_WORKSPACE"
	EventClientInvitedToBoard   = "CLIENT_USER_INVITED_TO_BOARD"
	EventClientJoinWorkspace    = "CLIENT_JOIN_WORKSPACE"
	EventClientLeaveWorkspace   = "CLIENT_LEAVE_WORKSPACE"
)

// Server emitted events
const (
	EventServerUpdatedBoard        = "SERVER_USER_UPDATED_BOARD"
	EventServerUpdatedCard         = "SERVER_USER_UPDATED_CARD"
	EventServerDeletedBoard        = "SERVER_USER_DELETED_BOARD"
	EventServerInvitedToBoard      = "SERVER_USER_INVITED_TO_BOARD"
	EventServerWorkspaceUpdated    = "SERVER_WORKSPACE_UPDATED"
	EventServerWorkspaceBoardAdded = "SERVER_WORKSPACE_BOARD_CREATED"

	// EventConnect is raised locally by a transport on every established connection
	EventConnect = "connect"
	// EventReconnect is raised locally by a transport after it re-establishes its connection
	EventReconnect = "reconnect"
)

// relayed maps client events to the server event peers receive
var relayed = map[string]string{
	EventClientUpdatedBoard:     EventServerUpdatedBoard,
	EventClientUpdatedCard:      EventServerUpdatedCard,
	EventClientDeletedBoard:     EventServerDeletedBoard,
	EventClientUpdatedWorkspace: EventServerWorkspaceUpdated,
	EventClientInvitedToBoard:   EventServerInvitedToBoard,
}

// ServerEventFor returns the event peers receive for a client event.
// ok is false for events that are not fanned out, such as room joins.
func ServerEventFor(clientEvent string) (string, bool) {
	ev, ok := relayed[clientEvent]
	return ev, ok
}

// BoardDeletedPayload is the payload of the board deleted events
type BoardDeletedPayload struct {
	BoardID string `json:"board_id"`
}

// WorkspacePayload is the payload of workspace events and room joins
type WorkspacePayload struct {
	WorkspaceID string `json:"workspace_id"`
	BoardID     string `json:"board_id,omitempty"`
}
