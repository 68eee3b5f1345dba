package domain

// BoardList is one page of boards visible to the current user
type BoardList struct {
	Boards []Board `json:"boards"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
	Total  int     `json:"total_page"`
}

// BoardInvitation is sent to an invitee over the realtime channel
type BoardInvitation struct {
	BoardID     string `json:"board_id"`
	InviteeID   string `json:"invitee_id"`
	InviterID   string `json:"inviter_id"`
	InviteeMail string `json:"invitee_email,omitempty"`
}
