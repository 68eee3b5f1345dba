package dto

import (
	"time"

	"trellone-sync/internal/domain"
)

// CreateCardRequest is the body of POST /cards
type CreateCardRequest struct {
	BoardID  string `json:"board_id"`
	ColumnID string `json:"column_id"`
	Title    string `json:"title"`
}

// UpdateCardRequest is the body of PUT /cards/:id. Nil fields are left untouched.
type UpdateCardRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	CoverPhoto  *string    `json:"cover_photo,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsCompleted *bool      `json:"is_completed,omitempty"`
	Destroy     *bool      `json:"_destroy,omitempty"`
}

// CommentRequest is the body of comment create and edit
type CommentRequest struct {
	Content string `json:"content"`
}

// ReactionRequest is the body of POST /cards/:id/comments/:comment_id/reactions
type ReactionRequest struct {
	Emoji string `json:"emoji"`
}

// AttachmentRequest is the body of POST /cards/:id/attachments
type AttachmentRequest struct {
	Type domain.AttachmentType `json:"type"`
	File *domain.AttachmentFile `json:"file,omitempty"`
	Link *domain.AttachmentLink `json:"link,omitempty"`
}

// Card member actions
const (
	MemberActionAdd    = "ADD"
	MemberActionRemove = "REMOVE"
)

// CardMemberRequest is the body of PUT /cards/:id/members
type CardMemberRequest struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
}
