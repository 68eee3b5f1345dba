package domain

import (
	"time"
)

// AttachmentType represents the variant of a card attachment
type AttachmentType string

const (
	AttachmentTypeFile AttachmentType = "file"
	AttachmentTypeLink AttachmentType = "link"
)

// AttachmentFile holds the uploaded file variant of an attachment
type AttachmentFile struct {
	URL         string `json:"url"`
	DisplayName string `json:"display_name"`
	MimeType    string `json:"mime_type"`
	Size        int64  `json:"size"`
}

// AttachmentLink holds the link variant of an attachment
type AttachmentLink struct {
	URL         string `json:"url"`
	DisplayName string `json:"display_name"`
	FaviconURL  string `json:"favicon_url,omitempty"`
}

// Attachment is a file or link attached to a card. Exactly one of File or Link is set.
type Attachment struct {
	AttachmentID string          `json:"attachment_id"`
	Type         AttachmentType  `json:"type"`
	File         *AttachmentFile `json:"file,omitempty"`
	Link         *AttachmentLink `json:"link,omitempty"`
	UploadedBy   string          `json:"uploaded_by"`
	UploadedAt   time.Time       `json:"uploaded_at"`
}

// Clone returns a deep copy of the attachment
func (a Attachment) Clone() Attachment {
	out := a
	if a.File != nil {
		f := *a.File
		out.File = &f
	}
	if a.Link != nil {
		l := *a.Link
		out.Link = &l
	}
	return out
}
