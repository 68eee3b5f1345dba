package service

import (
	"strings"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/response"
)

var (
	// ErrBlankTitle is returned before any request when a title is empty or whitespace
	ErrBlankTitle = response.NewAppError(response.ErrCodeValidation, "Title must not be blank", "")

	ErrBlankContent = response.NewAppError(response.ErrCodeValidation, "Content must not be blank", "")

	ErrNoActiveBoard = domain.ErrNoActiveBoard

	ErrUploadsDisabled = response.NewAppError(response.ErrCodeUnavailable, "File uploads are not configured", "")
)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
