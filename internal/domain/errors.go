package domain

import "errors"

var (
	ErrNoActiveBoard  = errors.New("no active board")
	ErrColumnNotFound = errors.New("column not found on active board")
	ErrCardNotFound   = errors.New("card not found on active board")
)
