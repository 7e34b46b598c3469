package board

import "errors"

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrUnknownCard     = errors.New("unknown card")
	ErrDuplicateCardID = errors.New("duplicate card id")
)
