package interview

import "errors"

var (
	ErrNoteNotFound    = errors.New("interview note not found")
	ErrCompanyNotFound = errors.New("company not found")
	// ErrStepNotFound は選考ステップが存在しない、または同じ企業のものではない場合に返却されます。
	ErrStepNotFound     = errors.New("selection step not found")
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrInvalidCompanyID = errors.New("invalid company id")
	ErrInvalidTitle     = errors.New("invalid title")
	ErrInvalidFormat    = errors.New("invalid format")
)
