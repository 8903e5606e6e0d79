package task

import "errors"

var (
	// ErrTaskNotFound はタスクが存在しない、または利用者のものではない場合に返却されます。
	ErrTaskNotFound = errors.New("task not found")
	// ErrCompanyNotFound は紐付け先の企業が存在しない場合に返却されます。
	ErrCompanyNotFound = errors.New("company not found")
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidUserID   = errors.New("invalid user id")
	ErrInvalidTitle    = errors.New("invalid title")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidStatus   = errors.New("invalid status")
)
