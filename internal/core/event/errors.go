package event

import "errors"

var (
	// ErrEventNotFound は予定が存在しない、または利用者のものではない場合に返却されます。
	ErrEventNotFound = errors.New("event not found")
	// ErrCompanyNotFound は紐付け先の企業が存在しない場合に返却されます。
	ErrCompanyNotFound = errors.New("company not found")
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidUserID   = errors.New("invalid user id")
	ErrInvalidTitle    = errors.New("invalid title")
	ErrInvalidKind     = errors.New("invalid kind")
	// ErrInvalidTimeRange は開始・終了時刻の指定が不正な場合に返却されます。
	ErrInvalidTimeRange = errors.New("invalid time range")
	// ErrInvalidReminder はリマインド時間が範囲外の場合に返却されます。
	ErrInvalidReminder = errors.New("invalid reminder")
)
