package company

import "errors"

var (
	// ErrCompanyNotFound は企業が存在しない、または利用者のものではない場合に返却されます。
	ErrCompanyNotFound = errors.New("company not found")
	// ErrInvalidName は企業名が不正な場合に返却されます。
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidURL は URL が絶対 http(s) URL ではない場合に返却されます。
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidPriority は志望度が不正な場合に返却されます。
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidStatus はステータスが不正な場合に返却されます。
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidUserID は利用者 ID が不正な場合に返却されます。
	ErrInvalidUserID = errors.New("invalid user id")
)
