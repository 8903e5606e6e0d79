package profile

import "errors"

var (
	// ErrProfileNotFound はプロフィールが保存されていない場合に返却されます。
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidUserID   = errors.New("invalid user id")
	// ErrInvalidGraduationYear は卒業年度が範囲外の場合に返却されます。
	ErrInvalidGraduationYear = errors.New("invalid graduation year")
	// ErrTooManyItems は希望業界・職種の件数が上限を超えた場合に返却されます。
	ErrTooManyItems = errors.New("too many items")
)
