package research

import "errors"

var (
	// ErrResearchNotFound は研究シートが保存されていない場合に返却されます。
	ErrResearchNotFound = errors.New("research not found")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrInvalidCompanyID = errors.New("invalid company id")
	// ErrInvalidSection は未知の項目名が指定された場合に返却されます。
	ErrInvalidSection = errors.New("invalid section")
	// ErrSectionTooLong は項目の本文が長すぎる場合に返却されます。
	ErrSectionTooLong = errors.New("section text too long")
)
