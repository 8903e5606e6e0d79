package selection

import "errors"

var (
	// ErrStepNotFound は選考ステップが存在しない、または利用者のものではない場合に返却されます。
	ErrStepNotFound = errors.New("selection step not found")
	// ErrCompanyNotFound は対象企業が存在しない、または利用者のものではない場合に返却されます。
	ErrCompanyNotFound = errors.New("company not found")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidCompanyID は企業 ID が不正な場合に返却されます。
	ErrInvalidCompanyID = errors.New("invalid company id")
	// ErrInvalidUserID は利用者 ID が不正な場合に返却されます。
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrInvalidName はステップ名が不正な場合に返却されます。
	ErrInvalidName = errors.New("invalid step name")
	// ErrInvalidStatus はステータスが不正な場合に返却されます。
	ErrInvalidStatus = errors.New("invalid step status")
	// ErrInvalidOrder は並び順が不正な場合に返却されます。
	ErrInvalidOrder = errors.New("invalid step order")
	// ErrInvalidReorder は並び替え指定が企業のステップ集合と一致しない場合に返却されます。
	ErrInvalidReorder = errors.New("step ids must match the company's steps exactly")
	// ErrStorageUnavailable は進捗の再計算中にストレージへアクセスできなかった場合に返却されます。
	ErrStorageUnavailable = errors.New("storage unavailable")
)
