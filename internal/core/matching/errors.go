package matching

import "errors"

var (
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrInvalidCompanyID = errors.New("invalid company id")
	// ErrProfileIncomplete はプロフィールが未入力で評価できない場合に返却されます。
	ErrProfileIncomplete = errors.New("profile is empty; fill in the profile before evaluating fit")
	// ErrAIDisabled は LLM 連携が無効な場合に返却されます。
	ErrAIDisabled = errors.New("ai matching is disabled")
	// ErrGenerationFailed は LLM の呼び出しに失敗した場合に返却されます。
	ErrGenerationFailed = errors.New("ai generation failed")
	// ErrInvalidResponse は LLM の応答を解釈できない場合に返却されます。
	ErrInvalidResponse = errors.New("invalid ai response")
)
