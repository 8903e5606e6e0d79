// Package paging は一覧取得 API のオフセット型ページトークンを扱います。
package paging

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize はページサイズ未指定時の件数です。
	DefaultPageSize = 50
	// MaxPageSize は指定可能なページサイズの上限です。
	MaxPageSize = 200
)

var (
	// ErrInvalidPageSize はページサイズが上限を超えた場合に返却されます。
	ErrInvalidPageSize = errors.New("invalid page size")
	// ErrInvalidPageToken はページトークンを解釈できない場合に返却されます。
	ErrInvalidPageToken = errors.New("invalid page token")
)

// Page は正規化済みのページ指定です。
type Page struct {
	Limit  int
	Offset int
}

// Parse はページサイズとトークンを検証して Page を返します。
func Parse(pageSize int, token string) (Page, error) {
	limit, err := NormalizePageSize(pageSize)
	if err != nil {
		return Page{}, err
	}

	offset, err := ParseToken(token)
	if err != nil {
		return Page{}, err
	}

	return Page{Limit: limit, Offset: offset}, nil
}

// NormalizePageSize は 0 以下を既定値に置き換え、上限超過をエラーにします。
func NormalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return DefaultPageSize, nil
	}
	if pageSize > MaxPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

// ParseToken はオフセットを表すトークンを解釈します。空文字は先頭です。
func ParseToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}

// NextToken は limit+1 件取得した結果から次ページのトークンを返します。
// 余剰分を取り除いた件数を併せて返します。
func NextToken(fetched, limit, offset int) (int, string) {
	if fetched > limit {
		return limit, strconv.Itoa(offset + limit)
	}
	return fetched, ""
}
