package handler

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/identity"
)

const dateLayout = time.DateOnly

// requireUserID はコンテキストから利用者 ID を取り出します。
func requireUserID(ctx context.Context) (string, error) {
	userID, ok := identity.UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing "+identity.MetadataKey+" metadata")
	}
	return userID, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s: expected YYYY-MM-DD, got %q", field, raw)
	}
	return t, nil
}

func parseInstant(field, raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s: expected RFC 3339 timestamp, got %q", field, raw)
	}
	return t.UTC(), nil
}

// optionalDate は任意の日付を解釈します。nil は未指定、空文字は消去を表します。
func optionalDate(field string, raw *string) (value *time.Time, set bool, err error) {
	if raw == nil {
		return nil, false, nil
	}
	if strings.TrimSpace(*raw) == "" {
		return nil, true, nil
	}
	t, err := parseDate(field, *raw)
	if err != nil {
		return nil, false, err
	}
	return &t, true, nil
}

func optionalInstant(field string, raw *string) (value *time.Time, set bool, err error) {
	if raw == nil {
		return nil, false, nil
	}
	if strings.TrimSpace(*raw) == "" {
		return nil, true, nil
	}
	t, err := parseInstant(field, *raw)
	if err != nil {
		return nil, false, err
	}
	return &t, true, nil
}

// enumPtr は文字列を列挙型へ変換します。検証はサービス層で行います。
func enumPtr[T ~string](raw *string) *T {
	if raw == nil {
		return nil
	}
	v := T(strings.TrimSpace(*raw))
	return &v
}
