// Package identity は上流のゲートウェイから渡された利用者 ID をリクエストコンテキストへ伝搬します。
package identity

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// MetadataKey は利用者 ID を運ぶ gRPC メタデータのキーです。
const MetadataKey = "x-user-id"

type userIDContextKey struct{}

// WithUserID は利用者 ID を格納したコンテキストを返します。
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// UserIDFromContext はコンテキストから利用者 ID を取り出します。
func UserIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	userID, ok := ctx.Value(userIDContextKey{}).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// UnaryServerInterceptor はメタデータの利用者 ID をコンテキストへ格納します。
// public に含まれるメソッドは ID が無くても通過させます。
func UnaryServerInterceptor(public ...string) grpc.UnaryServerInterceptor {
	skip := make(map[string]struct{}, len(public))
	for _, m := range public {
		skip[m] = struct{}{}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		userID := UserIDFromMetadata(ctx)
		if userID != "" {
			return handler(WithUserID(ctx, userID), req)
		}

		if _, ok := skip[info.FullMethod]; ok || strings.HasPrefix(info.FullMethod, "/grpc.health.v1.") {
			return handler(ctx, req)
		}

		return nil, status.Error(codes.Unauthenticated, "missing "+MetadataKey+" metadata")
	}
}

// UserIDFromMetadata は受信メタデータの利用者 ID を返します。無い場合は空文字です。
func UserIDFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get(MetadataKey) {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
