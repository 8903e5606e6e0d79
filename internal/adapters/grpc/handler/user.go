package handler

import (
	"context"

	apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/user"
)

// UserGrpcHandler は UserService の gRPC 実装です。
type UserGrpcHandler struct {
	svc user.UseCase
}

// NewUserGrpcHandler は UserGrpcHandler を生成します。
func NewUserGrpcHandler(svc user.UseCase) *UserGrpcHandler {
	return &UserGrpcHandler{svc: svc}
}

// CreateUser はユーザーを登録します。利用者 ID は不要です。
func (h *UserGrpcHandler) CreateUser(ctx context.Context, req *apiv1.CreateUserRequest) (*apiv1.User, error) {
	created, err := h.svc.CreateUser(ctx, user.CreateUserInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIUser(created), nil
}

// GetMe は呼び出し元のユーザーを取得します。
func (h *UserGrpcHandler) GetMe(ctx context.Context, _ *apiv1.Empty) (*apiv1.User, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetMe(ctx, userID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIUser(found), nil
}

// UpdateMe は呼び出し元のユーザー情報を更新します。
func (h *UserGrpcHandler) UpdateMe(ctx context.Context, req *apiv1.UpdateMeRequest) (*apiv1.User, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.UpdateMe(ctx, user.UpdateMeInput{
		UserID: userID,
		Name:   req.Name,
		Status: enumPtr[user.Status](req.Status),
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIUser(updated), nil
}

// DeleteMe は呼び出し元のユーザーを削除します。
func (h *UserGrpcHandler) DeleteMe(ctx context.Context, _ *apiv1.Empty) (*apiv1.Empty, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.svc.DeleteMe(ctx, userID); err != nil {
		return nil, toStatusError(err)
	}
	return &apiv1.Empty{}, nil
}

func toAPIUser(u *user.User) *apiv1.User {
	if u == nil {
		return nil
	}
	return &apiv1.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Status:    string(u.Status),
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}
