package handler

import (
	"context"

	apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/task"
)

// TaskGrpcHandler は TaskService の gRPC 実装です。
type TaskGrpcHandler struct {
	svc task.UseCase
}

// NewTaskGrpcHandler は TaskGrpcHandler を生成します。
func NewTaskGrpcHandler(svc task.UseCase) *TaskGrpcHandler {
	return &TaskGrpcHandler{svc: svc}
}

func (h *TaskGrpcHandler) CreateTask(ctx context.Context, req *apiv1.CreateTaskRequest) (*apiv1.Task, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	due, _, err := optionalDate("dueDate", req.DueDate)
	if err != nil {
		return nil, err
	}

	created, err := h.svc.CreateTask(ctx, task.CreateTaskInput{
		UserID:    userID,
		CompanyID: req.CompanyID,
		Title:     req.Title,
		Category:  enumPtr[task.Category](req.Category),
		Status:    enumPtr[task.Status](req.Status),
		DueDate:   due,
		Memo:      req.Memo,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPITask(created), nil
}

func (h *TaskGrpcHandler) GetTask(ctx context.Context, req *apiv1.IDRequest) (*apiv1.Task, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetTask(ctx, req.ID, userID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPITask(found), nil
}

// ListTasks は期限の近い順にタスクを返します。
func (h *TaskGrpcHandler) ListTasks(ctx context.Context, req *apiv1.ListTasksRequest) (*apiv1.ListTasksResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	dueBefore, _, err := optionalDate("dueBefore", req.DueBefore)
	if err != nil {
		return nil, err
	}

	result, err := h.svc.ListTasks(ctx, task.ListTasksInput{
		UserID:    userID,
		CompanyID: req.CompanyID,
		Status:    enumPtr[task.Status](req.Status),
		DueBefore: dueBefore,
		PageSize:  req.PageSize,
		PageToken: req.PageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	tasks := make([]*apiv1.Task, 0, len(result.Tasks))
	for _, t := range result.Tasks {
		tasks = append(tasks, toAPITask(t))
	}
	return &apiv1.ListTasksResponse{Tasks: tasks, NextPageToken: result.NextPageToken}, nil
}

func (h *TaskGrpcHandler) UpdateTask(ctx context.Context, req *apiv1.UpdateTaskRequest) (*apiv1.Task, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	due, dueSet, err := optionalDate("dueDate", req.DueDate)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.UpdateTask(ctx, task.UpdateTaskInput{
		ID:         req.ID,
		UserID:     userID,
		CompanyID:  req.CompanyID,
		Title:      req.Title,
		Category:   enumPtr[task.Category](req.Category),
		Status:     enumPtr[task.Status](req.Status),
		DueDate:    due,
		DueDateSet: dueSet,
		Memo:       req.Memo,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPITask(updated), nil
}

// CompleteTask はタスクを完了にします。
func (h *TaskGrpcHandler) CompleteTask(ctx context.Context, req *apiv1.IDRequest) (*apiv1.Task, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	done, err := h.svc.CompleteTask(ctx, req.ID, userID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPITask(done), nil
}

func (h *TaskGrpcHandler) DeleteTask(ctx context.Context, req *apiv1.IDRequest) (*apiv1.Empty, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.svc.DeleteTask(ctx, req.ID, userID); err != nil {
		return nil, toStatusError(err)
	}
	return &apiv1.Empty{}, nil
}

func toAPITask(t *task.Task) *apiv1.Task {
	if t == nil {
		return nil
	}
	return &apiv1.Task{
		ID:        t.ID,
		CompanyID: t.CompanyID,
		Title:     t.Title,
		Category:  string(t.Category),
		Status:    string(t.Status),
		DueDate:   formatDate(t.DueDate),
		Memo:      t.Memo,
		CreatedAt: formatTime(t.CreatedAt),
		UpdatedAt: formatTime(t.UpdatedAt),
	}
}
