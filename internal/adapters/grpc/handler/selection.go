package handler

import (
	"context"

	apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/selection"
)

// SelectionGrpcHandler は SelectionService の gRPC 実装です。
type SelectionGrpcHandler struct {
	svc selection.UseCase
}

// NewSelectionGrpcHandler は SelectionGrpcHandler を生成します。
func NewSelectionGrpcHandler(svc selection.UseCase) *SelectionGrpcHandler {
	return &SelectionGrpcHandler{svc: svc}
}

// CreateStep は選考ステップを追加し、企業の進捗を再計算します。
func (h *SelectionGrpcHandler) CreateStep(ctx context.Context, req *apiv1.CreateStepRequest) (*apiv1.Step, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	planned, _, err := optionalDate("plannedDate", req.PlannedDate)
	if err != nil {
		return nil, err
	}
	actual, _, err := optionalDate("actualDate", req.ActualDate)
	if err != nil {
		return nil, err
	}

	created, err := h.svc.CreateStep(ctx, selection.CreateStepInput{
		UserID:      userID,
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		Status:      enumPtr[selection.StepStatus](req.Status),
		Order:       req.Order,
		PlannedDate: planned,
		ActualDate:  actual,
		Memo:        req.Memo,
		Offer:       req.Offer,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIStep(created), nil
}

func (h *SelectionGrpcHandler) GetStep(ctx context.Context, req *apiv1.IDRequest) (*apiv1.Step, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetStep(ctx, selection.GetStepInput{ID: req.ID, UserID: userID})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIStep(found), nil
}

// ListSteps は企業の選考ステップを順序どおりに返します。
func (h *SelectionGrpcHandler) ListSteps(ctx context.Context, req *apiv1.CompanyIDRequest) (*apiv1.ListStepsResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	steps, err := h.svc.ListSteps(ctx, selection.ListStepsInput{CompanyID: req.CompanyID, UserID: userID})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPISteps(steps), nil
}

// UpdateStep は選考ステップを更新します。
func (h *SelectionGrpcHandler) UpdateStep(ctx context.Context, req *apiv1.UpdateStepRequest) (*apiv1.Step, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	planned, plannedSet, err := optionalDate("plannedDate", req.PlannedDate)
	if err != nil {
		return nil, err
	}
	actual, actualSet, err := optionalDate("actualDate", req.ActualDate)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.UpdateStep(ctx, selection.UpdateStepInput{
		ID:             req.ID,
		UserID:         userID,
		CompanyID:      req.CompanyID,
		Name:           req.Name,
		Status:         enumPtr[selection.StepStatus](req.Status),
		Order:          req.Order,
		PlannedDate:    planned,
		PlannedDateSet: plannedSet,
		ActualDate:     actual,
		ActualDateSet:  actualSet,
		Memo:           req.Memo,
		Offer:          req.Offer,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIStep(updated), nil
}

func (h *SelectionGrpcHandler) DeleteStep(ctx context.Context, req *apiv1.IDRequest) (*apiv1.Empty, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.svc.DeleteStep(ctx, selection.DeleteStepInput{ID: req.ID, UserID: userID}); err != nil {
		return nil, toStatusError(err)
	}
	return &apiv1.Empty{}, nil
}

// ApplyTemplate は標準の選考フローを末尾に追加します。
func (h *SelectionGrpcHandler) ApplyTemplate(ctx context.Context, req *apiv1.CompanyIDRequest) (*apiv1.ListStepsResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	steps, err := h.svc.ApplyTemplate(ctx, selection.ApplyTemplateInput{CompanyID: req.CompanyID, UserID: userID})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPISteps(steps), nil
}

// ReorderSteps は指定した ID の並びでステップ順序を振り直します。
func (h *SelectionGrpcHandler) ReorderSteps(ctx context.Context, req *apiv1.ReorderStepsRequest) (*apiv1.ListStepsResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	steps, err := h.svc.ReorderSteps(ctx, selection.ReorderStepsInput{
		CompanyID: req.CompanyID,
		UserID:    userID,
		StepIDs:   req.StepIDs,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPISteps(steps), nil
}

// RecomputeProgress は企業の進捗を選考ステップから再計算して保存します。
func (h *SelectionGrpcHandler) RecomputeProgress(ctx context.Context, req *apiv1.CompanyIDRequest) (*apiv1.Progress, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := h.svc.RecomputeCompanyProgress(ctx, req.CompanyID, userID)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &apiv1.Progress{
		CompanyID:    req.CompanyID,
		Status:       progress.Status,
		NextStep:     progress.NextStep,
		NextDeadline: formatDate(progress.NextDeadline),
	}, nil
}

func toAPIStep(s *selection.Step) *apiv1.Step {
	if s == nil {
		return nil
	}
	return &apiv1.Step{
		ID:          s.ID,
		CompanyID:   s.CompanyID,
		Order:       s.Order,
		Name:        s.Name,
		Status:      string(s.Status),
		PlannedDate: formatDate(s.PlannedDate),
		ActualDate:  formatDate(s.ActualDate),
		Memo:        s.Memo,
		Offer:       s.Offer,
		CreatedAt:   formatTime(s.CreatedAt),
		UpdatedAt:   formatTime(s.UpdatedAt),
	}
}

func toAPISteps(steps []*selection.Step) *apiv1.ListStepsResponse {
	out := make([]*apiv1.Step, 0, len(steps))
	for _, s := range steps {
		out = append(out, toAPIStep(s))
	}
	return &apiv1.ListStepsResponse{Steps: out}
}
