package handler

import (
	"context"

	apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/research"
)

// ResearchGrpcHandler は ResearchService の gRPC 実装です。
type ResearchGrpcHandler struct {
	svc research.UseCase
}

// NewResearchGrpcHandler は ResearchGrpcHandler を生成します。
func NewResearchGrpcHandler(svc research.UseCase) *ResearchGrpcHandler {
	return &ResearchGrpcHandler{svc: svc}
}

// GetResearch は企業研究シートを返します。未作成の場合は空のシートを返します。
func (h *ResearchGrpcHandler) GetResearch(ctx context.Context, req *apiv1.CompanyIDRequest) (*apiv1.Research, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetResearch(ctx, req.CompanyID, userID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIResearch(found), nil
}

func (h *ResearchGrpcHandler) SaveResearch(ctx context.Context, req *apiv1.SaveResearchRequest) (*apiv1.Research, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	sections := make(map[research.Section]string, len(req.Sections))
	for key, text := range req.Sections {
		sections[research.Section(key)] = text
	}

	saved, err := h.svc.SaveResearch(ctx, research.SaveResearchInput{
		UserID:    userID,
		CompanyID: req.CompanyID,
		Sections:  sections,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIResearch(saved), nil
}

func (h *ResearchGrpcHandler) DeleteResearch(ctx context.Context, req *apiv1.CompanyIDRequest) (*apiv1.Empty, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.svc.DeleteResearch(ctx, req.CompanyID, userID); err != nil {
		return nil, toStatusError(err)
	}
	return &apiv1.Empty{}, nil
}

func toAPIResearch(r *research.Research) *apiv1.Research {
	if r == nil {
		return nil
	}
	sections := make(map[string]string, len(r.Sections))
	for key, text := range r.Sections {
		sections[string(key)] = text
	}
	return &apiv1.Research{
		CompanyID:      r.CompanyID,
		Sections:       sections,
		CompletionRate: r.CompletionRate(),
		UpdatedAt:      formatTimePtr(&r.UpdatedAt),
	}
}
