package handler

import (
	"context"

	apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/matching"
)

// MatchingGrpcHandler は MatchingService の gRPC 実装です。
type MatchingGrpcHandler struct {
	svc matching.UseCase
}

// NewMatchingGrpcHandler は MatchingGrpcHandler を生成します。
func NewMatchingGrpcHandler(svc matching.UseCase) *MatchingGrpcHandler {
	return &MatchingGrpcHandler{svc: svc}
}

// EvaluateFit はプロフィールと企業情報から適合度を評価します。
func (h *MatchingGrpcHandler) EvaluateFit(ctx context.Context, req *apiv1.CompanyIDRequest) (*apiv1.FitAssessment, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	a, err := h.svc.EvaluateFit(ctx, userID, req.CompanyID)
	if err != nil {
		return nil, toStatusError(err)
	}

	strengths := a.Strengths
	if strengths == nil {
		strengths = []string{}
	}
	concerns := a.Concerns
	if concerns == nil {
		concerns = []string{}
	}

	return &apiv1.FitAssessment{
		CompanyID:   a.CompanyID,
		Score:       a.Score,
		Fit:         a.Fit,
		Summary:     a.Summary,
		Strengths:   strengths,
		Concerns:    concerns,
		Advice:      a.Advice,
		Model:       a.Model,
		EvaluatedAt: formatTime(a.EvaluatedAt),
	}, nil
}
