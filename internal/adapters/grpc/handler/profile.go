package handler

import (
	"context"

	apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/profile"
)

// ProfileGrpcHandler は ProfileService の gRPC 実装です。
type ProfileGrpcHandler struct {
	svc profile.UseCase
}

// NewProfileGrpcHandler は ProfileGrpcHandler を生成します。
func NewProfileGrpcHandler(svc profile.UseCase) *ProfileGrpcHandler {
	return &ProfileGrpcHandler{svc: svc}
}

func (h *ProfileGrpcHandler) GetProfile(ctx context.Context, _ *apiv1.Empty) (*apiv1.Profile, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetProfile(ctx, userID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIProfile(found), nil
}

// SaveProfile はプロフィールを部分的に保存します。
func (h *ProfileGrpcHandler) SaveProfile(ctx context.Context, req *apiv1.SaveProfileRequest) (*apiv1.Profile, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	year := req.GraduationYear
	if req.ClearGraduationYear {
		year = nil
	}

	saved, err := h.svc.SaveProfile(ctx, profile.SaveProfileInput{
		UserID:            userID,
		University:        req.University,
		Faculty:           req.Faculty,
		GraduationYear:    year,
		GraduationYearSet: req.ClearGraduationYear || req.GraduationYear != nil,
		DesiredIndustries: req.DesiredIndustries,
		DesiredJobTypes:   req.DesiredJobTypes,
		Strengths:         req.Strengths,
		SelfPR:            req.SelfPR,
		Gakuchika:         req.Gakuchika,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIProfile(saved), nil
}

func toAPIProfile(p *profile.Profile) *apiv1.Profile {
	if p == nil {
		return nil
	}
	industries := p.DesiredIndustries
	if industries == nil {
		industries = []string{}
	}
	jobTypes := p.DesiredJobTypes
	if jobTypes == nil {
		jobTypes = []string{}
	}
	return &apiv1.Profile{
		University:        p.University,
		Faculty:           p.Faculty,
		GraduationYear:    p.GraduationYear,
		DesiredIndustries: industries,
		DesiredJobTypes:   jobTypes,
		Strengths:         p.Strengths,
		SelfPR:            p.SelfPR,
		Gakuchika:         p.Gakuchika,
		UpdatedAt:         formatTimePtr(&p.UpdatedAt),
	}
}
