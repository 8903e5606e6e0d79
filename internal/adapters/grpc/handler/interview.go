package handler

import (
	"context"

	apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/interview"
)

// InterviewGrpcHandler は InterviewService の gRPC 実装です。
type InterviewGrpcHandler struct {
	svc interview.UseCase
}

// NewInterviewGrpcHandler は InterviewGrpcHandler を生成します。
func NewInterviewGrpcHandler(svc interview.UseCase) *InterviewGrpcHandler {
	return &InterviewGrpcHandler{svc: svc}
}

func (h *InterviewGrpcHandler) CreateNote(ctx context.Context, req *apiv1.CreateNoteRequest) (*apiv1.InterviewNote, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	interviewedOn, _, err := optionalDate("interviewedOn", req.InterviewedOn)
	if err != nil {
		return nil, err
	}

	created, err := h.svc.CreateNote(ctx, interview.CreateNoteInput{
		UserID:        userID,
		CompanyID:     req.CompanyID,
		StepID:        req.StepID,
		Title:         req.Title,
		InterviewedOn: interviewedOn,
		Format:        enumPtr[interview.Format](req.Format),
		Interviewers:  req.Interviewers,
		Questions:     req.Questions,
		Reflection:    req.Reflection,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPINote(created), nil
}

func (h *InterviewGrpcHandler) GetNote(ctx context.Context, req *apiv1.IDRequest) (*apiv1.InterviewNote, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetNote(ctx, req.ID, userID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPINote(found), nil
}

func (h *InterviewGrpcHandler) ListNotes(ctx context.Context, req *apiv1.CompanyIDRequest) (*apiv1.ListNotesResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	notes, err := h.svc.ListNotes(ctx, req.CompanyID, userID)
	if err != nil {
		return nil, toStatusError(err)
	}

	out := make([]*apiv1.InterviewNote, 0, len(notes))
	for _, n := range notes {
		out = append(out, toAPINote(n))
	}
	return &apiv1.ListNotesResponse{Notes: out}, nil
}

func (h *InterviewGrpcHandler) UpdateNote(ctx context.Context, req *apiv1.UpdateNoteRequest) (*apiv1.InterviewNote, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	interviewedOn, interviewedOnSet, err := optionalDate("interviewedOn", req.InterviewedOn)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.UpdateNote(ctx, interview.UpdateNoteInput{
		ID:               req.ID,
		UserID:           userID,
		StepID:           req.StepID,
		Title:            req.Title,
		InterviewedOn:    interviewedOn,
		InterviewedOnSet: interviewedOnSet,
		Format:           enumPtr[interview.Format](req.Format),
		Interviewers:     req.Interviewers,
		Questions:        req.Questions,
		Reflection:       req.Reflection,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPINote(updated), nil
}

func (h *InterviewGrpcHandler) DeleteNote(ctx context.Context, req *apiv1.IDRequest) (*apiv1.Empty, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.svc.DeleteNote(ctx, req.ID, userID); err != nil {
		return nil, toStatusError(err)
	}
	return &apiv1.Empty{}, nil
}

func toAPINote(n *interview.Note) *apiv1.InterviewNote {
	if n == nil {
		return nil
	}
	return &apiv1.InterviewNote{
		ID:            n.ID,
		CompanyID:     n.CompanyID,
		StepID:        n.StepID,
		Title:         n.Title,
		InterviewedOn: formatDate(n.InterviewedOn),
		Format:        string(n.Format),
		Interviewers:  n.Interviewers,
		Questions:     n.Questions,
		Reflection:    n.Reflection,
		CreatedAt:     formatTime(n.CreatedAt),
		UpdatedAt:     formatTime(n.UpdatedAt),
	}
}
