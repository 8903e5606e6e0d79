package apiv1

import (
	"context"

	"google.golang.org/grpc"
)

const interviewService = "InterviewService"

type InterviewNote struct {
	ID            string  `json:"id"`
	CompanyID     string  `json:"companyId"`
	StepID        *string `json:"stepId,omitempty"`
	Title         string  `json:"title"`
	InterviewedOn *string `json:"interviewedOn,omitempty"`
	Format        string  `json:"format"`
	Interviewers  *string `json:"interviewers,omitempty"`
	Questions     *string `json:"questions,omitempty"`
	Reflection    *string `json:"reflection,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type CreateNoteRequest struct {
	CompanyID     string  `json:"companyId"`
	StepID        *string `json:"stepId,omitempty"`
	Title         string  `json:"title"`
	InterviewedOn *string `json:"interviewedOn,omitempty"`
	Format        *string `json:"format,omitempty"`
	Interviewers  *string `json:"interviewers,omitempty"`
	Questions     *string `json:"questions,omitempty"`
	Reflection    *string `json:"reflection,omitempty"`
}

type UpdateNoteRequest struct {
	ID            string  `json:"id"`
	StepID        *string `json:"stepId,omitempty"`
	Title         *string `json:"title,omitempty"`
	InterviewedOn *string `json:"interviewedOn,omitempty"`
	Format        *string `json:"format,omitempty"`
	Interviewers  *string `json:"interviewers,omitempty"`
	Questions     *string `json:"questions,omitempty"`
	Reflection    *string `json:"reflection,omitempty"`
}

type ListNotesResponse struct {
	Notes []*InterviewNote `json:"notes"`
}

type InterviewServiceServer interface {
	CreateNote(context.Context, *CreateNoteRequest) (*InterviewNote, error)
	GetNote(context.Context, *IDRequest) (*InterviewNote, error)
	ListNotes(context.Context, *CompanyIDRequest) (*ListNotesResponse, error)
	UpdateNote(context.Context, *UpdateNoteRequest) (*InterviewNote, error)
	DeleteNote(context.Context, *IDRequest) (*Empty, error)
}

var InterviewServiceDesc = serviceDesc[InterviewServiceServer](interviewService,
	unary(interviewService, "CreateNote", InterviewServiceServer.CreateNote),
	unary(interviewService, "GetNote", InterviewServiceServer.GetNote),
	unary(interviewService, "ListNotes", InterviewServiceServer.ListNotes),
	unary(interviewService, "UpdateNote", InterviewServiceServer.UpdateNote),
	unary(interviewService, "DeleteNote", InterviewServiceServer.DeleteNote),
)

func RegisterInterviewServiceServer(s grpc.ServiceRegistrar, srv InterviewServiceServer) {
	s.RegisterService(&InterviewServiceDesc, srv)
}

type InterviewServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInterviewServiceClient(cc grpc.ClientConnInterface) *InterviewServiceClient {
	return &InterviewServiceClient{cc: cc}
}

func (c *InterviewServiceClient) CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*InterviewNote, error) {
	return Invoke[InterviewNote](ctx, c.cc, interviewService, "CreateNote", in, opts...)
}

func (c *InterviewServiceClient) GetNote(ctx context.Context, id string, opts ...grpc.CallOption) (*InterviewNote, error) {
	return Invoke[InterviewNote](ctx, c.cc, interviewService, "GetNote", &IDRequest{ID: id}, opts...)
}

func (c *InterviewServiceClient) ListNotes(ctx context.Context, companyID string, opts ...grpc.CallOption) (*ListNotesResponse, error) {
	return Invoke[ListNotesResponse](ctx, c.cc, interviewService, "ListNotes", &CompanyIDRequest{CompanyID: companyID}, opts...)
}

func (c *InterviewServiceClient) UpdateNote(ctx context.Context, in *UpdateNoteRequest, opts ...grpc.CallOption) (*InterviewNote, error) {
	return Invoke[InterviewNote](ctx, c.cc, interviewService, "UpdateNote", in, opts...)
}

func (c *InterviewServiceClient) DeleteNote(ctx context.Context, id string, opts ...grpc.CallOption) error {
	_, err := Invoke[Empty](ctx, c.cc, interviewService, "DeleteNote", &IDRequest{ID: id}, opts...)
	return err
}
