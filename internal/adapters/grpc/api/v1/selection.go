package apiv1

import (
	"context"

	"google.golang.org/grpc"
)

const selectionService = "SelectionService"

// Step の PlannedDate と ActualDate は YYYY-MM-DD 形式です。
type Step struct {
	ID          string  `json:"id"`
	CompanyID   string  `json:"companyId"`
	Order       int     `json:"order"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	PlannedDate *string `json:"plannedDate,omitempty"`
	ActualDate  *string `json:"actualDate,omitempty"`
	Memo        *string `json:"memo,omitempty"`
	Offer       bool    `json:"offer"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type CreateStepRequest struct {
	CompanyID   string  `json:"companyId"`
	Name        string  `json:"name"`
	Status      *string `json:"status,omitempty"`
	Order       *int    `json:"order,omitempty"`
	PlannedDate *string `json:"plannedDate,omitempty"`
	ActualDate  *string `json:"actualDate,omitempty"`
	Memo        *string `json:"memo,omitempty"`
	Offer       bool    `json:"offer,omitempty"`
}

// UpdateStepRequest の日付に空文字を渡すと値を消去します。
// CompanyID を指定するとステップを別の企業へ移動します。
type UpdateStepRequest struct {
	ID          string  `json:"id"`
	CompanyID   *string `json:"companyId,omitempty"`
	Name        *string `json:"name,omitempty"`
	Status      *string `json:"status,omitempty"`
	Order       *int    `json:"order,omitempty"`
	PlannedDate *string `json:"plannedDate,omitempty"`
	ActualDate  *string `json:"actualDate,omitempty"`
	Memo        *string `json:"memo,omitempty"`
	Offer       *bool   `json:"offer,omitempty"`
}

type ReorderStepsRequest struct {
	CompanyID string   `json:"companyId"`
	StepIDs   []string `json:"stepIds"`
}

type ListStepsResponse struct {
	Steps []*Step `json:"steps"`
}

// Progress は選考ステップから導出された企業の進捗です。
type Progress struct {
	CompanyID    string  `json:"companyId"`
	Status       string  `json:"status"`
	NextStep     *string `json:"nextStep,omitempty"`
	NextDeadline *string `json:"nextDeadline,omitempty"`
}

type SelectionServiceServer interface {
	CreateStep(context.Context, *CreateStepRequest) (*Step, error)
	GetStep(context.Context, *IDRequest) (*Step, error)
	ListSteps(context.Context, *CompanyIDRequest) (*ListStepsResponse, error)
	UpdateStep(context.Context, *UpdateStepRequest) (*Step, error)
	DeleteStep(context.Context, *IDRequest) (*Empty, error)
	ApplyTemplate(context.Context, *CompanyIDRequest) (*ListStepsResponse, error)
	ReorderSteps(context.Context, *ReorderStepsRequest) (*ListStepsResponse, error)
	RecomputeProgress(context.Context, *CompanyIDRequest) (*Progress, error)
}

var SelectionServiceDesc = serviceDesc[SelectionServiceServer](selectionService,
	unary(selectionService, "CreateStep", SelectionServiceServer.CreateStep),
	unary(selectionService, "GetStep", SelectionServiceServer.GetStep),
	unary(selectionService, "ListSteps", SelectionServiceServer.ListSteps),
	unary(selectionService, "UpdateStep", SelectionServiceServer.UpdateStep),
	unary(selectionService, "DeleteStep", SelectionServiceServer.DeleteStep),
	unary(selectionService, "ApplyTemplate", SelectionServiceServer.ApplyTemplate),
	unary(selectionService, "ReorderSteps", SelectionServiceServer.ReorderSteps),
	unary(selectionService, "RecomputeProgress", SelectionServiceServer.RecomputeProgress),
)

func RegisterSelectionServiceServer(s grpc.ServiceRegistrar, srv SelectionServiceServer) {
	s.RegisterService(&SelectionServiceDesc, srv)
}

type SelectionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSelectionServiceClient(cc grpc.ClientConnInterface) *SelectionServiceClient {
	return &SelectionServiceClient{cc: cc}
}

func (c *SelectionServiceClient) CreateStep(ctx context.Context, in *CreateStepRequest, opts ...grpc.CallOption) (*Step, error) {
	return Invoke[Step](ctx, c.cc, selectionService, "CreateStep", in, opts...)
}

func (c *SelectionServiceClient) GetStep(ctx context.Context, id string, opts ...grpc.CallOption) (*Step, error) {
	return Invoke[Step](ctx, c.cc, selectionService, "GetStep", &IDRequest{ID: id}, opts...)
}

func (c *SelectionServiceClient) ListSteps(ctx context.Context, companyID string, opts ...grpc.CallOption) (*ListStepsResponse, error) {
	return Invoke[ListStepsResponse](ctx, c.cc, selectionService, "ListSteps", &CompanyIDRequest{CompanyID: companyID}, opts...)
}

func (c *SelectionServiceClient) UpdateStep(ctx context.Context, in *UpdateStepRequest, opts ...grpc.CallOption) (*Step, error) {
	return Invoke[Step](ctx, c.cc, selectionService, "UpdateStep", in, opts...)
}

func (c *SelectionServiceClient) DeleteStep(ctx context.Context, id string, opts ...grpc.CallOption) error {
	_, err := Invoke[Empty](ctx, c.cc, selectionService, "DeleteStep", &IDRequest{ID: id}, opts...)
	return err
}

func (c *SelectionServiceClient) ApplyTemplate(ctx context.Context, companyID string, opts ...grpc.CallOption) (*ListStepsResponse, error) {
	return Invoke[ListStepsResponse](ctx, c.cc, selectionService, "ApplyTemplate", &CompanyIDRequest{CompanyID: companyID}, opts...)
}

func (c *SelectionServiceClient) ReorderSteps(ctx context.Context, in *ReorderStepsRequest, opts ...grpc.CallOption) (*ListStepsResponse, error) {
	return Invoke[ListStepsResponse](ctx, c.cc, selectionService, "ReorderSteps", in, opts...)
}

func (c *SelectionServiceClient) RecomputeProgress(ctx context.Context, companyID string, opts ...grpc.CallOption) (*Progress, error) {
	return Invoke[Progress](ctx, c.cc, selectionService, "RecomputeProgress", &CompanyIDRequest{CompanyID: companyID}, opts...)
}
