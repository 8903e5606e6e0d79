package apiv1

import (
	"context"

	"google.golang.org/grpc"
)

const researchService = "ResearchService"

// Research の Sections は business, products, culture, career, motivation, questions をキーに持ちます。
type Research struct {
	CompanyID      string            `json:"companyId"`
	Sections       map[string]string `json:"sections"`
	CompletionRate float64           `json:"completionRate"`
	UpdatedAt      *string           `json:"updatedAt,omitempty"`
}

// SaveResearchRequest は指定したセクションだけを置き換えます。空文字のセクションは削除されます。
type SaveResearchRequest struct {
	CompanyID string            `json:"companyId"`
	Sections  map[string]string `json:"sections"`
}

type ResearchServiceServer interface {
	GetResearch(context.Context, *CompanyIDRequest) (*Research, error)
	SaveResearch(context.Context, *SaveResearchRequest) (*Research, error)
	DeleteResearch(context.Context, *CompanyIDRequest) (*Empty, error)
}

var ResearchServiceDesc = serviceDesc[ResearchServiceServer](researchService,
	unary(researchService, "GetResearch", ResearchServiceServer.GetResearch),
	unary(researchService, "SaveResearch", ResearchServiceServer.SaveResearch),
	unary(researchService, "DeleteResearch", ResearchServiceServer.DeleteResearch),
)

func RegisterResearchServiceServer(s grpc.ServiceRegistrar, srv ResearchServiceServer) {
	s.RegisterService(&ResearchServiceDesc, srv)
}

type ResearchServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewResearchServiceClient(cc grpc.ClientConnInterface) *ResearchServiceClient {
	return &ResearchServiceClient{cc: cc}
}

func (c *ResearchServiceClient) GetResearch(ctx context.Context, companyID string, opts ...grpc.CallOption) (*Research, error) {
	return Invoke[Research](ctx, c.cc, researchService, "GetResearch", &CompanyIDRequest{CompanyID: companyID}, opts...)
}

func (c *ResearchServiceClient) SaveResearch(ctx context.Context, in *SaveResearchRequest, opts ...grpc.CallOption) (*Research, error) {
	return Invoke[Research](ctx, c.cc, researchService, "SaveResearch", in, opts...)
}

func (c *ResearchServiceClient) DeleteResearch(ctx context.Context, companyID string, opts ...grpc.CallOption) error {
	_, err := Invoke[Empty](ctx, c.cc, researchService, "DeleteResearch", &CompanyIDRequest{CompanyID: companyID}, opts...)
	return err
}
