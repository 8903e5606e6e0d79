package apiv1

import (
	"context"

	"google.golang.org/grpc"
)

const matchingService = "MatchingService"

// FitAssessment は AI によるプロフィールと企業の適合度評価です。
type FitAssessment struct {
	CompanyID   string   `json:"companyId"`
	Score       float64  `json:"score"`
	Fit         bool     `json:"fit"`
	Summary     string   `json:"summary"`
	Strengths   []string `json:"strengths"`
	Concerns    []string `json:"concerns"`
	Advice      string   `json:"advice"`
	Model       string   `json:"model"`
	EvaluatedAt string   `json:"evaluatedAt"`
}

type MatchingServiceServer interface {
	EvaluateFit(context.Context, *CompanyIDRequest) (*FitAssessment, error)
}

var MatchingServiceDesc = serviceDesc[MatchingServiceServer](matchingService,
	unary(matchingService, "EvaluateFit", MatchingServiceServer.EvaluateFit),
)

func RegisterMatchingServiceServer(s grpc.ServiceRegistrar, srv MatchingServiceServer) {
	s.RegisterService(&MatchingServiceDesc, srv)
}

type MatchingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMatchingServiceClient(cc grpc.ClientConnInterface) *MatchingServiceClient {
	return &MatchingServiceClient{cc: cc}
}

func (c *MatchingServiceClient) EvaluateFit(ctx context.Context, companyID string, opts ...grpc.CallOption) (*FitAssessment, error) {
	return Invoke[FitAssessment](ctx, c.cc, matchingService, "EvaluateFit", &CompanyIDRequest{CompanyID: companyID}, opts...)
}
