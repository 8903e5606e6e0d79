package apiv1

import (
	"context"

	"google.golang.org/grpc"
)

const profileService = "ProfileService"

type Profile struct {
	University        *string  `json:"university,omitempty"`
	Faculty           *string  `json:"faculty,omitempty"`
	GraduationYear    *int     `json:"graduationYear,omitempty"`
	DesiredIndustries []string `json:"desiredIndustries"`
	DesiredJobTypes   []string `json:"desiredJobTypes"`
	Strengths         *string  `json:"strengths,omitempty"`
	SelfPR            *string  `json:"selfPr,omitempty"`
	Gakuchika         *string  `json:"gakuchika,omitempty"`
	UpdatedAt         *string  `json:"updatedAt,omitempty"`
}

// SaveProfileRequest は指定したフィールドだけを保存します。
// 卒業年度は ClearGraduationYear で消去します。
type SaveProfileRequest struct {
	University          *string   `json:"university,omitempty"`
	Faculty             *string   `json:"faculty,omitempty"`
	GraduationYear      *int      `json:"graduationYear,omitempty"`
	ClearGraduationYear bool      `json:"clearGraduationYear,omitempty"`
	DesiredIndustries   *[]string `json:"desiredIndustries,omitempty"`
	DesiredJobTypes     *[]string `json:"desiredJobTypes,omitempty"`
	Strengths           *string   `json:"strengths,omitempty"`
	SelfPR              *string   `json:"selfPr,omitempty"`
	Gakuchika           *string   `json:"gakuchika,omitempty"`
}

type ProfileServiceServer interface {
	GetProfile(context.Context, *Empty) (*Profile, error)
	SaveProfile(context.Context, *SaveProfileRequest) (*Profile, error)
}

var ProfileServiceDesc = serviceDesc[ProfileServiceServer](profileService,
	unary(profileService, "GetProfile", ProfileServiceServer.GetProfile),
	unary(profileService, "SaveProfile", ProfileServiceServer.SaveProfile),
)

func RegisterProfileServiceServer(s grpc.ServiceRegistrar, srv ProfileServiceServer) {
	s.RegisterService(&ProfileServiceDesc, srv)
}

type ProfileServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProfileServiceClient(cc grpc.ClientConnInterface) *ProfileServiceClient {
	return &ProfileServiceClient{cc: cc}
}

func (c *ProfileServiceClient) GetProfile(ctx context.Context, opts ...grpc.CallOption) (*Profile, error) {
	return Invoke[Profile](ctx, c.cc, profileService, "GetProfile", &Empty{}, opts...)
}

func (c *ProfileServiceClient) SaveProfile(ctx context.Context, in *SaveProfileRequest, opts ...grpc.CallOption) (*Profile, error) {
	return Invoke[Profile](ctx, c.cc, profileService, "SaveProfile", in, opts...)
}
