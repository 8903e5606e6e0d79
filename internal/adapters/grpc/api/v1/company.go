package apiv1

import (
	"context"

	"google.golang.org/grpc"
)

const companyService = "CompanyService"

// Company の NextDeadline は YYYY-MM-DD 形式です。
type Company struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Industry     *string `json:"industry,omitempty"`
	WebsiteURL   *string `json:"websiteUrl,omitempty"`
	MyPageURL    *string `json:"myPageUrl,omitempty"`
	Priority     string  `json:"priority"`
	Memo         *string `json:"memo,omitempty"`
	Status       string  `json:"status"`
	NextStep     *string `json:"nextStep,omitempty"`
	NextDeadline *string `json:"nextDeadline,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type CreateCompanyRequest struct {
	Name       string  `json:"name"`
	Industry   *string `json:"industry,omitempty"`
	WebsiteURL *string `json:"websiteUrl,omitempty"`
	MyPageURL  *string `json:"myPageUrl,omitempty"`
	Priority   *string `json:"priority,omitempty"`
	Memo       *string `json:"memo,omitempty"`
}

// UpdateCompanyRequest は指定したフィールドだけを更新します。
// 任意項目に空文字を渡すと値を消去します。
type UpdateCompanyRequest struct {
	ID           string  `json:"id"`
	Name         *string `json:"name,omitempty"`
	Industry     *string `json:"industry,omitempty"`
	WebsiteURL   *string `json:"websiteUrl,omitempty"`
	MyPageURL    *string `json:"myPageUrl,omitempty"`
	Priority     *string `json:"priority,omitempty"`
	Memo         *string `json:"memo,omitempty"`
	Status       *string `json:"status,omitempty"`
	NextStep     *string `json:"nextStep,omitempty"`
	NextDeadline *string `json:"nextDeadline,omitempty"`
}

type ListCompaniesRequest struct {
	PageSize  int     `json:"pageSize,omitempty"`
	PageToken string  `json:"pageToken,omitempty"`
	Status    *string `json:"status,omitempty"`
	Priority  *string `json:"priority,omitempty"`
}

type ListCompaniesResponse struct {
	Companies     []*Company `json:"companies"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

type CompanyServiceServer interface {
	CreateCompany(context.Context, *CreateCompanyRequest) (*Company, error)
	GetCompany(context.Context, *IDRequest) (*Company, error)
	ListCompanies(context.Context, *ListCompaniesRequest) (*ListCompaniesResponse, error)
	UpdateCompany(context.Context, *UpdateCompanyRequest) (*Company, error)
	DeleteCompany(context.Context, *IDRequest) (*Empty, error)
}

var CompanyServiceDesc = serviceDesc[CompanyServiceServer](companyService,
	unary(companyService, "CreateCompany", CompanyServiceServer.CreateCompany),
	unary(companyService, "GetCompany", CompanyServiceServer.GetCompany),
	unary(companyService, "ListCompanies", CompanyServiceServer.ListCompanies),
	unary(companyService, "UpdateCompany", CompanyServiceServer.UpdateCompany),
	unary(companyService, "DeleteCompany", CompanyServiceServer.DeleteCompany),
)

func RegisterCompanyServiceServer(s grpc.ServiceRegistrar, srv CompanyServiceServer) {
	s.RegisterService(&CompanyServiceDesc, srv)
}

type CompanyServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCompanyServiceClient(cc grpc.ClientConnInterface) *CompanyServiceClient {
	return &CompanyServiceClient{cc: cc}
}

func (c *CompanyServiceClient) CreateCompany(ctx context.Context, in *CreateCompanyRequest, opts ...grpc.CallOption) (*Company, error) {
	return Invoke[Company](ctx, c.cc, companyService, "CreateCompany", in, opts...)
}

func (c *CompanyServiceClient) GetCompany(ctx context.Context, id string, opts ...grpc.CallOption) (*Company, error) {
	return Invoke[Company](ctx, c.cc, companyService, "GetCompany", &IDRequest{ID: id}, opts...)
}

func (c *CompanyServiceClient) ListCompanies(ctx context.Context, in *ListCompaniesRequest, opts ...grpc.CallOption) (*ListCompaniesResponse, error) {
	return Invoke[ListCompaniesResponse](ctx, c.cc, companyService, "ListCompanies", in, opts...)
}

func (c *CompanyServiceClient) UpdateCompany(ctx context.Context, in *UpdateCompanyRequest, opts ...grpc.CallOption) (*Company, error) {
	return Invoke[Company](ctx, c.cc, companyService, "UpdateCompany", in, opts...)
}

func (c *CompanyServiceClient) DeleteCompany(ctx context.Context, id string, opts ...grpc.CallOption) error {
	_, err := Invoke[Empty](ctx, c.cc, companyService, "DeleteCompany", &IDRequest{ID: id}, opts...)
	return err
}
