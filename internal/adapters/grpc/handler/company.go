package handler

import (
	"context"

	apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/company"
)

// CompanyGrpcHandler は CompanyService の gRPC 実装です。
type CompanyGrpcHandler struct {
	svc company.UseCase
}

// NewCompanyGrpcHandler は CompanyGrpcHandler を生成します。
func NewCompanyGrpcHandler(svc company.UseCase) *CompanyGrpcHandler {
	return &CompanyGrpcHandler{svc: svc}
}

// CreateCompany は企業を登録します。
func (h *CompanyGrpcHandler) CreateCompany(ctx context.Context, req *apiv1.CreateCompanyRequest) (*apiv1.Company, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	created, err := h.svc.CreateCompany(ctx, company.CreateCompanyInput{
		UserID:     userID,
		Name:       req.Name,
		Industry:   req.Industry,
		WebsiteURL: req.WebsiteURL,
		MyPageURL:  req.MyPageURL,
		Priority:   enumPtr[company.Priority](req.Priority),
		Memo:       req.Memo,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPICompany(created), nil
}

// GetCompany は企業を取得します。
func (h *CompanyGrpcHandler) GetCompany(ctx context.Context, req *apiv1.IDRequest) (*apiv1.Company, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetCompany(ctx, company.GetCompanyInput{ID: req.ID, UserID: userID})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPICompany(found), nil
}

// ListCompanies は企業の一覧を取得します。
func (h *CompanyGrpcHandler) ListCompanies(ctx context.Context, req *apiv1.ListCompaniesRequest) (*apiv1.ListCompaniesResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.svc.ListCompanies(ctx, company.ListCompaniesInput{
		UserID:    userID,
		PageSize:  req.PageSize,
		PageToken: req.PageToken,
		Status:    req.Status,
		Priority:  enumPtr[company.Priority](req.Priority),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	companies := make([]*apiv1.Company, 0, len(result.Companies))
	for _, c := range result.Companies {
		companies = append(companies, toAPICompany(c))
	}

	return &apiv1.ListCompaniesResponse{
		Companies:     companies,
		NextPageToken: result.NextPageToken,
	}, nil
}

// UpdateCompany は企業情報を更新します。
func (h *CompanyGrpcHandler) UpdateCompany(ctx context.Context, req *apiv1.UpdateCompanyRequest) (*apiv1.Company, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	deadline, deadlineSet, err := optionalDate("nextDeadline", req.NextDeadline)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.UpdateCompany(ctx, company.UpdateCompanyInput{
		ID:              req.ID,
		UserID:          userID,
		Name:            req.Name,
		Industry:        req.Industry,
		WebsiteURL:      req.WebsiteURL,
		MyPageURL:       req.MyPageURL,
		Priority:        enumPtr[company.Priority](req.Priority),
		Memo:            req.Memo,
		Status:          req.Status,
		NextStep:        req.NextStep,
		NextDeadline:    deadline,
		NextDeadlineSet: deadlineSet,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPICompany(updated), nil
}

// DeleteCompany は企業を削除します。
func (h *CompanyGrpcHandler) DeleteCompany(ctx context.Context, req *apiv1.IDRequest) (*apiv1.Empty, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.svc.DeleteCompany(ctx, company.DeleteCompanyInput{ID: req.ID, UserID: userID}); err != nil {
		return nil, toStatusError(err)
	}
	return &apiv1.Empty{}, nil
}

func toAPICompany(c *company.Company) *apiv1.Company {
	if c == nil {
		return nil
	}
	return &apiv1.Company{
		ID:           c.ID,
		Name:         c.Name,
		Industry:     c.Industry,
		WebsiteURL:   c.WebsiteURL,
		MyPageURL:    c.MyPageURL,
		Priority:     string(c.Priority),
		Memo:         c.Memo,
		Status:       c.Status,
		NextStep:     c.NextStep,
		NextDeadline: formatDate(c.NextDeadline),
		CreatedAt:    formatTime(c.CreatedAt),
		UpdatedAt:    formatTime(c.UpdatedAt),
	}
}
