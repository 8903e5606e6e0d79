package handler

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/company"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/identity"
)

type stubCompanyUseCase struct {
	createInput company.CreateCompanyInput
	createOut   *company.Company
	createErr   error

	getInput company.GetCompanyInput
	getOut   *company.Company
	getErr   error

	listInput company.ListCompaniesInput
	listOut   *company.ListCompaniesResult
	listErr   error

	updateInput company.UpdateCompanyInput
	updateOut   *company.Company
	updateErr   error

	deleteInput company.DeleteCompanyInput
	deleteErr   error
}

func (s *stubCompanyUseCase) CreateCompany(_ context.Context, in company.CreateCompanyInput) (*company.Company, error) {
	s.createInput = in
	return s.createOut, s.createErr
}

func (s *stubCompanyUseCase) GetCompany(_ context.Context, in company.GetCompanyInput) (*company.Company, error) {
	s.getInput = in
	return s.getOut, s.getErr
}

func (s *stubCompanyUseCase) ListCompanies(_ context.Context, in company.ListCompaniesInput) (*company.ListCompaniesResult, error) {
	s.listInput = in
	return s.listOut, s.listErr
}

func (s *stubCompanyUseCase) UpdateCompany(_ context.Context, in company.UpdateCompanyInput) (*company.Company, error) {
	s.updateInput = in
	return s.updateOut, s.updateErr
}

func (s *stubCompanyUseCase) DeleteCompany(_ context.Context, in company.DeleteCompanyInput) error {
	s.deleteInput = in
	return s.deleteErr
}

func authed(userID string) context.Context {
	return identity.WithUserID(context.Background(), userID)
}

func strPtr(s string) *string {
	return &s
}

func TestCompanyGrpcHandler_CreateCompany(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	deadline := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	stub := &stubCompanyUseCase{
		createOut: &company.Company{
			ID:           "company-1",
			UserID:       "user-1",
			Name:         "Example",
			Priority:     company.PriorityHigh,
			Status:       "一次面接",
			NextStep:     strPtr("一次面接"),
			NextDeadline: &deadline,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	resp, err := NewCompanyGrpcHandler(stub).CreateCompany(authed("user-1"), &apiv1.CreateCompanyRequest{
		Name:     "Example",
		Priority: strPtr(" high "),
	})
	if err != nil {
		t.Fatalf("CreateCompany returned error: %v", err)
	}

	if stub.createInput.UserID != "user-1" || stub.createInput.Priority == nil || *stub.createInput.Priority != company.PriorityHigh {
		t.Fatalf("unexpected input: %+v", stub.createInput)
	}
	if resp.ID != "company-1" || resp.Priority != "high" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.NextDeadline == nil || *resp.NextDeadline != "2025-05-10" {
		t.Fatalf("unexpected deadline: %v", resp.NextDeadline)
	}
	if resp.CreatedAt != "2025-04-01T09:00:00Z" {
		t.Fatalf("unexpected created at: %s", resp.CreatedAt)
	}
}

func TestCompanyGrpcHandler_RequiresUserID(t *testing.T) {
	t.Parallel()

	stub := &stubCompanyUseCase{}
	_, err := NewCompanyGrpcHandler(stub).GetCompany(context.Background(), &apiv1.IDRequest{ID: "company-1"})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
	if stub.getInput.ID != "" {
		t.Fatal("use case must not be called without a user id")
	}
}

func TestCompanyGrpcHandler_GetCompany_NotFound(t *testing.T) {
	t.Parallel()

	stub := &stubCompanyUseCase{getErr: company.ErrCompanyNotFound}
	_, err := NewCompanyGrpcHandler(stub).GetCompany(authed("user-2"), &apiv1.IDRequest{ID: "company-1"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if stub.getInput != (company.GetCompanyInput{ID: "company-1", UserID: "user-2"}) {
		t.Fatalf("unexpected input: %+v", stub.getInput)
	}
}

func TestCompanyGrpcHandler_UpdateCompany_ClearsDeadline(t *testing.T) {
	t.Parallel()

	stub := &stubCompanyUseCase{updateOut: &company.Company{ID: "company-1", Priority: company.PriorityMedium}}
	_, err := NewCompanyGrpcHandler(stub).UpdateCompany(authed("user-1"), &apiv1.UpdateCompanyRequest{
		ID:           "company-1",
		Status:       strPtr("説明会参加"),
		NextDeadline: strPtr(""),
	})
	if err != nil {
		t.Fatalf("UpdateCompany returned error: %v", err)
	}

	in := stub.updateInput
	if !in.NextDeadlineSet || in.NextDeadline != nil {
		t.Fatalf("expected deadline to be cleared: %+v", in)
	}
	if in.Status == nil || *in.Status != "説明会参加" || in.Name != nil {
		t.Fatalf("unexpected input: %+v", in)
	}
}

func TestCompanyGrpcHandler_UpdateCompany_InvalidDeadline(t *testing.T) {
	t.Parallel()

	stub := &stubCompanyUseCase{}
	_, err := NewCompanyGrpcHandler(stub).UpdateCompany(authed("user-1"), &apiv1.UpdateCompanyRequest{
		ID:           "company-1",
		NextDeadline: strPtr("next week"),
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestCompanyGrpcHandler_ListCompanies(t *testing.T) {
	t.Parallel()

	stub := &stubCompanyUseCase{listOut: &company.ListCompaniesResult{
		Companies:     []*company.Company{{ID: "company-2"}, {ID: "company-1"}},
		NextPageToken: "2",
	}}

	resp, err := NewCompanyGrpcHandler(stub).ListCompanies(authed("user-1"), &apiv1.ListCompaniesRequest{
		PageSize: 2,
		Priority: strPtr("low"),
	})
	if err != nil {
		t.Fatalf("ListCompanies returned error: %v", err)
	}
	if len(resp.Companies) != 2 || resp.NextPageToken != "2" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if stub.listInput.PageSize != 2 || stub.listInput.Priority == nil || *stub.listInput.Priority != company.PriorityLow {
		t.Fatalf("unexpected input: %+v", stub.listInput)
	}
}

func TestCompanyGrpcHandler_DeleteCompany(t *testing.T) {
	t.Parallel()

	stub := &stubCompanyUseCase{}
	if _, err := NewCompanyGrpcHandler(stub).DeleteCompany(authed("user-1"), &apiv1.IDRequest{ID: "company-1"}); err != nil {
		t.Fatalf("DeleteCompany returned error: %v", err)
	}
	if stub.deleteInput != (company.DeleteCompanyInput{ID: "company-1", UserID: "user-1"}) {
		t.Fatalf("unexpected input: %+v", stub.deleteInput)
	}
}
