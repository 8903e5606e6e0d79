// Package handler は recruit.v1 の gRPC サービスをドメインのユースケースへ接続します。
package handler

import apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"

var (
	_ apiv1.UserServiceServer      = (*UserGrpcHandler)(nil)
	_ apiv1.CompanyServiceServer   = (*CompanyGrpcHandler)(nil)
	_ apiv1.SelectionServiceServer = (*SelectionGrpcHandler)(nil)
	_ apiv1.TaskServiceServer      = (*TaskGrpcHandler)(nil)
	_ apiv1.EventServiceServer     = (*EventGrpcHandler)(nil)
	_ apiv1.InterviewServiceServer = (*InterviewGrpcHandler)(nil)
	_ apiv1.ResearchServiceServer  = (*ResearchGrpcHandler)(nil)
	_ apiv1.ProfileServiceServer   = (*ProfileGrpcHandler)(nil)
	_ apiv1.MatchingServiceServer  = (*MatchingGrpcHandler)(nil)
)
