package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/company"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/user"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/config"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/identity"
)

type fakeUsers struct {
	user.UseCase
}

func (fakeUsers) CreateUser(_ context.Context, in user.CreateUserInput) (*user.User, error) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	return &user.User{ID: "user-1", Email: in.Email, Name: in.Name, Status: user.StatusActive, CreatedAt: now, UpdatedAt: now}, nil
}

func (fakeUsers) GetMe(_ context.Context, _ string) (*user.User, error) {
	panic("boom")
}

type fakeCompanies struct {
	company.UseCase
}

func (fakeCompanies) GetCompany(_ context.Context, in company.GetCompanyInput) (*company.Company, error) {
	if in.UserID != "user-1" {
		return nil, company.ErrCompanyNotFound
	}
	deadline := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	return &company.Company{ID: in.ID, UserID: in.UserID, Name: "Example", Priority: company.PriorityMedium, Status: "未エントリー", NextDeadline: &deadline}, nil
}

func startServer(t *testing.T, logger *zap.Logger) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := New(config.ServerConfig{ListenAddr: "bufnet"}, Services{Users: fakeUsers{}, Companies: fakeCompanies{}}, logger)

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func withUser(userID string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), identity.MetadataKey, userID)
}

func TestServer_CreateUserIsPublic(t *testing.T) {
	conn := startServer(t, zap.NewNop())

	var header metadata.MD
	created, err := apiv1.NewUserServiceClient(conn).CreateUser(context.Background(),
		&apiv1.CreateUserRequest{Email: "a@example.com", Name: "A"}, grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, "user-1", created.ID)
	assert.Equal(t, "active", created.Status)
	assert.NotEmpty(t, header.Get(RequestIDKey))
}

func TestServer_RequiresUserID(t *testing.T) {
	conn := startServer(t, zap.NewNop())

	_, err := apiv1.NewCompanyServiceClient(conn).GetCompany(context.Background(), "company-1")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_JSONRoundTrip(t *testing.T) {
	conn := startServer(t, zap.NewNop())
	client := apiv1.NewCompanyServiceClient(conn)

	found, err := client.GetCompany(withUser("user-1"), "company-1")
	require.NoError(t, err)
	assert.Equal(t, "company-1", found.ID)
	require.NotNil(t, found.NextDeadline)
	assert.Equal(t, "2025-05-10", *found.NextDeadline)

	_, err = client.GetCompany(withUser("user-2"), "company-1")
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	conn := startServer(t, zap.New(core))

	_, err := apiv1.NewUserServiceClient(conn).GetMe(withUser("user-1"))
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestServer_LogsRequests(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	conn := startServer(t, zap.New(core))

	_, err := apiv1.NewCompanyServiceClient(conn).GetCompany(withUser("user-1"), "company-1")
	require.NoError(t, err)

	entries := logs.FilterMessage("grpc request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/recruit.v1.CompanyService/GetCompany", fields["method"])
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, "OK", fields["code"])
}

func TestServer_Health(t *testing.T) {
	conn := startServer(t, zap.NewNop())

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{
		Service: "recruit.v1.SelectionService",
	})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestServer_RunStopsOnContextCancel(t *testing.T) {
	srv := New(config.ServerConfig{ListenAddr: "127.0.0.1:0"}, Services{}, zap.NewNop())
	assert.Equal(t, defaultShutdownTimeout, srv.shutdownTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
