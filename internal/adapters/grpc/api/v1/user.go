package apiv1

import (
	"context"

	"google.golang.org/grpc"
)

const userService = "UserService"

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type UpdateMeRequest struct {
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty"`
}

// UserServiceServer は recruit.v1.UserService のサーバー実装です。
type UserServiceServer interface {
	CreateUser(context.Context, *CreateUserRequest) (*User, error)
	GetMe(context.Context, *Empty) (*User, error)
	UpdateMe(context.Context, *UpdateMeRequest) (*User, error)
	DeleteMe(context.Context, *Empty) (*Empty, error)
}

// UserServiceCreateUser は利用者 ID を要求しない公開メソッドです。
const UserServiceCreateUser = "/" + packageName + "." + userService + "/CreateUser"

var UserServiceDesc = serviceDesc[UserServiceServer](userService,
	unary(userService, "CreateUser", UserServiceServer.CreateUser),
	unary(userService, "GetMe", UserServiceServer.GetMe),
	unary(userService, "UpdateMe", UserServiceServer.UpdateMe),
	unary(userService, "DeleteMe", UserServiceServer.DeleteMe),
)

func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserServiceDesc, srv)
}

type UserServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewUserServiceClient(cc grpc.ClientConnInterface) *UserServiceClient {
	return &UserServiceClient{cc: cc}
}

func (c *UserServiceClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*User, error) {
	return Invoke[User](ctx, c.cc, userService, "CreateUser", in, opts...)
}

func (c *UserServiceClient) GetMe(ctx context.Context, opts ...grpc.CallOption) (*User, error) {
	return Invoke[User](ctx, c.cc, userService, "GetMe", &Empty{}, opts...)
}

func (c *UserServiceClient) UpdateMe(ctx context.Context, in *UpdateMeRequest, opts ...grpc.CallOption) (*User, error) {
	return Invoke[User](ctx, c.cc, userService, "UpdateMe", in, opts...)
}

func (c *UserServiceClient) DeleteMe(ctx context.Context, opts ...grpc.CallOption) error {
	_, err := Invoke[Empty](ctx, c.cc, userService, "DeleteMe", &Empty{}, opts...)
	return err
}
