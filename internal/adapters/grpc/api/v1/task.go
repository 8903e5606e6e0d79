package apiv1

import (
	"context"

	"google.golang.org/grpc"
)

const taskService = "TaskService"

type Task struct {
	ID        string  `json:"id"`
	CompanyID *string `json:"companyId,omitempty"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Status    string  `json:"status"`
	DueDate   *string `json:"dueDate,omitempty"`
	Memo      *string `json:"memo,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type CreateTaskRequest struct {
	CompanyID *string `json:"companyId,omitempty"`
	Title     string  `json:"title"`
	Category  *string `json:"category,omitempty"`
	Status    *string `json:"status,omitempty"`
	DueDate   *string `json:"dueDate,omitempty"`
	Memo      *string `json:"memo,omitempty"`
}

// UpdateTaskRequest の CompanyID と DueDate に空文字を渡すと値を消去します。
type UpdateTaskRequest struct {
	ID        string  `json:"id"`
	CompanyID *string `json:"companyId,omitempty"`
	Title     *string `json:"title,omitempty"`
	Category  *string `json:"category,omitempty"`
	Status    *string `json:"status,omitempty"`
	DueDate   *string `json:"dueDate,omitempty"`
	Memo      *string `json:"memo,omitempty"`
}

// ListTasksRequest の DueBefore より前が期限のタスクだけを返します。
type ListTasksRequest struct {
	CompanyID *string `json:"companyId,omitempty"`
	Status    *string `json:"status,omitempty"`
	DueBefore *string `json:"dueBefore,omitempty"`
	PageSize  int     `json:"pageSize,omitempty"`
	PageToken string  `json:"pageToken,omitempty"`
}

type ListTasksResponse struct {
	Tasks         []*Task `json:"tasks"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

type TaskServiceServer interface {
	CreateTask(context.Context, *CreateTaskRequest) (*Task, error)
	GetTask(context.Context, *IDRequest) (*Task, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*Task, error)
	CompleteTask(context.Context, *IDRequest) (*Task, error)
	DeleteTask(context.Context, *IDRequest) (*Empty, error)
}

var TaskServiceDesc = serviceDesc[TaskServiceServer](taskService,
	unary(taskService, "CreateTask", TaskServiceServer.CreateTask),
	unary(taskService, "GetTask", TaskServiceServer.GetTask),
	unary(taskService, "ListTasks", TaskServiceServer.ListTasks),
	unary(taskService, "UpdateTask", TaskServiceServer.UpdateTask),
	unary(taskService, "CompleteTask", TaskServiceServer.CompleteTask),
	unary(taskService, "DeleteTask", TaskServiceServer.DeleteTask),
)

func RegisterTaskServiceServer(s grpc.ServiceRegistrar, srv TaskServiceServer) {
	s.RegisterService(&TaskServiceDesc, srv)
}

type TaskServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTaskServiceClient(cc grpc.ClientConnInterface) *TaskServiceClient {
	return &TaskServiceClient{cc: cc}
}

func (c *TaskServiceClient) CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*Task, error) {
	return Invoke[Task](ctx, c.cc, taskService, "CreateTask", in, opts...)
}

func (c *TaskServiceClient) GetTask(ctx context.Context, id string, opts ...grpc.CallOption) (*Task, error) {
	return Invoke[Task](ctx, c.cc, taskService, "GetTask", &IDRequest{ID: id}, opts...)
}

func (c *TaskServiceClient) ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error) {
	return Invoke[ListTasksResponse](ctx, c.cc, taskService, "ListTasks", in, opts...)
}

func (c *TaskServiceClient) UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*Task, error) {
	return Invoke[Task](ctx, c.cc, taskService, "UpdateTask", in, opts...)
}

func (c *TaskServiceClient) CompleteTask(ctx context.Context, id string, opts ...grpc.CallOption) (*Task, error) {
	return Invoke[Task](ctx, c.cc, taskService, "CompleteTask", &IDRequest{ID: id}, opts...)
}

func (c *TaskServiceClient) DeleteTask(ctx context.Context, id string, opts ...grpc.CallOption) error {
	_, err := Invoke[Empty](ctx, c.cc, taskService, "DeleteTask", &IDRequest{ID: id}, opts...)
	return err
}
