package apiv1

import (
	"context"

	"google.golang.org/grpc"
)

const eventService = "EventService"

// Event の日時は RFC 3339 形式です。RemindAt はリマインダー設定時のみ含まれます。
type Event struct {
	ID                  string  `json:"id"`
	CompanyID           *string `json:"companyId,omitempty"`
	Title               string  `json:"title"`
	Kind                string  `json:"kind"`
	StartsAt            string  `json:"startsAt"`
	EndsAt              *string `json:"endsAt,omitempty"`
	Location            *string `json:"location,omitempty"`
	RemindBeforeMinutes *int    `json:"remindBeforeMinutes,omitempty"`
	RemindAt            *string `json:"remindAt,omitempty"`
	Memo                *string `json:"memo,omitempty"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

type CreateEventRequest struct {
	CompanyID           *string `json:"companyId,omitempty"`
	Title               string  `json:"title"`
	Kind                *string `json:"kind,omitempty"`
	StartsAt            string  `json:"startsAt"`
	EndsAt              *string `json:"endsAt,omitempty"`
	Location            *string `json:"location,omitempty"`
	RemindBeforeMinutes *int    `json:"remindBeforeMinutes,omitempty"`
	Memo                *string `json:"memo,omitempty"`
}

// UpdateEventRequest の CompanyID と EndsAt に空文字を渡すと値を消去します。
// リマインダーは ClearReminder で解除します。
type UpdateEventRequest struct {
	ID                  string  `json:"id"`
	CompanyID           *string `json:"companyId,omitempty"`
	Title               *string `json:"title,omitempty"`
	Kind                *string `json:"kind,omitempty"`
	StartsAt            *string `json:"startsAt,omitempty"`
	EndsAt              *string `json:"endsAt,omitempty"`
	Location            *string `json:"location,omitempty"`
	RemindBeforeMinutes *int    `json:"remindBeforeMinutes,omitempty"`
	ClearReminder       bool    `json:"clearReminder,omitempty"`
	Memo                *string `json:"memo,omitempty"`
}

// ListEventsRequest は StartsAt が [From, To) に含まれる予定を返します。
type ListEventsRequest struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	CompanyID *string `json:"companyId,omitempty"`
}

type ListDueRemindersRequest struct {
	Now *string `json:"now,omitempty"`
}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

type EventServiceServer interface {
	CreateEvent(context.Context, *CreateEventRequest) (*Event, error)
	GetEvent(context.Context, *IDRequest) (*Event, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
	UpdateEvent(context.Context, *UpdateEventRequest) (*Event, error)
	DeleteEvent(context.Context, *IDRequest) (*Empty, error)
	ListDueReminders(context.Context, *ListDueRemindersRequest) (*ListEventsResponse, error)
}

var EventServiceDesc = serviceDesc[EventServiceServer](eventService,
	unary(eventService, "CreateEvent", EventServiceServer.CreateEvent),
	unary(eventService, "GetEvent", EventServiceServer.GetEvent),
	unary(eventService, "ListEvents", EventServiceServer.ListEvents),
	unary(eventService, "UpdateEvent", EventServiceServer.UpdateEvent),
	unary(eventService, "DeleteEvent", EventServiceServer.DeleteEvent),
	unary(eventService, "ListDueReminders", EventServiceServer.ListDueReminders),
)

func RegisterEventServiceServer(s grpc.ServiceRegistrar, srv EventServiceServer) {
	s.RegisterService(&EventServiceDesc, srv)
}

type EventServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEventServiceClient(cc grpc.ClientConnInterface) *EventServiceClient {
	return &EventServiceClient{cc: cc}
}

func (c *EventServiceClient) CreateEvent(ctx context.Context, in *CreateEventRequest, opts ...grpc.CallOption) (*Event, error) {
	return Invoke[Event](ctx, c.cc, eventService, "CreateEvent", in, opts...)
}

func (c *EventServiceClient) GetEvent(ctx context.Context, id string, opts ...grpc.CallOption) (*Event, error) {
	return Invoke[Event](ctx, c.cc, eventService, "GetEvent", &IDRequest{ID: id}, opts...)
}

func (c *EventServiceClient) ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	return Invoke[ListEventsResponse](ctx, c.cc, eventService, "ListEvents", in, opts...)
}

func (c *EventServiceClient) UpdateEvent(ctx context.Context, in *UpdateEventRequest, opts ...grpc.CallOption) (*Event, error) {
	return Invoke[Event](ctx, c.cc, eventService, "UpdateEvent", in, opts...)
}

func (c *EventServiceClient) DeleteEvent(ctx context.Context, id string, opts ...grpc.CallOption) error {
	_, err := Invoke[Empty](ctx, c.cc, eventService, "DeleteEvent", &IDRequest{ID: id}, opts...)
	return err
}

func (c *EventServiceClient) ListDueReminders(ctx context.Context, in *ListDueRemindersRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	return Invoke[ListEventsResponse](ctx, c.cc, eventService, "ListDueReminders", in, opts...)
}
