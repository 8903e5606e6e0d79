package handler

import (
	"context"
	"time"

	apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/event"
)

// EventGrpcHandler は EventService の gRPC 実装です。
type EventGrpcHandler struct {
	svc event.UseCase
}

// NewEventGrpcHandler は EventGrpcHandler を生成します。
func NewEventGrpcHandler(svc event.UseCase) *EventGrpcHandler {
	return &EventGrpcHandler{svc: svc}
}

func (h *EventGrpcHandler) CreateEvent(ctx context.Context, req *apiv1.CreateEventRequest) (*apiv1.Event, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	startsAt, err := parseInstant("startsAt", req.StartsAt)
	if err != nil {
		return nil, err
	}
	endsAt, _, err := optionalInstant("endsAt", req.EndsAt)
	if err != nil {
		return nil, err
	}

	created, err := h.svc.CreateEvent(ctx, event.CreateEventInput{
		UserID:              userID,
		CompanyID:           req.CompanyID,
		Title:               req.Title,
		Kind:                enumPtr[event.Kind](req.Kind),
		StartsAt:            startsAt,
		EndsAt:              endsAt,
		Location:            req.Location,
		RemindBeforeMinutes: req.RemindBeforeMinutes,
		Memo:                req.Memo,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIEvent(created), nil
}

func (h *EventGrpcHandler) GetEvent(ctx context.Context, req *apiv1.IDRequest) (*apiv1.Event, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetEvent(ctx, req.ID, userID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIEvent(found), nil
}

// ListEvents は開始日時が [from, to) に含まれる予定を返します。
func (h *EventGrpcHandler) ListEvents(ctx context.Context, req *apiv1.ListEventsRequest) (*apiv1.ListEventsResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	from, err := parseInstant("from", req.From)
	if err != nil {
		return nil, err
	}
	to, err := parseInstant("to", req.To)
	if err != nil {
		return nil, err
	}

	events, err := h.svc.ListEvents(ctx, event.ListEventsInput{
		UserID:    userID,
		From:      from,
		To:        to,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIEvents(events), nil
}

// UpdateEvent は予定を更新します。RemindBeforeMinutes か ClearReminder を指定した場合のみリマインダーを変更します。
func (h *EventGrpcHandler) UpdateEvent(ctx context.Context, req *apiv1.UpdateEventRequest) (*apiv1.Event, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	var startsAt *time.Time
	if req.StartsAt != nil {
		t, err := parseInstant("startsAt", *req.StartsAt)
		if err != nil {
			return nil, err
		}
		startsAt = &t
	}
	endsAt, endsAtSet, err := optionalInstant("endsAt", req.EndsAt)
	if err != nil {
		return nil, err
	}

	remind := req.RemindBeforeMinutes
	if req.ClearReminder {
		remind = nil
	}

	updated, err := h.svc.UpdateEvent(ctx, event.UpdateEventInput{
		ID:                  req.ID,
		UserID:              userID,
		CompanyID:           req.CompanyID,
		Title:               req.Title,
		Kind:                enumPtr[event.Kind](req.Kind),
		StartsAt:            startsAt,
		EndsAt:              endsAt,
		EndsAtSet:           endsAtSet,
		Location:            req.Location,
		RemindBeforeMinutes: remind,
		RemindSet:           req.ClearReminder || req.RemindBeforeMinutes != nil,
		Memo:                req.Memo,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIEvent(updated), nil
}

func (h *EventGrpcHandler) DeleteEvent(ctx context.Context, req *apiv1.IDRequest) (*apiv1.Empty, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.svc.DeleteEvent(ctx, req.ID, userID); err != nil {
		return nil, toStatusError(err)
	}
	return &apiv1.Empty{}, nil
}

// ListDueReminders は通知時刻を過ぎ、まだ開始していない予定を返します。
func (h *EventGrpcHandler) ListDueReminders(ctx context.Context, req *apiv1.ListDueRemindersRequest) (*apiv1.ListEventsResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	now, _, err := optionalInstant("now", req.Now)
	if err != nil {
		return nil, err
	}

	events, err := h.svc.ListDueReminders(ctx, userID, now)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIEvents(events), nil
}

func toAPIEvent(e *event.Event) *apiv1.Event {
	if e == nil {
		return nil
	}
	out := &apiv1.Event{
		ID:                  e.ID,
		CompanyID:           e.CompanyID,
		Title:               e.Title,
		Kind:                string(e.Kind),
		StartsAt:            formatTime(e.StartsAt),
		EndsAt:              formatTimePtr(e.EndsAt),
		Location:            e.Location,
		RemindBeforeMinutes: e.RemindBeforeMinutes,
		Memo:                e.Memo,
		CreatedAt:           formatTime(e.CreatedAt),
		UpdatedAt:           formatTime(e.UpdatedAt),
	}
	if at, ok := e.RemindAt(); ok {
		out.RemindAt = formatTimePtr(&at)
	}
	return out
}

func toAPIEvents(events []*event.Event) *apiv1.ListEventsResponse {
	out := make([]*apiv1.Event, 0, len(events))
	for _, e := range events {
		out = append(out, toAPIEvent(e))
	}
	return &apiv1.ListEventsResponse{Events: out}
}
