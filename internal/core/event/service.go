package event

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

const (
	maxTitleLength = 200
	// maxRange は一度に取得できる期間の上限です。
	maxRange = 366 * 24 * time.Hour
)

// Service は予定とリマインドに関するユースケースをまとめます。
type Service struct {
	repo      Repository
	companies CompanyOwnership
	clock     Clock
	tx        TransactionManager
}

// UseCase は予定ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEvent(ctx context.Context, in CreateEventInput) (*Event, error)
	GetEvent(ctx context.Context, id, userID string) (*Event, error)
	ListEvents(ctx context.Context, in ListEventsInput) ([]*Event, error)
	UpdateEvent(ctx context.Context, in UpdateEventInput) (*Event, error)
	DeleteEvent(ctx context.Context, id, userID string) error
	ListDueReminders(ctx context.Context, userID string, now *time.Time) ([]*Event, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, companies CompanyOwnership, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, companies: companies, clock: clock, tx: tx}
}

// CreateEventInput は予定作成時の入力です。
type CreateEventInput struct {
	UserID              string
	CompanyID           *string
	Title               string
	Kind                *Kind
	StartsAt            time.Time
	EndsAt              *time.Time
	Location            *string
	RemindBeforeMinutes *int
	Memo                *string
}

// UpdateEventInput は予定更新時の入力です。
type UpdateEventInput struct {
	ID                  string
	UserID              string
	CompanyID           *string
	Title               *string
	Kind                *Kind
	StartsAt            *time.Time
	EndsAt              *time.Time
	EndsAtSet           bool
	Location            *string
	RemindBeforeMinutes *int
	RemindSet           bool
	Memo                *string
}

// ListEventsInput は期間指定の一覧取得時の入力です。
type ListEventsInput struct {
	UserID    string
	From      time.Time
	To        time.Time
	CompanyID *string
}

// CreateEvent は予定を作成します。
func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput) (*Event, error) {
	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}

	kind := KindOther
	if in.Kind != nil {
		if !in.Kind.Valid() {
			return nil, ErrInvalidKind
		}
		kind = *in.Kind
	}

	e := &Event{
		UserID:              userID,
		Title:               title,
		Kind:                kind,
		StartsAt:            in.StartsAt.UTC(),
		EndsAt:              utcPtr(in.EndsAt),
		Location:            normalizeText(in.Location),
		RemindBeforeMinutes: in.RemindBeforeMinutes,
		Memo:                normalizeText(in.Memo),
	}
	if err := validateSchedule(e); err != nil {
		return nil, err
	}

	var created *Event
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		companyID, err := s.resolveCompany(txCtx, in.CompanyID, userID)
		if err != nil {
			return err
		}
		e.CompanyID = companyID

		now := s.clock.Now()
		e.CreatedAt = now
		e.UpdatedAt = now

		result, err := s.repo.Create(txCtx, e)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// GetEvent は予定を取得します。
func (s *Service) GetEvent(ctx context.Context, id, userID string) (*Event, error) {
	id, userID, err := normalizeKey(id, userID)
	if err != nil {
		return nil, err
	}

	var found *Event
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, id, userID)
		if err != nil {
			return err
		}
		found = result
		return nil
	}); err != nil {
		return nil, err
	}
	return found, nil
}

// ListEvents は開始時刻が [From, To) に含まれる予定を返します。
func (s *Service) ListEvents(ctx context.Context, in ListEventsInput) ([]*Event, error) {
	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	if in.From.IsZero() || in.To.IsZero() || !in.From.Before(in.To) || in.To.Sub(in.From) > maxRange {
		return nil, ErrInvalidTimeRange
	}

	var companyID *string
	if in.CompanyID != nil {
		if trimmed := strings.TrimSpace(*in.CompanyID); trimmed != "" {
			companyID = &trimmed
		}
	}

	var events []*Event
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ListInRange(txCtx, RangeFilter{
			UserID:    userID,
			From:      in.From.UTC(),
			To:        in.To.UTC(),
			CompanyID: companyID,
		})
		if err != nil {
			return err
		}
		events = result
		return nil
	}); err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateEvent は予定を部分更新します。
func (s *Service) UpdateEvent(ctx context.Context, in UpdateEventInput) (*Event, error) {
	id, userID, err := normalizeKey(in.ID, in.UserID)
	if err != nil {
		return nil, err
	}

	var updated *Event
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id, userID)
		if err != nil {
			return err
		}

		if in.CompanyID != nil {
			companyID, err := s.resolveCompany(txCtx, in.CompanyID, userID)
			if err != nil {
				return err
			}
			existing.CompanyID = companyID
		}

		if in.Title != nil {
			title, err := normalizeTitle(*in.Title)
			if err != nil {
				return err
			}
			existing.Title = title
		}

		if in.Kind != nil {
			if !in.Kind.Valid() {
				return ErrInvalidKind
			}
			existing.Kind = *in.Kind
		}

		if in.StartsAt != nil {
			existing.StartsAt = in.StartsAt.UTC()
		}
		if in.EndsAtSet {
			existing.EndsAt = utcPtr(in.EndsAt)
		}
		if in.RemindSet {
			existing.RemindBeforeMinutes = in.RemindBeforeMinutes
		}
		if in.Location != nil {
			existing.Location = normalizeText(in.Location)
		}
		if in.Memo != nil {
			existing.Memo = normalizeText(in.Memo)
		}

		if err := validateSchedule(existing); err != nil {
			return err
		}

		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEvent は予定を削除します。
func (s *Service) DeleteEvent(ctx context.Context, id, userID string) error {
	id, userID, err := normalizeKey(id, userID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id, userID)
	})
}

// ListDueReminders はリマインド時刻を過ぎ、まだ開始していない予定を返します。
// now を省略した場合は現在時刻を使います。
func (s *Service) ListDueReminders(ctx context.Context, userID string, now *time.Time) ([]*Event, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	at := s.clock.Now()
	if now != nil && !now.IsZero() {
		at = now.UTC()
	}

	var events []*Event
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ListDueReminders(txCtx, userID, at)
		if err != nil {
			return err
		}
		events = result
		return nil
	}); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Service) resolveCompany(ctx context.Context, raw *string, userID string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	companyID := strings.TrimSpace(*raw)
	if companyID == "" {
		return nil, nil
	}

	owned, err := s.companies.CompanyOwned(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrCompanyNotFound
	}
	return &companyID, nil
}

func validateSchedule(e *Event) error {
	if e.StartsAt.IsZero() {
		return fmt.Errorf("starts at: %w", ErrInvalidTimeRange)
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return fmt.Errorf("ends at: %w", ErrInvalidTimeRange)
	}
	if m := e.RemindBeforeMinutes; m != nil && (*m < 0 || *m > MaxRemindBeforeMinutes) {
		return ErrInvalidReminder
	}
	return nil
}

func normalizeKey(rawID, rawUserID string) (string, string, error) {
	id := strings.TrimSpace(rawID)
	if id == "" {
		return "", "", fmt.Errorf("id: %w", ErrInvalidID)
	}

	userID, err := normalizeUserID(rawUserID)
	if err != nil {
		return "", "", err
	}
	return id, userID, nil
}

func normalizeUserID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidUserID
	}
	return trimmed, nil
}

func normalizeTitle(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxTitleLength {
		return "", ErrInvalidTitle
	}
	return trimmed, nil
}

func normalizeText(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
