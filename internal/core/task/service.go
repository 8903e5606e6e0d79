package task

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/paging"
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

const maxTitleLength = 200

// Service はタスクに関するユースケースをまとめます。
type Service struct {
	repo      Repository
	companies CompanyOwnership
	clock     Clock
	tx        TransactionManager
}

// UseCase はタスクユースケースの公開インターフェースです。
type UseCase interface {
	CreateTask(ctx context.Context, in CreateTaskInput) (*Task, error)
	GetTask(ctx context.Context, id, userID string) (*Task, error)
	ListTasks(ctx context.Context, in ListTasksInput) (*ListTasksResult, error)
	UpdateTask(ctx context.Context, in UpdateTaskInput) (*Task, error)
	CompleteTask(ctx context.Context, id, userID string) (*Task, error)
	DeleteTask(ctx context.Context, id, userID string) error
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

// CreateTaskInput はタスク作成時の入力です。
type CreateTaskInput struct {
	UserID    string
	CompanyID *string
	Title     string
	Category  *Category
	Status    *Status
	DueDate   *time.Time
	Memo      *string
}

// UpdateTaskInput はタスク更新時の入力です。CompanyID に空文字を渡すと紐付けを解除します。
type UpdateTaskInput struct {
	ID         string
	UserID     string
	CompanyID  *string
	Title      *string
	Category   *Category
	Status     *Status
	DueDate    *time.Time
	DueDateSet bool
	Memo       *string
}

// ListTasksInput は一覧取得時の入力です。
type ListTasksInput struct {
	UserID    string
	CompanyID *string
	Status    *Status
	DueBefore *time.Time
	PageSize  int
	PageToken string
}

// ListTasksResult は一覧取得結果です。
type ListTasksResult struct {
	Tasks         []*Task
	NextPageToken string
}

// CreateTask はタスクを作成します。
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*Task, error) {
	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}

	category := CategoryOther
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, ErrInvalidCategory
		}
		category = *in.Category
	}

	status := StatusTodo
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
	}

	var created *Task
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		companyID, err := s.resolveCompany(txCtx, in.CompanyID, userID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Task{
			UserID:    userID,
			CompanyID: companyID,
			Title:     title,
			Category:  category,
			Status:    status,
			DueDate:   normalizeDate(in.DueDate),
			Memo:      normalizeText(in.Memo),
			CreatedAt: now,
			UpdatedAt: now,
		})
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

// GetTask はタスクを取得します。
func (s *Service) GetTask(ctx context.Context, id, userID string) (*Task, error) {
	id, userID, err := normalizeKey(id, userID)
	if err != nil {
		return nil, err
	}

	var found *Task
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

// ListTasks は期限の近い順にタスクを返します。期限の無いタスクは末尾です。
func (s *Service) ListTasks(ctx context.Context, in ListTasksInput) (*ListTasksResult, error) {
	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	page, err := paging.Parse(in.PageSize, in.PageToken)
	if err != nil {
		return nil, err
	}

	if in.Status != nil && !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	var companyID *string
	if in.CompanyID != nil {
		if trimmed := strings.TrimSpace(*in.CompanyID); trimmed != "" {
			companyID = &trimmed
		}
	}

	result := &ListTasksResult{}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		tasks, token, err := s.repo.List(txCtx, ListTasksFilter{
			UserID:    userID,
			CompanyID: companyID,
			Status:    in.Status,
			DueBefore: in.DueBefore,
			Limit:     page.Limit,
			Offset:    page.Offset,
		})
		if err != nil {
			return err
		}
		result.Tasks = tasks
		result.NextPageToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateTask はタスクを部分更新します。
func (s *Service) UpdateTask(ctx context.Context, in UpdateTaskInput) (*Task, error) {
	id, userID, err := normalizeKey(in.ID, in.UserID)
	if err != nil {
		return nil, err
	}

	var updated *Task
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

		if in.Category != nil {
			if !in.Category.Valid() {
				return ErrInvalidCategory
			}
			existing.Category = *in.Category
		}

		if in.Status != nil {
			if !in.Status.Valid() {
				return ErrInvalidStatus
			}
			existing.Status = *in.Status
		}

		if in.DueDateSet {
			existing.DueDate = normalizeDate(in.DueDate)
		}

		if in.Memo != nil {
			existing.Memo = normalizeText(in.Memo)
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

// CompleteTask はタスクを完了にします。
func (s *Service) CompleteTask(ctx context.Context, id, userID string) (*Task, error) {
	done := StatusDone
	return s.UpdateTask(ctx, UpdateTaskInput{ID: id, UserID: userID, Status: &done})
}

// DeleteTask はタスクを削除します。
func (s *Service) DeleteTask(ctx context.Context, id, userID string) error {
	id, userID, err := normalizeKey(id, userID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id, userID)
	})
}

// resolveCompany は空文字を紐付けなしとして扱い、それ以外は所有を確認します。
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

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}
