package interview

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

const maxTitleLength = 200

// Service は面接メモに関するユースケースをまとめます。
type Service struct {
	repo   Repository
	owners Ownership
	clock  Clock
	tx     TransactionManager
}

// UseCase は面接メモユースケースの公開インターフェースです。
type UseCase interface {
	CreateNote(ctx context.Context, in CreateNoteInput) (*Note, error)
	GetNote(ctx context.Context, id, userID string) (*Note, error)
	ListNotes(ctx context.Context, companyID, userID string) ([]*Note, error)
	UpdateNote(ctx context.Context, in UpdateNoteInput) (*Note, error)
	DeleteNote(ctx context.Context, id, userID string) error
}

// NewService は Service を生成します。
func NewService(repo Repository, owners Ownership, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, owners: owners, clock: clock, tx: tx}
}

// CreateNoteInput は面接メモ作成時の入力です。
type CreateNoteInput struct {
	UserID        string
	CompanyID     string
	StepID        *string
	Title         string
	InterviewedOn *time.Time
	Format        *Format
	Interviewers  *string
	Questions     *string
	Reflection    *string
}

// UpdateNoteInput は面接メモ更新時の入力です。StepID に空文字を渡すと紐付けを解除します。
type UpdateNoteInput struct {
	ID               string
	UserID           string
	StepID           *string
	Title            *string
	InterviewedOn    *time.Time
	InterviewedOnSet bool
	Format           *Format
	Interviewers     *string
	Questions        *string
	Reflection       *string
}

// CreateNote は面接メモを作成します。
func (s *Service) CreateNote(ctx context.Context, in CreateNoteInput) (*Note, error) {
	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return nil, ErrInvalidCompanyID
	}

	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}

	format := FormatOnline
	if in.Format != nil {
		if !in.Format.Valid() {
			return nil, ErrInvalidFormat
		}
		format = *in.Format
	}

	var created *Note
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		owned, err := s.owners.CompanyOwned(txCtx, companyID, userID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrCompanyNotFound
		}

		stepID, err := s.resolveStep(txCtx, in.StepID, companyID, userID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Note{
			UserID:        userID,
			CompanyID:     companyID,
			StepID:        stepID,
			Title:         title,
			InterviewedOn: normalizeDate(in.InterviewedOn),
			Format:        format,
			Interviewers:  normalizeText(in.Interviewers),
			Questions:     normalizeText(in.Questions),
			Reflection:    normalizeText(in.Reflection),
			CreatedAt:     now,
			UpdatedAt:     now,
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

// GetNote は面接メモを取得します。
func (s *Service) GetNote(ctx context.Context, id, userID string) (*Note, error) {
	id, userID, err := normalizeKey(id, userID)
	if err != nil {
		return nil, err
	}

	var found *Note
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

// ListNotes は企業の面接メモを新しい順に返します。
func (s *Service) ListNotes(ctx context.Context, companyID, userID string) ([]*Note, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, ErrInvalidCompanyID
	}

	var notes []*Note
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		owned, err := s.owners.CompanyOwned(txCtx, companyID, userID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrCompanyNotFound
		}

		result, err := s.repo.ListByCompany(txCtx, companyID, userID)
		if err != nil {
			return err
		}
		notes = result
		return nil
	}); err != nil {
		return nil, err
	}
	return notes, nil
}

// UpdateNote は面接メモを部分更新します。
func (s *Service) UpdateNote(ctx context.Context, in UpdateNoteInput) (*Note, error) {
	id, userID, err := normalizeKey(in.ID, in.UserID)
	if err != nil {
		return nil, err
	}

	var updated *Note
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id, userID)
		if err != nil {
			return err
		}

		if in.StepID != nil {
			stepID, err := s.resolveStep(txCtx, in.StepID, existing.CompanyID, userID)
			if err != nil {
				return err
			}
			existing.StepID = stepID
		}

		if in.Title != nil {
			title, err := normalizeTitle(*in.Title)
			if err != nil {
				return err
			}
			existing.Title = title
		}

		if in.InterviewedOnSet {
			existing.InterviewedOn = normalizeDate(in.InterviewedOn)
		}

		if in.Format != nil {
			if !in.Format.Valid() {
				return ErrInvalidFormat
			}
			existing.Format = *in.Format
		}

		if in.Interviewers != nil {
			existing.Interviewers = normalizeText(in.Interviewers)
		}
		if in.Questions != nil {
			existing.Questions = normalizeText(in.Questions)
		}
		if in.Reflection != nil {
			existing.Reflection = normalizeText(in.Reflection)
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

// DeleteNote は面接メモを削除します。
func (s *Service) DeleteNote(ctx context.Context, id, userID string) error {
	id, userID, err := normalizeKey(id, userID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id, userID)
	})
}

func (s *Service) resolveStep(ctx context.Context, raw *string, companyID, userID string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	stepID := strings.TrimSpace(*raw)
	if stepID == "" {
		return nil, nil
	}

	ok, err := s.owners.StepInCompany(ctx, stepID, companyID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStepNotFound
	}
	return &stepID, nil
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
