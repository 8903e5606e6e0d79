package research

import (
	"context"
	"errors"
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

const maxSectionLength = 4000

// Service は企業研究シートに関するユースケースをまとめます。
type Service struct {
	repo      Repository
	companies CompanyOwnership
	clock     Clock
	tx        TransactionManager
}

// UseCase は企業研究ユースケースの公開インターフェースです。
type UseCase interface {
	GetResearch(ctx context.Context, companyID, userID string) (*Research, error)
	SaveResearch(ctx context.Context, in SaveResearchInput) (*Research, error)
	DeleteResearch(ctx context.Context, companyID, userID string) error
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

// SaveResearchInput は研究シート保存時の入力です。
// 指定した項目のみ置き換え、空文字の項目は削除します。
type SaveResearchInput struct {
	UserID    string
	CompanyID string
	Sections  map[Section]string
}

// GetResearch は研究シートを取得します。未保存の場合は空のシートを返します。
func (s *Service) GetResearch(ctx context.Context, companyID, userID string) (*Research, error) {
	userID, companyID, err := normalizeScope(userID, companyID)
	if err != nil {
		return nil, err
	}

	var research *Research
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if err := s.ensureOwned(txCtx, companyID, userID); err != nil {
			return err
		}

		found, err := s.repo.Find(txCtx, companyID, userID)
		if err != nil && !errors.Is(err, ErrResearchNotFound) {
			return err
		}
		if found == nil {
			found = &Research{UserID: userID, CompanyID: companyID}
		}
		research = found
		return nil
	}); err != nil {
		return nil, err
	}

	if research.Sections == nil {
		research.Sections = map[Section]string{}
	}
	return research, nil
}

// SaveResearch は研究シートに項目をマージして保存します。
func (s *Service) SaveResearch(ctx context.Context, in SaveResearchInput) (*Research, error) {
	userID, companyID, err := normalizeScope(in.UserID, in.CompanyID)
	if err != nil {
		return nil, err
	}

	changes := make(map[Section]string, len(in.Sections))
	for section, text := range in.Sections {
		if !section.Valid() {
			return nil, fmt.Errorf("%q: %w", section, ErrInvalidSection)
		}
		trimmed := strings.TrimSpace(text)
		if utf8.RuneCountInString(trimmed) > maxSectionLength {
			return nil, fmt.Errorf("%s: %w", section, ErrSectionTooLong)
		}
		changes[section] = trimmed
	}

	var saved *Research
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureOwned(txCtx, companyID, userID); err != nil {
			return err
		}

		current, err := s.repo.Find(txCtx, companyID, userID)
		if err != nil && !errors.Is(err, ErrResearchNotFound) {
			return err
		}

		merged := make(map[Section]string, len(Sections))
		if current != nil {
			for section, text := range current.Sections {
				merged[section] = text
			}
		}
		for section, text := range changes {
			if text == "" {
				delete(merged, section)
				continue
			}
			merged[section] = text
		}

		result, err := s.repo.Upsert(txCtx, &Research{
			UserID:    userID,
			CompanyID: companyID,
			Sections:  merged,
			UpdatedAt: s.clock.Now(),
		})
		if err != nil {
			return err
		}
		saved = result
		return nil
	}); err != nil {
		return nil, err
	}

	return saved, nil
}

// DeleteResearch は研究シートを削除します。
func (s *Service) DeleteResearch(ctx context.Context, companyID, userID string) error {
	userID, companyID, err := normalizeScope(userID, companyID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureOwned(txCtx, companyID, userID); err != nil {
			return err
		}
		return s.repo.Delete(txCtx, companyID, userID)
	})
}

func (s *Service) ensureOwned(ctx context.Context, companyID, userID string) error {
	owned, err := s.companies.CompanyOwned(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrCompanyNotFound
	}
	return nil
}

func normalizeScope(userID, companyID string) (string, string, error) {
	u := strings.TrimSpace(userID)
	if u == "" {
		return "", "", ErrInvalidUserID
	}
	c := strings.TrimSpace(companyID)
	if c == "" {
		return "", "", ErrInvalidCompanyID
	}
	return u, c, nil
}
