package company

import (
	"context"
	"fmt"
	"net/url"
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
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	maxNameLength   = 200
	maxStatusLength = 100
)

// Service は企業に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は企業ユースケースの公開インターフェースです。
type UseCase interface {
	CreateCompany(ctx context.Context, in CreateCompanyInput) (*Company, error)
	GetCompany(ctx context.Context, in GetCompanyInput) (*Company, error)
	ListCompanies(ctx context.Context, in ListCompaniesInput) (*ListCompaniesResult, error)
	UpdateCompany(ctx context.Context, in UpdateCompanyInput) (*Company, error)
	DeleteCompany(ctx context.Context, in DeleteCompanyInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateCompanyInput は企業作成時の入力です。
type CreateCompanyInput struct {
	UserID     string
	Name       string
	Industry   *string
	WebsiteURL *string
	MyPageURL  *string
	Priority   *Priority
	Memo       *string
}

// UpdateCompanyInput は企業更新時の入力です。
// Status, NextStep, NextDeadline の直接編集は次回の進捗再計算で上書きされます。
type UpdateCompanyInput struct {
	ID              string
	UserID          string
	Name            *string
	Industry        *string
	WebsiteURL      *string
	MyPageURL       *string
	Priority        *Priority
	Memo            *string
	Status          *string
	NextStep        *string
	NextDeadline    *time.Time
	NextDeadlineSet bool
}

// DeleteCompanyInput は企業削除時の入力です。
type DeleteCompanyInput struct {
	ID     string
	UserID string
}

// GetCompanyInput は企業取得時の入力です。
type GetCompanyInput struct {
	ID     string
	UserID string
}

// ListCompaniesInput は一覧取得時の入力です。
type ListCompaniesInput struct {
	UserID    string
	PageSize  int
	PageToken string
	Status    *string
	Priority  *Priority
}

// ListCompaniesResult は一覧取得結果を表します。
type ListCompaniesResult struct {
	Companies     []*Company
	NextPageToken string
}

// CreateCompany は新しい企業を登録します。ステータスは未エントリーから始まります。
func (s *Service) CreateCompany(ctx context.Context, in CreateCompanyInput) (*Company, error) {
	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	websiteURL, err := normalizeURL(in.WebsiteURL)
	if err != nil {
		return nil, fmt.Errorf("website url: %w", err)
	}

	myPageURL, err := normalizeURL(in.MyPageURL)
	if err != nil {
		return nil, fmt.Errorf("my page url: %w", err)
	}

	priority := PriorityMedium
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		priority = *in.Priority
	}

	var created *Company
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Company{
			UserID:     userID,
			Name:       name,
			Industry:   normalizeText(in.Industry),
			WebsiteURL: websiteURL,
			MyPageURL:  myPageURL,
			Priority:   priority,
			Memo:       normalizeText(in.Memo),
			Status:     DefaultStatus,
			CreatedAt:  now,
			UpdatedAt:  now,
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

// UpdateCompany は企業情報を部分更新します。
func (s *Service) UpdateCompany(ctx context.Context, in UpdateCompanyInput) (*Company, error) {
	id, userID, err := normalizeKey(in.ID, in.UserID)
	if err != nil {
		return nil, err
	}

	var updated *Company
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id, userID)
		if err != nil {
			return err
		}

		if err := applyUpdate(existing, in); err != nil {
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

// DeleteCompany は企業を削除します。選考ステップ、面接メモ、企業研究も併せて削除されます。
func (s *Service) DeleteCompany(ctx context.Context, in DeleteCompanyInput) error {
	id, userID, err := normalizeKey(in.ID, in.UserID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id, userID)
	})
}

// GetCompany は ID で企業を取得します。
func (s *Service) GetCompany(ctx context.Context, in GetCompanyInput) (*Company, error) {
	id, userID, err := normalizeKey(in.ID, in.UserID)
	if err != nil {
		return nil, err
	}

	var company *Company
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, id, userID)
		if err != nil {
			return err
		}
		company = result
		return nil
	}); err != nil {
		return nil, err
	}

	return company, nil
}

// ListCompanies は利用者の企業を更新日時の新しい順に取得します。
func (s *Service) ListCompanies(ctx context.Context, in ListCompaniesInput) (*ListCompaniesResult, error) {
	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	page, err := paging.Parse(in.PageSize, in.PageToken)
	if err != nil {
		return nil, err
	}

	var status *string
	if in.Status != nil {
		normalized, err := normalizeStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		status = &normalized
	}

	if in.Priority != nil && !in.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	var (
		companies []*Company
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		resultCompanies, token, err := s.repo.List(txCtx, ListCompaniesFilter{
			UserID:   userID,
			Limit:    page.Limit,
			Offset:   page.Offset,
			Status:   status,
			Priority: in.Priority,
		})
		if err != nil {
			return err
		}
		companies = resultCompanies
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListCompaniesResult{
		Companies:     companies,
		NextPageToken: nextToken,
	}, nil
}

func applyUpdate(c *Company, in UpdateCompanyInput) error {
	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return err
		}
		c.Name = name
	}

	if in.Industry != nil {
		c.Industry = normalizeText(in.Industry)
	}

	if in.WebsiteURL != nil {
		u, err := normalizeURL(in.WebsiteURL)
		if err != nil {
			return fmt.Errorf("website url: %w", err)
		}
		c.WebsiteURL = u
	}

	if in.MyPageURL != nil {
		u, err := normalizeURL(in.MyPageURL)
		if err != nil {
			return fmt.Errorf("my page url: %w", err)
		}
		c.MyPageURL = u
	}

	if in.Priority != nil {
		if !in.Priority.Valid() {
			return ErrInvalidPriority
		}
		c.Priority = *in.Priority
	}

	if in.Memo != nil {
		c.Memo = normalizeText(in.Memo)
	}

	if in.Status != nil {
		status, err := normalizeStatus(*in.Status)
		if err != nil {
			return err
		}
		c.Status = status
	}

	if in.NextStep != nil {
		c.NextStep = normalizeText(in.NextStep)
	}

	if in.NextDeadlineSet {
		c.NextDeadline = normalizeDate(in.NextDeadline)
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

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func normalizeStatus(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxStatusLength {
		return "", ErrInvalidStatus
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

// normalizeURL は空文字を未設定として扱い、それ以外は絶対 http(s) URL のみ受け付けます。
func normalizeURL(raw *string) (*string, error) {
	text := normalizeText(raw)
	if text == nil {
		return nil, nil
	}

	u, err := url.Parse(*text)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidURL
	}

	normalized := u.String()
	return &normalized, nil
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}
