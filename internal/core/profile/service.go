package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

const maxListItems = 20

// Service はプロフィールに関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
}

// UseCase はプロフィールユースケースの公開インターフェースです。
type UseCase interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	SaveProfile(ctx context.Context, in SaveProfileInput) (*Profile, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// SaveProfileInput はプロフィール保存時の入力です。nil の項目は変更せず、空文字は削除します。
// 卒業年度は GraduationYearSet が true のときのみ反映します。
type SaveProfileInput struct {
	UserID            string
	University        *string
	Faculty           *string
	GraduationYear    *int
	GraduationYearSet bool
	DesiredIndustries *[]string
	DesiredJobTypes   *[]string
	Strengths         *string
	SelfPR            *string
	Gakuchika         *string
}

// GetProfile はプロフィールを取得します。未保存の場合は空のプロフィールを返します。
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	found, err := s.repo.Find(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return &Profile{UserID: userID, DesiredIndustries: []string{}, DesiredJobTypes: []string{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

// SaveProfile はプロフィールを部分更新し、未保存なら作成します。
func (s *Service) SaveProfile(ctx context.Context, in SaveProfileInput) (*Profile, error) {
	current, err := s.GetProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.University != nil {
		current.University = normalizeText(in.University)
	}
	if in.Faculty != nil {
		current.Faculty = normalizeText(in.Faculty)
	}
	if in.GraduationYearSet {
		if y := in.GraduationYear; y != nil && (*y < MinGraduationYear || *y > MaxGraduationYear) {
			return nil, ErrInvalidGraduationYear
		}
		current.GraduationYear = in.GraduationYear
	}
	if in.DesiredIndustries != nil {
		items, err := normalizeList(*in.DesiredIndustries)
		if err != nil {
			return nil, fmt.Errorf("desired industries: %w", err)
		}
		current.DesiredIndustries = items
	}
	if in.DesiredJobTypes != nil {
		items, err := normalizeList(*in.DesiredJobTypes)
		if err != nil {
			return nil, fmt.Errorf("desired job types: %w", err)
		}
		current.DesiredJobTypes = items
	}
	if in.Strengths != nil {
		current.Strengths = normalizeText(in.Strengths)
	}
	if in.SelfPR != nil {
		current.SelfPR = normalizeText(in.SelfPR)
	}
	if in.Gakuchika != nil {
		current.Gakuchika = normalizeText(in.Gakuchika)
	}

	current.UpdatedAt = s.clock.Now()
	return s.repo.Upsert(ctx, current)
}

// normalizeList は前後の空白を除き、空要素と重複を取り除きます。順序は保持します。
func normalizeList(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	items := make([]string, 0, len(raw))
	for _, item := range raw {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		items = append(items, trimmed)
	}
	if len(items) > maxListItems {
		return nil, ErrTooManyItems
	}
	return items, nil
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
