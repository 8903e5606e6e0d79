package matching

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/company"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/profile"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/research"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/logger"
)

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Generator はプロンプトを LLM に送り、テキスト応答を返します。
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ProfileSource はプロフィールの取得元です。
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)
}

// CompanySource は企業の取得元です。
type CompanySource interface {
	GetCompany(ctx context.Context, in company.GetCompanyInput) (*company.Company, error)
}

// ResearchSource は企業研究の取得元です。
type ResearchSource interface {
	GetResearch(ctx context.Context, companyID, userID string) (*research.Research, error)
}

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Service はプロフィールと企業の適合度評価を行います。
type Service struct {
	profiles  ProfileSource
	companies CompanySource
	research  ResearchSource
	generator Generator
	minScore  float64
	maxLogLen int
	clock     Clock
	logger    *zap.Logger
}

// UseCase は適合度評価ユースケースの公開インターフェースです。
type UseCase interface {
	EvaluateFit(ctx context.Context, userID, companyID string) (*Assessment, error)
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithMinimumScore は fit を true とする最低スコアを設定します。
func WithMinimumScore(score float64) Option {
	return func(s *Service) {
		s.minScore = score
	}
}

// WithMaxLogLength はプロンプトと応答をログに出す際の最大文字数を設定します。
func WithMaxLogLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLogLen = n
		}
	}
}

// WithClock は評価日時の取得元を差し替えます。
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger はプロンプトと応答を記録するロガーを設定します。
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService は Service を生成します。generator が nil の場合、評価は ErrAIDisabled を返します。
func NewService(profiles ProfileSource, companies CompanySource, research ResearchSource, generator Generator, opts ...Option) *Service {
	s := &Service{
		profiles:  profiles,
		companies: companies,
		research:  research,
		generator: generator,
		maxLogLen: defaultMaxLogLength,
		clock:     realClock{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EvaluateFit は利用者のプロフィールと企業情報から適合度を評価します。
func (s *Service) EvaluateFit(ctx context.Context, userID, companyID string) (*Assessment, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, ErrInvalidCompanyID
	}

	if s.generator == nil {
		return nil, ErrAIDisabled
	}

	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, ErrProfileIncomplete
	}

	c, err := s.companies.GetCompany(ctx, company.GetCompanyInput{ID: companyID, UserID: userID})
	if err != nil {
		return nil, err
	}

	r, err := s.research.GetResearch(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}

	prompt, err := buildPrompt(p, c, r)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fit evaluation request",
		zap.String("company_id", companyID),
		zap.String("model", s.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	s.logger.Debug("fit evaluation response",
		zap.String("company_id", companyID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if assessment.Score < s.minScore && assessment.Fit {
		s.logger.Debug("set fit to false by score threshold",
			zap.String("company_id", companyID),
			zap.Float64("score", assessment.Score),
			zap.Float64("threshold", s.minScore),
		)
		assessment.Fit = false
	}

	assessment.CompanyID = companyID
	assessment.Model = s.generator.Model()
	assessment.EvaluatedAt = s.clock.Now()
	return assessment, nil
}

type profilePayload struct {
	University        *string  `json:"university,omitempty"`
	Faculty           *string  `json:"faculty,omitempty"`
	GraduationYear    *int     `json:"graduationYear,omitempty"`
	DesiredIndustries []string `json:"desiredIndustries"`
	DesiredJobTypes   []string `json:"desiredJobTypes"`
	Strengths         *string  `json:"strengths,omitempty"`
	SelfPR            *string  `json:"selfPr,omitempty"`
	Gakuchika         *string  `json:"gakuchika,omitempty"`
}

type companyPayload struct {
	Name       string  `json:"name"`
	Industry   *string `json:"industry,omitempty"`
	WebsiteURL *string `json:"websiteUrl,omitempty"`
	Priority   string  `json:"priority"`
	Status     string  `json:"status"`
	Memo       *string `json:"memo,omitempty"`
}

func buildPrompt(p *profile.Profile, c *company.Company, r *research.Research) (string, error) {
	profileJSON, err := json.MarshalIndent(profilePayload{
		University:        p.University,
		Faculty:           p.Faculty,
		GraduationYear:    p.GraduationYear,
		DesiredIndustries: p.DesiredIndustries,
		DesiredJobTypes:   p.DesiredJobTypes,
		Strengths:         p.Strengths,
		SelfPR:            p.SelfPR,
		Gakuchika:         p.Gakuchika,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile payload: %w", err)
	}

	companyJSON, err := json.MarshalIndent(companyPayload{
		Name:       c.Name,
		Industry:   c.Industry,
		WebsiteURL: c.WebsiteURL,
		Priority:   string(c.Priority),
		Status:     c.Status,
		Memo:       c.Memo,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal company payload: %w", err)
	}

	sections := map[string]string{}
	if r != nil {
		for section, text := range r.Sections {
			sections[string(section)] = text
		}
	}
	researchJSON, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal research payload: %w", err)
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{PROFILE_JSON}}", string(profileJSON))
	prompt = strings.ReplaceAll(prompt, "{{COMPANY_JSON}}", string(companyJSON))
	prompt = strings.ReplaceAll(prompt, "{{RESEARCH_JSON}}", string(researchJSON))
	return prompt, nil
}

type answer struct {
	Score     float64  `mapstructure:"score"`
	Fit       bool     `mapstructure:"fit"`
	Summary   string   `mapstructure:"summary"`
	Strengths []string `mapstructure:"strengths"`
	Concerns  []string `mapstructure:"concerns"`
	Advice    string   `mapstructure:"advice"`
}

// parseResponse はコードフェンスを取り除き、型の揺れを許容して応答を解釈します。
func parseResponse(raw string) (*Assessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if _, ok := data["score"]; !ok {
		return nil, fmt.Errorf("%w: score is missing", ErrInvalidResponse)
	}

	var a answer
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &a,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if math.IsNaN(a.Score) {
		return nil, fmt.Errorf("%w: score is not a number", ErrInvalidResponse)
	}

	return &Assessment{
		Score:     clampScore(a.Score),
		Fit:       a.Fit,
		Summary:   strings.TrimSpace(a.Summary),
		Strengths: compact(a.Strengths),
		Concerns:  compact(a.Concerns),
		Advice:    strings.TrimSpace(a.Advice),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func clampScore(score float64) float64 {
	return math.Max(MinScore, math.Min(MaxScore, score))
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// IsUnavailable は評価が外部要因で実行できなかったかを返します。
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrAIDisabled) || errors.Is(err, ErrGenerationFailed)
}
