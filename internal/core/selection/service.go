package selection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator は新しいステップ ID を発行します。
type IDGenerator interface {
	NewID() string
}

type uuidV7Generator struct{}

// NewID は時刻順に並ぶ UUIDv7 を返します。
func (uuidV7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
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
	maxNameLength   = 100
	maxLockAttempts = 3
)

// Service は選考ステップに関するユースケースをまとめます。
// ステップを変更するたびに、同じトランザクション内で企業の進捗を再計算します。
type Service struct {
	repo      Repository
	companies CompanyStore
	clock     Clock
	ids       IDGenerator
	tx        TransactionManager
	logger    *zap.Logger
}

// UseCase は選考ステップユースケースの公開インターフェースです。
type UseCase interface {
	CreateStep(ctx context.Context, in CreateStepInput) (*Step, error)
	GetStep(ctx context.Context, in GetStepInput) (*Step, error)
	ListSteps(ctx context.Context, in ListStepsInput) ([]*Step, error)
	UpdateStep(ctx context.Context, in UpdateStepInput) (*Step, error)
	DeleteStep(ctx context.Context, in DeleteStepInput) error
	ApplyTemplate(ctx context.Context, in ApplyTemplateInput) ([]*Step, error)
	ReorderSteps(ctx context.Context, in ReorderStepsInput) ([]*Step, error)
	RecomputeCompanyProgress(ctx context.Context, companyID, userID string) (Progress, error)
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithClock は時刻の取得元を差し替えます。
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator は ID の発行元を差し替えます。
func WithIDGenerator(ids IDGenerator) Option {
	return func(s *Service) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithTransactionManager はトランザクション制御を設定します。
func WithTransactionManager(tx TransactionManager) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

// WithLogger はロガーを設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService は Service を生成します。
func NewService(repo Repository, companies CompanyStore, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		companies: companies,
		clock:     realClock{},
		ids:       uuidV7Generator{},
		tx:        noopTransactionManager{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateStepInput はステップ作成時の入力です。
type CreateStepInput struct {
	UserID      string
	CompanyID   string
	Name        string
	Status      *StepStatus
	Order       *int
	PlannedDate *time.Time
	ActualDate  *time.Time
	Memo        *string
	Offer       bool
}

// UpdateStepInput はステップ更新時の入力です。nil のフィールドは変更しません。
type UpdateStepInput struct {
	ID             string
	UserID         string
	CompanyID      *string
	Name           *string
	Status         *StepStatus
	Order          *int
	PlannedDate    *time.Time
	PlannedDateSet bool
	ActualDate     *time.Time
	ActualDateSet  bool
	Memo           *string
	Offer          *bool
}

// DeleteStepInput はステップ削除時の入力です。
type DeleteStepInput struct {
	ID     string
	UserID string
}

// GetStepInput はステップ取得時の入力です。
type GetStepInput struct {
	ID     string
	UserID string
}

// ListStepsInput は企業のステップ一覧取得時の入力です。
type ListStepsInput struct {
	CompanyID string
	UserID    string
}

// ApplyTemplateInput は標準フロー追加時の入力です。
type ApplyTemplateInput struct {
	CompanyID string
	UserID    string
}

// ReorderStepsInput は並び替え時の入力です。StepIDs の順に Order を 1 から振り直します。
type ReorderStepsInput struct {
	CompanyID string
	UserID    string
	StepIDs   []string
}

// CreateStep はステップを追加し、企業の進捗を再計算します。
// Order を省略した場合は既存ステップの末尾に追加します。
func (s *Service) CreateStep(ctx context.Context, in CreateStepInput) (*Step, error) {
	userID, companyID, err := normalizeScope(in.UserID, in.CompanyID)
	if err != nil {
		return nil, err
	}

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	status := StepStatusNotStarted
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
	}

	if in.Order != nil && *in.Order < 0 {
		return nil, ErrInvalidOrder
	}

	var created *Step
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.companies.LockOwned(txCtx, companyID, userID); err != nil {
			return err
		}

		order := 0
		if in.Order != nil {
			order = *in.Order
		} else {
			existing, err := s.repo.ListByCompany(txCtx, companyID, userID)
			if err != nil {
				return err
			}
			order = nextOrder(existing)
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Step{
			ID:          s.ids.NewID(),
			CompanyID:   companyID,
			UserID:      userID,
			Order:       order,
			Name:        name,
			Status:      status,
			PlannedDate: normalizeDate(in.PlannedDate),
			ActualDate:  normalizeDate(in.ActualDate),
			Memo:        normalizeMemo(in.Memo),
			Offer:       in.Offer,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}

		if _, err := s.recompute(txCtx, companyID, userID); err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateStep はステップを更新し、企業の進捗を再計算します。
// ステップが別の企業へ移動した場合は移動元の企業も再計算します。
func (s *Service) UpdateStep(ctx context.Context, in UpdateStepInput) (*Step, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	var targetCompanyID string
	if in.CompanyID != nil {
		targetCompanyID = strings.TrimSpace(*in.CompanyID)
		if targetCompanyID == "" {
			return nil, ErrInvalidCompanyID
		}
	}

	var updated *Step
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.findLocked(txCtx, id, userID, targetCompanyID)
		if err != nil {
			return err
		}

		previousCompanyID := existing.CompanyID
		if targetCompanyID == "" {
			targetCompanyID = previousCompanyID
		}
		existing.CompanyID = targetCompanyID

		if err := applyUpdate(existing, in); err != nil {
			return err
		}
		now := s.clock.Now()
		existing.UpdatedAt = now

		moved := previousCompanyID != targetCompanyID
		if moved {
			// 面接メモは移動元の企業に残るため、ステップとの紐付けだけ外す。
			if err := s.repo.DetachNotes(txCtx, id, userID, now); err != nil {
				return err
			}
		}

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		if _, err := s.recompute(txCtx, targetCompanyID, userID); err != nil {
			return err
		}
		if moved {
			if _, err := s.recompute(txCtx, previousCompanyID, userID); err != nil {
				return err
			}
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteStep はステップを削除し、企業の進捗を再計算します。
func (s *Service) DeleteStep(ctx context.Context, in DeleteStepInput) error {
	id, err := normalizeID(in.ID)
	if err != nil {
		return err
	}

	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.findLocked(txCtx, id, userID)
		if err != nil {
			return err
		}

		if err := s.repo.Delete(txCtx, id, userID); err != nil {
			return err
		}

		_, err = s.recompute(txCtx, existing.CompanyID, userID)
		return err
	})
}

// GetStep はステップを取得します。
func (s *Service) GetStep(ctx context.Context, in GetStepInput) (*Step, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	var step *Step
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id, userID)
		if err != nil {
			return err
		}
		step = found
		return nil
	}); err != nil {
		return nil, err
	}

	return step, nil
}

// ListSteps は企業のステップを (Order, ID) の昇順で返します。
func (s *Service) ListSteps(ctx context.Context, in ListStepsInput) ([]*Step, error) {
	userID, companyID, err := normalizeScope(in.UserID, in.CompanyID)
	if err != nil {
		return nil, err
	}

	var steps []*Step
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if err := s.companies.EnsureOwned(txCtx, companyID, userID); err != nil {
			return err
		}

		found, err := s.repo.ListByCompany(txCtx, companyID, userID)
		if err != nil {
			return err
		}
		steps = found
		return nil
	}); err != nil {
		return nil, err
	}

	SortSteps(steps)
	return steps, nil
}

// ApplyTemplate は標準的な選考フローを既存ステップの末尾へ追加します。
func (s *Service) ApplyTemplate(ctx context.Context, in ApplyTemplateInput) ([]*Step, error) {
	userID, companyID, err := normalizeScope(in.UserID, in.CompanyID)
	if err != nil {
		return nil, err
	}

	var steps []*Step
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.companies.LockOwned(txCtx, companyID, userID); err != nil {
			return err
		}

		existing, err := s.repo.ListByCompany(txCtx, companyID, userID)
		if err != nil {
			return err
		}

		order := nextOrder(existing)
		now := s.clock.Now()
		for _, name := range DefaultTemplate {
			created, err := s.repo.Create(txCtx, &Step{
				ID:        s.ids.NewID(),
				CompanyID: companyID,
				UserID:    userID,
				Order:     order,
				Name:      name,
				Status:    StepStatusNotStarted,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}
			existing = append(existing, created)
			order++
		}

		if _, err := s.recompute(txCtx, companyID, userID); err != nil {
			return err
		}

		steps = existing
		return nil
	}); err != nil {
		return nil, err
	}

	SortSteps(steps)
	return steps, nil
}

// ReorderSteps は指定順に Order を振り直し、企業の進捗を再計算します。
func (s *Service) ReorderSteps(ctx context.Context, in ReorderStepsInput) ([]*Step, error) {
	userID, companyID, err := normalizeScope(in.UserID, in.CompanyID)
	if err != nil {
		return nil, err
	}

	var steps []*Step
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.companies.LockOwned(txCtx, companyID, userID); err != nil {
			return err
		}

		existing, err := s.repo.ListByCompany(txCtx, companyID, userID)
		if err != nil {
			return err
		}

		byID := make(map[string]*Step, len(existing))
		for _, step := range existing {
			byID[step.ID] = step
		}
		if len(in.StepIDs) != len(existing) {
			return ErrInvalidReorder
		}

		now := s.clock.Now()
		reordered := make([]*Step, 0, len(existing))
		for i, rawID := range in.StepIDs {
			step, ok := byID[strings.TrimSpace(rawID)]
			if !ok {
				return ErrInvalidReorder
			}
			delete(byID, step.ID)

			if step.Order != i+1 {
				step.Order = i + 1
				step.UpdatedAt = now
				if step, err = s.repo.Update(txCtx, step); err != nil {
					return err
				}
			}
			reordered = append(reordered, step)
		}

		if _, err := s.recompute(txCtx, companyID, userID); err != nil {
			return err
		}

		steps = reordered
		return nil
	}); err != nil {
		return nil, err
	}

	return steps, nil
}

// RecomputeCompanyProgress は企業のステップを読み込み、導出した進捗を企業へ書き込みます。
func (s *Service) RecomputeCompanyProgress(ctx context.Context, companyID, userID string) (Progress, error) {
	userID, companyID, err := normalizeScope(userID, companyID)
	if err != nil {
		return Progress{}, err
	}

	var progress Progress
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.companies.LockOwned(txCtx, companyID, userID); err != nil {
			return err
		}

		result, err := s.recompute(txCtx, companyID, userID)
		if err != nil {
			return err
		}
		progress = result
		return nil
	}); err != nil {
		return Progress{}, err
	}

	return progress, nil
}

func (s *Service) recompute(ctx context.Context, companyID, userID string) (Progress, error) {
	steps, err := s.repo.ListByCompany(ctx, companyID, userID)
	if err != nil {
		return Progress{}, fmt.Errorf("%w: load steps: %w", ErrStorageUnavailable, err)
	}

	progress := DeriveProgress(steps)

	if err := s.companies.ApplyProgress(ctx, companyID, userID, progress, s.clock.Now()); err != nil {
		if errors.Is(err, ErrCompanyNotFound) {
			return Progress{}, err
		}
		return Progress{}, fmt.Errorf("%w: apply progress: %w", ErrStorageUnavailable, err)
	}

	s.logger.Debug("company progress recomputed",
		zap.String("company_id", companyID),
		zap.String("user_id", userID),
		zap.Int("steps", len(steps)),
		zap.String("status", progress.Status),
	)

	return progress, nil
}

// findLocked はステップの所属企業 (と extra の企業) をロックしてからステップを読み直します。
// ステップの企業付け替えは移動元企業のロック下でしか起きないため、読み直した所属が
// ロック済みの企業と一致すればトランザクション終了まで変わりません。
func (s *Service) findLocked(ctx context.Context, id, userID string, extra ...string) (*Step, error) {
	for range maxLockAttempts {
		current, err := s.repo.FindByID(ctx, id, userID)
		if err != nil {
			return nil, err
		}

		companyIDs := []string{current.CompanyID}
		for _, companyID := range extra {
			if companyID != "" {
				companyIDs = append(companyIDs, companyID)
			}
		}
		if err := s.lockCompanies(ctx, userID, companyIDs...); err != nil {
			return nil, err
		}

		locked, err := s.repo.FindByID(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		if locked.CompanyID == current.CompanyID {
			return locked, nil
		}
	}
	return nil, fmt.Errorf("%w: step %s keeps moving between companies", ErrStorageUnavailable, id)
}

// lockCompanies は ID 順にロックを取得し、同時更新時のデッドロックを避けます。
func (s *Service) lockCompanies(ctx context.Context, userID string, companyIDs ...string) error {
	unique := make([]string, 0, len(companyIDs))
	seen := make(map[string]struct{}, len(companyIDs))
	for _, id := range companyIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	for _, id := range unique {
		if err := s.companies.LockOwned(ctx, id, userID); err != nil {
			return err
		}
	}
	return nil
}

func applyUpdate(step *Step, in UpdateStepInput) error {
	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return err
		}
		step.Name = name
	}

	if in.Status != nil {
		if !in.Status.Valid() {
			return ErrInvalidStatus
		}
		step.Status = *in.Status
	}

	if in.Order != nil {
		if *in.Order < 0 {
			return ErrInvalidOrder
		}
		step.Order = *in.Order
	}

	if in.PlannedDateSet {
		step.PlannedDate = normalizeDate(in.PlannedDate)
	}

	if in.ActualDateSet {
		step.ActualDate = normalizeDate(in.ActualDate)
	}

	if in.Memo != nil {
		step.Memo = normalizeMemo(in.Memo)
	}

	if in.Offer != nil {
		step.Offer = *in.Offer
	}

	return nil
}

func nextOrder(steps []*Step) int {
	highest := 0
	for _, s := range steps {
		if s.Order > highest {
			highest = s.Order
		}
	}
	return highest + 1
}

func normalizeScope(userID, companyID string) (string, string, error) {
	u, err := normalizeUserID(userID)
	if err != nil {
		return "", "", err
	}

	c := strings.TrimSpace(companyID)
	if c == "" {
		return "", "", ErrInvalidCompanyID
	}
	return u, c, nil
}

func normalizeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return trimmed, nil
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

func normalizeMemo(raw *string) *string {
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

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}
