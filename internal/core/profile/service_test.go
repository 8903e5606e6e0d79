package profile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeRepo struct {
	profiles map[string]*Profile
	upserts  int
}

func (r *fakeRepo) Find(_ context.Context, userID string) (*Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	out := *p
	return &out, nil
}

func (r *fakeRepo) Upsert(_ context.Context, p *Profile) (*Profile, error) {
	r.upserts++
	out := *p
	r.profiles[p.UserID] = &out
	stored := out
	return &stored, nil
}

func newTestService() (*Service, *fakeRepo, *stubClock) {
	repo := &fakeRepo{profiles: map[string]*Profile{}}
	clk := &stubClock{now: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	return NewService(repo, clk), repo, clk
}

func strPtr(s string) *string {
	return &s
}

func TestService_GetProfile_EmptyWhenMissing(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()

	got, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsEmpty() {
		t.Fatalf("expected empty profile, got %+v", got)
	}
	if got.DesiredIndustries == nil {
		t.Fatal("expected non-nil industries slice")
	}

	if _, err := svc.GetProfile(context.Background(), " "); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestService_SaveProfile_Upserts(t *testing.T) {
	t.Parallel()

	svc, repo, clk := newTestService()
	ctx := context.Background()
	year := 2026
	industries := []string{" IT ", "コンサル", "", "IT"}

	saved, err := svc.SaveProfile(ctx, SaveProfileInput{
		UserID:            "user-1",
		University:        strPtr(" 東京大学 "),
		GraduationYear:    &year,
		GraduationYearSet: true,
		DesiredIndustries: &industries,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if saved.University == nil || *saved.University != "東京大学" {
		t.Fatalf("expected trimmed university, got %v", saved.University)
	}
	if saved.GraduationYear == nil || *saved.GraduationYear != 2026 {
		t.Fatalf("expected graduation year 2026, got %v", saved.GraduationYear)
	}
	if !slices.Equal(saved.DesiredIndustries, []string{"IT", "コンサル"}) {
		t.Fatalf("expected deduplicated industries, got %v", saved.DesiredIndustries)
	}
	if !saved.UpdatedAt.Equal(clk.now) {
		t.Fatalf("expected updatedAt %v, got %v", clk.now, saved.UpdatedAt)
	}

	updated, err := svc.SaveProfile(ctx, SaveProfileInput{UserID: "user-1", SelfPR: strPtr("粘り強さ"), University: strPtr("")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.University != nil {
		t.Fatalf("expected university cleared, got %v", *updated.University)
	}
	if updated.SelfPR == nil || *updated.SelfPR != "粘り強さ" {
		t.Fatalf("unexpected self PR: %v", updated.SelfPR)
	}
	if !slices.Equal(updated.DesiredIndustries, []string{"IT", "コンサル"}) {
		t.Fatalf("expected untouched industries to be kept, got %v", updated.DesiredIndustries)
	}
	if repo.upserts != 2 {
		t.Fatalf("expected 2 upserts, got %d", repo.upserts)
	}
}

func TestService_SaveProfile_Validation(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService()
	ctx := context.Background()

	tooEarly := 1999
	if _, err := svc.SaveProfile(ctx, SaveProfileInput{UserID: "user-1", GraduationYear: &tooEarly, GraduationYearSet: true}); !errors.Is(err, ErrInvalidGraduationYear) {
		t.Fatalf("expected ErrInvalidGraduationYear, got %v", err)
	}

	many := make([]string, 0, maxListItems+1)
	for i := 0; i <= maxListItems; i++ {
		many = append(many, fmt.Sprintf("industry-%d", i))
	}
	if _, err := svc.SaveProfile(ctx, SaveProfileInput{UserID: "user-1", DesiredJobTypes: &many}); !errors.Is(err, ErrTooManyItems) {
		t.Fatalf("expected ErrTooManyItems, got %v", err)
	}

	if repo.upserts != 0 {
		t.Fatalf("expected no upserts, got %d", repo.upserts)
	}
}
