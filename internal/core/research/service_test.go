package research

import (
	"context"
	"errors"
	"maps"
	"math"
	"strings"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeOwnership map[string]string

func (f fakeOwnership) CompanyOwned(_ context.Context, companyID, userID string) (bool, error) {
	owner, ok := f[companyID]
	return ok && owner == userID, nil
}

type fakeRepo struct {
	sheets map[string]*Research
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sheets: make(map[string]*Research)}
}

func key(companyID, userID string) string {
	return userID + "/" + companyID
}

func (r *fakeRepo) Find(_ context.Context, companyID, userID string) (*Research, error) {
	found, ok := r.sheets[key(companyID, userID)]
	if !ok {
		return nil, ErrResearchNotFound
	}
	return clone(found), nil
}

func (r *fakeRepo) Upsert(_ context.Context, research *Research) (*Research, error) {
	r.sheets[key(research.CompanyID, research.UserID)] = clone(research)
	return clone(research), nil
}

func (r *fakeRepo) Delete(_ context.Context, companyID, userID string) error {
	if _, ok := r.sheets[key(companyID, userID)]; !ok {
		return ErrResearchNotFound
	}
	delete(r.sheets, key(companyID, userID))
	return nil
}

func clone(r *Research) *Research {
	out := *r
	out.Sections = make(map[Section]string, len(r.Sections))
	for k, v := range r.Sections {
		out.Sections[k] = v
	}
	return &out
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	clk := &stubClock{now: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	return NewService(repo, fakeOwnership{"company-1": "user-1", "company-2": "user-2"}, clk, nil), repo
}

func TestResearch_CompletionRate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		sections map[Section]string
		want     float64
	}{
		{name: "empty sheet", want: 0},
		{
			name:     "half filled sheet",
			sections: map[Section]string{SectionBusiness: "a", SectionCulture: "b", SectionCareer: "c"},
			want:     0.5,
		},
		{
			name: "fully filled sheet",
			sections: map[Section]string{
				SectionBusiness: "a", SectionProducts: "b", SectionCulture: "c",
				SectionCareer: "d", SectionMotivation: "e", SectionQuestions: "f",
			},
			want: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := &Research{Sections: tc.sections}
			if got := r.CompletionRate(); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestService_GetResearch_EmptyWhenMissing(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	got, err := svc.GetResearch(context.Background(), "company-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CompanyID != "company-1" {
		t.Fatalf("unexpected company id: %s", got.CompanyID)
	}
	if len(got.Sections) != 0 || got.CompletionRate() != 0 {
		t.Fatalf("expected empty sheet, got %+v", got.Sections)
	}

	if _, err := svc.GetResearch(context.Background(), "company-2", "user-1"); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
}

func TestService_SaveResearch_Merges(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SaveResearch(ctx, SaveResearchInput{
		UserID:    "user-1",
		CompanyID: "company-1",
		Sections:  map[Section]string{SectionBusiness: " BtoB SaaS ", SectionCulture: "フラット"},
	}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	saved, err := svc.SaveResearch(ctx, SaveResearchInput{
		UserID:    "user-1",
		CompanyID: "company-1",
		Sections:  map[Section]string{SectionCulture: "  ", SectionMotivation: "成長環境"},
	})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	want := map[Section]string{SectionBusiness: "BtoB SaaS", SectionMotivation: "成長環境"}
	if !maps.Equal(saved.Sections, want) {
		t.Fatalf("expected %v, got %v", want, saved.Sections)
	}
	if got := saved.CompletionRate(); math.Abs(got-2.0/6.0) > 1e-9 {
		t.Fatalf("unexpected completion rate: %v", got)
	}

	got, err := svc.GetResearch(ctx, "company-1", "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !maps.Equal(got.Sections, saved.Sections) {
		t.Fatalf("expected stored sections %v, got %v", saved.Sections, got.Sections)
	}
}

func TestService_SaveResearch_Validation(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService()
	ctx := context.Background()

	cases := []struct {
		name  string
		input SaveResearchInput
		want  error
	}{
		{
			name:  "unknown section",
			input: SaveResearchInput{UserID: "user-1", CompanyID: "company-1", Sections: map[Section]string{"salary": "x"}},
			want:  ErrInvalidSection,
		},
		{
			name:  "too long",
			input: SaveResearchInput{UserID: "user-1", CompanyID: "company-1", Sections: map[Section]string{SectionCareer: strings.Repeat("あ", maxSectionLength+1)}},
			want:  ErrSectionTooLong,
		},
		{
			name:  "foreign company",
			input: SaveResearchInput{UserID: "user-1", CompanyID: "company-2", Sections: map[Section]string{SectionCareer: "x"}},
			want:  ErrCompanyNotFound,
		},
	}

	for _, tc := range cases {
		if _, err := svc.SaveResearch(ctx, tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	if len(repo.sheets) != 0 {
		t.Fatalf("expected nothing stored, got %d sheets", len(repo.sheets))
	}
}

func TestService_DeleteResearch(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.SaveResearch(ctx, SaveResearchInput{UserID: "user-1", CompanyID: "company-1", Sections: map[Section]string{SectionBusiness: "x"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := svc.DeleteResearch(ctx, "company-1", "user-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.sheets) != 0 {
		t.Fatal("expected sheet removed")
	}
	if err := svc.DeleteResearch(ctx, "company-1", "user-1"); !errors.Is(err, ErrResearchNotFound) {
		t.Fatalf("expected ErrResearchNotFound, got %v", err)
	}
	if err := svc.DeleteResearch(ctx, "", "user-1"); !errors.Is(err, ErrInvalidCompanyID) {
		t.Fatalf("expected ErrInvalidCompanyID, got %v", err)
	}
}
