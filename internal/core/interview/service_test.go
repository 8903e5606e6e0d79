package interview

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeOwnership struct {
	companies map[string]string
	steps     map[string]string
}

func (f *fakeOwnership) CompanyOwned(_ context.Context, companyID, userID string) (bool, error) {
	owner, ok := f.companies[companyID]
	return ok && owner == userID, nil
}

func (f *fakeOwnership) StepInCompany(ctx context.Context, stepID, companyID, userID string) (bool, error) {
	if owned, _ := f.CompanyOwned(ctx, companyID, userID); !owned {
		return false, nil
	}
	return f.steps[stepID] == companyID, nil
}

type fakeRepo struct {
	notes map[string]*Note
	order []string
	seq   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{notes: make(map[string]*Note)}
}

func (r *fakeRepo) Create(_ context.Context, note *Note) (*Note, error) {
	r.seq++
	clone := *note
	clone.ID = fmt.Sprintf("note-%d", r.seq)
	r.notes[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	out := clone
	return &out, nil
}

func (r *fakeRepo) Update(_ context.Context, note *Note) (*Note, error) {
	if existing, ok := r.notes[note.ID]; !ok || existing.UserID != note.UserID {
		return nil, ErrNoteNotFound
	}
	clone := *note
	r.notes[note.ID] = &clone
	out := clone
	return &out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id, userID string) error {
	if existing, ok := r.notes[id]; !ok || existing.UserID != userID {
		return ErrNoteNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id, userID string) (*Note, error) {
	existing, ok := r.notes[id]
	if !ok || existing.UserID != userID {
		return nil, ErrNoteNotFound
	}
	out := *existing
	return &out, nil
}

func (r *fakeRepo) ListByCompany(_ context.Context, companyID, userID string) ([]*Note, error) {
	var result []*Note
	for i := len(r.order) - 1; i >= 0; i-- {
		n, ok := r.notes[r.order[i]]
		if ok && n.CompanyID == companyID && n.UserID == userID {
			out := *n
			result = append(result, &out)
		}
	}
	return result, nil
}

func strPtr(s string) *string {
	return &s
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	owners := &fakeOwnership{
		companies: map[string]string{"company-1": "user-1", "company-2": "user-1", "company-x": "user-2"},
		steps:     map[string]string{"step-1": "company-1", "step-2": "company-2"},
	}
	return NewService(repo, owners, &stubClock{now: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}, nil), repo
}

func TestService_CreateNote(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	on := time.Date(2025, 4, 20, 14, 0, 0, 0, time.UTC)
	onsite := FormatOnsite

	created, err := svc.CreateNote(context.Background(), CreateNoteInput{
		UserID:        "user-1",
		CompanyID:     "company-1",
		StepID:        strPtr("step-1"),
		Title:         " 一次面接 ",
		InterviewedOn: &on,
		Format:        &onsite,
		Questions:     strPtr("ガクチカについて"),
		Reflection:    strPtr("  "),
	})
	if err != nil {
		t.Fatalf("CreateNote returned error: %v", err)
	}

	if created.Title != "一次面接" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
	if created.StepID == nil || *created.StepID != "step-1" {
		t.Fatalf("expected step-1, got %+v", created.StepID)
	}
	if created.InterviewedOn == nil || !created.InterviewedOn.Equal(time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected interview date truncated, got %v", created.InterviewedOn)
	}
	if created.Reflection != nil {
		t.Fatalf("expected blank reflection dropped, got %+v", created.Reflection)
	}
}

func TestService_CreateNote_Ownership(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input CreateNoteInput
		want  error
	}{
		{name: "foreign company", input: CreateNoteInput{UserID: "user-1", CompanyID: "company-x", Title: "x"}, want: ErrCompanyNotFound},
		{name: "step of another company", input: CreateNoteInput{UserID: "user-1", CompanyID: "company-1", StepID: strPtr("step-2"), Title: "x"}, want: ErrStepNotFound},
		{name: "unknown step", input: CreateNoteInput{UserID: "user-1", CompanyID: "company-1", StepID: strPtr("step-9"), Title: "x"}, want: ErrStepNotFound},
		{name: "missing company", input: CreateNoteInput{UserID: "user-1", Title: "x"}, want: ErrInvalidCompanyID},
		{name: "bad format", input: CreateNoteInput{UserID: "user-1", CompanyID: "company-1", Title: "x", Format: func() *Format { f := Format("video"); return &f }()}, want: ErrInvalidFormat},
	}

	for _, tc := range cases {
		svc, repo := newTestService()
		if _, err := svc.CreateNote(context.Background(), tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if len(repo.notes) != 0 {
			t.Fatalf("%s: expected nothing stored", tc.name)
		}
	}
}

func TestService_UpdateNote(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateNote(ctx, CreateNoteInput{UserID: "user-1", CompanyID: "company-1", StepID: strPtr("step-1"), Title: "面接"})
	if err != nil {
		t.Fatalf("CreateNote returned error: %v", err)
	}

	if _, err := svc.UpdateNote(ctx, UpdateNoteInput{ID: created.ID, UserID: "user-1", StepID: strPtr("step-2")}); !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound for a step of another company, got %v", err)
	}

	phone := FormatPhone
	updated, err := svc.UpdateNote(ctx, UpdateNoteInput{ID: created.ID, UserID: "user-1", StepID: strPtr(""), Format: &phone, Interviewers: strPtr("人事 2 名")})
	if err != nil {
		t.Fatalf("UpdateNote returned error: %v", err)
	}
	if updated.StepID != nil {
		t.Fatalf("expected step cleared, got %v", *updated.StepID)
	}
	if updated.Format != FormatPhone {
		t.Fatalf("expected phone, got %s", updated.Format)
	}
	if updated.Interviewers == nil || *updated.Interviewers != "人事 2 名" {
		t.Fatalf("expected interviewers, got %+v", updated.Interviewers)
	}
}

func TestService_ListAndDeleteNotes(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService()
	ctx := context.Background()

	for _, title := range []string{"first", "second"} {
		if _, err := svc.CreateNote(ctx, CreateNoteInput{UserID: "user-1", CompanyID: "company-1", Title: title}); err != nil {
			t.Fatalf("CreateNote returned error: %v", err)
		}
	}

	notes, err := svc.ListNotes(ctx, "company-1", "user-1")
	if err != nil {
		t.Fatalf("ListNotes returned error: %v", err)
	}
	if len(notes) != 2 || notes[0].Title != "second" {
		t.Fatalf("unexpected notes: %d", len(notes))
	}

	if _, err := svc.ListNotes(ctx, "company-x", "user-1"); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}

	if err := svc.DeleteNote(ctx, notes[0].ID, "user-2"); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
	if err := svc.DeleteNote(ctx, notes[0].ID, "user-1"); err != nil {
		t.Fatalf("DeleteNote returned error: %v", err)
	}
	if len(repo.notes) != 1 {
		t.Fatalf("expected one note left, got %d", len(repo.notes))
	}
}
