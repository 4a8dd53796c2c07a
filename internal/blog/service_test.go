package blog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/coffeecarriers/coffee-carriers/internal/auth"
)

type stubRepo struct {
	authors map[string]*Author // by user id
	posts   map[string]*Post
}

func newStubRepo() *stubRepo {
	return &stubRepo{authors: map[string]*Author{}, posts: map[string]*Post{}}
}

func (s *stubRepo) GetAuthorByUserID(ctx context.Context, userID string) (*Author, error) {
	a, ok := s.authors[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *stubRepo) CreateAuthor(ctx context.Context, a *Author) error {
	s.authors[a.UserID] = a
	return nil
}

func (s *stubRepo) CreatePost(ctx context.Context, p *Post) error {
	cp := *p
	s.posts[p.ID] = &cp
	return nil
}

func (s *stubRepo) ListPublished(ctx context.Context) ([]Post, error) {
	return s.listByStatus(StatusPublished), nil
}

func (s *stubRepo) ListPending(ctx context.Context) ([]Post, error) {
	return s.listByStatus(StatusPendingReview), nil
}

func (s *stubRepo) listByStatus(status PostStatus) []Post {
	var out []Post
	for _, p := range s.posts {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out
}

func (s *stubRepo) Approve(ctx context.Context, id, reviewerID string) error {
	p, ok := s.posts[id]
	if !ok || p.Status != StatusPendingReview {
		return ErrNotFound
	}
	now := time.Now()
	p.Status = StatusPublished
	p.PublishedAt = &now
	p.ReviewedBy = reviewerID
	return nil
}

func (s *stubRepo) Reject(ctx context.Context, id, reviewerID, notes string) error {
	p, ok := s.posts[id]
	if !ok || p.Status != StatusPendingReview {
		return ErrNotFound
	}
	p.Status = StatusRejected
	p.ReviewNotes = notes
	p.ReviewedBy = reviewerID
	return nil
}

func makerPrincipal() auth.Principal {
	return auth.Principal{UserID: uuid.NewString(), Role: auth.RoleMaker, MakerID: uuid.NewString(), DisplayName: "Bean Cart"}
}

func adminPrincipal() auth.Principal {
	return auth.Principal{UserID: uuid.NewString(), Role: auth.RoleAdmin}
}

func TestSubmit_CreatesPendingPostAndAuthor(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.UnixMilli(1748769300000) }

	p := makerPrincipal()
	post, err := svc.Submit(context.Background(), p, "  Morning Brews  ", "Our cart is back at the park.")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if post.Status != StatusPendingReview {
		t.Fatalf("status = %s, want pending_review", post.Status)
	}
	if post.Title != "Morning Brews" {
		t.Fatalf("title = %q", post.Title)
	}
	if post.Slug != "morning-brews-1748769300000" {
		t.Fatalf("slug = %q", post.Slug)
	}
	if repo.authors[p.UserID] == nil || repo.authors[p.UserID].Name != "Bean Cart" {
		t.Fatalf("author not provisioned: %+v", repo.authors[p.UserID])
	}

	// second submission reuses the author
	if _, err := svc.Submit(context.Background(), p, "Second", "More news."); err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if len(repo.authors) != 1 {
		t.Fatalf("authors = %d, want 1", len(repo.authors))
	}
}

func TestSubmit_Validation(t *testing.T) {
	svc := NewService(newStubRepo())
	p := makerPrincipal()

	cases := []struct {
		name    string
		title   string
		content string
	}{
		{"empty title", "   ", "content"},
		{"empty content", "title", "   "},
		{"content too long", "title", strings.Repeat("x", 251)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(context.Background(), p, tc.title, tc.content); !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}

	// exactly 250 characters is fine
	if _, err := svc.Submit(context.Background(), p, "title", strings.Repeat("x", 250)); err != nil {
		t.Fatalf("250-char content rejected: %v", err)
	}
}

func TestSubmit_CountsCharactersNotBytes(t *testing.T) {
	svc := NewService(newStubRepo())
	p := makerPrincipal()

	// 250 two-byte characters are 500 bytes but still within the cap
	if _, err := svc.Submit(context.Background(), p, "title", strings.Repeat("é", 250)); err != nil {
		t.Fatalf("250-char non-ASCII content rejected: %v", err)
	}
	if _, err := svc.Submit(context.Background(), p, "title", strings.Repeat("é", 251)); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestSubmit_ExcerptEndsOnRuneBoundary(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	post, err := svc.Submit(context.Background(), makerPrincipal(), "title", strings.Repeat("☕", 120))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	got := repo.posts[post.ID].Excerpt
	if !utf8.ValidString(got) {
		t.Fatalf("excerpt is not valid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 100 {
		t.Fatalf("excerpt runes = %d, want 100", utf8.RuneCountInString(got))
	}
}

func TestSubmit_MakersOnly(t *testing.T) {
	svc := NewService(newStubRepo())
	for _, p := range []auth.Principal{
		adminPrincipal(),
		{UserID: uuid.NewString(), Role: auth.RoleSipper, SipperID: uuid.NewString()},
	} {
		if _, err := svc.Submit(context.Background(), p, "t", "c"); !errors.Is(err, auth.ErrForbidden) {
			t.Fatalf("role %s: err = %v, want ErrForbidden", p.Role, err)
		}
	}
}

func TestSlugify(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world-1700000000000"},
		{"Latte!! Art?? 101", "latte-art-101-1700000000000"},
		{"--Trim--", "trim-1700000000000"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.title, at); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func submitPending(t *testing.T, svc *Service, repo *stubRepo) *Post {
	t.Helper()
	post, err := svc.Submit(context.Background(), makerPrincipal(), "Title", "Content")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return repo.posts[post.ID]
}

func TestApprove_PublishesAndStamps(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	post := submitPending(t, svc, repo)
	admin := adminPrincipal()

	if err := svc.Approve(context.Background(), admin, post.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if post.Status != StatusPublished {
		t.Fatalf("status = %s, want published", post.Status)
	}
	if post.PublishedAt == nil {
		t.Fatalf("published_at not set")
	}
	if post.ReviewedBy != admin.UserID {
		t.Fatalf("reviewed_by = %q", post.ReviewedBy)
	}

	// the queue no longer surfaces it, so a second action is a 404
	if err := svc.Approve(context.Background(), admin, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second approve err = %v, want ErrNotFound", err)
	}
	pending, _ := svc.PendingQueue(context.Background(), admin)
	if len(pending) != 0 {
		t.Fatalf("pending queue = %d, want 0", len(pending))
	}
}

func TestReject_StoresNotes(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	post := submitPending(t, svc, repo)

	if err := svc.Reject(context.Background(), adminPrincipal(), post.ID, "too promotional"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if post.Status != StatusRejected {
		t.Fatalf("status = %s, want rejected", post.Status)
	}
	if post.ReviewNotes != "too promotional" {
		t.Fatalf("review_notes = %q", post.ReviewNotes)
	}
}

func TestModeration_AdminOnly(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	post := submitPending(t, svc, repo)
	p := makerPrincipal()

	if err := svc.Approve(context.Background(), p, post.ID); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("approve err = %v, want ErrForbidden", err)
	}
	if err := svc.Reject(context.Background(), p, post.ID, ""); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("reject err = %v, want ErrForbidden", err)
	}
	if _, err := svc.PendingQueue(context.Background(), p); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("queue err = %v, want ErrForbidden", err)
	}
}
