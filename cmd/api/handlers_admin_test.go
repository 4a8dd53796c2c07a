package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coffeecarriers/coffee-carriers/internal/auth"
	"github.com/coffeecarriers/coffee-carriers/internal/blog"
	"github.com/coffeecarriers/coffee-carriers/internal/httpx"
	"github.com/coffeecarriers/coffee-carriers/internal/user"
)

//
// ---------- STUBS ----------
//

type blogStubRepo struct {
	authors map[string]*blog.Author
	posts   map[string]*blog.Post
}

func newBlogStubRepo() *blogStubRepo {
	return &blogStubRepo{authors: map[string]*blog.Author{}, posts: map[string]*blog.Post{}}
}

func (s *blogStubRepo) GetAuthorByUserID(ctx context.Context, userID string) (*blog.Author, error) {
	a, ok := s.authors[userID]
	if !ok {
		return nil, blog.ErrNotFound
	}
	return a, nil
}

func (s *blogStubRepo) CreateAuthor(ctx context.Context, a *blog.Author) error {
	s.authors[a.UserID] = a
	return nil
}

func (s *blogStubRepo) CreatePost(ctx context.Context, p *blog.Post) error {
	cp := *p
	s.posts[p.ID] = &cp
	return nil
}

func (s *blogStubRepo) ListPublished(ctx context.Context) ([]blog.Post, error) {
	return s.listByStatus(blog.StatusPublished), nil
}

func (s *blogStubRepo) ListPending(ctx context.Context) ([]blog.Post, error) {
	return s.listByStatus(blog.StatusPendingReview), nil
}

func (s *blogStubRepo) listByStatus(status blog.PostStatus) []blog.Post {
	var out []blog.Post
	for _, p := range s.posts {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out
}

func (s *blogStubRepo) Approve(ctx context.Context, id, reviewerID string) error {
	p, ok := s.posts[id]
	if !ok || p.Status != blog.StatusPendingReview {
		return blog.ErrNotFound
	}
	now := time.Now()
	p.Status = blog.StatusPublished
	p.PublishedAt = &now
	p.ReviewedBy = reviewerID
	return nil
}

func (s *blogStubRepo) Reject(ctx context.Context, id, reviewerID, notes string) error {
	p, ok := s.posts[id]
	if !ok || p.Status != blog.StatusPendingReview {
		return blog.ErrNotFound
	}
	p.Status = blog.StatusRejected
	p.ReviewNotes = notes
	p.ReviewedBy = reviewerID
	return nil
}

type userStubRepo struct {
	byID map[string]*user.User
}

func (s *userStubRepo) Create(ctx context.Context, u *user.User) error { return nil }

func (s *userStubRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (s *userStubRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (s *userStubRepo) List(ctx context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (s *userStubRepo) UpdateFlags(ctx context.Context, id string, upd user.FlagUpdate) error {
	if upd.Empty() {
		return user.ErrNoFields
	}
	u, ok := s.byID[id]
	if !ok || u.Role == "admin" {
		return user.ErrNotFound
	}
	if upd.IsVerified != nil {
		u.IsVerified = *upd.IsVerified
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	return nil
}

func (s *userStubRepo) Delete(ctx context.Context, id string) (bool, error) { return false, nil }

func newAdminRouter(blogSvc *blog.Service, users user.Repository, p auth.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asPrincipal(p))
	admin := r.Group("/admin", httpx.RequireRole(auth.RoleAdmin))
	admin.GET("/blog", adminBlogQueueHandler(blogSvc))
	admin.PATCH("/blog/:id", adminModerateBlogHandler(blogSvc))
	admin.GET("/users", adminListUsersHandler(users))
	admin.PATCH("/users/:id", adminUpdateUserHandler(users))
	r.POST("/blog", httpx.RequireAuth(), createBlogPostHandler(blogSvc))
	return r
}

func seedPendingPost(t *testing.T, svc *blog.Service, repo *blogStubRepo) *blog.Post {
	t.Helper()
	mk := auth.Principal{UserID: uuid.NewString(), Role: auth.RoleMaker, MakerID: uuid.NewString(), DisplayName: "Bean Cart"}
	post, err := svc.Submit(context.Background(), mk, "Cart news", "We moved to the waterfront.")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return repo.posts[post.ID]
}

//
// ---------- TESTS ----------
//

func TestAdminRejectBlog_StoresNotesAndDrainsQueue(t *testing.T) {
	repo := newBlogStubRepo()
	svc := blog.NewService(repo)
	post := seedPendingPost(t, svc, repo)

	admin := auth.Principal{UserID: uuid.NewString(), Role: auth.RoleAdmin}
	r := newAdminRouter(svc, &userStubRepo{byID: map[string]*user.User{}}, admin)

	w := doJSON(t, r, http.MethodPatch, "/admin/blog/"+post.ID, `{"action":"reject","notes":"too promotional"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if post.Status != blog.StatusRejected || post.ReviewNotes != "too promotional" {
		t.Fatalf("post = %+v", post)
	}

	// pending queue is empty now
	w = doJSON(t, r, http.MethodGet, "/admin/blog", "")
	var queue []blog.Post
	_ = json.Unmarshal(w.Body.Bytes(), &queue)
	if len(queue) != 0 {
		t.Fatalf("queue = %d, want 0", len(queue))
	}
}

func TestAdminApproveBlog_Publishes(t *testing.T) {
	repo := newBlogStubRepo()
	svc := blog.NewService(repo)
	post := seedPendingPost(t, svc, repo)

	admin := auth.Principal{UserID: uuid.NewString(), Role: auth.RoleAdmin}
	r := newAdminRouter(svc, &userStubRepo{byID: map[string]*user.User{}}, admin)

	w := doJSON(t, r, http.MethodPatch, "/admin/blog/"+post.ID, `{"action":"approve"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if post.Status != blog.StatusPublished || post.PublishedAt == nil {
		t.Fatalf("post = %+v", post)
	}

	// acting again on a decided post is a 404
	w = doJSON(t, r, http.MethodPatch, "/admin/blog/"+post.ID, `{"action":"approve"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAdminModerateBlog_InvalidAction(t *testing.T) {
	repo := newBlogStubRepo()
	svc := blog.NewService(repo)
	post := seedPendingPost(t, svc, repo)

	admin := auth.Principal{UserID: uuid.NewString(), Role: auth.RoleAdmin}
	r := newAdminRouter(svc, &userStubRepo{byID: map[string]*user.User{}}, admin)

	w := doJSON(t, r, http.MethodPatch, "/admin/blog/"+post.ID, `{"action":"publish"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAdminRoutes_NonAdminForbidden(t *testing.T) {
	repo := newBlogStubRepo()
	svc := blog.NewService(repo)
	mk := auth.Principal{UserID: uuid.NewString(), Role: auth.RoleMaker, MakerID: uuid.NewString()}
	r := newAdminRouter(svc, &userStubRepo{byID: map[string]*user.User{}}, mk)

	w := doJSON(t, r, http.MethodGet, "/admin/blog", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCreateBlogPost_RejectsLongContent(t *testing.T) {
	repo := newBlogStubRepo()
	svc := blog.NewService(repo)
	mk := auth.Principal{UserID: uuid.NewString(), Role: auth.RoleMaker, MakerID: uuid.NewString(), DisplayName: "Bean Cart"}
	r := newAdminRouter(svc, &userStubRepo{byID: map[string]*user.User{}}, mk)

	long := make([]byte, 251)
	for i := range long {
		long[i] = 'x'
	}
	w := doJSON(t, r, http.MethodPost, "/blog", fmt.Sprintf(`{"title":"hi","content":%q}`, string(long)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAdminUpdateUser_FlagsAndExclusions(t *testing.T) {
	target := &user.User{ID: uuid.NewString(), Role: "maker", IsActive: true}
	adminRow := &user.User{ID: uuid.NewString(), Role: "admin", IsActive: true}
	users := &userStubRepo{byID: map[string]*user.User{target.ID: target, adminRow.ID: adminRow}}

	repo := newBlogStubRepo()
	admin := auth.Principal{UserID: adminRow.ID, Role: auth.RoleAdmin}
	r := newAdminRouter(blog.NewService(repo), users, admin)

	w := doJSON(t, r, http.MethodPatch, "/admin/users/"+target.ID, `{"is_verified":true,"is_active":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !target.IsVerified || target.IsActive {
		t.Fatalf("target flags = %+v", target)
	}

	// no recognized fields
	w = doJSON(t, r, http.MethodPatch, "/admin/users/"+target.ID, `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	// admin rows are excluded from mutation
	w = doJSON(t, r, http.MethodPatch, "/admin/users/"+adminRow.ID, `{"is_active":false}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !adminRow.IsActive {
		t.Fatalf("admin row was mutated")
	}
}
