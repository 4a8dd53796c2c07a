package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/coffeecarriers/coffee-carriers/internal/auth"
)

var ErrValidation = errors.New("validation")

const (
	maxContentLen = 250
	excerptLen    = 100
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Slugify lowercases the title, collapses non-alphanumeric runs to hyphens
// and appends a timestamp token for uniqueness.
func Slugify(title string, at time.Time) string {
	var b strings.Builder
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	return fmt.Sprintf("%s-%d", slug, at.UnixMilli())
}

// Submit creates a pending_review post for a maker-linked author,
// provisioning the author record on first use.
func (s *Service) Submit(ctx context.Context, principal auth.Principal, title, content string) (*Post, error) {
	if !principal.IsMaker() {
		return nil, auth.ErrForbidden
	}
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, fmt.Errorf("%w: content must be %d characters or less", ErrValidation, maxContentLen)
	}

	author, err := s.repo.GetAuthorByUserID(ctx, principal.UserID)
	if errors.Is(err, ErrNotFound) {
		name := principal.DisplayName
		if name == "" {
			name = "Maker"
		}
		author = &Author{ID: uuid.NewString(), UserID: principal.UserID, Name: name}
		if err := s.repo.CreateAuthor(ctx, author); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	// rune-based so multi-byte content never gets cut mid-character
	excerpt := content
	if runes := []rune(excerpt); len(runes) > excerptLen {
		excerpt = string(runes[:excerptLen])
	}
	p := &Post{
		ID:       uuid.NewString(),
		AuthorID: author.ID,
		Slug:     Slugify(title, s.now()),
		Title:    title,
		Excerpt:  excerpt,
		Content:  content,
		Status:   StatusPendingReview,
		Locale:   "en",
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListPublished(ctx context.Context) ([]Post, error) {
	return s.repo.ListPublished(ctx)
}

func (s *Service) PendingQueue(ctx context.Context, principal auth.Principal) ([]Post, error) {
	if !principal.IsAdmin() {
		return nil, auth.ErrForbidden
	}
	return s.repo.ListPending(ctx)
}

func (s *Service) Approve(ctx context.Context, principal auth.Principal, postID string) error {
	if !principal.IsAdmin() {
		return auth.ErrForbidden
	}
	return s.repo.Approve(ctx, postID, principal.UserID)
}

func (s *Service) Reject(ctx context.Context, principal auth.Principal, postID, notes string) error {
	if !principal.IsAdmin() {
		return auth.ErrForbidden
	}
	return s.repo.Reject(ctx, postID, principal.UserID, notes)
}
