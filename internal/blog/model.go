package blog

import "time"

type PostStatus string

const (
	StatusDraft         PostStatus = "draft"
	StatusPendingReview PostStatus = "pending_review"
	StatusPublished     PostStatus = "published"
	StatusRejected      PostStatus = "rejected"
	StatusArchived      PostStatus = "archived"
)

type Author struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Post struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"author_id"`
	AuthorName  string     `json:"author_name,omitempty"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Content     string     `json:"content"`
	Status      PostStatus `json:"status"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewNotes string     `json:"review_notes,omitempty"`
	Locale      string     `json:"locale"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
