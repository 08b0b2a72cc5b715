package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/sanitize"
)

// maxContentLen is the longest accepted post body, in runes.
const maxContentLen = 5000

// PostService defines business logic for social posts.
type PostService interface {
	ListScheduled(ctx context.Context) ([]Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	Create(ctx context.Context, input PostInput) (*Post, error)
}

type postService struct {
	repo PostRepository
	now  func() time.Time
}

// NewPostService creates a PostService backed by the given repository.
func NewPostService(repo PostRepository) PostService {
	return &postService{repo: repo, now: time.Now}
}

// ListScheduled returns the posts the calendar should show.
func (s *postService) ListScheduled(ctx context.Context) ([]Post, error) {
	posts, err := s.repo.ListScheduled(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("list scheduled posts: %w", err))
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

// Get returns a post by ID.
func (s *postService) Get(ctx context.Context, id string) (*Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("get post: %w", err))
	}
	if p == nil {
		return nil, apperror.NewNotFound("social post not found")
	}
	return p, nil
}

// Create validates and stores a new post. Status defaults to SCHEDULED when
// a scheduled time is given, DRAFT otherwise.
func (s *postService) Create(ctx context.Context, input PostInput) (*Post, error) {
	content := strings.TrimSpace(sanitize.PlainText(input.Content))
	if content == "" {
		return nil, apperror.NewValidation("post content is required")
	}
	if len([]rune(content)) > maxContentLen {
		return nil, apperror.NewValidation(fmt.Sprintf("post content must be at most %d characters", maxContentLen))
	}
	if !input.Platform.Valid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown platform %q", input.Platform))
	}

	status := input.Status
	if status == "" {
		status = StatusDraft
		if input.ScheduledAt != nil {
			status = StatusScheduled
		}
	}
	if !status.Valid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown post status %q", status))
	}
	if status == StatusScheduled && input.ScheduledAt == nil {
		return nil, apperror.NewValidation("scheduled posts need a scheduled time")
	}

	p := &Post{
		ID:          uuid.NewString(),
		Platform:    input.Platform,
		Content:     content,
		Status:      status,
		Hashtags:    NormalizeHashtags(input.Hashtags),
		ScheduledAt: input.ScheduledAt,
		PublishedAt: input.PublishedAt,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("create post: %w", err))
	}
	return p, nil
}

// NormalizeHashtags trims tags, strips a leading '#', and drops empty and
// duplicate (case-insensitive) tags. The first spelling and order are kept.
func NormalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimLeft(sanitize.PlainText(t), "#")
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
