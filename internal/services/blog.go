package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/repository"
	"art-gallery-backend/internal/validation"

	"github.com/google/uuid"
)

const excerptLength = 200

type BlogInput struct {
	Title     *string
	Excerpt   *string
	Content   *string
	Author    *string
	Tags      []string
	TagsSet   bool
	Published *bool
	Cover     ImageChange
}

type BlogService struct {
	posts    repository.BlogRepository
	intake   *ImageIntake
	janitor  *ImageJanitor
	markdown *MarkdownRenderer
}

func NewBlogService(posts repository.BlogRepository, intake *ImageIntake, janitor *ImageJanitor, markdown *MarkdownRenderer) *BlogService {
	return &BlogService{
		posts:    posts,
		intake:   intake,
		janitor:  janitor,
		markdown: markdown,
	}
}

// List returns published posts only unless all is set.
func (s *BlogService) List(ctx context.Context, all bool) ([]*models.BlogPost, error) {
	posts, err := s.posts.Posts(ctx, !all)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}

func (s *BlogService) Get(ctx context.Context, id string) (*models.BlogPost, error) {
	return s.posts.ByID(ctx, id)
}

// GetBySlug hides drafts unless includeDrafts is set.
func (s *BlogService) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.BlogPost, error) {
	post, err := s.posts.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.Published && !includeDrafts {
		return nil, repository.ErrBlogPostNotFound
	}
	return post, nil
}

// Render converts the post body to HTML.
func (s *BlogService) Render(post *models.BlogPost) string {
	html, err := s.markdown.Render(post.Content)
	if err != nil {
		slog.Warn("failed to render blog post", "post_id", post.ID, "error", err)
		return ""
	}
	return html
}

func (s *BlogService) Create(ctx context.Context, in BlogInput) (*models.BlogPost, error) {
	if in.Title == nil {
		return nil, invalidf("title", "is required")
	}
	if in.Content == nil || strings.TrimSpace(*in.Content) == "" {
		return nil, invalidf("content", "is required")
	}

	now := time.Now().UTC()
	post := &models.BlogPost{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}

	ref, uploaded, err := s.intake.resolve(ctx, "cover_image", imageref.DirBlogs, in.Cover)
	if err != nil {
		return nil, err
	}
	post.CoverImage, post.CoverImageKind = ref.Value, string(ref.Kind)

	if err := s.posts.Create(ctx, post); err != nil {
		if uploaded {
			s.janitor.Discard([]imageref.Ref{ref}, imageref.DirBlogs)
		}
		return nil, err
	}

	slog.Info("blog post created", "post_id", post.ID, "slug", post.Slug, "published", post.Published)
	return post, nil
}

func (s *BlogService) Update(ctx context.Context, id string, in BlogInput) (*models.BlogPost, CleanupReport, error) {
	post, err := s.posts.ByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, nil, err
	}

	old := s.intake.Resolver().Restore(post.CoverImage, post.CoverImageKind)

	ref, uploaded, err := s.intake.resolve(ctx, "cover_image", imageref.DirBlogs, in.Cover)
	if err != nil {
		return nil, nil, err
	}

	changed := false
	switch {
	case in.Cover.replaces():
		post.CoverImage, post.CoverImageKind = ref.Value, string(ref.Kind)
		changed = ref.Value != old.Value
	case in.Cover.Remove:
		post.CoverImage, post.CoverImageKind = "", ""
		changed = !old.IsZero()
	}

	if err := s.posts.Update(ctx, post); err != nil {
		if uploaded {
			s.janitor.Discard([]imageref.Ref{ref}, imageref.DirBlogs)
		}
		return nil, nil, err
	}

	var report CleanupReport
	if changed {
		report = s.janitor.ReleaseAll(ctx, []imageref.Ref{old}, imageref.DirBlogs)
	}
	slog.Info("blog post updated", "post_id", post.ID, "released", len(report))
	return post, report, nil
}

func (s *BlogService) Delete(ctx context.Context, id string) (CleanupReport, error) {
	post, err := s.posts.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return nil, err
	}

	old := s.intake.Resolver().Restore(post.CoverImage, post.CoverImageKind)
	report := s.janitor.ReleaseAll(ctx, []imageref.Ref{old}, imageref.DirBlogs)
	slog.Info("blog post deleted", "post_id", id, "released", len(report))
	return report, nil
}

func (s *BlogService) apply(ctx context.Context, post *models.BlogPost, in BlogInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validation.Required("title", title); err != nil {
			return invalid("title", err)
		}
		if err := validation.MaxLength("title", title, 200); err != nil {
			return invalid("title", err)
		}
		if title != post.Title || post.Slug == "" {
			slug, err := s.uniqueSlug(ctx, title, post.ID)
			if err != nil {
				return err
			}
			post.Slug = slug
		}
		post.Title = title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Excerpt != nil {
		if err := validation.MaxLength("excerpt", *in.Excerpt, 500); err != nil {
			return invalid("excerpt", err)
		}
		post.Excerpt = strings.TrimSpace(*in.Excerpt)
	}
	if post.Excerpt == "" {
		post.Excerpt = excerpt(post.Content)
	}
	if in.Author != nil {
		post.Author = strings.TrimSpace(*in.Author)
	}
	if in.TagsSet {
		post.Tags = joinTags(in.Tags)
	}
	if in.Published != nil {
		post.Published = *in.Published
		switch {
		case post.Published && !post.PublishedAt.Valid:
			post.PublishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
		case !post.Published:
			post.PublishedAt = sql.NullTime{}
		}
	}
	return nil
}

func (s *BlogService) uniqueSlug(ctx context.Context, title, excludeID string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "post"
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := s.posts.SlugTaken(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// SplitTags parses the stored comma-separated tag list.
func SplitTags(tags string) []string {
	out := []string{}
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func joinTags(tags []string) string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		for _, part := range SplitTags(t) {
			key := strings.ToLower(part)
			if !seen[key] {
				seen[key] = true
				out = append(out, part)
			}
		}
	}
	return strings.Join(out, ",")
}

func excerpt(content string) string {
	text := strings.TrimSpace(content)
	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimLeft(text, "# ")
	text = strings.Join(strings.Fields(text), " ")

	r := []rune(text)
	if len(r) <= excerptLength {
		return text
	}
	return strings.TrimSpace(string(r[:excerptLength])) + "…"
}
