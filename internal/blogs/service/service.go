package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "dentalave/pkg/errors"
	"dentalave/pkg/logger"
	"dentalave/pkg/model"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

type Repository interface {
	Create(ctx context.Context, blog *model.Blog) (*model.Blog, error)
	FindAll(ctx context.Context) ([]model.Blog, error)
	FindByID(ctx context.Context, id int64) (*model.Blog, error)
	FindBySlug(ctx context.Context, slug string) (*model.Blog, error)
	Update(ctx context.Context, blog *model.Blog) (*model.Blog, error)
	Delete(ctx context.Context, id int64) error
}

type BlogService struct {
	repository Repository
	validate   *validator.Validate
	log        *logger.Logger
}

func NewBlogService(repository Repository, log *logger.Logger) *BlogService {
	return &BlogService{
		repository: repository,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		log:        log,
	}
}

func (s *BlogService) Create(ctx context.Context, input *model.BlogInput) (*model.Blog, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.Validation("Invalid blog post", fieldErrors(err))
	}

	blog := blogFromInput(input)
	blog.CreatedAt = time.Now().UTC()

	created, err := s.repository.Create(ctx, blog)
	if err != nil {
		return nil, err
	}

	s.log.Info("Blog post created", "blog_id", created.ID, "slug", created.Slug)
	return created, nil
}

func (s *BlogService) List(ctx context.Context) ([]model.Blog, error) {
	return s.repository.FindAll(ctx)
}

func (s *BlogService) GetByID(ctx context.Context, id int64) (*model.Blog, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	return s.repository.FindBySlug(ctx, slug)
}

func (s *BlogService) Update(ctx context.Context, id int64, input *model.BlogInput) (*model.Blog, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.Validation("Invalid blog post", fieldErrors(err))
	}

	existing, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := blogFromInput(input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	return s.repository.Update(ctx, updated)
}

func (s *BlogService) Delete(ctx context.Context, id int64) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Blog post deleted", "blog_id", id)
	return nil
}

func blogFromInput(input *model.BlogInput) *model.Blog {
	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Title)
	}

	return &model.Blog{
		Title:           input.Title,
		Slug:            slug,
		Excerpt:         input.Excerpt,
		Content:         input.Content,
		ImageURL:        input.ImageURL,
		MetaTitle:       input.MetaTitle,
		MetaDescription: input.MetaDescription,
	}
}

// Slugify lowercases the title, collapses every non-alphanumeric run into a
// hyphen, and trims leading and trailing hyphens.
func Slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

func fieldErrors(err error) map[string]any {
	details := make(map[string]any)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			name := fe.Field()
			details[strings.ToLower(name[:1])+name[1:]] = "failed " + fe.Tag() + " validation"
		}
	}
	return details
}
