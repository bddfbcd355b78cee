package blogservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/oluseyi-dev/chapterpress/internal/common"
)

const (
	defaultListLimit   = 20
	defaultAuthorLimit = 10

	// listCacheTTL bounds how stale a cached listing page may be. Mutations
	// do not invalidate cache entries; readers see at most this much lag.
	listCacheTTL = 10 * time.Minute
)

func NewBlogService(db *sql.DB, cache *common.Cache, metrics *common.Metrics) *BlogService {
	return &BlogService{m: newBlogModel(db), c: cache, metrics: metrics}
}

type CreateBlogRequest struct {
	Title       string
	Description string
	Tags        []string
	Body        string
	AuthorID    int
	AuthorName  string
}

type UpdateBlogRequest struct {
	Title       string
	Description string
	Tags        []string
	Body        string
}

// CreateDraft stores a new blog in the draft state. The reading time is
// computed here, once, from the body word count.
func (s *BlogService) CreateDraft(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateBody(v, req.Body)
	validateInt(v, req.AuthorID, "author_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	blog := &Blog{
		Title:       req.Title,
		Description: req.Description,
		AuthorName:  req.AuthorName,
		AuthorID:    req.AuthorID,
		State:       StateDraft,
		ReadingTime: readingTime(req.Body),
		Tags:        tags,
		Body:        sanitizeBody(req.Body),
	}

	if err := s.m.insert(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

// GetPublished returns a published blog by id and counts the read. A draft
// yields ErrRecordNotFound, the same as a missing record. The increment is a
// read-modify-write and is persisted before the blog is returned.
func (s *BlogService) GetPublished(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.m.getPublishedByID(ctx, id)
	if err != nil {
		return nil, err
	}

	blog.ReadCount++
	if err := s.m.updateReadCount(ctx, blog.ID, blog.ReadCount); err != nil {
		return nil, err
	}

	s.metrics.RecordBlogRead()

	return blog, nil
}

// sortColumn maps the public sort name onto a column. Anything unrecognized
// falls back to created_at rather than erroring.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "readCount":
		return "read_count"
	case "readingTime":
		return "reading_time"
	default:
		return "created_at"
	}
}

// ListPublished returns one page of published blogs, consulting the cache
// before the database. A fresh page is cached for listCacheTTL; within that
// window the page is served as-is even if the underlying data has changed.
func (s *BlogService) ListPublished(ctx context.Context, f ListFilters, page, limit int, sortBy string) ([]Blog, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultListLimit
	}

	sort := sortColumn(sortBy)

	key := common.CacheKeyPublishedBlogs(page, limit, f.Author, f.Title, f.Tags, sort)
	if cached, ok := s.c.Get(key); ok {
		s.metrics.RecordCacheHit()
		return cached.([]Blog), nil
	}
	s.metrics.RecordCacheMiss()

	blogs, err := s.m.getPublished(ctx, f, limit, (page-1)*limit, sort)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, blogs, listCacheTTL)

	return blogs, nil
}

// UpdateBlog overwrites title, description, tags, and body with the request
// values. There is no partial-merge: a zero-valued field overwrites the
// stored one. Only the owning author may update; cached listings are not
// invalidated and age out on their own.
func (s *BlogService) UpdateBlog(ctx context.Context, callerID, id int, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, callerID, "caller_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.AuthorID != callerID {
		return nil, ErrNotOwner
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	blog.Title = req.Title
	blog.Description = req.Description
	blog.Tags = tags
	blog.Body = sanitizeBody(req.Body)

	if err := s.m.update(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

// DeleteBlog removes a blog permanently. Only the owning author may delete.
func (s *BlogService) DeleteBlog(ctx context.Context, callerID, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, callerID, "caller_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	blog, err := s.m.getByID(ctx, id)
	if err != nil {
		return err
	}

	if blog.AuthorID != callerID {
		return ErrNotOwner
	}

	return s.m.delete(ctx, id)
}

// UpdateState moves a blog between draft and published. Any other state is
// rejected with a validation error.
func (s *BlogService) UpdateState(ctx context.Context, callerID, id int, state BlogState) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, callerID, "caller_id")
	validateState(v, state)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.AuthorID != callerID {
		return nil, ErrNotOwner
	}

	return s.m.updateState(ctx, id, state)
}

// ListByAuthor returns one page of the caller's own blogs in any state,
// optionally filtered to a single state. Drafts are visible here and nowhere
// else.
func (s *BlogService) ListByAuthor(ctx context.Context, authorID, page, limit int, state string) ([]Blog, error) {
	v := common.NewValidator()
	validateInt(v, authorID, "author_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultAuthorLimit
	}

	return s.m.getByAuthor(ctx, authorID, limit, (page-1)*limit, state)
}
