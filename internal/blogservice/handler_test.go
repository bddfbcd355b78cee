package blogservice

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oluseyi-dev/chapterpress/internal/common"
)

// setupTestUser inserts a user the blogs under test can belong to.
func setupTestUser(t *testing.T, db *sql.DB, email string) int {
	t.Helper()

	query := `
		INSERT INTO users (email, first_name, last_name, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int
	err := db.QueryRow(query, email, "Test", "Author", []byte("not-a-real-hash")).Scan(&id)
	require.NoError(t, err)

	return id
}

func setupTestEnvironment(t *testing.T) (*BlogService, *sql.DB, *common.Cache, int) {
	t.Helper()

	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	metrics := common.NewMetrics(prometheus.NewRegistry())

	authorID := setupTestUser(t, db, "author@example.com")

	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM blogs")
		cache.Flush()
	})

	return NewBlogService(db, cache, metrics), db, cache, authorID
}

func createTestDraft(t *testing.T, s *BlogService, authorID int, title string) *Blog {
	t.Helper()

	blog, err := s.CreateDraft(context.Background(), &CreateBlogRequest{
		Title:       title,
		Description: "a description",
		Tags:        []string{"go", "testing"},
		Body:        "some words in a body",
		AuthorID:    authorID,
		AuthorName:  "Test Author",
	})
	require.NoError(t, err)

	return blog
}

func publishTestBlog(t *testing.T, s *BlogService, authorID, id int) *Blog {
	t.Helper()

	blog, err := s.UpdateState(context.Background(), authorID, id, StatePublished)
	require.NoError(t, err)

	return blog
}

func TestCreateDraft(t *testing.T) {
	s, _, _, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	testCases := []struct {
		name        string
		req         *CreateBlogRequest
		expectedErr error
	}{
		{
			name: "valid draft",
			req: &CreateBlogRequest{
				Title:      "My First Blog",
				Body:       strings.Repeat("word ", 450),
				AuthorID:   authorID,
				AuthorName: "Test Author",
			},
		},
		{
			name: "empty title",
			req: &CreateBlogRequest{
				Title:      "",
				Body:       "body",
				AuthorID:   authorID,
				AuthorName: "Test Author",
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
		{
			name: "empty body",
			req: &CreateBlogRequest{
				Title:      "No Body",
				Body:       "",
				AuthorID:   authorID,
				AuthorName: "Test Author",
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"body": "must be provided"}},
		},
		{
			name: "duplicate title",
			req: &CreateBlogRequest{
				Title:      "My First Blog",
				Body:       "body",
				AuthorID:   authorID,
				AuthorName: "Test Author",
			},
			expectedErr: ErrDuplicateTitle,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blog, err := s.CreateDraft(ctx, tc.req)
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, StateDraft, blog.State)
			assert.Equal(t, 0, blog.ReadCount)
			// 450 words at 200 wpm rounds up to 3 minutes.
			assert.Equal(t, 3, blog.ReadingTime)
			assert.NotZero(t, blog.ID)
			assert.False(t, blog.CreatedAt.IsZero())
		})
	}
}

func TestGetPublished(t *testing.T) {
	s, _, _, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	draft := createTestDraft(t, s, authorID, "Hidden Draft")

	// A draft is not visible by id, no matter who asks.
	_, err := s.GetPublished(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = s.GetPublished(ctx, 999999)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	publishTestBlog(t, s, authorID, draft.ID)

	// Sequential fetches count every read.
	for want := 1; want <= 3; want++ {
		blog, err := s.GetPublished(ctx, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, want, blog.ReadCount)
	}
}

func TestListPublished(t *testing.T) {
	s, _, _, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	otherID := setupTestUser(t, s.m.db, "other@example.com")

	first := createTestDraft(t, s, authorID, "Go Concurrency Patterns")
	second := createTestDraft(t, s, authorID, "Testing in Go")

	other, err := s.CreateDraft(ctx, &CreateBlogRequest{
		Title:      "Cooking for Gophers",
		Tags:       []string{"food"},
		Body:       "body",
		AuthorID:   otherID,
		AuthorName: "Other Author",
	})
	require.NoError(t, err)

	publishTestBlog(t, s, authorID, first.ID)
	publishTestBlog(t, s, authorID, second.ID)
	publishTestBlog(t, s, otherID, other.ID)

	// Drafts stay invisible to the listing.
	createTestDraft(t, s, authorID, "Unpublished Draft")

	testCases := []struct {
		name     string
		filters  ListFilters
		expected []string
	}{
		{
			name:     "no filters",
			expected: []string{"Go Concurrency Patterns", "Testing in Go", "Cooking for Gophers"},
		},
		{
			name:     "author filter",
			filters:  ListFilters{Author: "Other Author"},
			expected: []string{"Cooking for Gophers"},
		},
		{
			name:     "title substring is case-insensitive",
			filters:  ListFilters{Title: "go"},
			expected: []string{"Go Concurrency Patterns", "Testing in Go", "Cooking for Gophers"},
		},
		{
			name:     "tags any-of",
			filters:  ListFilters{Tags: []string{"food", "missing"}},
			expected: []string{"Cooking for Gophers"},
		},
		{
			name:     "no match",
			filters:  ListFilters{Author: "Nobody"},
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blogs, err := s.ListPublished(ctx, tc.filters, 1, 20, "")
			require.NoError(t, err)

			titles := make([]string, 0, len(blogs))
			for _, b := range blogs {
				titles = append(titles, b.Title)
			}
			assert.ElementsMatch(t, tc.expected, titles)
		})
	}
}

func TestListPublishedSort(t *testing.T) {
	s, _, cache, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	a := createTestDraft(t, s, authorID, "Alpha")
	b, err := s.CreateDraft(ctx, &CreateBlogRequest{
		Title:      "Beta",
		Body:       strings.Repeat("word ", 2000),
		AuthorID:   authorID,
		AuthorName: "Test Author",
	})
	require.NoError(t, err)

	publishTestBlog(t, s, authorID, a.ID)
	publishTestBlog(t, s, authorID, b.ID)

	// Give Alpha the higher read count.
	_, err = s.GetPublished(ctx, a.ID)
	require.NoError(t, err)

	byReads, err := s.ListPublished(ctx, ListFilters{}, 1, 20, "readCount")
	require.NoError(t, err)
	require.Len(t, byReads, 2)
	assert.Equal(t, "Alpha", byReads[0].Title)

	byReadingTime, err := s.ListPublished(ctx, ListFilters{}, 1, 20, "readingTime")
	require.NoError(t, err)
	require.Len(t, byReadingTime, 2)
	assert.Equal(t, "Beta", byReadingTime[0].Title)

	// An unrecognized sort silently falls back to the default, and shares
	// the default's cache entry because the key is normalized.
	cache.Flush()
	byDefault, err := s.ListPublished(ctx, ListFilters{}, 1, 20, "createdAt")
	require.NoError(t, err)

	byBogus, err := s.ListPublished(ctx, ListFilters{}, 1, 20, "bogus")
	require.NoError(t, err)
	assert.Equal(t, byDefault, byBogus)
}

func TestListPublishedCache(t *testing.T) {
	s, _, cache, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	blog := createTestDraft(t, s, authorID, "Cached Blog")
	publishTestBlog(t, s, authorID, blog.ID)

	first, err := s.ListPublished(ctx, ListFilters{}, 1, 20, "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Delete the blog underneath the cache. Within the freshness window the
	// listing still serves the stale page.
	require.NoError(t, s.DeleteBlog(ctx, authorID, blog.ID))

	stale, err := s.ListPublished(ctx, ListFilters{}, 1, 20, "")
	require.NoError(t, err)
	assert.Equal(t, first, stale)

	// Once the entry is gone the next call sees the real state.
	cache.Flush()

	fresh, err := s.ListPublished(ctx, ListFilters{}, 1, 20, "")
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestUpdateBlog(t *testing.T) {
	s, _, _, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	strangerID := setupTestUser(t, s.m.db, "stranger@example.com")

	blog := createTestDraft(t, s, authorID, "Original Title")
	originalReadingTime := blog.ReadingTime

	// A non-owner can never update, and the stored blog is untouched.
	_, err := s.UpdateBlog(ctx, strangerID, blog.ID, &UpdateBlogRequest{Title: "Hijacked"})
	assert.ErrorIs(t, err, ErrNotOwner)

	unchanged, err := s.m.getByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original Title", unchanged.Title)

	// The owner's update overwrites every mutable field, including absent
	// ones, and never recomputes the reading time.
	updated, err := s.UpdateBlog(ctx, authorID, blog.ID, &UpdateBlogRequest{
		Title: "New Title",
		Body:  strings.Repeat("word ", 5000),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "", updated.Description)
	assert.Empty(t, updated.Tags)
	assert.Equal(t, originalReadingTime, updated.ReadingTime)

	_, err = s.UpdateBlog(ctx, authorID, 999999, &UpdateBlogRequest{Title: "Ghost"})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteBlog(t *testing.T) {
	s, _, _, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	strangerID := setupTestUser(t, s.m.db, "stranger2@example.com")

	blog := createTestDraft(t, s, authorID, "Keep Me Around")

	err := s.DeleteBlog(ctx, strangerID, blog.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	// Still retrievable by its owner after the failed delete.
	kept, err := s.m.getByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, blog.ID, kept.ID)

	require.NoError(t, s.DeleteBlog(ctx, authorID, blog.ID))

	err = s.DeleteBlog(ctx, authorID, blog.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpdateState(t *testing.T) {
	s, _, _, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	strangerID := setupTestUser(t, s.m.db, "stranger3@example.com")

	blog := createTestDraft(t, s, authorID, "Lifecycle Blog")

	_, err := s.UpdateState(ctx, authorID, blog.ID, BlogState("archived"))
	assert.Equal(t, common.ValidationError{Errors: map[string]string{"state": "must be either draft or published"}}, err)

	_, err = s.UpdateState(ctx, strangerID, blog.ID, StatePublished)
	assert.ErrorIs(t, err, ErrNotOwner)

	published, err := s.UpdateState(ctx, authorID, blog.ID, StatePublished)
	require.NoError(t, err)
	assert.Equal(t, StatePublished, published.State)

	back, err := s.UpdateState(ctx, authorID, blog.ID, StateDraft)
	require.NoError(t, err)
	assert.Equal(t, StateDraft, back.State)
}

func TestListByAuthor(t *testing.T) {
	s, _, _, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	draft := createTestDraft(t, s, authorID, "Author Draft")
	published := createTestDraft(t, s, authorID, "Author Published")
	publishTestBlog(t, s, authorID, published.ID)

	all, err := s.ListByAuthor(ctx, authorID, 1, 10, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	drafts, err := s.ListByAuthor(ctx, authorID, 1, 10, "draft")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)
}
