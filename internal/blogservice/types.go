package blogservice

import (
	"database/sql"
	"time"

	"github.com/oluseyi-dev/chapterpress/internal/common"
)

type BlogState string

const (
	StateDraft     BlogState = "draft"
	StatePublished BlogState = "published"
)

type Blog struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorName  string    `json:"author"`
	AuthorID    int       `json:"authorId"`
	State       BlogState `json:"state"`
	ReadCount   int       `json:"readCount"`
	// ReadingTime is computed once at creation and never recomputed, even
	// when the body is edited afterwards.
	ReadingTime int       `json:"readingTime"`
	Tags        []string  `json:"tags"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListFilters narrows the public listing. Author is an exact match on the
// denormalized author name, Title a case-insensitive substring match, and
// Tags an any-of match.
type ListFilters struct {
	Author string
	Title  string
	Tags   []string
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m       *BlogModel
	c       *common.Cache
	metrics *common.Metrics
}
