package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateTitle = errors.New("duplicate title")
	ErrNotOwner       = errors.New("caller does not own this blog")
	ErrUserForeignKey = errors.New("author_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// foreignKeyError reports whether err is a violation of the named foreign key
// constraint.
func foreignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503" && pqErr.Constraint == name
	}

	return false
}

// uniqueViolation reports whether err is a violation of the named unique
// constraint.
func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == name
	}

	return false
}

const blogColumns = "id, title, description, author_name, author_id, state, read_count, reading_time, tags, body, created_at"

func scanBlog(row interface{ Scan(...any) error }, blog *Blog) error {
	return row.Scan(&blog.ID, &blog.Title, &blog.Description, &blog.AuthorName, &blog.AuthorID, &blog.State, &blog.ReadCount, &blog.ReadingTime, pq.Array(&blog.Tags), &blog.Body, &blog.CreatedAt)
}

func (m *BlogModel) insert(ctx context.Context, blog *Blog) error {
	query := `
		INSERT INTO blogs (title, description, author_name, author_id, state, reading_time, tags, body)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, read_count, created_at`

	args := []any{
		blog.Title,
		blog.Description,
		blog.AuthorName,
		blog.AuthorID,
		blog.State,
		blog.ReadingTime,
		pq.Array(blog.Tags),
		blog.Body,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.ID, &blog.ReadCount, &blog.CreatedAt)
	if err != nil {
		switch {
		case uniqueViolation(err, "blogs_title_key"):
			return ErrDuplicateTitle
		case foreignKeyError(err, "blogs_author_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

// getByID fetches a blog in any state. Used by owner-gated operations.
func (m *BlogModel) getByID(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE id = $1`

	var blog Blog
	err := scanBlog(m.db.QueryRowContext(ctx, query, id), &blog)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

// getPublishedByID fetches a blog only if it is published; a draft is
// indistinguishable from a missing record.
func (m *BlogModel) getPublishedByID(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE id = $1 AND state = 'published'`

	var blog Blog
	err := scanBlog(m.db.QueryRowContext(ctx, query, id), &blog)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

// updateReadCount persists a read count computed in memory. This is the
// write half of a read-modify-write; concurrent readers of the same blog can
// lose increments (last write wins).
func (m *BlogModel) updateReadCount(ctx context.Context, id, readCount int) error {
	query := `
		UPDATE blogs
		SET read_count = $1
		WHERE id = $2`

	_, err := m.db.ExecContext(ctx, query, readCount, id)
	return err
}

// getPublished returns one page of published blogs matching the filters,
// sorted by sortColumn descending. sortColumn must come from the service's
// whitelist; it is interpolated into the query.
func (m *BlogModel) getPublished(ctx context.Context, f ListFilters, limit, offset int, sortColumn string) ([]Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE state = 'published'`

	var args []any

	if f.Author != "" {
		args = append(args, f.Author)
		query += fmt.Sprintf(" AND author_name = $%d", len(args))
	}
	if f.Title != "" {
		args = append(args, "%"+f.Title+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	if len(f.Tags) > 0 {
		args = append(args, pq.Array(f.Tags))
		query += fmt.Sprintf(" AND tags && $%d", len(args))
	}

	query += fmt.Sprintf(" ORDER BY %s DESC", sortColumn)

	args = append(args, limit, offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var blog Blog
		if err := scanBlog(rows, &blog); err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// getByAuthor returns one page of the author's own blogs in any state,
// optionally narrowed to a single state.
func (m *BlogModel) getByAuthor(ctx context.Context, authorID, limit, offset int, state string) ([]Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE author_id = $1`

	args := []any{authorID}

	if state != "" {
		args = append(args, state)
		query += fmt.Sprintf(" AND state = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	args = append(args, limit, offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var blog Blog
		if err := scanBlog(rows, &blog); err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// update overwrites the mutable fields of a blog. Reading time and read
// count are left untouched.
func (m *BlogModel) update(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, description = $2, tags = $3, body = $4
		WHERE id = $5
		RETURNING ` + blogColumns

	err := scanBlog(m.db.QueryRowContext(ctx, query, blog.Title, blog.Description, pq.Array(blog.Tags), blog.Body, blog.ID), blog)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		case uniqueViolation(err, "blogs_title_key"):
			return ErrDuplicateTitle
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) updateState(ctx context.Context, id int, state BlogState) (*Blog, error) {
	query := `
		UPDATE blogs
		SET state = $1
		WHERE id = $2
		RETURNING ` + blogColumns

	var blog Blog
	err := scanBlog(m.db.QueryRowContext(ctx, query, state, id), &blog)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

func (m *BlogModel) delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}
