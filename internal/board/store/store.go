// Package store persists board users and posts in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrUsernameTaken = errors.New("store: username taken")
)

// User is a registered account.
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Password  string    `db:"password"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
}

// Post is a board entry. Deleted posts stay in the table with IsDeleted set
// and disappear from listings and lookups.
type Post struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	AuthorID  int64     `db:"author_id"`
	Author    string    `db:"author"`
	IsDeleted bool      `db:"is_deleted"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Page is one listing page. HasNext reports whether another page exists past
// this one.
type Page struct {
	Posts   []Post
	HasNext bool
}

// Store wraps the SQLite connection.
type Store struct {
	db *sqlx.DB
}

// Open opens the database, verifies the connection, and runs pending
// migrations.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dsn+"?_foreign_keys=on&_loc=UTC")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new account. The password must already be hashed.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) (*User, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password, is_admin) VALUES (?, ?, ?)`,
		username, passwordHash, isAdmin)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("store: create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: create user id: %w", err)
	}
	return s.UserByID(ctx, id)
}

// UserByUsername looks a user up by name.
func (s *Store) UserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: user by username: %w", err)
	}
	return &u, nil
}

// UserByID looks a user up by primary key.
func (s *Store) UserByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: user by id: %w", err)
	}
	return &u, nil
}

// CreatePost inserts a new post for the given author.
func (s *Store) CreatePost(ctx context.Context, authorID int64, title, content string) (*Post, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (title, content, author_id) VALUES (?, ?, ?)`,
		title, content, authorID)
	if err != nil {
		return nil, fmt.Errorf("store: create post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: create post id: %w", err)
	}
	return s.PostByID(ctx, id)
}

const postColumns = `
	p.id, p.title, p.content, p.author_id, p.is_deleted,
	p.created_at, p.updated_at, u.username AS author`

// PostByID returns a live post. Soft-deleted posts report ErrNotFound.
func (s *Store) PostByID(ctx context.Context, id int64) (*Post, error) {
	var p Post
	err := s.db.GetContext(ctx, &p, `
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = ? AND p.is_deleted = 0`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: post by id: %w", err)
	}
	return &p, nil
}

// AnyPostByID returns a post regardless of soft deletion. Used by the admin
// detail view, which can still open rows hidden from everyone else.
func (s *Store) AnyPostByID(ctx context.Context, id int64) (*Post, error) {
	var p Post
	err := s.db.GetContext(ctx, &p, `
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: any post by id: %w", err)
	}
	return &p, nil
}

// Posts lists live posts newest-first. It fetches one row past the page size
// to learn whether a next page exists without a second count query.
func (s *Store) Posts(ctx context.Context, offset, limit int) (*Page, error) {
	if limit <= 0 {
		limit = 10
	}
	var posts []Post
	err := s.db.SelectContext(ctx, &posts, `
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.is_deleted = 0
		ORDER BY p.id DESC
		LIMIT ? OFFSET ?`, limit+1, offset)
	if err != nil {
		return nil, fmt.Errorf("store: list posts: %w", err)
	}
	page := &Page{Posts: posts}
	if len(posts) > limit {
		page.Posts = posts[:limit]
		page.HasNext = true
	}
	return page, nil
}

// AllPosts lists posts newest-first including soft-deleted rows. Used by the
// admin listing.
func (s *Store) AllPosts(ctx context.Context, offset, limit int) (*Page, error) {
	if limit <= 0 {
		limit = 10
	}
	var posts []Post
	err := s.db.SelectContext(ctx, &posts, `
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		ORDER BY p.id DESC
		LIMIT ? OFFSET ?`, limit+1, offset)
	if err != nil {
		return nil, fmt.Errorf("store: list all posts: %w", err)
	}
	page := &Page{Posts: posts}
	if len(posts) > limit {
		page.Posts = posts[:limit]
		page.HasNext = true
	}
	return page, nil
}

// PostsByAuthor lists an author's live posts newest-first.
func (s *Store) PostsByAuthor(ctx context.Context, authorID int64, offset, limit int) (*Page, error) {
	if limit <= 0 {
		limit = 10
	}
	var posts []Post
	err := s.db.SelectContext(ctx, &posts, `
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.is_deleted = 0 AND p.author_id = ?
		ORDER BY p.id DESC
		LIMIT ? OFFSET ?`, authorID, limit+1, offset)
	if err != nil {
		return nil, fmt.Errorf("store: list posts by author: %w", err)
	}
	page := &Page{Posts: posts}
	if len(posts) > limit {
		page.Posts = posts[:limit]
		page.HasNext = true
	}
	return page, nil
}

// UpdatePost rewrites a live post's title and content.
func (s *Store) UpdatePost(ctx context.Context, id int64, title, content string) (*Post, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET title = ?, content = ?, updated_at = datetime('now')
		WHERE id = ? AND is_deleted = 0`, title, content, id)
	if err != nil {
		return nil, fmt.Errorf("store: update post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.PostByID(ctx, id)
}

// SoftDeletePost hides a post from listings and lookups without dropping the
// row.
func (s *Store) SoftDeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET is_deleted = 1, updated_at = datetime('now')
		WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("store: soft delete post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// HardDeletePost removes the row entirely, including soft-deleted posts.
func (s *Store) HardDeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: hard delete post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	// Matching the message keeps the driver error type out of the public
	// surface.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
