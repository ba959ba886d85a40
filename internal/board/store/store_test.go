package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formguard/internal/board/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUsers_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	u, err := s.CreateUser(ctx, "alice", "hashed", false)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.False(t, u.IsAdmin)

	byName, err := s.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byID, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = s.UserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, err := s.CreateUser(ctx, "alice", "hashed", false)
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "alice", "other", false)
	assert.ErrorIs(t, err, store.ErrUsernameTaken)
}

func TestPosts_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	u, err := s.CreateUser(ctx, "alice", "hashed", false)
	require.NoError(t, err)

	p, err := s.CreatePost(ctx, u.ID, "첫 글", "내용입니다")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Author)

	updated, err := s.UpdatePost(ctx, p.ID, "수정된 글", "바뀐 내용")
	require.NoError(t, err)
	assert.Equal(t, "수정된 글", updated.Title)

	require.NoError(t, s.SoftDeletePost(ctx, p.ID))

	_, err = s.PostByID(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Already hidden, a second soft delete reports not found.
	assert.ErrorIs(t, s.SoftDeletePost(ctx, p.ID), store.ErrNotFound)

	// The unfiltered lookup still reaches the hidden row.
	hidden, err := s.AnyPostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, hidden.IsDeleted)
	assert.Equal(t, "수정된 글", hidden.Title)

	// The row is still present for hard deletion.
	require.NoError(t, s.HardDeletePost(ctx, p.ID))
	assert.ErrorIs(t, s.HardDeletePost(ctx, p.ID), store.ErrNotFound)
}

func TestPosts_PaginationProbesNextPage(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	u, err := s.CreateUser(ctx, "alice", "hashed", false)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := s.CreatePost(ctx, u.ID, "글", "내용")
		require.NoError(t, err)
	}

	first, err := s.Posts(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 2)
	assert.True(t, first.HasNext)

	// Newest first.
	assert.Greater(t, first.Posts[0].ID, first.Posts[1].ID)

	last, err := s.Posts(ctx, 4, 2)
	require.NoError(t, err)
	assert.Len(t, last.Posts, 1)
	assert.False(t, last.HasNext)
}

func TestPosts_SoftDeletedHiddenFromListings(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	u, err := s.CreateUser(ctx, "alice", "hashed", false)
	require.NoError(t, err)

	keep, err := s.CreatePost(ctx, u.ID, "남는 글", "내용")
	require.NoError(t, err)
	gone, err := s.CreatePost(ctx, u.ID, "지워질 글", "내용")
	require.NoError(t, err)

	require.NoError(t, s.SoftDeletePost(ctx, gone.ID))

	page, err := s.Posts(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, keep.ID, page.Posts[0].ID)

	byAuthor, err := s.PostsByAuthor(ctx, u.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, byAuthor.Posts, 1)
	assert.Equal(t, keep.ID, byAuthor.Posts[0].ID)

	// The admin listing still sees the soft-deleted row.
	all, err := s.AllPosts(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, all.Posts, 2)
	assert.Equal(t, gone.ID, all.Posts[0].ID)
	assert.True(t, all.Posts[0].IsDeleted)
}
