package repository

import (
	"context"
	"testing"

	"github.com/Dan9191/message-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Users(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	first := &models.User{Email: "dup@b.com", Token: "t1"}
	second := &models.User{Email: "dup@b.com", Token: "t2"}
	require.NoError(t, repo.CreateUser(ctx, first))
	require.NoError(t, repo.CreateUser(ctx, second))
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	got, err := repo.FindUserByEmail(ctx, "dup@b.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID, "duplicate emails resolve to the lowest id")

	_, err = repo.FindUserByEmail(ctx, "nobody@b.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetUserByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	users, total, err := repo.ListUsers(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, users, 1)
	assert.Equal(t, int64(2), users[0].ID)

	users, _, err = repo.ListUsers(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestMemoryRepository_MessagesScopedByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	mine := &models.Message{Title: "Shopping", Body: "Milk and bread", UserID: 1}
	theirs := &models.Message{Title: "Secret", Body: "plans", UserID: 2}
	require.NoError(t, repo.CreateMessage(ctx, mine))
	require.NoError(t, repo.CreateMessage(ctx, theirs))

	owner := MessageFilter{UserID: 1}

	msgs, total, err := repo.ListMessages(ctx, owner, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, msgs, 1)
	assert.Equal(t, mine.ID, msgs[0].ID)

	_, err = repo.GetMessage(ctx, owner, theirs.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.UpdateMessage(ctx, owner, &models.Message{ID: theirs.ID, Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.DeleteMessage(ctx, owner, theirs.ID), ErrNotFound)

	updated := &models.Message{ID: mine.ID, Title: "Errands", Body: "post office"}
	require.NoError(t, repo.UpdateMessage(ctx, owner, updated))
	assert.Equal(t, int64(1), updated.UserID)
	assert.Equal(t, mine.CreatedAt, updated.CreatedAt)

	require.NoError(t, repo.DeleteMessage(ctx, owner, mine.ID))
	_, err = repo.GetMessage(ctx, owner, mine.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	still, err := repo.GetMessage(ctx, MessageFilter{UserID: 2}, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, "Secret", still.Title)
}

func TestMemoryRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, m := range []models.Message{
		{Title: "Groceries", Body: "milk, eggs", UserID: 1},
		{Title: "Work", Body: "buy MILK for the office", UserID: 1},
		{Title: "Trip", Body: "pack bags", UserID: 1},
	} {
		m := m
		require.NoError(t, repo.CreateMessage(ctx, &m))
	}

	tests := []struct {
		search string
		want   int
	}{
		{"milk", 2},
		{"milk office", 1},
		{"milk,eggs", 1},
		{"GROC", 1},
		{"nothing", 0},
		{"", 3},
	}
	for _, tc := range tests {
		t.Run(tc.search, func(t *testing.T) {
			_, total, err := repo.ListMessages(ctx, MessageFilter{UserID: 1, Search: tc.search}, 50, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, total)
		})
	}
}
