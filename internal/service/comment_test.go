package service

import (
	"VideoForge/internal/model"
	"VideoForge/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommentCreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := NewUserService(repository.NewUserRepository(f.db), testSecret)
	author, err := users.Register(ctx, "erin", "password1")
	require.NoError(t, err)
	v := f.submit(t, "t", "m")

	comments := NewCommentService(repository.NewCommentRepository(f.db), f.videoRepo)
	first, err := comments.Create(ctx, author.ID, v.ID, " nice cut ")
	require.NoError(t, err)
	require.Equal(t, "nice cut", first.Content)
	require.Equal(t, "erin", first.User.Username)

	_, err = comments.Create(ctx, author.ID, v.ID, "second")
	require.NoError(t, err)

	list, err := comments.List(ctx, v.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "second", list[0].Content)
}

func TestCommentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	comments := NewCommentService(repository.NewCommentRepository(f.db), f.videoRepo)

	_, err := comments.Create(ctx, 1, 999, "hello")
	require.ErrorIs(t, err, ErrVideoNotFound)

	v := f.submit(t, "t", "m")
	_, err = comments.Create(ctx, 1, v.ID, "   ")
	require.True(t, IsValidation(err))

	_, err = comments.List(ctx, 999, 1, 10)
	require.ErrorIs(t, err, ErrVideoNotFound)

	var count int64
	require.NoError(t, f.db.Model(&model.Comment{}).Count(&count).Error)
	require.Zero(t, count)
}
