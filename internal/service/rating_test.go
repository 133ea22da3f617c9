package service

import (
	"VideoForge/internal/model"
	"VideoForge/internal/repository"
	"VideoForge/internal/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRatingService(repository.NewRatingRepository(db), nil)
	ctx := context.Background()

	for r := model.MinRating; r <= model.MaxRating; r++ {
		require.NoError(t, svc.Rate(ctx, "editor", "rater", r))
		got, ok, err := svc.Get(ctx, "editor", "rater")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, r, got)
	}
}

func TestRateRejectsOutOfRange(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRatingService(repository.NewRatingRepository(db), nil)
	ctx := context.Background()

	require.NoError(t, svc.Rate(ctx, "editor", "rater", 4))
	for _, bad := range []int{0, 6, -1, 100} {
		err := svc.Rate(ctx, "editor", "rater", bad)
		require.True(t, IsValidation(err), "rating %d", bad)
	}
	got, _, err := svc.Get(ctx, "editor", "rater")
	require.NoError(t, err)
	require.Equal(t, 4, got)

	require.True(t, IsValidation(svc.Rate(ctx, "", "rater", 3)))
	require.True(t, IsValidation(svc.Rate(ctx, "editor", " ", 3)))
}

func TestRateSameValueKeepsOneRow(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRatingService(repository.NewRatingRepository(db), nil)
	ctx := context.Background()

	require.NoError(t, svc.Rate(ctx, "editor", "rater", 5))
	require.NoError(t, svc.Rate(ctx, "editor", "rater", 5))

	var count int64
	require.NoError(t, db.Model(&model.EditorRating{}).
		Where("editor_id = ? AND rater_id = ?", "editor", "rater").
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGetMissingRating(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRatingService(repository.NewRatingRepository(db), nil)
	_, ok, err := svc.Get(context.Background(), "nobody", "nobody")
	require.NoError(t, err)
	require.False(t, ok)
}
