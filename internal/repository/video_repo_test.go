package repository

import (
	"VideoForge/internal/model"
	"VideoForge/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedVideo(t *testing.T, repo VideoRepository, maker string, status model.Status, createdAt time.Time) *model.VideoRequest {
	t.Helper()
	v := &model.VideoRequest{
		Title:       "title " + maker,
		Description: "desc",
		StorageLink: "https://drive.example.com/f/1",
		Maker:       maker,
		Status:      status,
	}
	v.CreatedAt = createdAt
	require.NoError(t, repo.Create(context.Background(), v))
	return v
}

func TestFindOldestByStatusForUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewVideoRepository(testutil.NewDB(t))
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	newer := seedVideo(t, repo, "b", model.StatusSubmitted, base.Add(time.Hour))
	older := seedVideo(t, repo, "a", model.StatusSubmitted, base)
	seedVideo(t, repo, "c", model.StatusEdited, base.Add(-time.Hour))

	got, err := repo.FindOldestByStatusForUpdate(ctx, model.StatusSubmitted)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, older.ID, got.ID)
	assert.NotEqual(t, newer.ID, got.ID)

	none, err := repo.FindOldestByStatusForUpdate(ctx, model.StatusPublished)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestAssignContributorIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewVideoRepository(testutil.NewDB(t))
	v := seedVideo(t, repo, "maker", model.StatusSubmitted, time.Now())
	tr, err := model.TransitionFor(model.AssetEdited)
	require.NoError(t, err)

	ok, err := repo.AssignContributor(ctx, v.ID, tr, "editor-1", "1/edited/x.mp4")
	require.NoError(t, err)
	assert.True(t, ok)

	// 状态已经不是submitted，第二次不会生效
	ok, err = repo.AssignContributor(ctx, v.ID, tr, "editor-2", "1/edited/y.mp4")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusEdited, got.Status)
	require.NotNil(t, got.Editor)
	require.NotNil(t, got.EditedAssetRef)
	assert.Equal(t, "editor-1", *got.Editor)
	assert.Equal(t, "1/edited/x.mp4", *got.EditedAssetRef)
	assert.Nil(t, got.ThumbnailMaker)
	assert.Nil(t, got.ThumbnailAssetRef)
}

func TestCountByMakerOrdersByCountThenFirstSeen(t *testing.T) {
	ctx := context.Background()
	repo := NewVideoRepository(testutil.NewDB(t))
	now := time.Now()
	// X先出现，Z后出现，二者都是5条；Y是3条
	for i := 0; i < 5; i++ {
		seedVideo(t, repo, "X", model.StatusSubmitted, now)
	}
	for i := 0; i < 3; i++ {
		seedVideo(t, repo, "Y", model.StatusSubmitted, now)
	}
	for i := 0; i < 5; i++ {
		seedVideo(t, repo, "Z", model.StatusSubmitted, now)
	}

	rows, err := repo.CountByMaker(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "X", rows[0].Maker)
	assert.Equal(t, "Z", rows[1].Maker)
	assert.Equal(t, "Y", rows[2].Maker)
	assert.EqualValues(t, 5, rows[0].VideoCount)
	assert.EqualValues(t, 3, rows[2].VideoCount)

	top, err := repo.CountByMaker(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestDeleteHidesFromQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewVideoRepository(testutil.NewDB(t))
	v := seedVideo(t, repo, "m", model.StatusSubmitted, time.Now())

	require.NoError(t, repo.Delete(ctx, v.ID))
	_, err := repo.FindByID(ctx, v.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, v.ID), gorm.ErrRecordNotFound)

	oldest, err := repo.FindOldestByStatusForUpdate(ctx, model.StatusSubmitted)
	require.NoError(t, err)
	assert.Nil(t, oldest)
}

func TestListAndStatusCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewVideoRepository(testutil.NewDB(t))
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	seedVideo(t, repo, "a", model.StatusSubmitted, base)
	seedVideo(t, repo, "a", model.StatusEdited, base.AddDate(0, 1, 0))
	last := seedVideo(t, repo, "b", model.StatusEdited, base.AddDate(0, 2, 0))

	page, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, last.ID, page[0].ID)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	byStatus := map[model.Status]int64{}
	for _, c := range counts {
		byStatus[c.Status] = c.Total
	}
	assert.EqualValues(t, 1, byStatus[model.StatusSubmitted])
	assert.EqualValues(t, 2, byStatus[model.StatusEdited])

	times, err := repo.CreatedTimes(ctx)
	require.NoError(t, err)
	require.Len(t, times, 3)
	assert.True(t, times[0].Before(times[2]))

	recent, err := repo.FindRecentByMaker(ctx, "a", 5)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
