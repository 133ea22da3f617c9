package service

import (
	"VideoForge/internal/model"
	"VideoForge/internal/repository"
	"VideoForge/internal/testutil"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memCache 用map模拟Redis，记录读写次数
type memCache struct {
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.sets++
	c.data[key] = raw
	return nil
}

func (c *memCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func seedVideos(t *testing.T, db *gorm.DB, maker string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&model.VideoRequest{
			Title: "t", Description: "d", StorageLink: "https://x", Maker: maker, Status: model.StatusSubmitted,
		}).Error)
	}
}

func newReports(db *gorm.DB, cache repository.ReportCache) ReportService {
	return NewReportService(repository.NewVideoRepository(db), repository.NewRatingRepository(db), cache, 0, 0)
}

func TestLeaderboardOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	seedVideos(t, db, "X", 5)
	seedVideos(t, db, "Y", 3)
	seedVideos(t, db, "Z", 5)

	rows, err := newReports(db, nil).Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.ElementsMatch(t, []string{"X", "Z"}, []string{rows[0].Maker, rows[1].Maker})
	require.Equal(t, "Y", rows[2].Maker)
	require.EqualValues(t, 3, rows[2].VideoCount)
}

func TestLeaderboardLimitAndCache(t *testing.T) {
	db := testutil.NewDB(t)
	for i, maker := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		seedVideos(t, db, maker, 12-i)
	}
	cache := newMemCache()
	reports := newReports(db, cache)
	ctx := context.Background()

	top3, err := reports.Leaderboard(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top3, 3)
	require.Equal(t, "a", top3[0].Maker)

	all, err := reports.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 10)
	require.Equal(t, 1, cache.sets, "second call should be served from cache")

	tooMany, err := reports.Leaderboard(ctx, 50)
	require.NoError(t, err)
	require.Len(t, tooMany, 10)
}

func TestSubmitInvalidatesLeaderboardCache(t *testing.T) {
	f := newFixture(t)
	cache := newMemCache()
	videoRepo := f.videoRepo
	f.videos = NewVideoService(videoRepo, nil, cache, nil, Channels{})
	reports := newReports(f.db, cache)
	ctx := context.Background()

	f.submit(t, "first", "solo")
	rows, err := reports.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows[0].VideoCount)

	f.submit(t, "second", "solo")
	rows, err = reports.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, rows[0].VideoCount)
}

func TestEditorLeaderboard(t *testing.T) {
	db := testutil.NewDB(t)
	ratings := NewRatingService(repository.NewRatingRepository(db), nil)
	ctx := context.Background()
	require.NoError(t, ratings.Rate(ctx, "ed-a", "r1", 4))
	require.NoError(t, ratings.Rate(ctx, "ed-a", "r2", 4))
	require.NoError(t, ratings.Rate(ctx, "ed-b", "r1", 4))
	require.NoError(t, ratings.Rate(ctx, "ed-c", "r1", 5))

	rows, err := newReports(db, nil).EditorLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "ed-c", rows[0].EditorID)
	require.Equal(t, "ed-a", rows[1].EditorID)
	require.EqualValues(t, 2, rows[1].TotalRatings)
	require.Equal(t, "ed-b", rows[2].EditorID)
}

func TestMonthlySubmissions(t *testing.T) {
	db := testutil.NewDB(t)
	seedVideos(t, db, "m", 3)
	months := []time.Time{
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	}
	for i, ts := range months {
		require.NoError(t, db.Model(&model.VideoRequest{}).Where("id = ?", i+1).Update("created_at", ts).Error)
	}

	rows, err := newReports(db, nil).MonthlySubmissions(context.Background())
	require.NoError(t, err)
	require.Equal(t, []MonthCount{{Month: "2024-01", Total: 2}, {Month: "2024-03", Total: 1}}, rows)
}

func TestBucketByMonth(t *testing.T) {
	require.Empty(t, BucketByMonth(nil))
	rows := BucketByMonth([]time.Time{
		time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, []MonthCount{{"2023-12", 1}, {"2024-01", 2}}, rows)
}

func TestStatusDistributionAndRecent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submit(t, "a", "maker")
	f.submit(t, "b", "maker")
	f.submit(t, "c", "other")
	f.attach(t, editorChannel, "e")

	reports := newReports(f.db, nil)
	dist, err := reports.StatusDistribution(ctx)
	require.NoError(t, err)
	counts := map[model.Status]int64{}
	for _, row := range dist {
		counts[row.Status] = row.Total
	}
	require.Equal(t, map[model.Status]int64{model.StatusSubmitted: 2, model.StatusEdited: 1}, counts)

	recent, err := reports.RecentByMaker(ctx, "maker", 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "b", recent[0].Title)
}
