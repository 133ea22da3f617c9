package service

import (
	"VideoForge/internal/model"
	"VideoForge/internal/repository"
	"VideoForge/pkg/logger"
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// 排行榜固定缓存前10名，请求更少时在内存里截断
	topN            = 10
	defaultRecentN  = 5
	DefaultBoardTTL = 300 * time.Second
	DefaultStatsTTL = 3600 * time.Second
)

// MonthCount 按创建月份统计的投稿数，Month格式为YYYY-MM
type MonthCount struct {
	Month string `json:"month"`
	Total int64  `json:"total"`
}

type ReportService interface {
	Leaderboard(ctx context.Context, limit int) ([]repository.MakerCount, error)
	EditorLeaderboard(ctx context.Context, limit int) ([]repository.EditorScore, error)
	MonthlySubmissions(ctx context.Context) ([]MonthCount, error)
	StatusDistribution(ctx context.Context) ([]repository.StatusCount, error)
	RecentByMaker(ctx context.Context, maker string, limit int) ([]model.VideoRequest, error)
}

type reportService struct {
	sf singleflight.Group

	videoRepo  repository.VideoRepository
	ratingRepo repository.RatingRepository
	cache      repository.ReportCache
	boardTTL   time.Duration
	statsTTL   time.Duration
}

func NewReportService(videoRepo repository.VideoRepository, ratingRepo repository.RatingRepository,
	cache repository.ReportCache, boardTTL, statsTTL time.Duration) ReportService {
	if cache == nil {
		cache = repository.NewReportCache(nil)
	}
	if boardTTL <= 0 {
		boardTTL = DefaultBoardTTL
	}
	if statsTTL <= 0 {
		statsTTL = DefaultStatsTTL
	}
	return &reportService{
		videoRepo:  videoRepo,
		ratingRepo: ratingRepo,
		cache:      cache,
		boardTTL:   boardTTL,
		statsTTL:   statsTTL,
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > topN {
		return topN
	}
	return limit
}

func (s *reportService) Leaderboard(ctx context.Context, limit int) ([]repository.MakerCount, error) {
	rows, err := cached(ctx, s, repository.KeyLeaderboard, s.boardTTL, func() ([]repository.MakerCount, error) {
		return s.videoRepo.CountByMaker(ctx, topN)
	})
	if err != nil {
		return nil, err
	}
	if n := normalizeLimit(limit); len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

func (s *reportService) EditorLeaderboard(ctx context.Context, limit int) ([]repository.EditorScore, error) {
	rows, err := cached(ctx, s, repository.KeyEditorLeaderboard, s.boardTTL, func() ([]repository.EditorScore, error) {
		return s.ratingRepo.TopEditors(ctx, topN)
	})
	if err != nil {
		return nil, err
	}
	if n := normalizeLimit(limit); len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

// 月份分桶在Go里完成，按时间正序
func (s *reportService) MonthlySubmissions(ctx context.Context) ([]MonthCount, error) {
	return cached(ctx, s, repository.KeyMonthly, s.statsTTL, func() ([]MonthCount, error) {
		times, err := s.videoRepo.CreatedTimes(ctx)
		if err != nil {
			return nil, err
		}
		return BucketByMonth(times), nil
	})
}

func (s *reportService) StatusDistribution(ctx context.Context) ([]repository.StatusCount, error) {
	return cached(ctx, s, repository.KeyStatus, s.statsTTL, func() ([]repository.StatusCount, error) {
		return s.videoRepo.CountByStatus(ctx)
	})
}

// 某个投稿人最近的投稿，不缓存
func (s *reportService) RecentByMaker(ctx context.Context, maker string, limit int) ([]model.VideoRequest, error) {
	if limit <= 0 || limit > maxPerPage {
		limit = defaultRecentN
	}
	return s.videoRepo.FindRecentByMaker(ctx, maker, limit)
}

// BucketByMonth 输入需要已按时间排序
func BucketByMonth(times []time.Time) []MonthCount {
	out := make([]MonthCount, 0)
	for _, t := range times {
		month := t.UTC().Format("2006-01")
		if n := len(out); n > 0 && out[n-1].Month == month {
			out[n-1].Total++
			continue
		}
		out = append(out, MonthCount{Month: month, Total: 1})
	}
	return out
}

// 先查缓存；未命中时通过SingleFlight查库，同一时间同一个key只查一次，查完写回缓存
// Redis出错时降级为直接查库
func cached[T any](ctx context.Context, s *reportService, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	logCtx := logger.Log.WithField("cache_key", key)

	var hit T
	ok, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		logCtx.WithError(err).Warn("读取报表缓存失败")
	} else if ok {
		return hit, nil
	}

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, v, ttl); err != nil {
			logCtx.WithError(err).Warn("写入报表缓存失败")
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	// singleflight返回的是interface{}，需要断言
	return result.(T), nil
}
