package service

import (
	"VideoForge/internal/model"
	"VideoForge/internal/repository"
	"VideoForge/pkg/logger"
	"context"
	"fmt"
	"strings"
)

type RatingService interface {
	// Rate 插入或覆盖(editorID, raterID)的评分，只保留最后一次
	Rate(ctx context.Context, editorID, raterID string, rating int) error
	// Get 返回当前评分，没有评分时ok为false
	Get(ctx context.Context, editorID, raterID string) (int, bool, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	cache      repository.ReportCache
}

func NewRatingService(ratingRepo repository.RatingRepository, cache repository.ReportCache) RatingService {
	if cache == nil {
		cache = repository.NewReportCache(nil)
	}
	return &ratingService{ratingRepo: ratingRepo, cache: cache}
}

// 评分：1、校验id和分值，不合法直接返回不写库 2、upsert 3、剪辑师排行榜缓存失效
func (s *ratingService) Rate(ctx context.Context, editorID, raterID string, rating int) error {
	editorID = strings.TrimSpace(editorID)
	raterID = strings.TrimSpace(raterID)
	if editorID == "" {
		return invalid("editor_id", "不能为空")
	}
	if raterID == "" {
		return invalid("rater_id", "不能为空")
	}
	if rating < model.MinRating || rating > model.MaxRating {
		return invalid("rating", fmt.Sprintf("必须在%d到%d之间", model.MinRating, model.MaxRating))
	}

	if err := s.ratingRepo.Upsert(ctx, &model.EditorRating{
		EditorID: editorID,
		RaterID:  raterID,
		Rating:   rating,
	}); err != nil {
		return err
	}
	invalidate(ctx, s.cache, repository.KeyEditorLeaderboard)
	logger.Log.WithField("editor_id", editorID).
		WithField("rater_id", raterID).
		WithField("rating", rating).
		Info("评分已保存")
	return nil
}

func (s *ratingService) Get(ctx context.Context, editorID, raterID string) (int, bool, error) {
	r, err := s.ratingRepo.Find(ctx, editorID, raterID)
	if err != nil || r == nil {
		return 0, false, err
	}
	return r.Rating, true, nil
}
