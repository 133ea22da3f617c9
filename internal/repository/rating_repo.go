package repository

import (
	"VideoForge/internal/model"
	"VideoForge/pkg/logger"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EditorScore 剪辑师排行榜的一行
type EditorScore struct {
	EditorID     string  `json:"editor_id"`
	AvgRating    float64 `json:"avg_rating"`
	TotalRatings int64   `json:"total_ratings"`
}

type RatingRepository interface {
	Upsert(ctx context.Context, rating *model.EditorRating) error
	Find(ctx context.Context, editorID, raterID string) (*model.EditorRating, error)
	TopEditors(ctx context.Context, limit int) ([]EditorScore, error)

	WithTx(tx *gorm.DB) RatingRepository
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) WithTx(tx *gorm.DB) RatingRepository {
	return &ratingRepository{db: tx}
}

// 插入或覆盖：利用(editor_id, rater_id)联合唯一索引，mysql翻译成ON DUPLICATE KEY UPDATE，sqlite翻译成ON CONFLICT DO UPDATE
func (r *ratingRepository) Upsert(ctx context.Context, rating *model.EditorRating) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "editor_id"}, {Name: "rater_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(rating)
	if result.Error != nil {
		logger.Log.WithError(result.Error).Error("评分写入失败")
		return result.Error
	}
	return nil
}

// 没有评分时返回nil, nil
func (r *ratingRepository) Find(ctx context.Context, editorID, raterID string) (*model.EditorRating, error) {
	var rating model.EditorRating
	err := r.db.WithContext(ctx).
		Where("editor_id = ? AND rater_id = ?", editorID, raterID).
		Take(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// 平均分降序，平均分相同时评分人数多的在前
func (r *ratingRepository) TopEditors(ctx context.Context, limit int) ([]EditorScore, error) {
	var rows []EditorScore
	err := r.db.WithContext(ctx).Model(&model.EditorRating{}).
		Select("editor_id, AVG(rating) AS avg_rating, COUNT(rating) AS total_ratings").
		Group("editor_id").
		Order("avg_rating desc").Order("total_ratings desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
