package repository

import (
	"VideoForge/internal/model"
	"context"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, commentID uint64) (*model.Comment, error)
	// 分页获取视频下的评论
	ListByVideoID(ctx context.Context, videoID uint64, offset, limit int) ([]model.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// 利用commentID找comment，并顺便将User给Preload进去
func (r *commentRepository) FindByID(ctx context.Context, commentID uint64) (*model.Comment, error) {
	var result model.Comment
	err := r.db.WithContext(ctx).Preload("User").First(&result, commentID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *commentRepository) ListByVideoID(ctx context.Context, videoID uint64, offset, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("User"). // 预加载评论的作者信息
		Where("video_id = ?", videoID).
		Order("created_at desc").Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	return comments, err
}
