package service

import (
	"VideoForge/internal/model"
	"VideoForge/internal/repository"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

const defaultCommentPageSize = 20

type CommentService interface {
	// 创建视频下的评论
	Create(ctx context.Context, userID, videoID uint64, content string) (*model.Comment, error)
	// 分页获取一个视频的评论，新的在前
	List(ctx context.Context, videoID uint64, page, pageSize int) ([]model.Comment, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
	}
}

type commentInput struct {
	Content string `field:"content" validate:"required,max=1000"`
}

// 创建评论：1、校验内容 2、检查视频存在 3、创建后再查一次，把User给Preload出来
func (s *commentService) Create(ctx context.Context, userID, videoID uint64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateStruct(commentInput{Content: content}); err != nil {
		return nil, err
	}
	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	newComment := &model.Comment{
		UserID:  userID,
		VideoID: videoID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, newComment); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByID(ctx, newComment.ID)
}

// pageSize：每页大小。page:当前页码。offset: “跳过” 多少条记录，再开始取数据。
func (s *commentService) List(ctx context.Context, videoID uint64, page, pageSize int) ([]model.Comment, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > maxPerPage {
		pageSize = defaultCommentPageSize
	}
	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return s.commentRepo.ListByVideoID(ctx, videoID, (page-1)*pageSize, pageSize)
}
