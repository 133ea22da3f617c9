package repository

import (
	"VideoForge/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MakerCount 投稿排行榜的一行
type MakerCount struct {
	Maker      string `json:"maker"`
	VideoCount int64  `json:"video_count"`
	FirstID    uint64 `json:"-"`
}

// StatusCount 状态分布的一行
type StatusCount struct {
	Status model.Status `json:"status"`
	Total  int64        `json:"total"`
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.VideoRequest) error
	FindByID(ctx context.Context, videoID uint64) (*model.VideoRequest, error)
	List(ctx context.Context, offset, limit int) ([]model.VideoRequest, int64, error)
	FindRecentByMaker(ctx context.Context, maker string, limit int) ([]model.VideoRequest, error)
	Delete(ctx context.Context, videoID uint64) error

	// 带锁的查找：某状态下最早创建的一条，没有则返回nil, nil
	FindOldestByStatusForUpdate(ctx context.Context, status model.Status) (*model.VideoRequest, error)
	// 条件更新：只有当前状态仍是tr.From时才写入，返回是否真正更新了
	AssignContributor(ctx context.Context, videoID uint64, tr model.Transition, actor, assetRef string) (bool, error)
	UpdateStatus(ctx context.Context, videoID uint64, from, to model.Status) (bool, error)

	CountByMaker(ctx context.Context, limit int) ([]MakerCount, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CreatedTimes(ctx context.Context) ([]time.Time, error)

	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

// WithTx 返回一个新的、使用事务的 videoRepository 实例
func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{db: tx}
}

func (r *videoRepository) Create(ctx context.Context, video *model.VideoRequest) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// 没找到时把gorm.ErrRecordNotFound原样返回，交给service层翻译
func (r *videoRepository) FindByID(ctx context.Context, videoID uint64) (*model.VideoRequest, error) {
	var video model.VideoRequest
	if err := r.db.WithContext(ctx).First(&video, videoID).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// 按时间倒序分页，顺带返回总数给分页器
func (r *videoRepository) List(ctx context.Context, offset, limit int) ([]model.VideoRequest, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.VideoRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var videos []model.VideoRequest
	err := r.db.WithContext(ctx).
		Order("created_at desc").Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&videos).Error
	return videos, total, err
}

func (r *videoRepository) FindRecentByMaker(ctx context.Context, maker string, limit int) ([]model.VideoRequest, error) {
	var videos []model.VideoRequest
	err := r.db.WithContext(ctx).
		Where("maker = ?", maker).
		Order("created_at desc").Order("id desc").
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

// 软删除，之后所有查询和统计都看不到这条记录
func (r *videoRepository) Delete(ctx context.Context, videoID uint64) error {
	res := r.db.WithContext(ctx).Delete(&model.VideoRequest{}, videoID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SELECT * FROM video_requests WHERE status = ? ORDER BY created_at, id LIMIT 1 FOR UPDATE;
// FOR UPDATE锁的生命周期和事务绑定；sqlite不支持行锁，gorm的sqlite方言会直接忽略这个子句
func (r *videoRepository) FindOldestByStatusForUpdate(ctx context.Context, status model.Status) (*model.VideoRequest, error) {
	var video model.VideoRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("status = ?", status).
		Order("created_at asc").Order("id asc").
		Take(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // 源头行为：匹配不到就什么都不做
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// UPDATE video_requests SET editor=?, edited_asset_ref=?, status=? WHERE id=? AND status=?
// 人和素材在同一条UPDATE里写入，保证成对出现
func (r *videoRepository) AssignContributor(ctx context.Context, videoID uint64, tr model.Transition, actor, assetRef string) (bool, error) {
	updates := map[string]interface{}{"status": tr.To}
	switch tr.Kind {
	case model.AssetEdited:
		updates["editor"] = actor
		updates["edited_asset_ref"] = assetRef
	case model.AssetThumbnail:
		updates["thumbnail_maker"] = actor
		updates["thumbnail_asset_ref"] = assetRef
	}
	res := r.db.WithContext(ctx).Model(&model.VideoRequest{}).
		Where("id = ? AND status = ?", videoID, tr.From).
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}

func (r *videoRepository) UpdateStatus(ctx context.Context, videoID uint64, from, to model.Status) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.VideoRequest{}).
		Where("id = ? AND status = ?", videoID, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

// 按投稿人计数，数量相同的按第一次出现（最小id）排序
func (r *videoRepository) CountByMaker(ctx context.Context, limit int) ([]MakerCount, error) {
	var rows []MakerCount
	err := r.db.WithContext(ctx).Model(&model.VideoRequest{}).
		Select("maker, COUNT(id) AS video_count, MIN(id) AS first_id").
		Group("maker").
		Order("video_count desc").Order("first_id asc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *videoRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&model.VideoRequest{}).
		Select("status, COUNT(id) AS total").
		Group("status").
		Order("status asc").
		Scan(&rows).Error
	return rows, err
}

// 月份分桶放在Go里做，mysql和sqlite的日期函数不一样
func (r *videoRepository) CreatedTimes(ctx context.Context) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).Model(&model.VideoRequest{}).
		Order("created_at asc").
		Pluck("created_at", &times).Error
	return times, err
}
