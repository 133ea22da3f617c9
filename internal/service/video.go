package service

import (
	"VideoForge/internal/assets"
	"VideoForge/internal/data"
	"VideoForge/internal/downloader"
	"VideoForge/internal/model"
	"VideoForge/internal/notify"
	"VideoForge/internal/publisher"
	"VideoForge/internal/repository"
	"VideoForge/pkg/logger"
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

const (
	defaultPerPage = 10
	maxPerPage     = 50
)

// SubmitInput 投稿表单，机器人的modal和网页接口都转换成它
type SubmitInput struct {
	Title         string `field:"title" validate:"required,max=100"`
	Description   string `field:"description" validate:"required"`
	StorageLink   string `field:"storage_link" validate:"required,http_url,max=200"`
	SubmitterID   string `field:"submitter_id" validate:"required,max=100"`
	SubmitterName string `field:"submitter_name"`
}

// Attachment 被监听频道里的一个附件
type Attachment struct {
	ChannelID string
	PosterID  string
	FileName  string
	URL       string
}

// Channels 两个被监听频道，为空的频道不会匹配任何消息
type Channels struct {
	Editor    string
	Thumbnail string
}

func (c Channels) KindOf(channelID string) (model.AssetKind, bool) {
	switch {
	case channelID == "":
		return "", false
	case channelID == c.Editor:
		return model.AssetEdited, true
	case channelID == c.Thumbnail:
		return model.AssetThumbnail, true
	}
	return "", false
}

// Dispatcher 由downloader.Pool实现
type Dispatcher interface {
	Submit(task downloader.Task) error
}

type Publisher interface {
	Publish(ctx context.Context, up publisher.Upload) (string, error)
}

type VideoService interface {
	Submit(ctx context.Context, in SubmitInput) (*model.VideoRequest, error)
	// HandleAttachment 把附件匹配到对应前置状态下最早的一条记录；没有可匹配的记录返回nil, nil
	HandleAttachment(ctx context.Context, att Attachment) (*model.VideoRequest, error)
	HandleDownloadResult(res downloader.Result)
	Watches(channelID string) bool

	Get(ctx context.Context, videoID uint64) (*model.VideoRequest, error)
	List(ctx context.Context, page, perPage int) ([]model.VideoRequest, int64, error)
	Delete(ctx context.Context, videoID uint64) error
	Publish(ctx context.Context, videoID uint64) (*model.VideoRequest, string, error)
}

type videoService struct {
	videoRepo repository.VideoRepository
	uow       data.UnitOfWork
	cache     repository.ReportCache
	notifier  notify.Notifier
	channels  Channels

	dispatcher Dispatcher
	store      assets.Store
	publisher  Publisher

	// 所有“选最早一条并推进”的操作串行执行，同一条记录不会被两个附件同时认领
	claimMu   sync.Mutex
	publishMu sync.Mutex
}

type VideoOption func(*videoService)

func WithDispatcher(d Dispatcher) VideoOption {
	return func(s *videoService) { s.dispatcher = d }
}

func WithAssetStore(store assets.Store) VideoOption {
	return func(s *videoService) { s.store = store }
}

func WithPublisher(p Publisher) VideoOption {
	return func(s *videoService) { s.publisher = p }
}

func NewVideoService(videoRepo repository.VideoRepository, uow data.UnitOfWork, cache repository.ReportCache,
	notifier notify.Notifier, channels Channels, opts ...VideoOption) VideoService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if cache == nil {
		cache = repository.NewReportCache(nil)
	}
	s := &videoService{
		videoRepo: videoRepo,
		uow:       uow,
		cache:     cache,
		notifier:  notifier,
		channels:  channels,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// 投稿：1、清洗并校验表单 2、以submitted状态入库 3、通知剪辑频道（失败只记日志）
func (s *videoService) Submit(ctx context.Context, in SubmitInput) (*model.VideoRequest, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.StorageLink = strings.TrimSpace(in.StorageLink)
	in.SubmitterID = strings.TrimSpace(in.SubmitterID)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	video := &model.VideoRequest{
		Title:       in.Title,
		Description: in.Description,
		StorageLink: in.StorageLink,
		Maker:       in.SubmitterID,
		Status:      model.StatusSubmitted,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, repository.KeyLeaderboard, repository.KeyMonthly, repository.KeyStatus)

	logCtx := logger.Log.WithField("video_id", video.ID).WithField("maker", video.Maker)
	logCtx.Info("新投稿已入库")

	ev := notify.VideoSubmittedEvent{
		VideoID:       video.ID,
		Title:         video.Title,
		Description:   video.Description,
		StorageLink:   video.StorageLink,
		SubmitterID:   in.SubmitterID,
		SubmitterName: in.SubmitterName,
	}
	if err := s.notifier.VideoSubmitted(ctx, ev); err != nil {
		logCtx.WithError(err).Warn("投稿通知发送失败")
	}
	return video, nil
}

func (s *videoService) Watches(channelID string) bool {
	_, ok := s.channels.KindOf(channelID)
	return ok
}

// 附件驱动的状态推进：
// 1、由频道确定推进方向，非监听频道直接忽略
// 2、加锁，在事务里选出前置状态下最早的一条（FOR UPDATE），条件更新成目标状态并写入贡献者和素材引用
// 3、释放锁后把下载任务交给协程池，下载结果由HandleDownloadResult回流
func (s *videoService) HandleAttachment(ctx context.Context, att Attachment) (*model.VideoRequest, error) {
	kind, ok := s.channels.KindOf(att.ChannelID)
	if !ok {
		return nil, nil
	}
	if s.dispatcher == nil {
		return nil, ErrNoDispatcher
	}
	tr, err := model.TransitionFor(kind)
	if err != nil {
		return nil, err
	}
	logCtx := logger.Log.WithField("channel_id", att.ChannelID).
		WithField("poster_id", att.PosterID).
		WithField("kind", kind)

	claimed, err := s.claim(ctx, kind, tr, att)
	if err != nil {
		logCtx.WithError(err).Error("附件认领失败")
		return nil, err
	}
	if claimed == nil {
		logCtx.WithField("from_status", tr.From).Info("没有可匹配的记录，忽略附件")
		return nil, nil
	}
	invalidate(ctx, s.cache, repository.KeyStatus)
	logCtx = logCtx.WithField("video_id", claimed.ID)
	logCtx.WithField("status", claimed.Status).Info("附件已认领")

	task := downloader.Task{
		VideoID: claimed.ID,
		Kind:    kind,
		URL:     att.URL,
		Ref:     assetRef(claimed, kind),
	}
	if err := s.dispatcher.Submit(task); err != nil {
		logCtx.WithError(err).Error("下载任务提交失败")
		s.markFailed(ctx, claimed.ID, tr)
		claimed.Status = tr.Failed
		return claimed, err
	}
	return claimed, nil
}

// 在锁和事务里选出前置状态下最早的一条，条件更新为目标状态
func (s *videoService) claim(ctx context.Context, kind model.AssetKind, tr model.Transition, att Attachment) (*model.VideoRequest, error) {
	s.claimMu.Lock()
	defer s.claimMu.Unlock()

	var claimed *model.VideoRequest
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		video, err := repos.VideoRepo.FindOldestByStatusForUpdate(ctx, tr.From)
		if err != nil || video == nil {
			return err
		}
		ref := assets.NewRef(video.ID, string(kind), att.FileName)
		updated, err := repos.VideoRepo.AssignContributor(ctx, video.ID, tr, att.PosterID, ref)
		if err != nil || !updated {
			return err
		}
		poster := att.PosterID
		switch kind {
		case model.AssetEdited:
			video.Editor = &poster
			video.EditedAssetRef = &ref
		case model.AssetThumbnail:
			video.ThumbnailMaker = &poster
			video.ThumbnailAssetRef = &ref
		}
		video.Status = tr.To
		claimed = video
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func assetRef(v *model.VideoRequest, kind model.AssetKind) string {
	var ref *string
	if kind == model.AssetEdited {
		ref = v.EditedAssetRef
	} else {
		ref = v.ThumbnailAssetRef
	}
	if ref == nil {
		return ""
	}
	return *ref
}

// HandleDownloadResult 下载成功只记日志；失败时把记录从目标状态回落到对应的failed状态
func (s *videoService) HandleDownloadResult(res downloader.Result) {
	logCtx := logger.Log.WithField("task_id", res.Task.ID.String()).
		WithField("video_id", res.Task.VideoID).
		WithField("kind", res.Task.Kind).
		WithField("elapsed_ms", res.Duration.Milliseconds())
	if res.Err == nil {
		logCtx.WithField("bytes", res.Bytes).Info("素材下载完成")
		return
	}
	logCtx.WithError(res.Err).Error("素材下载失败")

	tr, err := model.TransitionFor(res.Task.Kind)
	if err != nil {
		logCtx.WithError(err).Error("未知的素材类型")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.markFailed(ctx, res.Task.VideoID, tr)
}

// 条件更新：记录已经被推进到后面的状态就不再回落
func (s *videoService) markFailed(ctx context.Context, videoID uint64, tr model.Transition) {
	logCtx := logger.Log.WithField("video_id", videoID).WithField("status", tr.Failed)
	updated, err := s.videoRepo.UpdateStatus(ctx, videoID, tr.To, tr.Failed)
	if err != nil {
		logCtx.WithError(err).Error("标记下载失败状态出错")
		return
	}
	if !updated {
		logCtx.Warn("记录状态已变化，未标记失败")
		return
	}
	invalidate(ctx, s.cache, repository.KeyStatus)
	logCtx.Warn("记录已标记为下载失败")
}

func (s *videoService) Get(ctx context.Context, videoID uint64) (*model.VideoRequest, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVideoNotFound
	}
	return video, err
}

// NormalizePage page从1开始，perPage超出范围时使用默认值
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	return page, perPage
}

func (s *videoService) List(ctx context.Context, page, perPage int) ([]model.VideoRequest, int64, error) {
	page, perPage = NormalizePage(page, perPage)
	return s.videoRepo.List(ctx, (page-1)*perPage, perPage)
}

// Delete 管理员删除，统计报表随之失效
func (s *videoService) Delete(ctx context.Context, videoID uint64) error {
	err := s.videoRepo.Delete(ctx, videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrVideoNotFound
	}
	if err != nil {
		return err
	}
	invalidate(ctx, s.cache, repository.KeyLeaderboard, repository.KeyMonthly, repository.KeyStatus)
	logger.Log.WithField("video_id", videoID).Info("视频记录已删除")
	return nil
}

// 发布：1、检查记录处于thumbnail_added且两份素材都在 2、从素材存储读出成片和封面上传
// 3、条件更新为published
func (s *videoService) Publish(ctx context.Context, videoID uint64) (*model.VideoRequest, string, error) {
	if s.publisher == nil || s.store == nil {
		return nil, "", ErrPublishDisabled
	}
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	video, err := s.Get(ctx, videoID)
	if err != nil {
		return nil, "", err
	}
	if !video.Publishable() {
		return video, "", ErrNotPublishable
	}

	edited, err := s.store.Open(ctx, *video.EditedAssetRef)
	if err != nil {
		return video, "", err
	}
	defer edited.Close()
	thumb, err := s.store.Open(ctx, *video.ThumbnailAssetRef)
	if err != nil {
		return video, "", err
	}
	defer thumb.Close()

	youtubeID, err := s.publisher.Publish(ctx, publisher.Upload{
		Title:       video.Title,
		Description: video.Description,
		Credits: publisher.Credits{
			Maker:          video.Maker,
			Editor:         deref(video.Editor),
			ThumbnailMaker: deref(video.ThumbnailMaker),
		},
		Video:     edited,
		Thumbnail: thumb,
	})
	if err != nil {
		return video, "", err
	}

	logCtx := logger.Log.WithField("video_id", video.ID).WithField("youtube_id", youtubeID)
	updated, err := s.videoRepo.UpdateStatus(ctx, video.ID, model.StatusThumbnailAdded, model.StatusPublished)
	if err != nil {
		logCtx.WithError(err).Error("视频已上传，但状态更新失败")
		return video, youtubeID, err
	}
	if !updated {
		logCtx.Warn("视频已上传，但记录状态已变化")
		return video, youtubeID, ErrNotPublishable
	}
	video.Status = model.StatusPublished
	invalidate(ctx, s.cache, repository.KeyStatus)
	logCtx.Info("视频已发布")
	return video, youtubeID, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// 缓存失效失败不影响主流程，等TTL过期即可
func invalidate(ctx context.Context, cache repository.ReportCache, keys ...string) {
	if err := cache.Invalidate(ctx, keys...); err != nil {
		logger.Log.WithError(err).WithField("keys", keys).Warn("报表缓存失效失败")
	}
}
