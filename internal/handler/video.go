package handler

import (
	"VideoForge/internal/dto"
	"VideoForge/internal/service"
	"VideoForge/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type VideoHandler interface {
	CreateVideo(c *gin.Context)
	ListVideos(c *gin.Context)
	GetVideoByID(c *gin.Context)

	DeleteVideo(c *gin.Context)
	PublishVideo(c *gin.Context)
}

type videoHandler struct {
	VideoService service.VideoService
}

func NewVideoHandler(videoService service.VideoService) VideoHandler {
	return &videoHandler{VideoService: videoService}
}

// 具体的长度和链接格式由service层的validator校验
type CreateVideoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	StorageLink string `json:"storage_link" binding:"required"`
}

// 投稿：1、解析Body并从context中取出当前用户 2、service层入库并通知剪辑频道 3、将返回的视频结构通过dto传回
func (h *videoHandler) CreateVideo(c *gin.Context) {
	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("投稿参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	userID, username, exists := currentUser(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	// 蛇形命名法（日志聚合平台ELK、前端JavaScript）
	logCtx := logger.Log.WithField("user_id", userID)
	logCtx.Info("开始处理投稿请求")

	video, err := h.VideoService.Submit(c.Request.Context(), service.SubmitInput{
		Title:         req.Title,
		Description:   req.Description,
		StorageLink:   req.StorageLink,
		SubmitterID:   username,
		SubmitterName: username,
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "投稿失败")
		return
	}
	logCtx.WithField("video_id", video.ID).Info("投稿成功")

	c.JSON(http.StatusCreated, gin.H{ // 使用201 Created状态码，更符合RESTful规范
		"message": "投稿成功",
		"data":    dto.ToVideoResponse(video),
	})
}

// 视频列表：按时间倒序分页
func (h *videoHandler) ListVideos(c *gin.Context) {
	page, perPage := service.NormalizePage(queryInt(c, "page", 1), queryInt(c, "per_page", 10))
	logCtx := logger.Log.WithField("ip", c.ClientIP())

	videos, total, err := h.VideoService.List(c.Request.Context(), page, perPage)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取视频列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取视频列表",
		"data":    dto.ToVideoPage(videos, total, page, perPage),
	})
}

func (h *videoHandler) GetVideoByID(c *gin.Context) {
	videoID, ok := paramID(c, "video_id")
	if !ok {
		sendErrorResponse(c, http.StatusBadRequest, "无效的视频ID")
		return
	}
	logCtx := logger.Log.WithField("video_id", videoID)
	video, err := h.VideoService.Get(c.Request.Context(), videoID)
	if err != nil {
		sendServiceError(c, logCtx, err, "查找视频失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToVideoResponse(video)})
}

// 管理员删除视频记录
func (h *videoHandler) DeleteVideo(c *gin.Context) {
	videoID, ok := paramID(c, "video_id")
	if !ok {
		sendErrorResponse(c, http.StatusBadRequest, "无效的视频ID")
		return
	}
	userID, _, _ := currentUser(c)
	logCtx := logger.Log.WithField("video_id", videoID).WithField("user_id", userID)
	if err := h.VideoService.Delete(c.Request.Context(), videoID); err != nil {
		sendServiceError(c, logCtx, err, "删除视频失败")
		return
	}
	logCtx.Info("管理员删除了视频")
	c.JSON(http.StatusOK, gin.H{"message": "视频已删除"})
}

// 管理员发布：上传到YouTube并把状态推进到published
func (h *videoHandler) PublishVideo(c *gin.Context) {
	videoID, ok := paramID(c, "video_id")
	if !ok {
		sendErrorResponse(c, http.StatusBadRequest, "无效的视频ID")
		return
	}
	logCtx := logger.Log.WithField("video_id", videoID)
	video, youtubeID, err := h.VideoService.Publish(c.Request.Context(), videoID)
	if err != nil {
		sendServiceError(c, logCtx, err, "发布视频失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "发布成功",
		"data": gin.H{
			"video":       dto.ToVideoResponse(video),
			"youtube_id":  youtubeID,
			"youtube_url": "https://youtu.be/" + youtubeID,
		},
	})
}
