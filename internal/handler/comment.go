package handler

import (
	"VideoForge/internal/dto"
	"VideoForge/internal/service"
	"VideoForge/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	CreateCommentForVideo(c *gin.Context)
	GetComments(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{CommentService: commentService}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// 视频评论：1、解析URL中的videoID参数 2、解析Body 3、获取context中的userID（jwt） 4、创建评论并返回
func (h *commentHandler) CreateCommentForVideo(c *gin.Context) {
	videoID, ok := paramID(c, "video_id")
	if !ok {
		sendErrorResponse(c, http.StatusBadRequest, "无效的视频ID")
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("评论参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	userID, _, exists := currentUser(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	// 正式进入业务前，将logger格式整理好
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)
	comment, err := h.CommentService.Create(c.Request.Context(), userID, videoID, req.Content)
	if err != nil {
		sendServiceError(c, logCtx, err, "评论失败")
		return
	}
	logCtx.WithField("comment_id", comment.ID).Info("评论创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "评论成功",
		"data":    dto.ToCommentResponse(comment),
	})
}

// 获取一个视频的评论：从查询参数获取分页信息，并提供默认值
func (h *commentHandler) GetComments(c *gin.Context) {
	videoID, ok := paramID(c, "video_id")
	if !ok {
		sendErrorResponse(c, http.StatusBadRequest, "无效的视频ID")
		return
	}
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	logCtx := logger.Log.WithField("video_id", videoID)
	comments, err := h.CommentService.List(c.Request.Context(), videoID, page, pageSize)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取评论列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取评论列表成功",
		"data":    dto.ToCommentResponses(comments),
	})
}
