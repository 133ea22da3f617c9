package handler

import (
	"VideoForge/internal/service"
	"VideoForge/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RatingHandler interface {
	RateEditor(c *gin.Context)
	GetMyRating(c *gin.Context)
}

type ratingHandler struct {
	RatingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) RatingHandler {
	return &ratingHandler{RatingService: ratingService}
}

// 范围检查交给service层，这里只要求字段存在
type RateRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

// 给剪辑师打分：评分人是当前登录用户，同一个人重复打分会覆盖
func (h *ratingHandler) RateEditor(c *gin.Context) {
	editorID := c.Param("editor_id")
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("评分参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	_, username, exists := currentUser(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	logCtx := logger.Log.WithField("editor_id", editorID).WithField("rater_id", username)
	if err := h.RatingService.Rate(c.Request.Context(), editorID, username, *req.Rating); err != nil {
		sendServiceError(c, logCtx, err, "评分失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "评分成功",
		"data": gin.H{
			"editor_id": editorID,
			"rating":    *req.Rating,
		},
	})
}

func (h *ratingHandler) GetMyRating(c *gin.Context) {
	editorID := c.Param("editor_id")
	_, username, exists := currentUser(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	logCtx := logger.Log.WithField("editor_id", editorID).WithField("rater_id", username)
	rating, ok, err := h.RatingService.Get(c.Request.Context(), editorID, username)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取评分失败")
		return
	}
	if !ok {
		sendErrorResponse(c, http.StatusNotFound, "还没有评分")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"editor_id": editorID, "rating": rating}})
}
